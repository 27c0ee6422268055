package handler

import (
	"errors"
	"net/http"
	"vault-archive-go/internal/config"
	"vault-archive-go/internal/service"
	"vault-archive-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AuthHandler 负责处理口令登录、状态查询和登出请求。
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest 定义了登录 API 的请求体结构。
type LoginRequest struct {
	Password *string `json:"password"`
}

// Login 处理口令登录请求。
// 口令正确时下发会话 cookie 并返回 {authenticated: true}。
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, bindFailure(err))
		return
	}
	if msg := requireNonEmpty(req.Password, "password"); msg != "" {
		c.JSON(http.StatusBadRequest, validationError(msg, "password"))
		return
	}

	sessionID, err := h.authService.Login(c.Request.Context(), *req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			log.Warnf("Login: authentication failed from %s", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid password"})
			return
		}
		log.Error("Login: failed to create session", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	maxAge := config.Conf.Auth.SessionTTLHours * 3600
	c.SetCookie(service.SessionCookieName, sessionID, maxAge, "/", "", config.Conf.Auth.CookieSecure, true)
	log.Info("管理会话登录成功")
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

// Check 报告当前会话的认证状态，永远返回 200。
func (h *AuthHandler) Check(c *gin.Context) {
	sessionID, _ := c.Cookie(service.SessionCookieName)
	authenticated := h.authService.Check(c.Request.Context(), sessionID)
	c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
}

// Logout 处理登出请求。未登录状态下登出同样返回成功。
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, _ := c.Cookie(service.SessionCookieName)
	if err := h.authService.Logout(c.Request.Context(), sessionID); err != nil {
		// 会话清理失败只记日志，对外契约是登出永远成功
		log.Error("Logout: failed to delete session", err)
	}
	c.SetCookie(service.SessionCookieName, "", -1, "/", "", config.Conf.Auth.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
