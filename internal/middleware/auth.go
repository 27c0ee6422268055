// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"
	"vault-archive-go/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionAuth 创建一个 Gin 中间件，用于会话认证。
// 它从会话 cookie 中取出会话 ID 并确认其已通过口令验证，
// 未认证的请求在产生任何副作用之前就被拒绝。
func SessionAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(service.SessionCookieName)
		if err != nil || !authService.Check(c.Request.Context(), sessionID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	}
}
