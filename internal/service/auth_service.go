// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"time"
	"vault-archive-go/internal/repository"
	"vault-archive-go/pkg/hash"
	"vault-archive-go/pkg/log"
)

// SessionCookieName 是承载会话 ID 的 cookie 名称。
const SessionCookieName = "vault_session"

// ErrInvalidPassword 表示口令与共享密钥不匹配。
var ErrInvalidPassword = errors.New("invalid password")

// AuthService 接口定义了单口令会话认证的业务操作。
// 认证是二元的：一个会话要么通过了口令验证，要么没有。
type AuthService interface {
	// Login 校验口令，成功时创建会话并返回会话 ID。
	Login(ctx context.Context, password string) (string, error)
	// Check 报告会话的认证状态，未知会话一律视为未认证。
	Check(ctx context.Context, sessionID string) bool
	// Logout 使会话失效。从未登录过的会话同样返回成功。
	Logout(ctx context.Context, sessionID string) error
}

// authService 是 AuthService 接口的实现。
type authService struct {
	sessionRepo  repository.SessionRepository
	passwordHash string
	sessionTTL   time.Duration
}

// NewAuthService 创建一个新的 AuthService 实例。
// 共享口令在这里做一次 bcrypt 哈希，登录时只比较哈希值，
// 对外契约不变：仍然只接受配置中的那一个固定口令。
func NewAuthService(sessionRepo repository.SessionRepository, adminPassword string, sessionTTL time.Duration) AuthService {
	passwordHash, err := hash.HashPassword(adminPassword)
	if err != nil {
		panic(err)
	}
	return &authService{
		sessionRepo:  sessionRepo,
		passwordHash: passwordHash,
		sessionTTL:   sessionTTL,
	}
}

// Login 处理口令登录的业务逻辑。
// 口令错误时不产生任何副作用，也不创建会话。
func (s *authService) Login(ctx context.Context, password string) (string, error) {
	if !hash.CheckPasswordHash(password, s.passwordHash) {
		return "", ErrInvalidPassword
	}

	sessionID, err := s.sessionRepo.Create(ctx, s.sessionTTL)
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

// Check 报告会话认证状态。查询失败按未认证处理，不让读路径报错。
func (s *authService) Check(ctx context.Context, sessionID string) bool {
	ok, err := s.sessionRepo.Exists(ctx, sessionID)
	if err != nil {
		log.Errorf("[AuthService] 查询会话状态失败: %v", err)
		return false
	}
	return ok
}

// Logout 删除会话。
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}
