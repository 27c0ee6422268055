package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionRepository 接口定义了管理会话状态的持久化操作。
// 会话只承载一个布尔事实：该客户端已通过口令验证。
type SessionRepository interface {
	Create(ctx context.Context, ttl time.Duration) (string, error)
	Exists(ctx context.Context, sessionID string) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// sessionRepository 是 SessionRepository 接口的 Redis 实现。
type sessionRepository struct {
	redisClient *redis.Client
}

// NewSessionRepository 创建一个新的 SessionRepository 实例。
func NewSessionRepository(redisClient *redis.Client) SessionRepository {
	return &sessionRepository{redisClient: redisClient}
}

// getSessionKey generates the redis key for a session id.
func (r *sessionRepository) getSessionKey(sessionID string) string {
	return "session:" + sessionID
}

// Create 生成一个随机会话 ID 并写入 Redis，带过期时间。
func (r *sessionRepository) Create(ctx context.Context, ttl time.Duration) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	sessionID := hex.EncodeToString(buf)

	if err := r.redisClient.Set(ctx, r.getSessionKey(sessionID), "1", ttl).Err(); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Exists 检查会话是否仍然有效。
func (r *sessionRepository) Exists(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	n, err := r.redisClient.Exists(ctx, r.getSessionKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete 删除会话。会话不存在时同样视为成功。
func (r *sessionRepository) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return r.redisClient.Del(ctx, r.getSessionKey(sessionID)).Err()
}
