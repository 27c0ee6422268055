package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeSessionRepository 是 SessionRepository 的内存实现。
type fakeSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]struct{}
	counter  int
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: make(map[string]struct{})}
}

func (r *fakeSessionRepository) Create(ctx context.Context, ttl time.Duration) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	id := "session-" + strconv.Itoa(r.counter)
	r.sessions[id] = struct{}{}
	return id, nil
}

func (r *fakeSessionRepository) Exists(ctx context.Context, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[sessionID]
	return ok, nil
}

func (r *fakeSessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

func (r *fakeSessionRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// TestLogin_CorrectPassword 验证正确口令创建会话且 Check 变为 true。
func TestLogin_CorrectPassword(t *testing.T) {
	repo := newFakeSessionRepository()
	svc := NewAuthService(repo, "D34TH", time.Hour)
	ctx := context.Background()

	sessionID, err := svc.Login(ctx, "D34TH")
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	if sessionID == "" {
		t.Fatal("sessionID 为空")
	}
	if !svc.Check(ctx, sessionID) {
		t.Error("Check = false, 期望登录后为 true")
	}
}

// TestLogin_WrongPassword 验证错误口令不创建会话。
func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeSessionRepository()
	svc := NewAuthService(repo, "D34TH", time.Hour)
	ctx := context.Background()

	for _, password := range []string{"", "death", "D34TH ", "admin"} {
		_, err := svc.Login(ctx, password)
		if err != ErrInvalidPassword {
			t.Errorf("Login(%q) err = %v, 期望 ErrInvalidPassword", password, err)
		}
	}
	if repo.count() != 0 {
		t.Errorf("失败登录后会话数 = %d, 期望 0", repo.count())
	}
}

// TestCheck_UnknownSession 验证未知或空会话一律视为未认证。
func TestCheck_UnknownSession(t *testing.T) {
	svc := NewAuthService(newFakeSessionRepository(), "D34TH", time.Hour)
	ctx := context.Background()

	if svc.Check(ctx, "") {
		t.Error("Check(\"\") = true, 期望 false")
	}
	if svc.Check(ctx, "no-such-session") {
		t.Error("Check(未知会话) = true, 期望 false")
	}
}

// TestLogout 验证登出使会话失效，且从未登录的会话登出同样成功。
func TestLogout(t *testing.T) {
	repo := newFakeSessionRepository()
	svc := NewAuthService(repo, "D34TH", time.Hour)
	ctx := context.Background()

	// 从未登录的会话登出不报错
	if err := svc.Logout(ctx, "never-logged-in"); err != nil {
		t.Errorf("Logout(未知会话) err = %v, 期望 nil", err)
	}

	sessionID, err := svc.Login(ctx, "D34TH")
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	if err := svc.Logout(ctx, sessionID); err != nil {
		t.Fatalf("Logout 失败: %v", err)
	}
	if svc.Check(ctx, sessionID) {
		t.Error("登出后 Check = true, 期望 false")
	}
}
