package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
	"vault-archive-go/internal/config"
	"vault-archive-go/internal/middleware"
	"vault-archive-go/internal/model"
	"vault-archive-go/internal/service"
	"vault-archive-go/pkg/log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	log.Init("error", "console", "")
	gin.SetMode(gin.TestMode)
	config.Conf.Auth.SessionTTLHours = 1
	os.Exit(m.Run())
}

// memFileRepository 是 FileRepository 的内存实现，供处理器测试使用。
type memFileRepository struct {
	mu     sync.Mutex
	files  []model.File
	nextID uint
}

func newMemFileRepository() *memFileRepository {
	return &memFileRepository{nextID: 1}
}

func (r *memFileRepository) FindAll() ([]model.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.File, len(r.files))
	copy(out, r.files)
	return out, nil
}

func (r *memFileRepository) FindByID(id uint) (*model.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.files {
		if r.files[i].ID == id {
			f := r.files[i]
			return &f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memFileRepository) FindByIDs(ids []uint) ([]model.File, error) {
	var out []model.File
	for _, id := range ids {
		if f, err := r.FindByID(id); err == nil {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *memFileRepository) Create(file *model.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.FileNumber == file.FileNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	file.ID = r.nextID
	file.CreatedAt = time.Now()
	r.nextID++
	r.files = append(r.files, *file)
	return nil
}

func (r *memFileRepository) Update(id uint, updates map[string]interface{}) (*model.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.files {
		if r.files[i].ID != id {
			continue
		}
		f := &r.files[i]
		for col, val := range updates {
			switch col {
			case "file_number":
				f.FileNumber = val.(string)
			case "title":
				f.Title = val.(string)
			case "content":
				f.Content = val.(string)
			case "file_type":
				f.FileType = val.(string)
			case "is_locked":
				f.IsLocked = val.(bool)
			case "severity":
				f.Severity = val.(string)
			}
		}
		out := *f
		return &out, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memFileRepository) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.files)), nil
}

// memSessionRepository 是 SessionRepository 的内存实现。
type memSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]struct{}
	counter  int
}

func newMemSessionRepository() *memSessionRepository {
	return &memSessionRepository{sessions: make(map[string]struct{})}
}

func (r *memSessionRepository) Create(ctx context.Context, ttl time.Duration) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counter++
	id := strings.Repeat("a", r.counter) // 确定性的会话 ID
	r.sessions[id] = struct{}{}
	return id, nil
}

func (r *memSessionRepository) Exists(ctx context.Context, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[sessionID]
	return ok, nil
}

func (r *memSessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

// newTestRouter 按与 main 相同的方式组装路由。
func newTestRouter() (*gin.Engine, *memFileRepository) {
	fileRepo := newMemFileRepository()
	sessionRepo := newMemSessionRepository()

	fileService := service.NewFileService(fileRepo, nil, nil)
	authService := service.NewAuthService(sessionRepo, "D34TH", time.Hour)

	r := gin.New()
	api := r.Group("/api")

	auth := api.Group("/auth")
	authHandler := NewAuthHandler(authService)
	auth.POST("/login", authHandler.Login)
	auth.GET("/check", authHandler.Check)
	auth.POST("/logout", authHandler.Logout)

	files := api.Group("/files")
	fileHandler := NewFileHandler(fileService)
	files.GET("", fileHandler.List)
	files.GET("/:id", fileHandler.Get)
	authed := files.Group("")
	authed.Use(middleware.SessionAuth(authService))
	authed.POST("", fileHandler.Create)
	authed.PATCH("/:id", fileHandler.Update)

	return r, fileRepo
}

// doRequest 执行一次测试请求，cookie 可以为空。
func doRequest(r *gin.Engine, method, path, body, cookie string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// loginCookie 执行登录并返回会话 cookie。
func loginCookie(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/auth/login", `{"password":"D34TH"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("登录失败, status = %d, body = %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == service.SessionCookieName {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatal("登录响应未下发会话 cookie")
	return ""
}
