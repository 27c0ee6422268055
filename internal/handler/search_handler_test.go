package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"vault-archive-go/internal/model"

	"github.com/gin-gonic/gin"
)

// fakeSearchService 返回预置的检索结果。
type fakeSearchService struct {
	results []model.File
	lastQ   string
}

func (s *fakeSearchService) Search(ctx context.Context, query string, topK int) ([]model.File, error) {
	s.lastQ = query
	return s.results, nil
}

func (s *fakeSearchService) Index(ctx context.Context, file *model.File) error {
	return nil
}

// TestSearch_MissingQuery 验证缺少 q 参数返回 400 并指明字段。
func TestSearch_MissingQuery(t *testing.T) {
	r := gin.New()
	r.GET("/api/files/search", NewSearchHandler(&fakeSearchService{}).Search)

	w := doRequest(r, http.MethodGet, "/api/files/search", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, 期望 400", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["field"] != "q" {
		t.Errorf("field = %q, 期望 %q", body["field"], "q")
	}
}

// TestSearch_Results 验证检索结果按原样返回。
func TestSearch_Results(t *testing.T) {
	svc := &fakeSearchService{results: []model.File{
		{ID: 2, FileNumber: "File-002", Title: "Subject 89"},
	}}
	r := gin.New()
	r.GET("/api/files/search", NewSearchHandler(svc).Search)

	w := doRequest(r, http.MethodGet, "/api/files/search?q=signal", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, 期望 200", w.Code)
	}
	if svc.lastQ != "signal" {
		t.Errorf("query = %q, 期望 %q", svc.lastQ, "signal")
	}
	var files []model.File
	if err := json.Unmarshal(w.Body.Bytes(), &files); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if len(files) != 1 || files[0].ID != 2 {
		t.Errorf("结果 = %+v, 期望单条 id=2", files)
	}
}

// TestSearch_EmptyResults 验证无命中时返回空数组而不是 null。
func TestSearch_EmptyResults(t *testing.T) {
	r := gin.New()
	r.GET("/api/files/search", NewSearchHandler(&fakeSearchService{}).Search)

	w := doRequest(r, http.MethodGet, "/api/files/search?q=nothing", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, 期望 200", w.Code)
	}
	if w.Body.String() != "[]" {
		t.Errorf("body = %s, 期望 []", w.Body.String())
	}
}
