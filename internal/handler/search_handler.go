package handler

import (
	"net/http"
	"strconv"
	"vault-archive-go/internal/model"
	"vault-archive-go/internal/service"
	"vault-archive-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// SearchHandler 结构体定义了档案检索相关的处理器。
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler 创建一个新的 SearchHandler 实例。
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search 是处理档案全文检索请求的 Gin 处理函数。
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, validationError("q is required", "q"))
		return
	}

	topKStr := c.DefaultQuery("topK", "10")
	topK, err := strconv.Atoi(topKStr)
	if err != nil || topK <= 0 {
		topK = 10
	}

	files, err := h.searchService.Search(c.Request.Context(), query, topK)
	if err != nil {
		log.Errorf("[SearchHandler] 检索服务返回错误, query: '%s', error: %v", query, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if files == nil {
		files = []model.File{}
	}
	c.JSON(http.StatusOK, files)
}
