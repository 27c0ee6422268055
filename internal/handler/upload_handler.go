package handler

import (
	"errors"
	"net/http"
	"vault-archive-go/internal/service"
	"vault-archive-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// UploadHandler 负责处理档案配图上传请求。
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler 创建一个新的 UploadHandler 实例。
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadImage 接收 multipart 表单中的 image 字段并存入对象存储。
// 返回的 url 可直接填入档案的 imageUrl 字段。
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, validationError("image is required", "image"))
		return
	}

	url, err := h.uploadService.UploadImage(c.Request.Context(), fileHeader)
	if err != nil {
		if errors.Is(err, service.ErrNotAnImage) {
			c.JSON(http.StatusBadRequest, validationError("image must be an image file", "image"))
			return
		}
		log.Error("UploadImage: failed to store image", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
