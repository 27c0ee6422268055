package handler

import (
	"errors"
	"net/http"
	"strconv"
	"vault-archive-go/internal/model"
	"vault-archive-go/internal/service"
	"vault-archive-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// FileHandler 负责处理所有与档案记录相关的 API 请求。
type FileHandler struct {
	fileService service.FileService
}

// NewFileHandler 创建一个新的 FileHandler 实例。
func NewFileHandler(fileService service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// CreateFileRequest 定义了创建档案 API 的请求体结构。
// 指针字段用于区分“未提供”与“显式置空”。
type CreateFileRequest struct {
	FileNumber    *string `json:"fileNumber"`
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	FileType      *string `json:"fileType"`
	ImageURL      *string `json:"imageUrl"`
	RecoveredLogs *string `json:"recoveredLogs"`
	Habitat       *string `json:"habitat"`
	Behavior      *string `json:"behavior"`
	Weaknesses    *string `json:"weaknesses"`
	IsLocked      *bool   `json:"isLocked"`
	Severity      *string `json:"severity"`
}

// UpdateFileRequest 定义了部分更新档案 API 的请求体结构。
// 所有字段可选，未出现的字段保持原值。
type UpdateFileRequest struct {
	FileNumber    *string `json:"fileNumber"`
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	FileType      *string `json:"fileType"`
	ImageURL      *string `json:"imageUrl"`
	RecoveredLogs *string `json:"recoveredLogs"`
	Habitat       *string `json:"habitat"`
	Behavior      *string `json:"behavior"`
	Weaknesses    *string `json:"weaknesses"`
	IsLocked      *bool   `json:"isLocked"`
	Severity      *string `json:"severity"`
}

// List 返回全部档案记录，按 id 升序，无需认证。
func (h *FileHandler) List(c *gin.Context) {
	files, err := h.fileService.ListFiles()
	if err != nil {
		log.Error("List: failed to load files", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if files == nil {
		files = []model.File{}
	}
	c.JSON(http.StatusOK, files)
}

// Get 按 id 返回单条档案，无需认证。
// 锁定档案同样返回完整内容，isLocked 只是展示层的提示。
func (h *FileHandler) Get(c *gin.Context) {
	id, ok := parseFileID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
		return
	}

	file, err := h.fileService.GetFile(id)
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
			return
		}
		log.Error("Get: failed to load file", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, file)
}

// Create 处理创建档案请求，要求已认证会话。
func (h *FileHandler) Create(c *gin.Context) {
	var req CreateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Create: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, bindFailure(err))
		return
	}

	// 只校验首个失败字段，与校验错误响应结构保持一致
	for _, check := range []struct {
		value *string
		field string
	}{
		{req.FileNumber, "fileNumber"},
		{req.Title, "title"},
		{req.Content, "content"},
	} {
		if msg := requireNonEmpty(check.value, check.field); msg != "" {
			c.JSON(http.StatusBadRequest, validationError(msg, check.field))
			return
		}
	}

	input := service.CreateFileInput{
		FileNumber:    *req.FileNumber,
		Title:         *req.Title,
		Content:       *req.Content,
		FileType:      req.FileType,
		ImageURL:      req.ImageURL,
		RecoveredLogs: req.RecoveredLogs,
		Habitat:       req.Habitat,
		Behavior:      req.Behavior,
		Weaknesses:    req.Weaknesses,
		IsLocked:      req.IsLocked,
		Severity:      req.Severity,
	}

	file, err := h.fileService.CreateFile(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrFileNumberTaken) {
			log.Warnf("Create: fileNumber conflict: %s", *req.FileNumber)
			c.JSON(http.StatusConflict, gin.H{"message": "fileNumber already in use"})
			return
		}
		log.Error("Create: failed to create file", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	log.Infof("档案创建成功, id: %d, fileNumber: %s", file.ID, file.FileNumber)
	c.JSON(http.StatusCreated, file)
}

// Update 处理部分更新档案请求，要求已认证会话。
func (h *FileHandler) Update(c *gin.Context) {
	id, ok := parseFileID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
		return
	}

	var req UpdateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Update: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, bindFailure(err))
		return
	}

	// 必填字段一旦提供就不允许清空
	for _, check := range []struct {
		value *string
		field string
	}{
		{req.FileNumber, "fileNumber"},
		{req.Title, "title"},
		{req.Content, "content"},
	} {
		if check.value != nil && *check.value == "" {
			c.JSON(http.StatusBadRequest, validationError(check.field+" must not be empty", check.field))
			return
		}
	}

	input := service.UpdateFileInput{
		FileNumber:    req.FileNumber,
		Title:         req.Title,
		Content:       req.Content,
		FileType:      req.FileType,
		ImageURL:      req.ImageURL,
		RecoveredLogs: req.RecoveredLogs,
		Habitat:       req.Habitat,
		Behavior:      req.Behavior,
		Weaknesses:    req.Weaknesses,
		IsLocked:      req.IsLocked,
		Severity:      req.Severity,
	}

	file, err := h.fileService.UpdateFile(c.Request.Context(), id, input)
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
			return
		}
		if errors.Is(err, service.ErrFileNumberTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "fileNumber already in use"})
			return
		}
		log.Error("Update: failed to update file", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	log.Infof("档案更新成功, id: %d", file.ID)
	c.JSON(http.StatusOK, file)
}

// parseFileID 解析路径参数中的档案 id。
// 解析失败等同于档案不存在，交给调用方返回 404。
func parseFileID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
