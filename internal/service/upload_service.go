package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"vault-archive-go/internal/config"
	"vault-archive-go/pkg/log"
	"vault-archive-go/pkg/storage"
)

// ErrNotAnImage 表示上传的文件不是图片类型。
var ErrNotAnImage = errors.New("uploaded file is not an image")

// UploadService 接口定义了档案配图上传操作。
type UploadService interface {
	// UploadImage 将图片存入对象存储，返回可填入 imageUrl 字段的访问地址。
	UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)
}

type uploadService struct {
	minioCfg config.MinIOConfig
}

// NewUploadService 创建一个新的 UploadService 实例。
func NewUploadService(minioCfg config.MinIOConfig) UploadService {
	return &uploadService{minioCfg: minioCfg}
}

// UploadImage 校验并上传一张档案配图。
func (s *uploadService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	// 随机对象名避免覆盖，保留原始扩展名便于内容识别
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	objectName := fmt.Sprintf("images/%s%s", hex.EncodeToString(buf), filepath.Ext(fileHeader.Filename))

	url, err := storage.PutImageObject(ctx, s.minioCfg, objectName, file, fileHeader.Size, contentType)
	if err != nil {
		return "", err
	}

	log.Infof("[UploadService] 图片上传成功, object: %s, size: %d", objectName, fileHeader.Size)
	return url, nil
}
