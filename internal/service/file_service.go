package service

import (
	"context"
	"errors"
	"time"
	"vault-archive-go/internal/model"
	"vault-archive-go/internal/repository"
	"vault-archive-go/pkg/events"
	"vault-archive-go/pkg/log"

	"gorm.io/gorm"
)

// 档案字段的服务端默认值。
const (
	DefaultFileType = "ANOMALY"
	DefaultSeverity = "LOW"
)

var (
	// ErrFileNotFound 表示指定 id 的档案不存在。
	ErrFileNotFound = errors.New("file not found")
	// ErrFileNumberTaken 表示 fileNumber 与已有档案冲突。
	ErrFileNumberTaken = errors.New("fileNumber already in use")
)

// EventPublisher 发布档案生命周期事件。写路径只做尽力投递。
type EventPublisher interface {
	Publish(event events.FileEvent) error
}

// FileIndexer 将档案冗余进检索索引。索引失败不影响写入结果。
type FileIndexer interface {
	Index(ctx context.Context, file *model.File) error
}

// CreateFileInput 是创建档案时可写字段的集合。
// id 与 createdAt 永远由系统分配，不接受调用方传入。
type CreateFileInput struct {
	FileNumber    string
	Title         string
	Content       string
	FileType      *string
	ImageURL      *string
	RecoveredLogs *string
	Habitat       *string
	Behavior      *string
	Weaknesses    *string
	IsLocked      *bool
	Severity      *string
}

// UpdateFileInput 是部分更新时可写字段的集合。
// 所有字段都是可选的，nil 表示“保持原值”。
type UpdateFileInput struct {
	FileNumber    *string
	Title         *string
	Content       *string
	FileType      *string
	ImageURL      *string
	RecoveredLogs *string
	Habitat       *string
	Behavior      *string
	Weaknesses    *string
	IsLocked      *bool
	Severity      *string
}

// FileService 接口定义了所有与档案记录相关的业务操作。
type FileService interface {
	ListFiles() ([]model.File, error)
	GetFile(id uint) (*model.File, error)
	CreateFile(ctx context.Context, input CreateFileInput) (*model.File, error)
	UpdateFile(ctx context.Context, id uint, input UpdateFileInput) (*model.File, error)
	// SeedIfEmpty 在档案表为空时写入初始示例记录，幂等。
	SeedIfEmpty(ctx context.Context) error
}

// fileService 是 FileService 接口的实现。
type fileService struct {
	fileRepo  repository.FileRepository
	publisher EventPublisher
	indexer   FileIndexer
}

// NewFileService 创建一个新的 FileService 实例。
// publisher 与 indexer 允许为 nil，此时跳过对应的旁路动作。
func NewFileService(fileRepo repository.FileRepository, publisher EventPublisher, indexer FileIndexer) FileService {
	return &fileService{
		fileRepo:  fileRepo,
		publisher: publisher,
		indexer:   indexer,
	}
}

// ListFiles 返回全部档案，按 id 升序。
func (s *fileService) ListFiles() ([]model.File, error) {
	return s.fileRepo.FindAll()
}

// GetFile 按 id 查询单条档案。查无此档案是正常结果，返回 ErrFileNotFound。
func (s *fileService) GetFile(id uint) (*model.File, error) {
	file, err := s.fileRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return file, nil
}

// CreateFile 创建一条新档案。
// 缺省字段在这里补齐默认值；fileNumber 冲突由存储层唯一索引兜底。
func (s *fileService) CreateFile(ctx context.Context, input CreateFileInput) (*model.File, error) {
	file := &model.File{
		FileNumber:    input.FileNumber,
		Title:         input.Title,
		Content:       input.Content,
		FileType:      DefaultFileType,
		ImageURL:      input.ImageURL,
		RecoveredLogs: input.RecoveredLogs,
		Habitat:       input.Habitat,
		Behavior:      input.Behavior,
		Weaknesses:    input.Weaknesses,
		Severity:      DefaultSeverity,
	}
	// fileType 和 severity 不是枚举，任意非空字符串原样接受
	if input.FileType != nil && *input.FileType != "" {
		file.FileType = *input.FileType
	}
	if input.Severity != nil && *input.Severity != "" {
		file.Severity = *input.Severity
	}
	if input.IsLocked != nil {
		file.IsLocked = *input.IsLocked
	}

	if err := s.fileRepo.Create(file); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrFileNumberTaken
		}
		return nil, err
	}

	s.afterWrite(ctx, events.ActionFileCreated, file)
	return file, nil
}

// UpdateFile 对已有档案做部分更新，未提供的字段保持原值。
func (s *fileService) UpdateFile(ctx context.Context, id uint, input UpdateFileInput) (*model.File, error) {
	updates := make(map[string]interface{})
	if input.FileNumber != nil {
		updates["file_number"] = *input.FileNumber
	}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Content != nil {
		updates["content"] = *input.Content
	}
	if input.FileType != nil {
		updates["file_type"] = *input.FileType
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.RecoveredLogs != nil {
		updates["recovered_logs"] = *input.RecoveredLogs
	}
	if input.Habitat != nil {
		updates["habitat"] = *input.Habitat
	}
	if input.Behavior != nil {
		updates["behavior"] = *input.Behavior
	}
	if input.Weaknesses != nil {
		updates["weaknesses"] = *input.Weaknesses
	}
	if input.IsLocked != nil {
		updates["is_locked"] = *input.IsLocked
	}
	if input.Severity != nil {
		updates["severity"] = *input.Severity
	}

	file, err := s.fileRepo.Update(id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrFileNumberTaken
		}
		return nil, err
	}

	s.afterWrite(ctx, events.ActionFileUpdated, file)
	return file, nil
}

// afterWrite 在写入成功后发布事件并刷新检索索引。
// 两者都是旁路动作：失败只记日志，绝不回滚或影响写入结果。
func (s *fileService) afterWrite(ctx context.Context, action string, file *model.File) {
	if s.publisher != nil {
		event := events.FileEvent{
			Action:     action,
			FileID:     file.ID,
			FileNumber: file.FileNumber,
			Title:      file.Title,
			Severity:   file.Severity,
			OccurredAt: time.Now(),
		}
		if err := s.publisher.Publish(event); err != nil {
			log.Errorf("[FileService] 发布档案事件失败, action: %s, fileId: %d, error: %v", action, file.ID, err)
		}
	}
	if s.indexer != nil {
		if err := s.indexer.Index(ctx, file); err != nil {
			log.Errorf("[FileService] 刷新检索索引失败, fileId: %d, error: %v", file.ID, err)
		}
	}
}

// SeedIfEmpty 在启动阶段显式调用一次，档案表为空时写入四条示例记录。
func (s *fileService) SeedIfEmpty(ctx context.Context) error {
	count, err := s.fileRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Info("档案表为空，开始写入初始示例记录...")
	shadewoodImage := "https://images.unsplash.com/photo-1518709268805-4e9042af9f23?w=800&h=600&fit=crop"
	hollowManImage := "https://images.unsplash.com/photo-1502891676898-a88b13ce709d?w=800&h=600&fit=crop"
	seeds := []CreateFileInput{
		{
			FileNumber: "File-001",
			Title:      "The Shadewood Beast",
			Content:    "Subject was first sighted in the northern woodlands of [REDACTED]. Witnesses describe a creature of immense height, composed primarily of shifting shadows and decaying bark. \n\n<p>WARNING: Do not approach at night. The creature appears to feed on light sources.</p>\n\nStatus: AT LARGE.",
			ImageURL:   &shadewoodImage,
			Severity:   ptr("MEDIUM"),
		},
		{
			FileNumber: "File-002",
			Title:      "Subject 89: 'The Weeping Signal'",
			Content:    "An anomalous radio frequency detected on [DATE REDACTED]. Listeners report hearing their own voices from the future screaming in agony. \n\nContainment: Signal jammed. All recordings destroyed.",
			IsLocked:   ptrBool(true),
			Severity:   ptr("CRITICAL"),
		},
		{
			FileNumber: "File-003",
			Title:      "The Hollow Man",
			Content:    "Entity manifests as a 2D cutout in 3D space. It can slide under doors 1mm thick. \n\nObservation: It creates a sense of overwhelming dread in anyone viewing it directly.",
			ImageURL:   &hollowManImage,
			Severity:   ptr("LOW"),
		},
		{
			FileNumber: "File-004",
			Title:      "Project OMEGA",
			Content:    "[DATA EXPUNGED] \n\nAuthorization Level 5 Required.",
			IsLocked:   ptrBool(true),
			Severity:   ptr("OMEGA"),
		},
	}

	for _, seed := range seeds {
		if _, err := s.CreateFile(ctx, seed); err != nil {
			return err
		}
	}
	log.Info("初始示例记录写入完成")
	return nil
}

func ptr(s string) *string { return &s }

func ptrBool(b bool) *bool { return &b }
