// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"vault-archive-go/internal/model"

	"gorm.io/gorm"
)

// FileRepository 接口定义了档案记录相关的数据持久化操作。
type FileRepository interface {
	FindAll() ([]model.File, error)
	FindByID(id uint) (*model.File, error)
	FindByIDs(ids []uint) ([]model.File, error)
	Create(file *model.File) error
	// Update 按列名映射做部分更新，未出现在 updates 中的字段保持原值。
	Update(id uint, updates map[string]interface{}) (*model.File, error)
	Count() (int64, error)
}

// fileRepository 是 FileRepository 接口的 GORM 实现。
type fileRepository struct {
	db *gorm.DB
}

// NewFileRepository 创建一个新的 FileRepository 实例。
func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

// FindAll 返回全部档案记录，按 id 升序排列。
func (r *fileRepository) FindAll() ([]model.File, error) {
	var files []model.File
	err := r.db.Order("id asc").Find(&files).Error
	return files, err
}

// FindByID 根据主键检索单条档案记录。
// 记录不存在时返回 gorm.ErrRecordNotFound。
func (r *fileRepository) FindByID(id uint) (*model.File, error) {
	var file model.File
	err := r.db.First(&file, id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// FindByIDs 根据一组主键批量检索档案记录，按 id 升序排列。
func (r *fileRepository) FindByIDs(ids []uint) ([]model.File, error) {
	var files []model.File
	if len(ids) == 0 {
		return files, nil
	}
	err := r.db.Where("id IN ?", ids).Order("id asc").Find(&files).Error
	return files, err
}

// Create 在数据库中创建一条新的档案记录。
// file_number 唯一索引冲突时返回 gorm.ErrDuplicatedKey（TranslateError 已开启）。
func (r *fileRepository) Create(file *model.File) error {
	return r.db.Create(file).Error
}

// Update 对指定记录做部分字段更新并返回更新后的完整记录。
func (r *fileRepository) Update(id uint, updates map[string]interface{}) (*model.File, error) {
	// 先确认记录存在，区分 404 与空更新
	var file model.File
	if err := r.db.First(&file, id).Error; err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := r.db.Model(&model.File{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
		if err := r.db.First(&file, id).Error; err != nil {
			return nil, err
		}
	}
	return &file, nil
}

// Count 返回档案记录总数。
func (r *fileRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.File{}).Count(&count).Error
	return count, err
}
