// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// File 定义了 files 表的 ORM 模型。
// 它是档案馆中唯一的实体：一条带标题、正文和若干补充栏目的档案记录。
type File struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FileNumber    string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"fileNumber"`
	Title         string    `gorm:"type:varchar(255);not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	FileType      string    `gorm:"type:varchar(32);not null;default:ANOMALY" json:"fileType"` // ANOMALY, ENVIRONMENTAL, DISCOVERY
	ImageURL      *string   `gorm:"type:varchar(512)" json:"imageUrl"`
	RecoveredLogs *string   `gorm:"type:text" json:"recoveredLogs"`
	Habitat       *string   `gorm:"type:text" json:"habitat"`
	Behavior      *string   `gorm:"type:text" json:"behavior"`
	Weaknesses    *string   `gorm:"type:text" json:"weaknesses"`
	// IsLocked 仅作为展示层的提示标记，服务端读取接口不会因此隐藏内容。
	IsLocked  bool      `gorm:"not null;default:false" json:"isLocked"`
	Severity  string    `gorm:"type:varchar(16);not null;default:LOW" json:"severity"` // LOW, MEDIUM, CRITICAL, OMEGA
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (File) TableName() string {
	return "files"
}
