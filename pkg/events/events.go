// Package events defines the structure for archive events that are sent to Kafka.
package events

import "time"

// 档案事件动作类型。
const (
	ActionFileCreated = "file.created"
	ActionFileUpdated = "file.updated"
)

// FileEvent represents a lifecycle event of an archive record.
type FileEvent struct {
	Action     string    `json:"action"`
	FileID     uint      `json:"file_id"`
	FileNumber string    `json:"file_number"`
	Title      string    `json:"title"`
	Severity   string    `json:"severity"`
	OccurredAt time.Time `json:"occurred_at"`
}
