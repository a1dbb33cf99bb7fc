package models

import "time"

const (
	LOG_LEVEL_INFO  = "info"
	LOG_LEVEL_WARN  = "warn"
	LOG_LEVEL_ERROR = "error"
)

// ActivityLog is one audit entry. Recording is fire-and-forget: a failed
// insert never aborts the operation that produced it.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	User      string    `gorm:"type:varchar(100);not null;index" json:"user"`
	Action    string    `gorm:"type:varchar(150);not null" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	Component string    `gorm:"type:varchar(100);not null;index" json:"component"`
	Level     string    `gorm:"type:varchar(10);not null;default:'info'" json:"level"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
