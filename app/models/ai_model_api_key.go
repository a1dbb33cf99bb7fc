package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// AiModelApiKey is an admin-supplied credential pooled across users.
// At most one key exists per provider; users consuming it pay platform
// credits.
type AiModelApiKey struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Provider  string    `gorm:"uniqueIndex;type:varchar(50);not null" json:"model"`
	ApiKey    string    `gorm:"type:text;not null" json:"-"`
	AddedBy   uint      `gorm:"not null" json:"added_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (k *AiModelApiKey) BeforeSave(tx *gorm.DB) error {
	k.Provider = strings.ToLower(strings.TrimSpace(k.Provider))
	return nil
}
