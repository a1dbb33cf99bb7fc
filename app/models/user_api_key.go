package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// UserApiKey is a per-user credential for one provider. The unique index
// over (user_id, provider) enforces at most one key per provider per
// owner.
type UserApiKey struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_user_provider,unique;not null" json:"user_id"`
	Provider  string    `gorm:"index:idx_user_provider,unique;type:varchar(50);not null" json:"model"`
	ApiKey    string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (k *UserApiKey) BeforeSave(tx *gorm.DB) error {
	k.Provider = strings.ToLower(strings.TrimSpace(k.Provider))
	return nil
}
