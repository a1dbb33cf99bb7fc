package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// AvailableModel is an admin-curated catalog entry binding a provider
// model name to a display name, a per-call credit cost, a default
// temperature, and the subscription tier required to use it. Each entry
// is backed by the pooled AiModelApiKey referenced by ModelKeyID;
// deleting that key removes the dependent entries at the service layer.
type AvailableModel struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Provider       string    `gorm:"type:varchar(50);not null;index" json:"model"`
	Name           string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=1,max=150"`
	Cost           int64     `gorm:"not null" json:"cost" validate:"required,gt=0"`
	Temperature    float32   `gorm:"not null;default:0.7" json:"temperature" validate:"gte=0,lte=2"`
	SubscriptionID uint      `gorm:"not null" json:"subscription_id"`
	ModelKeyID     uint      `gorm:"not null;index" json:"model_key_id"`
	UsageCount     int64     `gorm:"not null;default:0" json:"usage_count"`
	AddedBy        uint      `gorm:"not null" json:"added_by"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Subscription Subscription  `gorm:"foreignKey:SubscriptionID" json:"-"`
	ModelKey     AiModelApiKey `gorm:"foreignKey:ModelKeyID" json:"-"`
}

// DefaultTemperature is applied when a catalog entry omits one.
const DefaultTemperature float32 = 0.7

func (m *AvailableModel) Validate() error {
	v := validator.New()

	return v.Struct(m)
}

func (m *AvailableModel) BeforeSave(tx *gorm.DB) error {
	m.Provider = strings.ToLower(strings.TrimSpace(m.Provider))
	return nil
}
