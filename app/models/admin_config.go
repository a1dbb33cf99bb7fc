package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Platform-wide config keys consulted by the core.
const (
	CONFIG_CREDIT_MODE          = "credit_mode"
	CONFIG_DEDUCT_OWN_KEY       = "deduct_credit_using_own_key"
	CONFIG_USER_USE_OWN_API_KEY = "user_use_own_api_key"

	CREDIT_MODE_BALANCE = "balance"
	CREDIT_MODE_TOTAL   = "total"
)

// AdminConfig is a flat key/value toggle store. Reads are unscoped but
// only the creating admin may update or delete a row.
type AdminConfig struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;type:varchar(100);not null" json:"name" validate:"required,min=1,max=100"`
	Value       string    `gorm:"type:text;not null" json:"value" validate:"required"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"type:varchar(50);default:'string'" json:"type"`
	AddedBy     uint      `gorm:"not null" json:"added_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *AdminConfig) Validate() error {
	v := validator.New()

	return v.Struct(c)
}

// BoolValue interprets the stored value as a toggle.
func (c *AdminConfig) BoolValue() bool {
	return c.Value == "true"
}
