package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// PLAN_FREE is seeded at startup; every new user account starts on it.
const PLAN_FREE = "free"

type Subscription struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"uniqueIndex;type:varchar(100);not null" json:"name" validate:"required,min=1,max=100"`
	MonthlyCost   int64     `gorm:"not null;default:0" json:"monthly_cost"`
	AnnualCost    int64     `gorm:"not null;default:0" json:"annual_cost"`
	MonthlyCredit int64     `gorm:"not null;default:0" json:"monthly_credit"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Subscription) Validate() error {
	v := validator.New()

	return v.Struct(s)
}

// BeforeSave keeps plan names lowercase; the name is the immutable
// natural key other tables reference by lookup.
func (s *Subscription) BeforeSave(tx *gorm.DB) error {
	s.Name = strings.ToLower(strings.TrimSpace(s.Name))
	return nil
}

// IsFree reports whether this plan carries no monthly cost.
func (s *Subscription) IsFree() bool {
	return s.MonthlyCost == 0
}
