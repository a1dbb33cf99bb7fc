package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// SUPER_ADMIN_TYPE marks an admin exempt from permission checks. Any
// other user_type value designates a limited admin whose capabilities are
// entirely the assigned permission set.
const SUPER_ADMIN_TYPE = "1"

type Admin struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	GoogleID    string     `gorm:"type:varchar(100);default:null;index" json:"-"`
	Name        string     `gorm:"type:varchar(150)" json:"name" validate:"required,min=1,max=150"`
	Email       string     `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Password    string     `gorm:"type:text" json:"-" validate:"required,min=6"`
	UserType    string     `gorm:"type:varchar(10);not null" json:"user_type" validate:"required"`
	Mobile      string     `gorm:"type:varchar(30);default:null" json:"mobile"`
	Country     string     `gorm:"type:varchar(100);default:null" json:"country"`
	LastLoginAt *time.Time `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Admin) Validate() error {
	v := validator.New()

	return v.Struct(a)
}

// IsSuperAdmin reports whether this admin bypasses all permission checks.
func (a *Admin) IsSuperAdmin() bool {
	return a.UserType == SUPER_ADMIN_TYPE
}
