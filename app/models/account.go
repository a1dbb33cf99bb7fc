package models

import (
	"time"
)

// Account holds the credit state for one user. Balance and TotalCredits
// only change through the credits engine: both move together on debit and
// top-up, while a monthly reset replaces Balance with the plan allotment
// and accumulates TotalCredits.
type Account struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance            int64      `gorm:"not null;default:0" json:"balance"`
	TotalCredits       int64      `gorm:"not null;default:0" json:"total_credits"`
	LastReset          time.Time  `gorm:"type:timestamp" json:"last_reset"`
	SubscriptionID     uint       `gorm:"not null" json:"subscription_id"`
	SubscriptionExpiry *time.Time `gorm:"type:timestamp;default:null" json:"subscription_expiry"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User         User         `gorm:"foreignKey:UserID" json:"-"`
	Subscription Subscription `gorm:"foreignKey:SubscriptionID" json:"-"`
}

// UserCredit is the shape returned by the available-credits query.
type UserCredit struct {
	UserID           uint  `json:"user_id"`
	AvailableCredits int64 `json:"available_credits"`
}
