package models

import "time"

const (
	PAYMENT_STATUS_PAID    = "paid"
	PAYMENT_STATUS_PENDING = "pending"
	PAYMENT_STATUS_FAILED  = "failed"
)

// Payment records a settled subscription charge. The monthly credit reset
// for paid plans requires a row with status "paid" whose BillingMonth is
// the first day of the current calendar month.
type Payment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AccountID      uint      `gorm:"index;not null" json:"account_id"`
	SubscriptionID uint      `gorm:"index;not null" json:"subscription_id"`
	Amount         int64     `gorm:"not null;default:0" json:"amount"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	BillingMonth   time.Time `gorm:"type:date;not null" json:"billing_month"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	Account      Account      `gorm:"foreignKey:AccountID" json:"-"`
	Subscription Subscription `gorm:"foreignKey:SubscriptionID" json:"-"`
}
