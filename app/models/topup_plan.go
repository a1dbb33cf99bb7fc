package models

import "time"

// TopUpPlan is a purchasable credit bundle. Payment capture is a stub;
// the top-up endpoint credits the account and returns a transaction
// reference.
type TopUpPlan struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Credits   int64     `gorm:"not null" json:"credits"`
	Price     int64     `gorm:"not null" json:"price"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
