package models

import "time"

// WhitelistIP allows one address onto the administrative surface.
type WhitelistIP struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	IPAddress   string     `gorm:"uniqueIndex;type:varchar(45);not null" json:"ip_address"`
	Description string     `gorm:"type:varchar(255)" json:"description"`
	AddedBy     uint       `gorm:"not null" json:"added_by"`
	LastLogin   *time.Time `gorm:"type:timestamp;default:null" json:"last_login"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// BlacklistCountry denies administrative access from one country.
// Matching is by the English country name, case-insensitive.
type BlacklistCountry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CountryName string    `gorm:"uniqueIndex;type:varchar(100);not null" json:"country_name"`
	CountryCode string    `gorm:"type:varchar(2)" json:"country_code"`
	AddedBy     uint      `gorm:"not null" json:"added_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
