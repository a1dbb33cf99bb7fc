package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
)

// accessListRepository implements the AccessListRepository interface
type accessListRepository struct {
	db *gorm.DB
}

// NewAccessListRepository creates a new access list repository instance
func NewAccessListRepository(db *gorm.DB) AccessListRepository {
	return &accessListRepository{db: db}
}

// ListIPs retrieves the whitelist
func (r *accessListRepository) ListIPs() ([]models.WhitelistIP, error) {
	var entries []models.WhitelistIP
	err := r.db.Order("id").Find(&entries).Error
	return entries, err
}

// GetIP retrieves a whitelist entry by IP address
func (r *accessListRepository) GetIP(ip string) (*models.WhitelistIP, error) {
	var entry models.WhitelistIP
	err := r.db.Where("ip_address = ?", ip).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateIP adds an IP to the whitelist
func (r *accessListRepository) CreateIP(entry *models.WhitelistIP) error {
	return r.db.Create(entry).Error
}

// UpdateIP saves changes to a whitelist entry
func (r *accessListRepository) UpdateIP(entry *models.WhitelistIP) error {
	return r.db.Save(entry).Error
}

// DeleteIP removes a whitelist entry
func (r *accessListRepository) DeleteIP(id uint) error {
	return r.db.Delete(&models.WhitelistIP{}, id).Error
}

// TouchIPLogin stamps when a whitelisted IP last passed the gate
func (r *accessListRepository) TouchIPLogin(ip string, at time.Time) error {
	return r.db.Model(&models.WhitelistIP{}).Where("ip_address = ?", ip).
		UpdateColumn("last_login", at).Error
}

// ListCountries retrieves the blocked country list
func (r *accessListRepository) ListCountries() ([]models.BlacklistCountry, error) {
	var entries []models.BlacklistCountry
	err := r.db.Order("id").Find(&entries).Error
	return entries, err
}

// CreateCountry adds a country to the blocklist
func (r *accessListRepository) CreateCountry(entry *models.BlacklistCountry) error {
	return r.db.Create(entry).Error
}

// UpdateCountry saves changes to a blocklist entry
func (r *accessListRepository) UpdateCountry(entry *models.BlacklistCountry) error {
	return r.db.Save(entry).Error
}

// DeleteCountry removes a blocklist entry
func (r *accessListRepository) DeleteCountry(id uint) error {
	return r.db.Delete(&models.BlacklistCountry{}, id).Error
}
