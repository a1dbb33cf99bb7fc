package repository

import (
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
)

// configRepository implements the ConfigRepository interface
type configRepository struct {
	db *gorm.DB
}

// NewConfigRepository creates a new config repository instance
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &configRepository{db: db}
}

// List retrieves all config entries
func (r *configRepository) List() ([]models.AdminConfig, error) {
	var entries []models.AdminConfig
	err := r.db.Order("id").Find(&entries).Error
	return entries, err
}

// GetByName retrieves a config entry by its unique name
func (r *configRepository) GetByName(name string) (*models.AdminConfig, error) {
	var entry models.AdminConfig
	err := r.db.Where("name = ?", name).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create creates a new config entry
func (r *configRepository) Create(cfg *models.AdminConfig) error {
	return r.db.Create(cfg).Error
}

// Update saves changes to a config entry
func (r *configRepository) Update(cfg *models.AdminConfig) error {
	return r.db.Save(cfg).Error
}

// Delete removes a config entry
func (r *configRepository) Delete(id uint) error {
	return r.db.Delete(&models.AdminConfig{}, id).Error
}
