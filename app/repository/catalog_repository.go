package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
)

// catalogRepository implements the CatalogRepository interface
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository instance
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// ListAll retrieves the full model catalog
func (r *catalogRepository) ListAll() ([]models.AvailableModel, error) {
	var entries []models.AvailableModel
	err := r.db.Order("id").Find(&entries).Error
	return entries, err
}

// ListForSubscription retrieves the catalog entries unlocked by a plan
func (r *catalogRepository) ListForSubscription(subscriptionID uint) ([]models.AvailableModel, error) {
	var entries []models.AvailableModel
	err := r.db.Where("subscription_id = ?", subscriptionID).Order("id").Find(&entries).Error
	return entries, err
}

// GetWithKey retrieves a catalog entry by provider and model name joined
// with the pooled key that backs it.
func (r *catalogRepository) GetWithKey(provider, name string) (*CatalogEntry, error) {
	var entry CatalogEntry
	err := r.db.Model(&models.AvailableModel{}).
		Select("available_models.*, ai_model_api_keys.api_key").
		Joins("JOIN ai_model_api_keys ON ai_model_api_keys.id = available_models.model_key_id").
		Where("available_models.provider = ? AND available_models.name = ?",
			strings.ToLower(provider), name).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create creates a new catalog entry
func (r *catalogRepository) Create(entry *models.AvailableModel) error {
	return r.db.Create(entry).Error
}

// Update saves changes to a catalog entry
func (r *catalogRepository) Update(entry *models.AvailableModel) error {
	return r.db.Save(entry).Error
}

// DeleteByName removes a catalog entry by model name and returns the
// removed row.
func (r *catalogRepository) DeleteByName(name string) (*models.AvailableModel, error) {
	var entry models.AvailableModel
	if err := r.db.Where("name = ?", name).First(&entry).Error; err != nil {
		return nil, err
	}
	if err := r.db.Delete(&models.AvailableModel{}, entry.ID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteByModelKey removes every catalog entry backed by one pooled key
// and reports how many rows went away.
func (r *catalogRepository) DeleteByModelKey(modelKeyID uint) (int64, error) {
	res := r.db.Where("model_key_id = ?", modelKeyID).Delete(&models.AvailableModel{})
	return res.RowsAffected, res.Error
}

// CountByModelKey counts the catalog entries backed by one pooled key
func (r *catalogRepository) CountByModelKey(modelKeyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.AvailableModel{}).
		Where("model_key_id = ?", modelKeyID).Count(&count).Error
	return count, err
}
