package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
)

// pooledKeyRepository implements the PooledKeyRepository interface
type pooledKeyRepository struct {
	db *gorm.DB
}

// NewPooledKeyRepository creates a new pooled key repository instance
func NewPooledKeyRepository(db *gorm.DB) PooledKeyRepository {
	return &pooledKeyRepository{db: db}
}

// List retrieves all pooled provider keys
func (r *pooledKeyRepository) List() ([]models.AiModelApiKey, error) {
	var keys []models.AiModelApiKey
	err := r.db.Order("id").Find(&keys).Error
	return keys, err
}

// GetByProvider retrieves the pooled key for one provider
func (r *pooledKeyRepository) GetByProvider(provider string) (*models.AiModelApiKey, error) {
	var key models.AiModelApiKey
	err := r.db.Where("provider = ?", strings.ToLower(provider)).First(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// Create creates a new pooled key
func (r *pooledKeyRepository) Create(key *models.AiModelApiKey) error {
	return r.db.Create(key).Error
}

// Update saves changes to a pooled key
func (r *pooledKeyRepository) Update(key *models.AiModelApiKey) error {
	return r.db.Save(key).Error
}

// DeleteByProvider removes the pooled key for one provider together with
// every catalog entry it was backing, in one transaction so no entry can
// survive pointing at a deleted key. Returns the removed key and the
// number of cascaded catalog rows.
func (r *pooledKeyRepository) DeleteByProvider(provider string) (*models.AiModelApiKey, int64, error) {
	key, err := r.GetByProvider(provider)
	if err != nil {
		return nil, 0, err
	}

	var removed int64
	err = r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("model_key_id = ?", key.ID).Delete(&models.AvailableModel{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return tx.Delete(&models.AiModelApiKey{}, key.ID).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return key, removed, nil
}
