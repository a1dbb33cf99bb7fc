package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
)

// userKeyRepository implements the UserKeyRepository interface
type userKeyRepository struct {
	db *gorm.DB
}

// NewUserKeyRepository creates a new user key repository instance
func NewUserKeyRepository(db *gorm.DB) UserKeyRepository {
	return &userKeyRepository{db: db}
}

// ListByUser retrieves all keys stored by one user
func (r *userKeyRepository) ListByUser(userID uint) ([]models.UserApiKey, error) {
	var keys []models.UserApiKey
	err := r.db.Where("user_id = ?", userID).Order("id").Find(&keys).Error
	return keys, err
}

// GetByUserAndProvider retrieves one user's key for one provider
func (r *userKeyRepository) GetByUserAndProvider(userID uint, provider string) (*models.UserApiKey, error) {
	var key models.UserApiKey
	err := r.db.Where("user_id = ? AND provider = ?", userID, strings.ToLower(provider)).
		First(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// Create creates a new user key
func (r *userKeyRepository) Create(key *models.UserApiKey) error {
	return r.db.Create(key).Error
}

// Update saves changes to a user key
func (r *userKeyRepository) Update(key *models.UserApiKey) error {
	return r.db.Save(key).Error
}

// DeleteByUserAndProvider removes one user's key for one provider and
// returns the removed row.
func (r *userKeyRepository) DeleteByUserAndProvider(userID uint, provider string) (*models.UserApiKey, error) {
	key, err := r.GetByUserAndProvider(userID, provider)
	if err != nil {
		return nil, err
	}
	if err := r.db.Delete(&models.UserApiKey{}, key.ID).Error; err != nil {
		return nil, err
	}
	return key, nil
}
