package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Create creates a new subscription plan
func (r *subscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

// GetByID retrieves a plan by its ID
func (r *subscriptionRepository) GetByID(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.First(&sub, id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetByName retrieves a plan by its (case-insensitive) name
func (r *subscriptionRepository) GetByName(name string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("name = ?", strings.ToLower(name)).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Update saves changes to a plan
func (r *subscriptionRepository) Update(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

// Delete removes a plan and returns the removed row
func (r *subscriptionRepository) Delete(id uint) (*models.Subscription, error) {
	sub, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Delete(&models.Subscription{}, id).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// List retrieves all plans
func (r *subscriptionRepository) List() ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Order("id").Find(&subs).Error
	return subs, err
}
