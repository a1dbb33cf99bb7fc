package repository

import (
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
)

// topUpRepository implements the TopUpRepository interface
type topUpRepository struct {
	db *gorm.DB
}

// NewTopUpRepository creates a new top-up repository instance
func NewTopUpRepository(db *gorm.DB) TopUpRepository {
	return &topUpRepository{db: db}
}

// ListPlans retrieves the purchasable credit bundles
func (r *topUpRepository) ListPlans() ([]models.TopUpPlan, error) {
	var plans []models.TopUpPlan
	err := r.db.Order("id").Find(&plans).Error
	return plans, err
}
