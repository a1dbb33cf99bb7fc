package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create records a payment
func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// HasPaidForMonth reports whether a settled payment exists for the given
// account, plan and billing month (month start, truncated).
func (r *paymentRepository) HasPaidForMonth(accountID, subscriptionID uint, monthStart time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).
		Where("account_id = ? AND subscription_id = ? AND status = ? AND billing_month = ?",
			accountID, subscriptionID, models.PAYMENT_STATUS_PAID, monthStart).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
