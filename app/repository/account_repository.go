package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
)

// GuardBalance and GuardTotal select which column the conditional debit
// refuses to take below zero. They mirror the platform credit modes.
const (
	GuardBalance = "balance"
	GuardTotal   = "total_credits"
)

// ErrInsufficientCredits is reported when a conditional debit matches no
// row, i.e. the guarded column would have gone negative.
var ErrInsufficientCredits = errors.New("insufficient credits")

// accountRepository implements the AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository instance
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new credit account
func (r *accountRepository) Create(account *models.Account) error {
	return r.db.Create(account).Error
}

// GetByUserID retrieves the account owned by a user
func (r *accountRepository) GetByUserID(userID uint) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("user_id = ?", userID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Update saves an account
func (r *accountRepository) Update(account *models.Account) error {
	return r.db.Save(account).Error
}

// UpdateCredits overwrites both credit columns (admin edit path)
func (r *accountRepository) UpdateCredits(userID uint, balance, totalCredits int64) (*models.Account, error) {
	res := r.db.Model(&models.Account{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":       balance,
			"total_credits": totalCredits,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByUserID(userID)
}

// DebitIfSufficient decrements both credit columns in one conditional
// UPDATE. The guard column must stay non-negative; zero rows affected
// means the caller's sufficiency assumption was stale and nothing was
// charged.
func (r *accountRepository) DebitIfSufficient(userID uint, amount int64, guard string) (*models.Account, error) {
	column := GuardBalance
	if guard == GuardTotal {
		column = GuardTotal
	}
	res := r.db.Model(&models.Account{}).
		Where("user_id = ? AND "+column+" >= ?", userID, amount).
		Updates(map[string]interface{}{
			"balance":       gorm.Expr("balance - ?", amount),
			"total_credits": gorm.Expr("total_credits - ?", amount),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInsufficientCredits
	}
	return r.GetByUserID(userID)
}

// Credit increments both credit columns (top-up path)
func (r *accountRepository) Credit(userID uint, amount int64) (*models.Account, error) {
	res := r.db.Model(&models.Account{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":       gorm.Expr("balance + ?", amount),
			"total_credits": gorm.Expr("total_credits + ?", amount),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByUserID(userID)
}

// ResetCredits replaces the balance with the plan allotment while the
// lifetime total accumulates by the same amount.
func (r *accountRepository) ResetCredits(userID uint, allotment int64) error {
	return r.db.Model(&models.Account{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":       allotment,
			"total_credits": gorm.Expr("total_credits + ?", allotment),
		}).Error
}

// StampLastReset records when the monthly reset last ran
func (r *accountRepository) StampLastReset(userID uint, at time.Time) error {
	return r.db.Model(&models.Account{}).Where("user_id = ?", userID).
		UpdateColumn("last_reset", at).Error
}

// Delete removes the account owned by a user
func (r *accountRepository) Delete(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Account{}).Error
}

// List retrieves all accounts
func (r *accountRepository) List() ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.Order("user_id").Find(&accounts).Error
	return accounts, err
}
