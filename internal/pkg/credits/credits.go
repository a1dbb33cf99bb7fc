// Package credits implements the account credit engine: reading the
// spendable figure under the configured credit mode, the monthly reset,
// and the debit/credit movements that back metered chat usage.
package credits

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
)

// Engine evaluates and moves account credits. All decisions flow through
// the repositories so the engine itself carries no persistence detail.
type Engine struct {
	accounts      repository.AccountRepository
	payments      repository.PaymentRepository
	subscriptions repository.SubscriptionRepository
	configs       repository.ConfigRepository
}

// NewEngine creates a credit engine on top of the given repositories
func NewEngine(repos *repository.Repositories) *Engine {
	return &Engine{
		accounts:      repos.Account,
		payments:      repos.Payment,
		subscriptions: repos.Subscription,
		configs:       repos.Config,
	}
}

// creditMode reads the platform credit mode. A missing config row is a
// hard error: the platform cannot decide spendability without it.
func (e *Engine) creditMode() (string, error) {
	cfg, err := e.configs.GetByName(models.CONFIG_CREDIT_MODE)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.NotFound("Credit mode is not configured")
		}
		return "", apperr.Internal("failed to read credit mode", err)
	}
	if cfg.Value != models.CREDIT_MODE_BALANCE && cfg.Value != models.CREDIT_MODE_TOTAL {
		return "", apperr.Internal(fmt.Sprintf("unknown credit mode %q", cfg.Value), nil)
	}
	return cfg.Value, nil
}

// guardColumn maps a credit mode to the account column a debit must not
// take below zero.
func guardColumn(mode string) string {
	if mode == models.CREDIT_MODE_TOTAL {
		return repository.GuardTotal
	}
	return repository.GuardBalance
}

// GetAvailableCredits reports the spendable credits for one user under
// the configured credit mode.
func (e *Engine) GetAvailableCredits(userID uint) (*models.UserCredit, error) {
	mode, err := e.creditMode()
	if err != nil {
		return nil, err
	}
	account, err := e.accounts.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Account not found")
		}
		return nil, apperr.Internal("failed to load account", err)
	}
	available := account.Balance
	if mode == models.CREDIT_MODE_TOTAL {
		available = account.TotalCredits
	}
	return &models.UserCredit{
		UserID:           userID,
		AvailableCredits: available,
	}, nil
}

// CheckAndReset applies the monthly credit reset when it is due. A reset
// is due when a full calendar month has passed since the last one. Free
// plans reset unconditionally; paid plans reset only when a settled
// payment exists for the current billing month. Returns whether a reset
// ran.
func (e *Engine) CheckAndReset(userID uint) (bool, error) {
	account, err := e.accounts.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperr.NotFound("Account not found")
		}
		return false, apperr.Internal("failed to load account", err)
	}

	now := time.Now()
	if account.LastReset.After(now.AddDate(0, -1, 0)) {
		return false, nil
	}

	sub, err := e.subscriptions.GetByID(account.SubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperr.NotFound("Subscription plan not found")
		}
		return false, apperr.Internal("failed to load subscription", err)
	}

	if !sub.IsFree() {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		paid, err := e.payments.HasPaidForMonth(account.ID, sub.ID, monthStart)
		if err != nil {
			return false, apperr.Internal("failed to check payment", err)
		}
		if !paid {
			// Hard stop for paid plans: no settled payment for the
			// current billing month means no reset, and the operation
			// that triggered the reset fails with it.
			return false, apperr.NotFound("No payment found for the current billing month")
		}
	}

	if err := e.accounts.ResetCredits(userID, sub.MonthlyCredit); err != nil {
		return false, apperr.Internal("failed to reset credits", err)
	}
	if err := e.accounts.StampLastReset(userID, now); err != nil {
		return false, apperr.Internal("failed to stamp reset", err)
	}
	return true, nil
}

// HasSufficient reports whether the user can afford a charge under the
// configured credit mode, without moving anything.
func (e *Engine) HasSufficient(userID uint, amount int64) (bool, error) {
	credit, err := e.GetAvailableCredits(userID)
	if err != nil {
		return false, err
	}
	return credit.AvailableCredits >= amount, nil
}

// Debit charges the user, guarding the column selected by the credit
// mode. Insufficient funds surface as a validation error so the handler
// answers 400 rather than 500.
func (e *Engine) Debit(userID uint, amount int64) (*models.Account, error) {
	if amount <= 0 {
		return nil, apperr.Validation("debit amount must be positive")
	}
	mode, err := e.creditMode()
	if err != nil {
		return nil, err
	}
	account, err := e.accounts.DebitIfSufficient(userID, amount, guardColumn(mode))
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientCredits) {
			return nil, apperr.Validation("Insufficient credits")
		}
		return nil, apperr.Internal("failed to debit account", err)
	}
	return account, nil
}

// Credit adds purchased credits to the user's account
func (e *Engine) Credit(userID uint, amount int64) (*models.Account, error) {
	if amount <= 0 {
		return nil, apperr.Validation("credit amount must be positive")
	}
	account, err := e.accounts.Credit(userID, amount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Account not found")
		}
		return nil, apperr.Internal("failed to credit account", err)
	}
	return account, nil
}
