// Package billing settles subscription payments reported by the payment
// provider. A settled payment is what unlocks the monthly credit reset
// for paid plans.
package billing

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
)

// SettlementEvent is the payload of a payment provider webhook.
// BillingMonth uses the "2006-01" layout; empty means the current month.
type SettlementEvent struct {
	UserID         uint   `json:"user_id"`
	SubscriptionID uint   `json:"subscription_id"`
	Amount         int64  `json:"amount"`
	BillingMonth   string `json:"billing_month"`
}

// Service records settled payments against credit accounts.
type Service struct {
	repos *repository.Repositories
}

func NewService(repos *repository.Repositories) *Service {
	return &Service{repos: repos}
}

// Settle records a paid payment for the event's billing month and moves
// the account onto the paid plan when it is not there yet. Duplicate
// deliveries of the same event are absorbed without a second payment row.
func (s *Service) Settle(ev SettlementEvent) (*models.Payment, error) {
	if ev.UserID == 0 || ev.SubscriptionID == 0 {
		return nil, apperr.Validation("user_id and subscription_id are required")
	}
	if ev.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}

	account, err := s.repos.Account.GetByUserID(ev.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("No account for this user")
		}
		return nil, apperr.Internal("failed to load account", err)
	}

	plan, err := s.repos.Subscription.GetByID(ev.SubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Unknown subscription plan")
		}
		return nil, apperr.Internal("failed to load plan", err)
	}

	monthStart, err := parseBillingMonth(ev.BillingMonth)
	if err != nil {
		return nil, apperr.Validation("billing_month must use the YYYY-MM format")
	}

	settled, err := s.repos.Payment.HasPaidForMonth(account.ID, plan.ID, monthStart)
	if err != nil {
		return nil, apperr.Internal("failed to check existing payments", err)
	}

	payment := &models.Payment{
		AccountID:      account.ID,
		SubscriptionID: plan.ID,
		Amount:         ev.Amount,
		Status:         models.PAYMENT_STATUS_PAID,
		BillingMonth:   monthStart,
	}
	if !settled {
		if err := s.repos.Payment.Create(payment); err != nil {
			return nil, apperr.Internal("failed to record payment", err)
		}
	}

	// A payment for a different plan moves the account onto that plan.
	// Credits follow on the next reset, not here.
	if account.SubscriptionID != plan.ID {
		account.SubscriptionID = plan.ID
		if err := s.repos.Account.Update(account); err != nil {
			return nil, apperr.Internal("failed to switch plan", err)
		}
	}

	return payment, nil
}

// parseBillingMonth normalizes a "2006-01" value to the first day of
// that month in UTC, which is how payments are keyed.
func parseBillingMonth(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}
