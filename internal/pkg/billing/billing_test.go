package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
)

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"user_id":1,"subscription_id":2,"amount":500}`)

	t.Run("accepts a matching signature", func(t *testing.T) {
		assert.True(t, VerifyWebhookSignature(payload, sign(payload, "s3cret"), "s3cret"))
	})

	t.Run("accepts uppercase hex", func(t *testing.T) {
		upper := sign(payload, "s3cret")
		assert.True(t, VerifyWebhookSignature(payload, "  "+upper+" ", "s3cret"))
	})

	t.Run("rejects a wrong secret", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(payload, sign(payload, "other"), "s3cret"))
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature([]byte(`{"amount":9999}`), sign(payload, "s3cret"), "s3cret"))
	})

	t.Run("rejects empty signature or secret", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(payload, "", "s3cret"))
		assert.False(t, VerifyWebhookSignature(payload, sign(payload, "s3cret"), ""))
	})

	t.Run("rejects non-hex garbage", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(payload, "not-hex!", "s3cret"))
	})
}

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Subscription{},
		&models.Payment{},
	))

	return NewService(repository.NewRepositories(db)), db
}

func seedPaidPlan(t *testing.T, db *gorm.DB, name string) *models.Subscription {
	t.Helper()
	plan := &models.Subscription{Name: name, MonthlyCost: 500, MonthlyCredit: 1000}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

func TestSettle(t *testing.T) {
	t.Run("records a paid payment keyed to the month start", func(t *testing.T) {
		svc, db := setupService(t)
		plan := seedPaidPlan(t, db, "pro")
		require.NoError(t, db.Create(&models.Account{UserID: 1, SubscriptionID: plan.ID}).Error)

		payment, err := svc.Settle(SettlementEvent{
			UserID:         1,
			SubscriptionID: plan.ID,
			Amount:         500,
			BillingMonth:   "2026-08",
		})
		require.NoError(t, err)
		assert.Equal(t, models.PAYMENT_STATUS_PAID, payment.Status)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), payment.BillingMonth)

		var count int64
		require.NoError(t, db.Model(&models.Payment{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("duplicate delivery does not double-record", func(t *testing.T) {
		svc, db := setupService(t)
		plan := seedPaidPlan(t, db, "pro")
		require.NoError(t, db.Create(&models.Account{UserID: 1, SubscriptionID: plan.ID}).Error)

		ev := SettlementEvent{UserID: 1, SubscriptionID: plan.ID, Amount: 500, BillingMonth: "2026-08"}
		_, err := svc.Settle(ev)
		require.NoError(t, err)
		_, err = svc.Settle(ev)
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.Payment{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("payment for another plan switches the account", func(t *testing.T) {
		svc, db := setupService(t)
		free := &models.Subscription{Name: "free", MonthlyCredit: 100}
		require.NoError(t, db.Create(free).Error)
		pro := seedPaidPlan(t, db, "pro")
		require.NoError(t, db.Create(&models.Account{UserID: 1, SubscriptionID: free.ID}).Error)

		_, err := svc.Settle(SettlementEvent{UserID: 1, SubscriptionID: pro.ID, Amount: 500, BillingMonth: "2026-08"})
		require.NoError(t, err)

		var account models.Account
		require.NoError(t, db.Where("user_id = ?", 1).First(&account).Error)
		assert.Equal(t, pro.ID, account.SubscriptionID)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		svc, db := setupService(t)
		plan := seedPaidPlan(t, db, "pro")

		_, err := svc.Settle(SettlementEvent{UserID: 42, SubscriptionID: plan.ID, Amount: 500})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("unknown plan is not found", func(t *testing.T) {
		svc, db := setupService(t)
		require.NoError(t, db.Create(&models.Account{UserID: 1, SubscriptionID: 1}).Error)

		_, err := svc.Settle(SettlementEvent{UserID: 1, SubscriptionID: 99, Amount: 500})
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("rejects malformed billing month", func(t *testing.T) {
		svc, db := setupService(t)
		plan := seedPaidPlan(t, db, "pro")
		require.NoError(t, db.Create(&models.Account{UserID: 1, SubscriptionID: plan.ID}).Error)

		_, err := svc.Settle(SettlementEvent{UserID: 1, SubscriptionID: plan.ID, Amount: 500, BillingMonth: "August 2026"})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc, _ := setupService(t)
		_, err := svc.Settle(SettlementEvent{UserID: 1, SubscriptionID: 1, Amount: 0})
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}
