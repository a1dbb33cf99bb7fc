package credits

import (
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

func setupEngine(t *testing.T) (*Engine, *repository.Repositories, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Subscription{},
		&models.Payment{},
		&models.AdminConfig{},
	))

	repos := repository.NewRepositories(db)
	return NewEngine(repos), repos, db
}

func seedConfig(t *testing.T, db *gorm.DB, mode string) {
	t.Helper()
	require.NoError(t, db.Create(&models.AdminConfig{
		Name:  models.CONFIG_CREDIT_MODE,
		Value: mode,
		Type:  "string",
	}).Error)
}

func seedAccount(t *testing.T, db *gorm.DB, userID uint, balance, total int64, subID uint, lastReset time.Time) *models.Account {
	t.Helper()
	account := &models.Account{
		UserID:         userID,
		Balance:        balance,
		TotalCredits:   total,
		SubscriptionID: subID,
		LastReset:      lastReset,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func seedPlan(t *testing.T, db *gorm.DB, name string, monthlyCredit int64) *models.Subscription {
	t.Helper()
	plan := &models.Subscription{
		Name:          name,
		MonthlyCredit: monthlyCredit,
	}
	if name != models.PLAN_FREE {
		plan.MonthlyCost = 500
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

func TestGetAvailableCredits(t *testing.T) {
	t.Run("balance mode reads balance column", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		seedConfig(t, db, models.CREDIT_MODE_BALANCE)
		plan := seedPlan(t, db, "free", 100)
		seedAccount(t, db, 1, 40, 900, plan.ID, time.Now())

		credit, err := engine.GetAvailableCredits(1)
		require.NoError(t, err)
		assert.Equal(t, int64(40), credit.AvailableCredits)
	})

	t.Run("total mode reads total column", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		seedConfig(t, db, models.CREDIT_MODE_TOTAL)
		plan := seedPlan(t, db, "free", 100)
		seedAccount(t, db, 1, 40, 900, plan.ID, time.Now())

		credit, err := engine.GetAvailableCredits(1)
		require.NoError(t, err)
		assert.Equal(t, int64(900), credit.AvailableCredits)
	})

	t.Run("missing credit mode config fails", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		plan := seedPlan(t, db, "free", 100)
		seedAccount(t, db, 1, 40, 900, plan.ID, time.Now())

		_, err := engine.GetAvailableCredits(1)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("missing account fails", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		seedConfig(t, db, models.CREDIT_MODE_BALANCE)

		_, err := engine.GetAvailableCredits(42)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestDebit(t *testing.T) {
	t.Run("moves both columns on success", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		seedConfig(t, db, models.CREDIT_MODE_BALANCE)
		plan := seedPlan(t, db, "free", 100)
		seedAccount(t, db, 1, 50, 200, plan.ID, time.Now())

		account, err := engine.Debit(1, 30)
		require.NoError(t, err)
		assert.Equal(t, int64(20), account.Balance)
		assert.Equal(t, int64(170), account.TotalCredits)
	})

	t.Run("insufficient balance charges nothing", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		seedConfig(t, db, models.CREDIT_MODE_BALANCE)
		plan := seedPlan(t, db, "free", 100)
		seedAccount(t, db, 1, 10, 200, plan.ID, time.Now())

		_, err := engine.Debit(1, 30)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))

		var account models.Account
		require.NoError(t, db.Where("user_id = ?", 1).First(&account).Error)
		assert.Equal(t, int64(10), account.Balance)
		assert.Equal(t, int64(200), account.TotalCredits)
	})

	t.Run("total mode guards the total column", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		seedConfig(t, db, models.CREDIT_MODE_TOTAL)
		plan := seedPlan(t, db, "free", 100)
		// balance is already low but total covers the charge
		seedAccount(t, db, 1, 5, 200, plan.ID, time.Now())

		account, err := engine.Debit(1, 30)
		require.NoError(t, err)
		assert.Equal(t, int64(-25), account.Balance)
		assert.Equal(t, int64(170), account.TotalCredits)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		seedConfig(t, db, models.CREDIT_MODE_BALANCE)

		_, err := engine.Debit(1, 0)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestCredit(t *testing.T) {
	t.Run("adds to both columns", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		plan := seedPlan(t, db, "free", 100)
		seedAccount(t, db, 1, 50, 200, plan.ID, time.Now())

		account, err := engine.Credit(1, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(550), account.Balance)
		assert.Equal(t, int64(700), account.TotalCredits)
	})

	t.Run("missing account fails", func(t *testing.T) {
		engine, _, _ := setupEngine(t)
		_, err := engine.Credit(42, 500)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestDebitCreditRoundTrip(t *testing.T) {
	engine, _, db := setupEngine(t)
	seedConfig(t, db, models.CREDIT_MODE_BALANCE)
	plan := seedPlan(t, db, "free", 100)
	seedAccount(t, db, 1, 100, 100, plan.ID, time.Now())

	_, err := engine.Debit(1, 60)
	require.NoError(t, err)
	account, err := engine.Credit(1, 60)
	require.NoError(t, err)

	assert.Equal(t, int64(100), account.Balance)
	assert.Equal(t, int64(100), account.TotalCredits)
}

func TestCheckAndReset(t *testing.T) {
	t.Run("not due within the month", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		plan := seedPlan(t, db, "free", 100)
		seedAccount(t, db, 1, 5, 50, plan.ID, time.Now().AddDate(0, 0, -10))

		reset, err := engine.CheckAndReset(1)
		require.NoError(t, err)
		assert.False(t, reset)
	})

	t.Run("free plan resets after a month", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		plan := seedPlan(t, db, "free", 100)
		seedAccount(t, db, 1, 5, 50, plan.ID, time.Now().AddDate(0, -2, 0))

		reset, err := engine.CheckAndReset(1)
		require.NoError(t, err)
		assert.True(t, reset)

		var account models.Account
		require.NoError(t, db.Where("user_id = ?", 1).First(&account).Error)
		assert.Equal(t, int64(100), account.Balance, "balance replaced by the allotment")
		assert.Equal(t, int64(150), account.TotalCredits, "lifetime total accumulates")
	})

	t.Run("paid plan without settled payment is a hard stop", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		plan := seedPlan(t, db, "pro", 1000)
		seedAccount(t, db, 1, 5, 50, plan.ID, time.Now().AddDate(0, -2, 0))

		reset, err := engine.CheckAndReset(1)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
		assert.False(t, reset)
	})

	t.Run("paid plan with settled payment resets", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		plan := seedPlan(t, db, "pro", 1000)
		account := seedAccount(t, db, 1, 5, 50, plan.ID, time.Now().AddDate(0, -2, 0))

		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, db.Create(&models.Payment{
			AccountID:      account.ID,
			SubscriptionID: plan.ID,
			Amount:         999,
			Status:         models.PAYMENT_STATUS_PAID,
			BillingMonth:   monthStart,
		}).Error)

		reset, err := engine.CheckAndReset(1)
		require.NoError(t, err)
		assert.True(t, reset)

		var got models.Account
		require.NoError(t, db.Where("user_id = ?", 1).First(&got).Error)
		assert.Equal(t, int64(1000), got.Balance)
	})

	t.Run("pending payment does not count", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		plan := seedPlan(t, db, "pro", 1000)
		account := seedAccount(t, db, 1, 5, 50, plan.ID, time.Now().AddDate(0, -2, 0))

		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, db.Create(&models.Payment{
			AccountID:      account.ID,
			SubscriptionID: plan.ID,
			Amount:         999,
			Status:         models.PAYMENT_STATUS_PENDING,
			BillingMonth:   monthStart,
		}).Error)

		reset, err := engine.CheckAndReset(1)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
		assert.False(t, reset)
	})

	t.Run("second call within the month is a no-op", func(t *testing.T) {
		engine, _, db := setupEngine(t)
		plan := seedPlan(t, db, "free", 100)
		seedAccount(t, db, 1, 5, 50, plan.ID, time.Now().AddDate(0, -2, 0))

		first, err := engine.CheckAndReset(1)
		require.NoError(t, err)
		assert.True(t, first)

		second, err := engine.CheckAndReset(1)
		require.NoError(t, err)
		assert.False(t, second)

		var account models.Account
		require.NoError(t, db.Where("user_id = ?", 1).First(&account).Error)
		assert.Equal(t, int64(100), account.Balance)
		assert.Equal(t, int64(150), account.TotalCredits)
	})
}
