package chatbot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/aiproxy"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/credits"
)

// fakeProvider scripts upstream behavior per test. onChat, when set,
// runs during the completion call so tests can mutate state between the
// reply and the debit.
type fakeProvider struct {
	reply    string
	err      error
	listErr  error
	lastTemp float32
	calls    int
	onChat   func()
}

func (f *fakeProvider) ListModels(ctx context.Context) ([]aiproxy.ModelInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []aiproxy.ModelInfo{{ID: "fake-model"}}, nil
}

func (f *fakeProvider) ChatCompletion(ctx context.Context, model, message string, temperature float32) (string, error) {
	f.calls++
	f.lastTemp = temperature
	if f.onChat != nil {
		f.onChat()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fixture struct {
	svc      *Service
	db       *gorm.DB
	provider *fakeProvider
}

func setupService(t *testing.T) *fixture {
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
		&models.AiModelApiKey{},
		&models.UserApiKey{},
		&models.AvailableModel{},
	))

	repos := repository.NewRepositories(db)
	engine := credits.NewEngine(repos)
	provider := &fakeProvider{reply: "hello"}
	svc := NewServiceWithFactory(repos, engine, func(name, key string) aiproxy.Provider {
		if name == "unknown" {
			return nil
		}
		return provider
	})
	return &fixture{svc: svc, db: db, provider: provider}
}

func (f *fixture) seedConfig(t *testing.T, name, value string) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.AdminConfig{
		Name:  name,
		Value: value,
		Type:  "string",
	}).Error)
}

func (f *fixture) seedAccount(t *testing.T, userID uint, balance int64) {
	t.Helper()
	plan := &models.Subscription{Name: "free", MonthlyCredit: 100}
	require.NoError(t, f.db.Create(plan).Error)
	require.NoError(t, f.db.Create(&models.Account{
		UserID:         userID,
		Balance:        balance,
		TotalCredits:   balance,
		SubscriptionID: plan.ID,
		LastReset:      time.Now(),
	}).Error)
}

func (f *fixture) seedCatalog(t *testing.T, provider, name string, cost int64) {
	t.Helper()
	key := &models.AiModelApiKey{Provider: provider, ApiKey: "pooled-key", AddedBy: 1}
	require.NoError(t, f.db.Create(key).Error)
	require.NoError(t, f.db.Create(&models.AvailableModel{
		Provider:       provider,
		Name:           name,
		Cost:           cost,
		Temperature:    0.3,
		SubscriptionID: 1,
		ModelKeyID:     key.ID,
		AddedBy:        1,
	}).Error)
}

func TestSendPooled(t *testing.T) {
	t.Run("successful send charges after reply", func(t *testing.T) {
		f := setupService(t)
		f.seedConfig(t, models.CONFIG_CREDIT_MODE, models.CREDIT_MODE_BALANCE)
		f.seedAccount(t, 1, 100)
		f.seedCatalog(t, "openai", "gpt-4o-mini", 30)

		reply, err := f.svc.SendPooled(context.Background(), 1, "openai", "gpt-4o-mini", "hi")
		require.NoError(t, err)
		assert.Equal(t, "hello", reply.Reply)
		assert.Equal(t, int64(30), reply.Charged)
		assert.Equal(t, float32(0.3), f.provider.lastTemp, "catalog temperature flows into dispatch")

		var account models.Account
		require.NoError(t, f.db.Where("user_id = ?", 1).First(&account).Error)
		assert.Equal(t, int64(70), account.Balance)
	})

	t.Run("insufficient credits makes no upstream call", func(t *testing.T) {
		f := setupService(t)
		f.seedConfig(t, models.CONFIG_CREDIT_MODE, models.CREDIT_MODE_BALANCE)
		f.seedAccount(t, 1, 10)
		f.seedCatalog(t, "openai", "gpt-4o-mini", 30)

		_, err := f.svc.SendPooled(context.Background(), 1, "openai", "gpt-4o-mini", "hi")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Equal(t, 0, f.provider.calls)

		var account models.Account
		require.NoError(t, f.db.Where("user_id = ?", 1).First(&account).Error)
		assert.Equal(t, int64(10), account.Balance, "balance untouched")
	})

	t.Run("provider failure is not charged and propagates", func(t *testing.T) {
		f := setupService(t)
		f.seedConfig(t, models.CONFIG_CREDIT_MODE, models.CREDIT_MODE_BALANCE)
		f.seedAccount(t, 1, 100)
		f.seedCatalog(t, "openai", "gpt-4o-mini", 30)
		f.provider.err = errors.New("upstream 503")

		_, err := f.svc.SendPooled(context.Background(), 1, "openai", "gpt-4o-mini", "hi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upstream 503")

		var account models.Account
		require.NoError(t, f.db.Where("user_id = ?", 1).First(&account).Error)
		assert.Equal(t, int64(100), account.Balance)
	})

	t.Run("failed debit after the reply reports nothing charged", func(t *testing.T) {
		f := setupService(t)
		f.seedConfig(t, models.CONFIG_CREDIT_MODE, models.CREDIT_MODE_BALANCE)
		f.seedAccount(t, 1, 30)
		f.seedCatalog(t, "openai", "gpt-4o-mini", 30)

		// Balance evaporates between the sufficiency check and the debit
		f.provider.onChat = func() {
			require.NoError(t, f.db.Model(&models.Account{}).
				Where("user_id = ?", 1).Update("balance", 0).Error)
		}

		reply, err := f.svc.SendPooled(context.Background(), 1, "openai", "gpt-4o-mini", "hi")
		require.NoError(t, err)
		assert.Equal(t, "hello", reply.Reply)
		assert.Equal(t, int64(0), reply.Charged, "a debit that never landed must not be reported")

		var account models.Account
		require.NoError(t, f.db.Where("user_id = ?", 1).First(&account).Error)
		assert.Equal(t, int64(0), account.Balance)
	})

	t.Run("unknown model is not found", func(t *testing.T) {
		f := setupService(t)
		f.seedConfig(t, models.CONFIG_CREDIT_MODE, models.CREDIT_MODE_BALANCE)
		f.seedAccount(t, 1, 100)

		_, err := f.svc.SendPooled(context.Background(), 1, "openai", "nope", "hi")
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("empty message rejected", func(t *testing.T) {
		f := setupService(t)
		_, err := f.svc.SendPooled(context.Background(), 1, "openai", "gpt-4o-mini", "")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestSendWithOwnKey(t *testing.T) {
	seedOwnKey := func(t *testing.T, f *fixture, userID uint, provider string) {
		t.Helper()
		require.NoError(t, f.db.Create(&models.UserApiKey{
			UserID:   userID,
			Provider: provider,
			ApiKey:   "user-key",
		}).Error)
	}

	t.Run("unmetered send never touches credits", func(t *testing.T) {
		f := setupService(t)
		f.seedConfig(t, models.CONFIG_USER_USE_OWN_API_KEY, "true")
		f.seedConfig(t, models.CONFIG_DEDUCT_OWN_KEY, "false")
		f.seedAccount(t, 1, 0)
		seedOwnKey(t, f, 1, "gemini")

		reply, err := f.svc.SendWithOwnKey(context.Background(), 1, "gemini", "gemini-pro", "hi", 30)
		require.NoError(t, err)
		assert.Equal(t, int64(0), reply.Charged)
	})

	t.Run("metered send checks and charges", func(t *testing.T) {
		f := setupService(t)
		f.seedConfig(t, models.CONFIG_USER_USE_OWN_API_KEY, "true")
		f.seedConfig(t, models.CONFIG_DEDUCT_OWN_KEY, "true")
		f.seedConfig(t, models.CONFIG_CREDIT_MODE, models.CREDIT_MODE_BALANCE)
		f.seedAccount(t, 1, 100)
		seedOwnKey(t, f, 1, "gemini")

		reply, err := f.svc.SendWithOwnKey(context.Background(), 1, "gemini", "gemini-pro", "hi", 30)
		require.NoError(t, err)
		assert.Equal(t, int64(30), reply.Charged)

		var account models.Account
		require.NoError(t, f.db.Where("user_id = ?", 1).First(&account).Error)
		assert.Equal(t, int64(70), account.Balance)
	})

	t.Run("missing metering config is a configuration error", func(t *testing.T) {
		f := setupService(t)
		f.seedConfig(t, models.CONFIG_USER_USE_OWN_API_KEY, "true")
		seedOwnKey(t, f, 1, "gemini")

		_, err := f.svc.SendWithOwnKey(context.Background(), 1, "gemini", "gemini-pro", "hi", 30)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
		assert.Equal(t, "Configuration not found", err.Error())
		assert.Equal(t, 0, f.provider.calls, "no upstream call without the metering toggle")
	})

	t.Run("own-key route disabled", func(t *testing.T) {
		f := setupService(t)
		f.seedConfig(t, models.CONFIG_USER_USE_OWN_API_KEY, "false")

		_, err := f.svc.SendWithOwnKey(context.Background(), 1, "gemini", "gemini-pro", "hi", 30)
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("missing user key is not found", func(t *testing.T) {
		f := setupService(t)
		f.seedConfig(t, models.CONFIG_USER_USE_OWN_API_KEY, "true")
		f.seedConfig(t, models.CONFIG_DEDUCT_OWN_KEY, "false")

		_, err := f.svc.SendWithOwnKey(context.Background(), 1, "gemini", "gemini-pro", "hi", 30)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestValidateKey(t *testing.T) {
	t.Run("valid key passes", func(t *testing.T) {
		f := setupService(t)
		assert.NoError(t, f.svc.ValidateKey(context.Background(), "openai", "key"))
	})

	t.Run("every upstream failure collapses to the same error", func(t *testing.T) {
		f := setupService(t)
		f.provider.listErr = errors.New("401 unauthorized api key disabled")

		err := f.svc.ValidateKey(context.Background(), "openai", "key")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Equal(t, "Invalid API Key", err.Error())
	})

	t.Run("unknown provider is not found", func(t *testing.T) {
		f := setupService(t)
		err := f.svc.ValidateKey(context.Background(), "unknown", "key")
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestGetModelList(t *testing.T) {
	t.Run("lists through the pooled key", func(t *testing.T) {
		f := setupService(t)
		f.seedCatalog(t, "openai", "gpt-4o-mini", 30)

		models, err := f.svc.GetModelList(context.Background(), "openai")
		require.NoError(t, err)
		assert.Len(t, models, 1)
	})

	t.Run("missing pooled key is not found", func(t *testing.T) {
		f := setupService(t)
		_, err := f.svc.GetModelList(context.Background(), "openai")
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("aggregate listing skips failing providers", func(t *testing.T) {
		f := setupService(t)
		f.seedCatalog(t, "openai", "gpt-4o-mini", 30)
		f.provider.listErr = errors.New("down")

		all, err := f.svc.GetAllModelLists(context.Background())
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
