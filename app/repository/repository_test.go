package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aigatehq/aigate/app/models"
)

func setupRepos(t *testing.T) (*Repositories, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Admin{},
		&models.Permission{},
		&models.AdminPermission{},
		&models.AiModelApiKey{},
		&models.AvailableModel{},
	))

	return NewRepositories(db), db
}

func TestDebitIfSufficient(t *testing.T) {
	t.Run("balance guard blocks when balance is short", func(t *testing.T) {
		repos, db := setupRepos(t)
		require.NoError(t, db.Create(&models.Account{UserID: 1, Balance: 10, TotalCredits: 500, SubscriptionID: 1}).Error)

		_, err := repos.Account.DebitIfSufficient(1, 20, GuardBalance)
		assert.ErrorIs(t, err, ErrInsufficientCredits)

		var account models.Account
		require.NoError(t, db.Where("user_id = ?", 1).First(&account).Error)
		assert.Equal(t, int64(10), account.Balance)
		assert.Equal(t, int64(500), account.TotalCredits)
	})

	t.Run("total guard allows the balance to go negative", func(t *testing.T) {
		repos, db := setupRepos(t)
		require.NoError(t, db.Create(&models.Account{UserID: 1, Balance: 10, TotalCredits: 500, SubscriptionID: 1}).Error)

		account, err := repos.Account.DebitIfSufficient(1, 20, GuardTotal)
		require.NoError(t, err)
		assert.Equal(t, int64(-10), account.Balance)
		assert.Equal(t, int64(480), account.TotalCredits)
	})

	t.Run("debit moves both columns together", func(t *testing.T) {
		repos, db := setupRepos(t)
		require.NoError(t, db.Create(&models.Account{UserID: 1, Balance: 100, TotalCredits: 300, SubscriptionID: 1}).Error)

		account, err := repos.Account.DebitIfSufficient(1, 30, GuardBalance)
		require.NoError(t, err)
		assert.Equal(t, int64(70), account.Balance)
		assert.Equal(t, int64(270), account.TotalCredits)
	})
}

func TestReplaceForAdmin(t *testing.T) {
	seed := func(t *testing.T) (*Repositories, *gorm.DB, []models.Permission) {
		repos, db := setupRepos(t)
		require.NoError(t, repos.Permission.EnsureAll([]string{"user:read", "user:update", "log:read"}))
		perms, err := repos.Permission.List()
		require.NoError(t, err)
		require.Len(t, perms, 3)
		return repos, db, perms
	}

	t.Run("replaces the whole assignment set", func(t *testing.T) {
		repos, _, perms := seed(t)
		_, err := repos.Permission.ReplaceForAdmin(1, []uint{perms[0].ID, perms[1].ID})
		require.NoError(t, err)

		created, err := repos.Permission.ReplaceForAdmin(1, []uint{perms[2].ID})
		require.NoError(t, err)
		assert.Len(t, created, 1)

		after, err := repos.Permission.GetForAdmin(1)
		require.NoError(t, err)
		require.Len(t, after, 1)
		assert.Equal(t, "log:read", after[0].Name)
	})

	t.Run("other admins keep their assignments", func(t *testing.T) {
		repos, _, perms := seed(t)
		_, err := repos.Permission.ReplaceForAdmin(1, []uint{perms[0].ID})
		require.NoError(t, err)
		_, err = repos.Permission.ReplaceForAdmin(2, []uint{perms[1].ID})
		require.NoError(t, err)

		_, err = repos.Permission.ReplaceForAdmin(1, []uint{perms[2].ID})
		require.NoError(t, err)

		other, err := repos.Permission.GetForAdmin(2)
		require.NoError(t, err)
		require.Len(t, other, 1)
		assert.Equal(t, "user:update", other[0].Name)
	})

	t.Run("EnsureAll is idempotent", func(t *testing.T) {
		repos, _, _ := seed(t)
		require.NoError(t, repos.Permission.EnsureAll([]string{"user:read", "log:read"}))

		perms, err := repos.Permission.List()
		require.NoError(t, err)
		assert.Len(t, perms, 3)
	})
}

func TestDeleteByProvider(t *testing.T) {
	t.Run("removes the key and its catalog entries together", func(t *testing.T) {
		repos, db := setupRepos(t)

		key := &models.AiModelApiKey{Provider: "openai", ApiKey: "sk-test", AddedBy: 1}
		require.NoError(t, db.Create(key).Error)
		other := &models.AiModelApiKey{Provider: "gemini", ApiKey: "g-test", AddedBy: 1}
		require.NoError(t, db.Create(other).Error)

		for _, name := range []string{"gpt-4o", "gpt-4o-mini"} {
			require.NoError(t, db.Create(&models.AvailableModel{
				Provider: "openai", Name: name, Cost: 10, Temperature: 0.7,
				SubscriptionID: 1, ModelKeyID: key.ID, AddedBy: 1,
			}).Error)
		}
		require.NoError(t, db.Create(&models.AvailableModel{
			Provider: "gemini", Name: "gemini-pro", Cost: 10, Temperature: 0.7,
			SubscriptionID: 1, ModelKeyID: other.ID, AddedBy: 1,
		}).Error)

		deleted, removed, err := repos.PooledKey.DeleteByProvider("openai")
		require.NoError(t, err)
		assert.Equal(t, key.ID, deleted.ID)
		assert.Equal(t, int64(2), removed)

		var keyCount int64
		require.NoError(t, db.Model(&models.AiModelApiKey{}).Count(&keyCount).Error)
		assert.Equal(t, int64(1), keyCount)

		remaining, err := repos.Catalog.ListAll()
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, "gemini-pro", remaining[0].Name, "no orphaned entries, other providers untouched")
	})

	t.Run("unknown provider leaves the catalog alone", func(t *testing.T) {
		repos, db := setupRepos(t)

		key := &models.AiModelApiKey{Provider: "openai", ApiKey: "sk-test", AddedBy: 1}
		require.NoError(t, db.Create(key).Error)
		require.NoError(t, db.Create(&models.AvailableModel{
			Provider: "openai", Name: "gpt-4o", Cost: 10, Temperature: 0.7,
			SubscriptionID: 1, ModelKeyID: key.ID, AddedBy: 1,
		}).Error)

		_, _, err := repos.PooledKey.DeleteByProvider("mistral")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		count, err := repos.Catalog.CountByModelKey(key.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestDeleteByModelKey(t *testing.T) {
	repos, db := setupRepos(t)

	key := &models.AiModelApiKey{Provider: "openai", ApiKey: "sk-test", AddedBy: 1}
	require.NoError(t, db.Create(key).Error)
	other := &models.AiModelApiKey{Provider: "gemini", ApiKey: "g-test", AddedBy: 1}
	require.NoError(t, db.Create(other).Error)

	for _, name := range []string{"gpt-4o", "gpt-4o-mini"} {
		require.NoError(t, db.Create(&models.AvailableModel{
			Provider: "openai", Name: name, Cost: 10, Temperature: 0.7,
			SubscriptionID: 1, ModelKeyID: key.ID, AddedBy: 1,
		}).Error)
	}
	require.NoError(t, db.Create(&models.AvailableModel{
		Provider: "gemini", Name: "gemini-pro", Cost: 10, Temperature: 0.7,
		SubscriptionID: 1, ModelKeyID: other.ID, AddedBy: 1,
	}).Error)

	removed, err := repos.Catalog.DeleteByModelKey(key.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	remaining, err := repos.Catalog.ListAll()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "gemini-pro", remaining[0].Name)
}
