package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetAccountRepository returns the account repository instance
func (f *Factory) GetAccountRepository() AccountRepository {
	return f.GetRepositories().Account
}

// GetPaymentRepository returns the payment repository instance
func (f *Factory) GetPaymentRepository() PaymentRepository {
	return f.GetRepositories().Payment
}

// GetSubscriptionRepository returns the subscription repository instance
func (f *Factory) GetSubscriptionRepository() SubscriptionRepository {
	return f.GetRepositories().Subscription
}

// GetAdminRepository returns the admin repository instance
func (f *Factory) GetAdminRepository() AdminRepository {
	return f.GetRepositories().Admin
}

// GetPermissionRepository returns the permission repository instance
func (f *Factory) GetPermissionRepository() PermissionRepository {
	return f.GetRepositories().Permission
}

// GetConfigRepository returns the config repository instance
func (f *Factory) GetConfigRepository() ConfigRepository {
	return f.GetRepositories().Config
}

// GetPooledKeyRepository returns the pooled key repository instance
func (f *Factory) GetPooledKeyRepository() PooledKeyRepository {
	return f.GetRepositories().PooledKey
}

// GetUserKeyRepository returns the user key repository instance
func (f *Factory) GetUserKeyRepository() UserKeyRepository {
	return f.GetRepositories().UserKey
}

// GetCatalogRepository returns the catalog repository instance
func (f *Factory) GetCatalogRepository() CatalogRepository {
	return f.GetRepositories().Catalog
}

// GetAccessListRepository returns the access list repository instance
func (f *Factory) GetAccessListRepository() AccessListRepository {
	return f.GetRepositories().AccessList
}

// GetLogRepository returns the log repository instance
func (f *Factory) GetLogRepository() LogRepository {
	return f.GetRepositories().Log
}

// GetTopUpRepository returns the top-up repository instance
func (f *Factory) GetTopUpRepository() TopUpRepository {
	return f.GetRepositories().TopUp
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
