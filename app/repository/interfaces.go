package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByGoogleID(googleID string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	UpdateLastLogin(id uint) error
	SetGoogleID(email, googleID string) error
}

// AccountRepository defines the interface for credit account operations.
// DebitIfSufficient is the only debit path: a single conditional UPDATE
// that refuses to take the guarded column below zero.
type AccountRepository interface {
	Create(account *models.Account) error
	GetByUserID(userID uint) (*models.Account, error)
	Update(account *models.Account) error
	UpdateCredits(userID uint, balance, totalCredits int64) (*models.Account, error)
	DebitIfSufficient(userID uint, amount int64, guard string) (*models.Account, error)
	Credit(userID uint, amount int64) (*models.Account, error)
	ResetCredits(userID uint, allotment int64) error
	StampLastReset(userID uint, at time.Time) error
	Delete(userID uint) error
	List() ([]models.Account, error)
}

// PaymentRepository defines the interface for subscription payment lookups
type PaymentRepository interface {
	Create(payment *models.Payment) error
	HasPaidForMonth(accountID, subscriptionID uint, monthStart time.Time) (bool, error)
}

// SubscriptionRepository defines the interface for plan catalog operations
type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	GetByID(id uint) (*models.Subscription, error)
	GetByName(name string) (*models.Subscription, error)
	Update(sub *models.Subscription) error
	Delete(id uint) (*models.Subscription, error)
	List() ([]models.Subscription, error)
}

// AdminRepository defines the interface for admin account operations
type AdminRepository interface {
	Create(admin *models.Admin) error
	GetByID(id uint) (*models.Admin, error)
	GetByEmail(email string) (*models.Admin, error)
	GetByGoogleID(googleID string) (*models.Admin, error)
	Update(admin *models.Admin) error
	Delete(id uint) error
	List() ([]models.Admin, error)
	UpdateLastLogin(id uint) error
}

// AdminPermissionRow is a joined view of one permission assignment.
type AdminPermissionRow struct {
	ID           uint   `json:"id"`
	AdminID      uint   `json:"admin_id"`
	PermissionID uint   `json:"permission_id"`
	Permission   string `json:"permission"`
}

// PermissionRepository defines the interface for the permission registry
type PermissionRepository interface {
	List() ([]models.Permission, error)
	UpdateName(id uint, name string) (*models.Permission, error)
	EnsureAll(names []string) error
	GetForAdmin(adminID uint) ([]models.Permission, error)
	ListAssignments() ([]AdminPermissionRow, error)
	ReplaceForAdmin(adminID uint, permissionIDs []uint) ([]models.AdminPermission, error)
	DeleteForAdmin(adminID uint) error
}

// ConfigRepository defines the interface for platform config toggles
type ConfigRepository interface {
	List() ([]models.AdminConfig, error)
	GetByName(name string) (*models.AdminConfig, error)
	Create(cfg *models.AdminConfig) error
	Update(cfg *models.AdminConfig) error
	Delete(id uint) error
}

// PooledKeyRepository defines the interface for admin-supplied provider keys
type PooledKeyRepository interface {
	List() ([]models.AiModelApiKey, error)
	GetByProvider(provider string) (*models.AiModelApiKey, error)
	Create(key *models.AiModelApiKey) error
	Update(key *models.AiModelApiKey) error
	DeleteByProvider(provider string) (*models.AiModelApiKey, int64, error)
}

// UserKeyRepository defines the interface for user-owned provider keys
type UserKeyRepository interface {
	ListByUser(userID uint) ([]models.UserApiKey, error)
	GetByUserAndProvider(userID uint, provider string) (*models.UserApiKey, error)
	Create(key *models.UserApiKey) error
	Update(key *models.UserApiKey) error
	DeleteByUserAndProvider(userID uint, provider string) (*models.UserApiKey, error)
}

// CatalogEntry is an available model joined with its backing pooled key.
type CatalogEntry struct {
	models.AvailableModel
	ApiKey string `json:"-"`
}

// CatalogRepository defines the interface for the curated model catalog
type CatalogRepository interface {
	ListAll() ([]models.AvailableModel, error)
	ListForSubscription(subscriptionID uint) ([]models.AvailableModel, error)
	GetWithKey(provider, name string) (*CatalogEntry, error)
	Create(entry *models.AvailableModel) error
	Update(entry *models.AvailableModel) error
	DeleteByName(name string) (*models.AvailableModel, error)
	DeleteByModelKey(modelKeyID uint) (int64, error)
	CountByModelKey(modelKeyID uint) (int64, error)
}

// AccessListRepository defines the interface for the IP/country lists
type AccessListRepository interface {
	ListIPs() ([]models.WhitelistIP, error)
	GetIP(ip string) (*models.WhitelistIP, error)
	CreateIP(entry *models.WhitelistIP) error
	UpdateIP(entry *models.WhitelistIP) error
	DeleteIP(id uint) error
	TouchIPLogin(ip string, at time.Time) error

	ListCountries() ([]models.BlacklistCountry, error)
	CreateCountry(entry *models.BlacklistCountry) error
	UpdateCountry(entry *models.BlacklistCountry) error
	DeleteCountry(id uint) error
}

// LogRepository defines the interface for audit log persistence
type LogRepository interface {
	Insert(entry *models.ActivityLog) error
	List(offset, limit int) ([]models.ActivityLog, error)
	Count() (int64, error)
}

// TopUpRepository defines the interface for the top-up plan catalog
type TopUpRepository interface {
	ListPlans() ([]models.TopUpPlan, error)
}

// Repositories bundles all repository instances
type Repositories struct {
	User         UserRepository
	Account      AccountRepository
	Payment      PaymentRepository
	Subscription SubscriptionRepository
	Admin        AdminRepository
	Permission   PermissionRepository
	Config       ConfigRepository
	PooledKey    PooledKeyRepository
	UserKey      UserKeyRepository
	Catalog      CatalogRepository
	AccessList   AccessListRepository
	Log          LogRepository
	TopUp        TopUpRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Account:      NewAccountRepository(db),
		Payment:      NewPaymentRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Admin:        NewAdminRepository(db),
		Permission:   NewPermissionRepository(db),
		Config:       NewConfigRepository(db),
		PooledKey:    NewPooledKeyRepository(db),
		UserKey:      NewUserKeyRepository(db),
		Catalog:      NewCatalogRepository(db),
		AccessList:   NewAccessListRepository(db),
		Log:          NewLogRepository(db),
		TopUp:        NewTopUpRepository(db),
	}
}
