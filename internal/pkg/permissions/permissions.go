// Package permissions is the closed registry of admin permission names.
// The database carries the assignments; the names themselves live here
// so route guards and seeds agree on the vocabulary.
package permissions

// Permission names, grouped by the resource they guard.
const (
	UserCreate = "user:create"
	UserRead   = "user:read"
	UserUpdate = "user:update"
	UserDelete = "user:delete"

	AdminCreate = "admin:create"
	AdminRead   = "admin:read"
	AdminUpdate = "admin:update"
	AdminDelete = "admin:delete"

	ConfigCreate = "config:create"
	ConfigRead   = "config:read"
	ConfigUpdate = "config:update"
	ConfigDelete = "config:delete"

	PermissionRead   = "permission:read"
	PermissionUpdate = "permission:update"
	PermissionAssign = "permission:assign"

	ModelKeyCreate = "model-key:create"
	ModelKeyRead   = "model-key:read"
	ModelKeyUpdate = "model-key:update"
	ModelKeyDelete = "model-key:delete"

	CatalogCreate = "catalog:create"
	CatalogRead   = "catalog:read"
	CatalogUpdate = "catalog:update"
	CatalogDelete = "catalog:delete"

	SubscriptionCreate = "subscription:create"
	SubscriptionRead   = "subscription:read"
	SubscriptionUpdate = "subscription:update"
	SubscriptionDelete = "subscription:delete"

	WhitelistCreate = "whitelist:create"
	WhitelistRead   = "whitelist:read"
	WhitelistUpdate = "whitelist:update"
	WhitelistDelete = "whitelist:delete"

	CountryCreate = "country:create"
	CountryRead   = "country:read"
	CountryUpdate = "country:update"
	CountryDelete = "country:delete"

	LogRead = "log:read"
)

// All returns every permission name the platform knows. Startup syncs
// this list into the permissions table so assignments never reference a
// name the code cannot enforce.
func All() []string {
	return []string{
		UserCreate, UserRead, UserUpdate, UserDelete,
		AdminCreate, AdminRead, AdminUpdate, AdminDelete,
		ConfigCreate, ConfigRead, ConfigUpdate, ConfigDelete,
		PermissionRead, PermissionUpdate, PermissionAssign,
		ModelKeyCreate, ModelKeyRead, ModelKeyUpdate, ModelKeyDelete,
		CatalogCreate, CatalogRead, CatalogUpdate, CatalogDelete,
		SubscriptionCreate, SubscriptionRead, SubscriptionUpdate, SubscriptionDelete,
		WhitelistCreate, WhitelistRead, WhitelistUpdate, WhitelistDelete,
		CountryCreate, CountryRead, CountryUpdate, CountryDelete,
		LogRead,
	}
}

// IsKnown reports whether a name belongs to the registry
func IsKnown(name string) bool {
	for _, p := range All() {
		if p == name {
			return true
		}
	}
	return false
}
