package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aigatehq/aigate/app/controllers"
	"github.com/aigatehq/aigate/internal/pkg/middleware"
	"github.com/aigatehq/aigate/internal/pkg/oauth"
	"github.com/aigatehq/aigate/internal/pkg/permissions"
	"github.com/aigatehq/aigate/internal/pkg/session"
)

type ApiRouter struct {
}

func NewApiRouter() ApiRouter {
	return ApiRouter{}
}

// InstallRouter registers the full /api surface. Admin families run
// behind three layers in order: IP control, admin auth, then the
// per-route permission gate.
func (r ApiRouter) InstallRouter(app *fiber.App) {
	// session store backs the OAuth handshake state
	session.NewSessionStore()
	oauth.Setup()
	controllers.InitServices()

	api := app.Group("/api")

	// Public auth
	auth := api.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/admin/login", middleware.IPControl(), controllers.HandleAdminLogin)
	auth.Get("/google", controllers.HandleGoogleAuth)
	auth.Get("/google/callback", controllers.HandleGoogleCallback)
	auth.Get("/google-admin", controllers.HandleGoogleAdminAuth)
	auth.Get("/google-admin/callback", middleware.IPControl(), controllers.HandleGoogleAdminCallback)

	// Payment provider callback, authenticated by HMAC signature
	api.Post("/billing/webhook", controllers.HandlePaymentWebhook)

	// User surface
	users := api.Group("/users", middleware.RequireUser())
	users.Get("/", controllers.HandleGetProfile)
	users.Put("/", controllers.HandleUpdateProfile)
	users.Delete("/", controllers.HandleDeleteAccount)
	users.Get("/credits", controllers.HandleGetCredits)
	users.Get("/own-key-toggle", controllers.HandleGetOwnKeyToggle)

	userKeys := api.Group("/user-api-key", middleware.RequireUser())
	userKeys.Get("/", controllers.HandleListUserKeys)
	userKeys.Post("/", controllers.HandleCreateUserKey)
	userKeys.Put("/", controllers.HandleUpdateUserKey)
	userKeys.Delete("/:provider", controllers.HandleDeleteUserKey)

	api.Get("/available-model", middleware.RequireUser(), controllers.HandleListAvailableModels)
	api.Get("/subscriptions", middleware.RequireUser(), controllers.HandleListSubscriptions)

	topup := api.Group("/topup", middleware.RequireUser())
	topup.Get("/plans", controllers.HandleListTopUpPlans)
	topup.Post("/", controllers.HandleTopUp)

	chat := api.Group("/chatbot", middleware.RequireUser())
	chat.Get("/get-all-ai-model", controllers.HandleGetAllAiModels)
	chat.Get("/get-ai-model/:provider", controllers.HandleGetAiModel)
	chat.Post("/send", controllers.HandleSend)
	chat.Post("/send-with-api-key", controllers.HandleSendWithApiKey)

	// Admin surface
	adminGuard := []fiber.Handler{middleware.IPControl(), middleware.RequireAdmin()}

	admin := api.Group("/admin", adminGuard...)
	admin.Get("/users", middleware.RequirePermission(permissions.UserRead), controllers.HandleAdminListUsers)
	admin.Get("/users/:id", middleware.RequirePermission(permissions.UserRead), controllers.HandleAdminGetUser)
	admin.Put("/users/:id", middleware.RequirePermission(permissions.UserUpdate), controllers.HandleAdminUpdateUser)
	admin.Delete("/users/:id", middleware.RequirePermission(permissions.UserDelete), controllers.HandleAdminDeleteUser)
	admin.Put("/users/:id/credits", middleware.RequirePermission(permissions.UserUpdate), controllers.HandleAdminUpdateUserCredits)
	admin.Get("/admins", middleware.RequirePermission(permissions.AdminRead), controllers.HandleAdminListAdmins)
	admin.Post("/admins", middleware.RequirePermission(permissions.AdminCreate), controllers.HandleAdminCreateAdmin)
	admin.Put("/admins/:id", middleware.RequirePermission(permissions.AdminUpdate), controllers.HandleAdminUpdateAdmin)
	admin.Delete("/admins/:id", middleware.RequirePermission(permissions.AdminDelete), controllers.HandleAdminDeleteAdmin)

	config := api.Group("/admin-config", adminGuard...)
	config.Get("/", middleware.RequirePermission(permissions.ConfigRead), controllers.HandleListConfigs)
	config.Post("/", middleware.RequirePermission(permissions.ConfigCreate), controllers.HandleCreateConfig)
	config.Put("/:id", middleware.RequirePermission(permissions.ConfigUpdate), controllers.HandleUpdateConfig)
	config.Delete("/:id", middleware.RequirePermission(permissions.ConfigDelete), controllers.HandleDeleteConfig)

	perm := api.Group("/admin-permission", adminGuard...)
	perm.Get("/", middleware.RequirePermission(permissions.PermissionRead), controllers.HandleListPermissions)
	perm.Get("/assignments", middleware.RequirePermission(permissions.PermissionRead), controllers.HandleListPermissionAssignments)
	perm.Put("/:id", middleware.RequirePermission(permissions.PermissionUpdate), controllers.HandleRenamePermission)
	perm.Post("/replace", middleware.RequirePermission(permissions.PermissionAssign), controllers.HandleReplaceAdminPermissions)

	pooled := api.Group("/ai-model-api-key", adminGuard...)
	pooled.Get("/", middleware.RequirePermission(permissions.ModelKeyRead), controllers.HandleListPooledKeys)
	pooled.Post("/", middleware.RequirePermission(permissions.ModelKeyCreate), controllers.HandleCreatePooledKey)
	pooled.Put("/", middleware.RequirePermission(permissions.ModelKeyUpdate), controllers.HandleUpdatePooledKey)
	pooled.Delete("/:provider", middleware.RequirePermission(permissions.ModelKeyDelete), controllers.HandleDeletePooledKey)

	catalog := api.Group("/manage-available-model", adminGuard...)
	catalog.Get("/", middleware.RequirePermission(permissions.CatalogRead), controllers.HandleAdminListCatalog)
	catalog.Post("/", middleware.RequirePermission(permissions.CatalogCreate), controllers.HandleAdminCreateCatalogEntry)
	catalog.Put("/:id", middleware.RequirePermission(permissions.CatalogUpdate), controllers.HandleAdminUpdateCatalogEntry)
	catalog.Delete("/:name", middleware.RequirePermission(permissions.CatalogDelete), controllers.HandleAdminDeleteCatalogEntry)

	plans := api.Group("/manage-subscriptions", adminGuard...)
	plans.Get("/", middleware.RequirePermission(permissions.SubscriptionRead), controllers.HandleListSubscriptions)
	plans.Post("/", middleware.RequirePermission(permissions.SubscriptionCreate), controllers.HandleAdminCreatePlan)
	plans.Put("/:id", middleware.RequirePermission(permissions.SubscriptionUpdate), controllers.HandleAdminUpdatePlan)
	plans.Delete("/:id", middleware.RequirePermission(permissions.SubscriptionDelete), controllers.HandleAdminDeletePlan)

	whitelist := api.Group("/whitelist-ip", adminGuard...)
	whitelist.Get("/", middleware.RequirePermission(permissions.WhitelistRead), controllers.HandleListWhitelistIPs)
	whitelist.Post("/", middleware.RequirePermission(permissions.WhitelistCreate), controllers.HandleCreateWhitelistIP)
	whitelist.Put("/:id", middleware.RequirePermission(permissions.WhitelistUpdate), controllers.HandleUpdateWhitelistIP)
	whitelist.Delete("/:id", middleware.RequirePermission(permissions.WhitelistDelete), controllers.HandleDeleteWhitelistIP)

	countries := api.Group("/country-list", adminGuard...)
	countries.Get("/", middleware.RequirePermission(permissions.CountryRead), controllers.HandleListBlockedCountries)
	countries.Post("/", middleware.RequirePermission(permissions.CountryCreate), controllers.HandleCreateBlockedCountry)
	countries.Put("/:id", middleware.RequirePermission(permissions.CountryUpdate), controllers.HandleUpdateBlockedCountry)
	countries.Delete("/:id", middleware.RequirePermission(permissions.CountryDelete), controllers.HandleDeleteBlockedCountry)

	api.Get("/log", append(adminGuard, middleware.RequirePermission(permissions.LogRead), controllers.HandleListLogs)...)
}
