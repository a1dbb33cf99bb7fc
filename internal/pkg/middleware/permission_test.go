package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/permissions"
	"github.com/aigatehq/aigate/internal/pkg/token"
)

func permissionApp(admin *models.Admin, claims *token.Claims, required string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	app.Get("/guarded",
		func(c *fiber.Ctx) error {
			if claims != nil {
				c.Locals(LocalClaims, claims)
			}
			if admin != nil {
				c.Locals(LocalAdmin, admin)
			}
			return c.Next()
		},
		RequirePermission(required),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"success": true})
		},
	)
	return app
}

func TestRequirePermission(t *testing.T) {
	limited := &models.Admin{ID: 7, UserType: "0"}
	super := &models.Admin{ID: 8, UserType: models.SUPER_ADMIN_TYPE}

	t.Run("granted permission passes", func(t *testing.T) {
		claims := &token.Claims{UserID: 7, IsAdmin: true, Permissions: []string{permissions.UserRead}}
		app := permissionApp(limited, claims, permissions.UserRead)

		resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing permission is forbidden", func(t *testing.T) {
		claims := &token.Claims{UserID: 7, IsAdmin: true, Permissions: []string{permissions.UserRead}}
		app := permissionApp(limited, claims, permissions.UserDelete)

		resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("empty permission list is forbidden everywhere", func(t *testing.T) {
		claims := &token.Claims{UserID: 7, IsAdmin: true}
		app := permissionApp(limited, claims, permissions.LogRead)

		resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("super admin bypasses the check", func(t *testing.T) {
		claims := &token.Claims{UserID: 8, IsAdmin: true}
		app := permissionApp(super, claims, permissions.UserDelete)

		resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing claims is unauthorized", func(t *testing.T) {
		app := permissionApp(nil, nil, permissions.UserRead)

		resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
