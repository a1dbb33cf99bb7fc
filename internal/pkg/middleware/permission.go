package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
)

// RequirePermission gates an admin route on one permission string.
// Super-admins bypass the check entirely. Limited admins are judged by
// the permission list embedded in their token at login; edits to their
// grants take effect on the next login.
func RequirePermission(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFromCtx(c)
		if claims == nil {
			return apperr.Unauthorized("")
		}
		admin, _ := c.Locals(LocalAdmin).(*models.Admin)
		if admin != nil && admin.IsSuperAdmin() {
			return c.Next()
		}
		for _, p := range claims.Permissions {
			if p == name {
				return c.Next()
			}
		}
		return apperr.Forbidden("You do not have permission to perform this action")
	}
}
