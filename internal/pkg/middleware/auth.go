package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/token"
)

// Locals keys set by the auth middleware.
const (
	LocalClaims = "claims"
	LocalUserID = "user_id"
	LocalAdmin  = "admin"
)

// extractToken pulls the bearer token from the `token` cookie or the
// Authorization header, cookie first.
func extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies("token"); cookie != "" {
		return cookie
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// verify runs token verification, distinguishing expiry from tampering
// only in the log line. The caller always sees Unauthorized.
func verify(c *fiber.Ctx) (*token.Claims, error) {
	raw := extractToken(c)
	if raw == "" {
		return nil, apperr.Unauthorized("Missing authentication token")
	}
	claims, err := token.Verify(raw)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			log.Printf("[Auth] expired token from %s", c.IP())
		} else {
			log.Printf("[Auth] invalid token from %s: %v", c.IP(), err)
		}
		return nil, apperr.Unauthorized("Invalid or expired token")
	}
	return claims, nil
}

// RequireUser authenticates a user route. The token subject must resolve
// to an existing user row.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := verify(c)
		if err != nil {
			return err
		}
		user, err := repository.GetGlobalRepositories().User.GetByID(claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Unauthorized("Unknown account")
			}
			return apperr.Internal("failed to resolve identity", err)
		}
		c.Locals(LocalClaims, claims)
		c.Locals(LocalUserID, user.ID)
		return c.Next()
	}
}

// RequireAdmin authenticates an admin route. The token must carry the
// admin flag and its subject must resolve to an existing admin row; the
// resolved admin is stored for the permission gate.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := verify(c)
		if err != nil {
			return err
		}
		if !claims.IsAdmin {
			return apperr.Unauthorized("Admin token required")
		}
		admin, err := repository.GetGlobalRepositories().Admin.GetByID(claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Unauthorized("Unknown account")
			}
			return apperr.Internal("failed to resolve identity", err)
		}
		c.Locals(LocalClaims, claims)
		c.Locals(LocalUserID, admin.ID)
		c.Locals(LocalAdmin, admin)
		return c.Next()
	}
}

// ClaimsFromCtx returns the verified claims set by the auth middleware
func ClaimsFromCtx(c *fiber.Ctx) *token.Claims {
	claims, _ := c.Locals(LocalClaims).(*token.Claims)
	return claims
}

// UserIDFromCtx returns the authenticated subject id
func UserIDFromCtx(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}
