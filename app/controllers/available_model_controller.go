package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/middleware"
)

// HandleListAvailableModels returns the catalog entries unlocked by the
// caller's subscription plan.
func HandleListAvailableModels(c *fiber.Ctx) error {
	userID := middleware.UserIDFromCtx(c)
	repos := repository.GetGlobalRepositories()

	account, err := repos.Account.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Account not found")
		}
		return apperr.Internal("failed to load account", err)
	}

	entries, err := repos.Catalog.ListForSubscription(account.SubscriptionID)
	if err != nil {
		return apperr.Internal("failed to list models", err)
	}
	return success(c, entries)
}
