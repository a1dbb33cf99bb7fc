package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
)

// HandleListSubscriptions returns the plan catalog
func HandleListSubscriptions(c *fiber.Ctx) error {
	plans, err := repository.GetGlobalRepositories().Subscription.List()
	if err != nil {
		return apperr.Internal("failed to list plans", err)
	}
	return success(c, plans)
}
