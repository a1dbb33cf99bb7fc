package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/billing"
	"github.com/aigatehq/aigate/internal/pkg/chatbot"
	"github.com/aigatehq/aigate/internal/pkg/credits"
)

// Shared service instances behind the controllers. Built once after the
// repository factory is up.
var (
	creditEngine   *credits.Engine
	chatService    *chatbot.Service
	billingService *billing.Service
)

// InitServices wires the controller-facing services to the global
// repository factory. Must run after repository.InitializeFactory.
func InitServices() {
	repos := repository.GetGlobalRepositories()
	creditEngine = credits.NewEngine(repos)
	chatService = chatbot.NewService(repos, creditEngine)
	billingService = billing.NewService(repos)
}

// success writes the standard success envelope
func success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// created writes the success envelope with a 201 status
func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// parseBody binds the JSON request body into dst
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}
