package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
)

// HandleListLogs returns the audit trail newest first with pagination
func HandleListLogs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	repos := repository.GetGlobalRepositories()
	entries, err := repos.Log.List((page-1)*limit, limit)
	if err != nil {
		return apperr.Internal("failed to list logs", err)
	}
	total, err := repos.Log.Count()
	if err != nil {
		return apperr.Internal("failed to count logs", err)
	}
	return success(c, fiber.Map{
		"logs":  entries,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}
