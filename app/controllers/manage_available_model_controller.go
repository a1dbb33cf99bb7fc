package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/activitylog"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/middleware"
)

type catalogRequest struct {
	Provider       string  `json:"provider"`
	Name           string  `json:"name"`
	Cost           int64   `json:"cost"`
	Temperature    float32 `json:"temperature"`
	SubscriptionID uint    `json:"subscription_id"`
}

// HandleAdminListCatalog returns the full model catalog
func HandleAdminListCatalog(c *fiber.Ctx) error {
	entries, err := repository.GetGlobalRepositories().Catalog.ListAll()
	if err != nil {
		return apperr.Internal("failed to list catalog", err)
	}
	return success(c, entries)
}

// HandleAdminCreateCatalogEntry adds a model to the catalog. The entry
// must be backed by an existing pooled key for its provider and must
// reference an existing plan.
func HandleAdminCreateCatalogEntry(c *fiber.Ctx) error {
	var req catalogRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	key, err := repos.PooledKey.GetByProvider(req.Provider)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("No pooled key for this provider")
		}
		return apperr.Internal("failed to load pooled key", err)
	}
	if _, err := repos.Subscription.GetByID(req.SubscriptionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Subscription plan not found")
		}
		return apperr.Internal("failed to load plan", err)
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = models.DefaultTemperature
	}
	entry := &models.AvailableModel{
		Provider:       strings.ToLower(req.Provider),
		Name:           req.Name,
		Cost:           req.Cost,
		Temperature:    temperature,
		SubscriptionID: req.SubscriptionID,
		ModelKeyID:     key.ID,
		AddedBy:        middleware.UserIDFromCtx(c),
	}
	if err := entry.Validate(); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := repos.Catalog.Create(entry); err != nil {
		return apperr.Internal("failed to create catalog entry", err)
	}
	activitylog.Info(actorEmail(c), "catalog-create", "added model "+entry.Name, "manage-available-model")
	return created(c, entry)
}

// HandleAdminUpdateCatalogEntry edits a catalog entry
func HandleAdminUpdateCatalogEntry(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req catalogRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	entries, err := repos.Catalog.ListAll()
	if err != nil {
		return apperr.Internal("failed to load catalog", err)
	}
	var entry *models.AvailableModel
	for i := range entries {
		if entries[i].ID == id {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		return apperr.NotFound("Catalog entry not found")
	}

	if req.Name != "" {
		entry.Name = req.Name
	}
	if req.Cost > 0 {
		entry.Cost = req.Cost
	}
	if req.Temperature > 0 {
		entry.Temperature = req.Temperature
	}
	if req.SubscriptionID > 0 {
		if _, err := repos.Subscription.GetByID(req.SubscriptionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Subscription plan not found")
			}
			return apperr.Internal("failed to load plan", err)
		}
		entry.SubscriptionID = req.SubscriptionID
	}
	if err := entry.Validate(); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := repos.Catalog.Update(entry); err != nil {
		return apperr.Internal("failed to update catalog entry", err)
	}
	activitylog.Info(actorEmail(c), "catalog-update", "edited model "+entry.Name, "manage-available-model")
	return success(c, entry)
}

// HandleAdminDeleteCatalogEntry removes one catalog entry by model name
func HandleAdminDeleteCatalogEntry(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return apperr.Validation("name is required")
	}
	entry, err := repository.GetGlobalRepositories().Catalog.DeleteByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Catalog entry not found")
		}
		return apperr.Internal("failed to delete catalog entry", err)
	}
	activitylog.Warn(actorEmail(c), "catalog-delete", "removed model "+entry.Name, "manage-available-model")
	return success(c, entry)
}
