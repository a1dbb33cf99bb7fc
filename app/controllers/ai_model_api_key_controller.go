package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/activitylog"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/middleware"
)

type pooledKeyRequest struct {
	Provider string `json:"provider"`
	ApiKey   string `json:"api_key"`
}

// HandleListPooledKeys returns the pooled provider keys
func HandleListPooledKeys(c *fiber.Ctx) error {
	keys, err := repository.GetGlobalRepositories().PooledKey.List()
	if err != nil {
		return apperr.Internal("failed to list keys", err)
	}
	return success(c, keys)
}

// HandleCreatePooledKey validates and stores a pooled provider key.
// One key per provider platform-wide.
func HandleCreatePooledKey(c *fiber.Ctx) error {
	var req pooledKeyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Provider == "" || req.ApiKey == "" {
		return apperr.Validation("provider and api_key are required")
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.PooledKey.GetByProvider(req.Provider); err == nil {
		return apperr.Conflict("A key for this provider already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("failed to check existing key", err)
	}

	if err := chatService.ValidateKey(c.Context(), req.Provider, req.ApiKey); err != nil {
		return err
	}

	key := &models.AiModelApiKey{
		Provider: strings.ToLower(req.Provider),
		ApiKey:   req.ApiKey,
		AddedBy:  middleware.UserIDFromCtx(c),
	}
	if err := repos.PooledKey.Create(key); err != nil {
		return apperr.Internal("failed to store key", err)
	}
	activitylog.Info(actorEmail(c), "pooled-key-create", "added pooled key for "+key.Provider, "ai-model-api-key")
	return created(c, key)
}

// HandleUpdatePooledKey rotates the pooled key for one provider
func HandleUpdatePooledKey(c *fiber.Ctx) error {
	var req pooledKeyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Provider == "" || req.ApiKey == "" {
		return apperr.Validation("provider and api_key are required")
	}

	repos := repository.GetGlobalRepositories()
	key, err := repos.PooledKey.GetByProvider(req.Provider)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("No key stored for this provider")
		}
		return apperr.Internal("failed to load key", err)
	}

	if err := chatService.ValidateKey(c.Context(), req.Provider, req.ApiKey); err != nil {
		return err
	}

	key.ApiKey = req.ApiKey
	if err := repos.PooledKey.Update(key); err != nil {
		return apperr.Internal("failed to update key", err)
	}
	activitylog.Info(actorEmail(c), "pooled-key-update", "rotated pooled key for "+key.Provider, "ai-model-api-key")
	return success(c, key)
}

// HandleDeletePooledKey removes the pooled key for one provider and
// cascades to every catalog entry the key was backing. Key and entries
// go in one transaction, not as a store-level foreign key.
func HandleDeletePooledKey(c *fiber.Ctx) error {
	provider := c.Params("provider")
	if provider == "" {
		return apperr.Validation("provider is required")
	}

	repos := repository.GetGlobalRepositories()
	key, removed, err := repos.PooledKey.DeleteByProvider(provider)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("No key stored for this provider")
		}
		return apperr.Internal("failed to delete key", err)
	}
	activitylog.Warn(actorEmail(c), "pooled-key-delete",
		fmt.Sprintf("removed pooled key for %s and %d catalog entries", key.Provider, removed), "ai-model-api-key")
	return success(c, fiber.Map{
		"deleted":                 true,
		"removed_catalog_entries": removed,
	})
}
