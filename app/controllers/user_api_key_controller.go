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

type userKeyRequest struct {
	Provider string `json:"provider"`
	ApiKey   string `json:"api_key"`
}

// HandleListUserKeys returns the caller's stored provider keys
func HandleListUserKeys(c *fiber.Ctx) error {
	userID := middleware.UserIDFromCtx(c)
	keys, err := repository.GetGlobalRepositories().UserKey.ListByUser(userID)
	if err != nil {
		return apperr.Internal("failed to list keys", err)
	}
	return success(c, keys)
}

// HandleCreateUserKey validates and stores a user-owned provider key.
// One key per provider per user; the duplicate case is a conflict, the
// existing row is untouched.
func HandleCreateUserKey(c *fiber.Ctx) error {
	var req userKeyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Provider == "" || req.ApiKey == "" {
		return apperr.Validation("provider and api_key are required")
	}

	userID := middleware.UserIDFromCtx(c)
	repos := repository.GetGlobalRepositories()

	if _, err := repos.UserKey.GetByUserAndProvider(userID, req.Provider); err == nil {
		return apperr.Conflict("A key for this provider already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("failed to check existing key", err)
	}

	if err := chatService.ValidateKey(c.Context(), req.Provider, req.ApiKey); err != nil {
		return err
	}

	key := &models.UserApiKey{
		UserID:   userID,
		Provider: strings.ToLower(req.Provider),
		ApiKey:   req.ApiKey,
	}
	if err := repos.UserKey.Create(key); err != nil {
		return apperr.Internal("failed to store key", err)
	}
	activitylog.Info(middleware.ClaimsFromCtx(c).Email, "user-key-create", "stored key for "+key.Provider, "user-api-key")
	return created(c, key)
}

// HandleUpdateUserKey replaces the stored key for one provider after
// re-validation.
func HandleUpdateUserKey(c *fiber.Ctx) error {
	var req userKeyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Provider == "" || req.ApiKey == "" {
		return apperr.Validation("provider and api_key are required")
	}

	userID := middleware.UserIDFromCtx(c)
	repos := repository.GetGlobalRepositories()
	key, err := repos.UserKey.GetByUserAndProvider(userID, req.Provider)
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
	if err := repos.UserKey.Update(key); err != nil {
		return apperr.Internal("failed to update key", err)
	}
	activitylog.Info(middleware.ClaimsFromCtx(c).Email, "user-key-update", "rotated key for "+key.Provider, "user-api-key")
	return success(c, key)
}

// HandleDeleteUserKey removes the caller's key for one provider
func HandleDeleteUserKey(c *fiber.Ctx) error {
	provider := c.Params("provider")
	if provider == "" {
		return apperr.Validation("provider is required")
	}

	userID := middleware.UserIDFromCtx(c)
	key, err := repository.GetGlobalRepositories().UserKey.DeleteByUserAndProvider(userID, provider)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("No key stored for this provider")
		}
		return apperr.Internal("failed to delete key", err)
	}
	activitylog.Info(middleware.ClaimsFromCtx(c).Email, "user-key-delete", "removed key for "+key.Provider, "user-api-key")
	return success(c, key)
}
