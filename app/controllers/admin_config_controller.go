package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/activitylog"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/middleware"
)

type configRequest struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// HandleListConfigs returns all platform config entries. Reads are
// unscoped; only mutation is creator-scoped.
func HandleListConfigs(c *fiber.Ctx) error {
	entries, err := repository.GetGlobalRepositories().Config.List()
	if err != nil {
		return apperr.Internal("failed to list configs", err)
	}
	return success(c, entries)
}

// HandleCreateConfig creates a config entry owned by the calling admin
func HandleCreateConfig(c *fiber.Ctx) error {
	var req configRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Config.GetByName(req.Name); err == nil {
		return apperr.Conflict("A config with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("failed to check config", err)
	}

	cfg := &models.AdminConfig{
		Name:        req.Name,
		Value:       req.Value,
		Description: req.Description,
		Type:        req.Type,
		AddedBy:     middleware.UserIDFromCtx(c),
	}
	if err := cfg.Validate(); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := repos.Config.Create(cfg); err != nil {
		return apperr.Internal("failed to create config", err)
	}
	activitylog.Info(actorEmail(c), "config-create", "created config "+cfg.Name, "admin-config")
	return created(c, cfg)
}

// loadOwnConfig fetches a config entry and enforces creator scoping
func loadOwnConfig(c *fiber.Ctx) (*models.AdminConfig, error) {
	id, err := idParam(c)
	if err != nil {
		return nil, err
	}
	entries, err := repository.GetGlobalRepositories().Config.List()
	if err != nil {
		return nil, apperr.Internal("failed to load configs", err)
	}
	for i := range entries {
		if entries[i].ID == id {
			if entries[i].AddedBy != middleware.UserIDFromCtx(c) {
				return nil, apperr.Forbidden("Only the creator may change this config")
			}
			return &entries[i], nil
		}
	}
	return nil, apperr.NotFound("Config not found")
}

// HandleUpdateConfig edits a config entry; only its creator may
func HandleUpdateConfig(c *fiber.Ctx) error {
	cfg, err := loadOwnConfig(c)
	if err != nil {
		return err
	}
	var req configRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Value != "" {
		cfg.Value = req.Value
	}
	if req.Description != "" {
		cfg.Description = req.Description
	}
	if req.Type != "" {
		cfg.Type = req.Type
	}
	if err := cfg.Validate(); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := repository.GetGlobalRepositories().Config.Update(cfg); err != nil {
		return apperr.Internal("failed to update config", err)
	}
	activitylog.Info(actorEmail(c), "config-update", "updated config "+cfg.Name, "admin-config")
	return success(c, cfg)
}

// HandleDeleteConfig removes a config entry; only its creator may
func HandleDeleteConfig(c *fiber.Ctx) error {
	cfg, err := loadOwnConfig(c)
	if err != nil {
		return err
	}
	if err := repository.GetGlobalRepositories().Config.Delete(cfg.ID); err != nil {
		return apperr.Internal("failed to delete config", err)
	}
	activitylog.Warn(actorEmail(c), "config-delete", "deleted config "+cfg.Name, "admin-config")
	return success(c, fiber.Map{"deleted": true})
}
