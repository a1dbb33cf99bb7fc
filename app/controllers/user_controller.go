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
	"github.com/aigatehq/aigate/internal/pkg/utils"
)

type updateProfileRequest struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Country string `json:"country"`
}

// HandleGetProfile returns the authenticated user's profile
func HandleGetProfile(c *fiber.Ctx) error {
	userID := middleware.UserIDFromCtx(c)
	user, err := repository.GetGlobalRepositories().User.GetByID(userID)
	if err != nil {
		return apperr.Internal("failed to load profile", err)
	}
	return success(c, fiber.Map{
		"user":       user,
		"avatar_url": utils.GetGravatarURL(user.Email, 200),
	})
}

// HandleUpdateProfile updates the mutable profile fields
func HandleUpdateProfile(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	userID := middleware.UserIDFromCtx(c)
	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(userID)
	if err != nil {
		return apperr.Internal("failed to load profile", err)
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Mobile != "" {
		user.Mobile = req.Mobile
	}
	if req.Country != "" {
		user.Country = req.Country
	}
	if err := user.Validate(); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := repos.User.Update(user); err != nil {
		return apperr.Internal("failed to update profile", err)
	}
	activitylog.Info(user.Email, "profile-update", "profile updated", "users")
	return success(c, user)
}

// HandleDeleteAccount removes the user together with their credit
// account.
func HandleDeleteAccount(c *fiber.Ctx) error {
	userID := middleware.UserIDFromCtx(c)
	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(userID)
	if err != nil {
		return apperr.Internal("failed to load profile", err)
	}

	if err := repos.Account.Delete(userID); err != nil {
		return apperr.Internal("failed to delete account", err)
	}
	if err := repos.User.Delete(userID); err != nil {
		return apperr.Internal("failed to delete user", err)
	}
	c.ClearCookie("token")
	activitylog.Warn(user.Email, "account-delete", "user deleted their account", "users")
	return success(c, fiber.Map{"deleted": true})
}

// HandleGetCredits returns the spendable credits under the configured
// credit mode.
func HandleGetCredits(c *fiber.Ctx) error {
	userID := middleware.UserIDFromCtx(c)
	credit, err := creditEngine.GetAvailableCredits(userID)
	if err != nil {
		return err
	}
	return success(c, credit)
}

// HandleGetOwnKeyToggle tells the client whether the own-key chat route
// is open and whether such sends are metered.
func HandleGetOwnKeyToggle(c *fiber.Ctx) error {
	repos := repository.GetGlobalRepositories()

	readToggle := func(name string) (bool, error) {
		cfg, err := repos.Config.GetByName(name)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, apperr.Internal("failed to read config", err)
		}
		return cfg.BoolValue(), nil
	}

	enabled, err := readToggle(models.CONFIG_USER_USE_OWN_API_KEY)
	if err != nil {
		return err
	}
	metered, err := readToggle(models.CONFIG_DEDUCT_OWN_KEY)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{
		"own_key_enabled": enabled,
		"own_key_metered": metered,
	})
}
