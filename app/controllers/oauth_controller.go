package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/activitylog"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/oauth"
	"github.com/aigatehq/aigate/internal/pkg/token"
)

// withProvider pins the Goth provider name for routes that do not carry
// a :provider param.
func withProvider(c *fiber.Ctx, name string) {
	c.Request().URI().QueryArgs().Set("provider", name)
}

// HandleGoogleAuth starts the Google OAuth flow for users
func HandleGoogleAuth(c *fiber.Ctx) error {
	withProvider(c, oauth.ProviderGoogle)
	return gothfiber.BeginAuthHandler(c)
}

// HandleGoogleAdminAuth starts the Google OAuth flow for admins
func HandleGoogleAdminAuth(c *fiber.Ctx) error {
	withProvider(c, oauth.ProviderGoogleAdmin)
	return gothfiber.BeginAuthHandler(c)
}

// HandleGoogleCallback completes the user OAuth flow. A first-time
// Google identity is linked to an existing account by email or
// provisioned fresh on the free plan.
func HandleGoogleCallback(c *fiber.Ctx) error {
	withProvider(c, oauth.ProviderGoogle)
	gu, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		return apperr.Unauthorized("OAuth flow failed")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByGoogleID(gu.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal("failed to look up identity", err)
		}
		user, err = linkOrCreateUser(gu.UserID, gu.Email, gu.Name)
		if err != nil {
			return err
		}
	}

	// Same login path as password auth from here on: the reset's hard
	// stop fails the callback too.
	if _, err := creditEngine.CheckAndReset(user.ID); err != nil {
		activitylog.Warn(user.Email, "login", "credit reset failed: "+err.Error(), "credits")
		return err
	}

	signed, err := token.Sign(token.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   token.RoleUser,
	}, token.DefaultTTL)
	if err != nil {
		return apperr.Internal("failed to sign token", err)
	}
	setTokenCookie(c, signed)

	if err := repos.User.UpdateLastLogin(user.ID); err != nil {
		return apperr.Internal("failed to stamp login", err)
	}
	activitylog.Info(user.Email, "login", "user logged in via google", "auth")

	return success(c, fiber.Map{
		"token": signed,
		"user":  user,
	})
}

// HandleGoogleAdminCallback completes the admin OAuth flow. Admins are
// never auto-provisioned: the Google identity must map to an existing
// admin row by google id or email.
func HandleGoogleAdminCallback(c *fiber.Ctx) error {
	withProvider(c, oauth.ProviderGoogleAdmin)
	gu, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		return apperr.Unauthorized("OAuth flow failed")
	}

	repos := repository.GetGlobalRepositories()
	admin, err := repos.Admin.GetByGoogleID(gu.UserID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Internal("failed to look up identity", err)
		}
		admin, err = repos.Admin.GetByEmail(gu.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Unauthorized("No admin account for this identity")
			}
			return apperr.Internal("failed to look up admin", err)
		}
		admin.GoogleID = gu.UserID
		if err := repos.Admin.Update(admin); err != nil {
			return apperr.Internal("failed to link google identity", err)
		}
	}

	perms, err := repos.Permission.GetForAdmin(admin.ID)
	if err != nil {
		return apperr.Internal("failed to load permissions", err)
	}
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}

	signed, err := token.Sign(token.Claims{
		UserID:      admin.ID,
		Email:       admin.Email,
		Role:        token.RoleAdmin,
		IsAdmin:     true,
		Permissions: names,
	}, token.DefaultTTL)
	if err != nil {
		return apperr.Internal("failed to sign token", err)
	}
	setTokenCookie(c, signed)

	if err := repos.Admin.UpdateLastLogin(admin.ID); err != nil {
		return apperr.Internal("failed to stamp login", err)
	}
	activitylog.Info(admin.Email, "admin-login", "admin logged in via google", "auth")

	return success(c, fiber.Map{
		"token": signed,
		"admin": admin,
	})
}

// linkOrCreateUser attaches a Google identity to an existing user by
// email, or provisions a new user on the free plan.
func linkOrCreateUser(googleID, email, name string) (*models.User, error) {
	repos := repository.GetGlobalRepositories()

	if email != "" {
		existing, err := repos.User.GetByEmail(email)
		if err == nil {
			if err := repos.User.SetGoogleID(email, googleID); err != nil {
				return nil, apperr.Internal("failed to link google identity", err)
			}
			existing.GoogleID = googleID
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Internal("failed to look up email", err)
		}
	}

	// Validation requires a password; OAuth users get a throwaway one.
	placeholder := fmt.Sprintf("oauth_%d", time.Now().UnixNano())
	if name == "" {
		name = "Google User"
	}
	user, err := models.CreateUser(name, email, placeholder)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	user.GoogleID = googleID
	if err := repos.User.Create(user); err != nil {
		return nil, apperr.Internal("failed to create user", err)
	}

	freePlan, err := repos.Subscription.GetByName(models.PLAN_FREE)
	if err != nil {
		return nil, apperr.Internal("free plan is not seeded", err)
	}
	account := &models.Account{
		UserID:         user.ID,
		Balance:        freePlan.MonthlyCredit,
		TotalCredits:   freePlan.MonthlyCredit,
		SubscriptionID: freePlan.ID,
		LastReset:      time.Now(),
	}
	if err := repos.Account.Create(account); err != nil {
		return nil, apperr.Internal("failed to create account", err)
	}
	activitylog.Info(user.Email, "register", "user provisioned via google", "auth")
	return user, nil
}
