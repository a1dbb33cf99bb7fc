package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/activitylog"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/hcaptcha"
	"github.com/aigatehq/aigate/internal/pkg/mail"
	"github.com/aigatehq/aigate/internal/pkg/token"
)

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captcha_token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// setTokenCookie mirrors the token TTL in the cookie lifetime
func setTokenCookie(c *fiber.Ctx, signed string) {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    signed,
		Expires:  time.Now().Add(token.DefaultTTL),
		HTTPOnly: true,
		SameSite: "Lax",
	})
}

// HandleRegister creates a user plus their credit account on the free
// plan.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	if hcaptcha.Enabled() {
		if ok, err := hcaptcha.Verify(req.CaptchaToken); err != nil || !ok {
			return apperr.Validation("Captcha verification failed")
		}
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.User.GetByEmail(req.Email); err == nil {
		return apperr.Conflict("Email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("failed to check email", err)
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return apperr.Validation(err.Error())
	}
	if err := repos.User.Create(user); err != nil {
		return apperr.Internal("failed to create user", err)
	}

	freePlan, err := repos.Subscription.GetByName(models.PLAN_FREE)
	if err != nil {
		return apperr.Internal("free plan is not seeded", err)
	}
	account := &models.Account{
		UserID:         user.ID,
		Balance:        freePlan.MonthlyCredit,
		TotalCredits:   freePlan.MonthlyCredit,
		SubscriptionID: freePlan.ID,
		LastReset:      time.Now(),
	}
	if err := repos.Account.Create(account); err != nil {
		return apperr.Internal("failed to create account", err)
	}

	if mail.Enabled() {
		go func(email, name string) {
			_ = mail.SendWelcome(email, name)
		}(user.Email, user.Name)
	}

	activitylog.Info(user.Email, "register", "new user registered", "auth")
	return created(c, user)
}

// HandleLogin authenticates a user, runs the monthly credit reset, and
// issues the session token.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Unauthorized("Invalid email or password")
		}
		return apperr.Internal("failed to load user", err)
	}
	if !user.CheckPassword(req.Password) {
		activitylog.Warn(user.Email, "login", "wrong password", "auth")
		return apperr.Unauthorized("Invalid email or password")
	}

	// The reset runs synchronously inside login. A paid plan without a
	// settled payment for the current month is a hard stop: no session
	// is issued until the payment lands.
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
	activitylog.Info(user.Email, "login", "user logged in", "auth")

	return success(c, fiber.Map{
		"token": signed,
		"user":  user,
	})
}

// HandleAdminLogin authenticates an admin and embeds their current
// permission set into the issued token. Permission edits made later only
// apply once the admin logs in again.
func HandleAdminLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	admin, err := repos.Admin.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Unauthorized("Invalid email or password")
		}
		return apperr.Internal("failed to load admin", err)
	}
	if !models.CheckPasswordHash(req.Password, admin.Password) {
		activitylog.Warn(admin.Email, "admin-login", "wrong password", "auth")
		return apperr.Unauthorized("Invalid email or password")
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
	activitylog.Info(admin.Email, "admin-login", fmt.Sprintf("admin logged in with %d permissions", len(names)), "auth")

	return success(c, fiber.Map{
		"token": signed,
		"admin": admin,
	})
}
