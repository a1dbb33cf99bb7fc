package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/activitylog"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/middleware"
)

// idParam parses the :id route parameter
func idParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id")
	}
	return uint(id), nil
}

// actorEmail names the authenticated admin for the audit trail
func actorEmail(c *fiber.Ctx) string {
	if claims := middleware.ClaimsFromCtx(c); claims != nil {
		return claims.Email
	}
	return "unknown"
}

// HandleAdminListUsers returns users with pagination
func HandleAdminListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 25)
	if limit < 1 || limit > 100 {
		limit = 25
	}

	repos := repository.GetGlobalRepositories()
	users, err := repos.User.List((page-1)*limit, limit)
	if err != nil {
		return apperr.Internal("failed to list users", err)
	}
	total, err := repos.User.Count()
	if err != nil {
		return apperr.Internal("failed to count users", err)
	}
	return success(c, fiber.Map{
		"users": users,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}

// HandleAdminGetUser returns one user with their credit account
func HandleAdminGetUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("failed to load user", err)
	}
	account, err := repos.Account.GetByUserID(id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("failed to load account", err)
	}
	return success(c, fiber.Map{
		"user":    user,
		"account": account,
	})
}

type adminUpdateUserRequest struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Country string `json:"country"`
}

// HandleAdminUpdateUser edits a user's profile fields
func HandleAdminUpdateUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req adminUpdateUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("failed to load user", err)
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
		return apperr.Internal("failed to update user", err)
	}
	activitylog.Info(actorEmail(c), "user-update", "edited user "+user.Email, "admin")
	return success(c, user)
}

// HandleAdminDeleteUser removes a user and their credit account
func HandleAdminDeleteUser(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal("failed to load user", err)
	}
	if err := repos.Account.Delete(id); err != nil {
		return apperr.Internal("failed to delete account", err)
	}
	if err := repos.User.Delete(id); err != nil {
		return apperr.Internal("failed to delete user", err)
	}
	activitylog.Warn(actorEmail(c), "user-delete", "deleted user "+user.Email, "admin")
	return success(c, fiber.Map{"deleted": true})
}

type editCreditsRequest struct {
	Balance      int64 `json:"balance"`
	TotalCredits int64 `json:"total_credits"`
}

// HandleAdminUpdateUserCredits overwrites a user's credit columns
func HandleAdminUpdateUserCredits(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req editCreditsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Balance < 0 || req.TotalCredits < 0 {
		return apperr.Validation("credits cannot be negative")
	}

	account, err := repository.GetGlobalRepositories().Account.UpdateCredits(id, req.Balance, req.TotalCredits)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Account not found")
		}
		return apperr.Internal("failed to update credits", err)
	}
	activitylog.Warn(actorEmail(c), "credits-edit",
		fmt.Sprintf("set user %d credits to balance=%d total=%d", id, req.Balance, req.TotalCredits), "admin")
	return success(c, account)
}

type createAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

// HandleAdminListAdmins returns all admin accounts
func HandleAdminListAdmins(c *fiber.Ctx) error {
	admins, err := repository.GetGlobalRepositories().Admin.List()
	if err != nil {
		return apperr.Internal("failed to list admins", err)
	}
	return success(c, admins)
}

// HandleAdminCreateAdmin creates a new admin account
func HandleAdminCreateAdmin(c *fiber.Ctx) error {
	var req createAdminRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Admin.GetByEmail(req.Email); err == nil {
		return apperr.Conflict("Email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("failed to check email", err)
	}

	hash, err := models.HashPassword(req.Password)
	if err != nil {
		return apperr.Validation("invalid password")
	}
	userType := req.UserType
	if userType == "" {
		userType = "0"
	}
	admin := &models.Admin{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		UserType: userType,
	}
	if err := admin.Validate(); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := repos.Admin.Create(admin); err != nil {
		return apperr.Internal("failed to create admin", err)
	}
	activitylog.Warn(actorEmail(c), "admin-create", "created admin "+admin.Email, "admin")
	return created(c, admin)
}

// HandleAdminUpdateAdmin edits an admin account
func HandleAdminUpdateAdmin(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req createAdminRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	repos := repository.GetGlobalRepositories()
	admin, err := repos.Admin.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Admin not found")
		}
		return apperr.Internal("failed to load admin", err)
	}
	if req.Name != "" {
		admin.Name = req.Name
	}
	if req.UserType != "" {
		admin.UserType = req.UserType
	}
	if req.Password != "" {
		hash, err := models.HashPassword(req.Password)
		if err != nil {
			return apperr.Validation("invalid password")
		}
		admin.Password = hash
	}
	if err := admin.Validate(); err != nil {
		return apperr.Validation(err.Error())
	}
	if err := repos.Admin.Update(admin); err != nil {
		return apperr.Internal("failed to update admin", err)
	}
	activitylog.Warn(actorEmail(c), "admin-update", "edited admin "+admin.Email, "admin")
	return success(c, admin)
}

// HandleAdminDeleteAdmin removes an admin together with their
// permission assignments.
func HandleAdminDeleteAdmin(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	repos := repository.GetGlobalRepositories()
	admin, err := repos.Admin.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Admin not found")
		}
		return apperr.Internal("failed to load admin", err)
	}
	if err := repos.Permission.DeleteForAdmin(id); err != nil {
		return apperr.Internal("failed to clear permissions", err)
	}
	if err := repos.Admin.Delete(id); err != nil {
		return apperr.Internal("failed to delete admin", err)
	}
	activitylog.Warn(actorEmail(c), "admin-delete", "deleted admin "+admin.Email, "admin")
	return success(c, fiber.Map{"deleted": true})
}
