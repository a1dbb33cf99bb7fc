package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/repository"
	"github.com/aigatehq/aigate/internal/pkg/activitylog"
	"github.com/aigatehq/aigate/internal/pkg/apperr"
	"github.com/aigatehq/aigate/internal/pkg/permissions"
)

// HandleListPermissions returns the permission registry
func HandleListPermissions(c *fiber.Ctx) error {
	perms, err := repository.GetGlobalRepositories().Permission.List()
	if err != nil {
		return apperr.Internal("failed to list permissions", err)
	}
	return success(c, perms)
}

// HandleListPermissionAssignments returns every admin/permission pair
func HandleListPermissionAssignments(c *fiber.Ctx) error {
	rows, err := repository.GetGlobalRepositories().Permission.ListAssignments()
	if err != nil {
		return apperr.Internal("failed to list assignments", err)
	}
	return success(c, rows)
}

type renamePermissionRequest struct {
	Name string `json:"name"`
}

// HandleRenamePermission renames a registry entry. The new name must
// stay inside the closed enumeration the route table understands.
func HandleRenamePermission(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req renamePermissionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if !permissions.IsKnown(req.Name) {
		return apperr.Validation("Unknown permission name")
	}

	perm, err := repository.GetGlobalRepositories().Permission.UpdateName(id, req.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Permission not found")
		}
		return apperr.Internal("failed to rename permission", err)
	}
	activitylog.Warn(actorEmail(c), "permission-rename", "renamed permission to "+perm.Name, "admin-permission")
	return success(c, perm)
}

type replacePermissionsRequest struct {
	AdminID       uint   `json:"admin_id"`
	PermissionIDs []uint `json:"permission_ids"`
}

// HandleReplaceAdminPermissions swaps an admin's permission set. An
// empty set is rejected: this path never strips an admin of every
// permission. The new set applies on the admin's next login.
func HandleReplaceAdminPermissions(c *fiber.Ctx) error {
	var req replacePermissionsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.AdminID == 0 {
		return apperr.Validation("admin_id is required")
	}
	if len(req.PermissionIDs) == 0 {
		return apperr.Validation("permission_ids must not be empty")
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Admin.GetByID(req.AdminID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Admin not found")
		}
		return apperr.Internal("failed to load admin", err)
	}

	assigned, err := repos.Permission.ReplaceForAdmin(req.AdminID, req.PermissionIDs)
	if err != nil {
		return apperr.Internal("failed to replace permissions", err)
	}
	activitylog.Warn(actorEmail(c), "permission-replace",
		fmt.Sprintf("admin %d now holds %d permissions", req.AdminID, len(assigned)), "admin-permission")
	return success(c, assigned)
}
