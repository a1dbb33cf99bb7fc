package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aigatehq/aigate/app/models"
)

// permissionRepository implements the PermissionRepository interface
type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new permission repository instance
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

// List retrieves the full permission registry
func (r *permissionRepository) List() ([]models.Permission, error) {
	var perms []models.Permission
	err := r.db.Order("id").Find(&perms).Error
	return perms, err
}

// UpdateName renames a permission and returns the updated row
func (r *permissionRepository) UpdateName(id uint, name string) (*models.Permission, error) {
	var perm models.Permission
	if err := r.db.First(&perm, id).Error; err != nil {
		return nil, err
	}
	perm.Name = name
	if err := r.db.Save(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

// EnsureAll inserts any missing permission names, leaving existing rows
// untouched. Runs at startup to sync the registry with the code.
func (r *permissionRepository) EnsureAll(names []string) error {
	if len(names) == 0 {
		return nil
	}
	rows := make([]models.Permission, 0, len(names))
	for _, name := range names {
		rows = append(rows, models.Permission{Name: name})
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// GetForAdmin retrieves the permissions assigned to one admin
func (r *permissionRepository) GetForAdmin(adminID uint) ([]models.Permission, error) {
	var perms []models.Permission
	err := r.db.
		Joins("JOIN admin_permissions ON admin_permissions.permission_id = permissions.id").
		Where("admin_permissions.admin_id = ?", adminID).
		Order("permissions.id").
		Find(&perms).Error
	return perms, err
}

// ListAssignments retrieves every admin/permission pair with the
// permission name joined in.
func (r *permissionRepository) ListAssignments() ([]AdminPermissionRow, error) {
	var rows []AdminPermissionRow
	err := r.db.Model(&models.AdminPermission{}).
		Select("admin_permissions.id, admin_permissions.admin_id, admin_permissions.permission_id, permissions.name AS permission").
		Joins("JOIN permissions ON permissions.id = admin_permissions.permission_id").
		Order("admin_permissions.id").
		Scan(&rows).Error
	return rows, err
}

// ReplaceForAdmin swaps an admin's assignments for the given set inside
// one transaction. The caller must reject an empty set beforehand.
func (r *permissionRepository) ReplaceForAdmin(adminID uint, permissionIDs []uint) ([]models.AdminPermission, error) {
	var created []models.AdminPermission
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("admin_id = ?", adminID).
			Delete(&models.AdminPermission{}).Error; err != nil {
			return err
		}
		for _, pid := range permissionIDs {
			created = append(created, models.AdminPermission{
				AdminID:      adminID,
				PermissionID: pid,
			})
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteForAdmin removes every assignment held by one admin
func (r *permissionRepository) DeleteForAdmin(adminID uint) error {
	return r.db.Where("admin_id = ?", adminID).
		Delete(&models.AdminPermission{}).Error
}
