package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
)

// adminRepository implements the AdminRepository interface
type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository instance
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Create creates a new admin account
func (r *adminRepository) Create(admin *models.Admin) error {
	admin.Email = strings.ToLower(admin.Email)
	return r.db.Create(admin).Error
}

// GetByID retrieves an admin by their ID
func (r *adminRepository) GetByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.First(&admin, id).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByEmail retrieves an admin by their email address
func (r *adminRepository) GetByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Where("email = ?", strings.ToLower(email)).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByGoogleID retrieves an admin linked to a Google account
func (r *adminRepository) GetByGoogleID(googleID string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.Where("google_id = ?", googleID).First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Update saves changes to an admin account
func (r *adminRepository) Update(admin *models.Admin) error {
	return r.db.Save(admin).Error
}

// Delete removes an admin account
func (r *adminRepository) Delete(id uint) error {
	return r.db.Delete(&models.Admin{}, id).Error
}

// List retrieves all admin accounts
func (r *adminRepository) List() ([]models.Admin, error) {
	var admins []models.Admin
	err := r.db.Order("id").Find(&admins).Error
	return admins, err
}

// UpdateLastLogin stamps the last login timestamp
func (r *adminRepository) UpdateLastLogin(id uint) error {
	now := time.Now()
	return r.db.Model(&models.Admin{}).Where("id = ?", id).
		UpdateColumn("last_login_at", now).Error
}
