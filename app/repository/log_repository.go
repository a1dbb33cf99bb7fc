package repository

import (
	"gorm.io/gorm"

	"github.com/aigatehq/aigate/app/models"
)

// logRepository implements the LogRepository interface
type logRepository struct {
	db *gorm.DB
}

// NewLogRepository creates a new log repository instance
func NewLogRepository(db *gorm.DB) LogRepository {
	return &logRepository{db: db}
}

// Insert persists one audit entry
func (r *logRepository) Insert(entry *models.ActivityLog) error {
	return r.db.Create(entry).Error
}

// List retrieves audit entries newest first with pagination
func (r *logRepository) List(offset, limit int) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entries).Error
	return entries, err
}

// Count returns the total number of audit entries
func (r *logRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.ActivityLog{}).Count(&count).Error
	return count, err
}
