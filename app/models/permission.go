package models

import "time"

// Permission maps a numeric id to a named capability string such as
// "user:create". The catalog is synced from the closed enumeration in
// internal/pkg/permissions at startup.
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;type:varchar(100);not null" json:"permission"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// AdminPermission assigns one permission to one limited admin.
// Super-admins carry no rows; their bypass is by user_type.
type AdminPermission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AdminID      uint      `gorm:"index:idx_admin_permission,unique;not null" json:"admin_id"`
	PermissionID uint      `gorm:"index:idx_admin_permission,unique;not null" json:"permission_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Admin      Admin      `gorm:"foreignKey:AdminID" json:"-"`
	Permission Permission `gorm:"foreignKey:PermissionID" json:"-"`
}
