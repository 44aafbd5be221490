package model

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a named bundle of permissions, scoped to the administrator
// who created it. Role names are unique per creator. A user is assigned at
// most one role by name; the name is snapshotted into the user row at setup
// time, so later role edits only reach a user at their next login.
type Role struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(50);not null;index:idx_role_creator_name,unique" json:"name"`
	CreatedBy   *uuid.UUID   `gorm:"type:uuid;index:idx_role_creator_name,unique" json:"created_by"` // nil for system roles
	Description string       `gorm:"type:text" json:"description"`
	IsSystem    bool         `gorm:"default:false" json:"is_system"` // Prevent deletion of built-in roles
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Permission is one row of the closed permission vocabulary. The table is
// seeded from the static vocabulary in internal/permission; role creation
// rejects codes outside it.
type Permission struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code  string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"` // e.g. "view_projects"
	Name  string    `gorm:"type:varchar(255);not null" json:"name"`
	Group string    `gorm:"type:varchar(50);not null;index" json:"group"` // "projects", "finance"...
}
