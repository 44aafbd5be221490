package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateProject = "CREATE_PROJECT"
	ActionUpdateProject = "UPDATE_PROJECT"
	ActionDeleteProject = "DELETE_PROJECT"
	ActionCreatePhase   = "CREATE_PHASE"
	ActionUpdatePhase   = "UPDATE_PHASE"
	ActionCreateExpense = "CREATE_EXPENSE"
	ActionCreateIncome  = "CREATE_INCOME"

	// Share link actions
	ActionCreateShareLink = "CREATE_SHARE_LINK"
	ActionRevokeShareLink = "REVOKE_SHARE_LINK"

	// Admin actions
	ActionCreateRole = "CREATE_ROLE"
	ActionUpdateRole = "UPDATE_ROLE"
	ActionDeleteRole = "DELETE_ROLE"
	ActionCreateUser = "CREATE_USER"
	ActionDeleteUser = "DELETE_USER"

	// Billing actions
	ActionActivateSubscription = "ACTIVATE_SUBSCRIPTION"
	ActionCancelSubscription   = "CANCEL_SUBSCRIPTION"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated (webhook)
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
