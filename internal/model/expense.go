package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense category constants
const (
	ExpenseCategoryLabor     = "LABOR"
	ExpenseCategoryMaterials = "MATERIALS"
	ExpenseCategoryEquipment = "EQUIPMENT"
	ExpenseCategoryPermits   = "PERMITS"
	ExpenseCategoryOther     = "OTHER"
)

// Expense represents one cost entry in a project's ledger
type Expense struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Category   string          `gorm:"type:varchar(30);not null;default:'OTHER';index" json:"category"`
	Vendor     string          `gorm:"type:varchar(255)" json:"vendor"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	PaidAt     time.Time       `gorm:"not null;index" json:"paid_at"`
	ReceiptURL string          `gorm:"type:text" json:"receipt_url"`

	Description string     `gorm:"type:text" json:"description"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Income represents one payment received against a project
type Income struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Source     string          `gorm:"type:varchar(255)" json:"source"` // client, bank draw...
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	ReceivedAt time.Time       `gorm:"not null;index" json:"received_at"`

	Description string     `gorm:"type:text" json:"description"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
