package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProjectStatus enum constants
const (
	ProjectStatusPlanning  = "PLANNING"
	ProjectStatusActive    = "ACTIVE"
	ProjectStatusOnHold    = "ON_HOLD"
	ProjectStatusCompleted = "COMPLETED"
)

// Project represents one construction project owned by an account
type Project struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	ClientName string          `gorm:"type:varchar(255)" json:"client_name"`
	Address    string          `gorm:"type:text" json:"address"`
	Budget     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"budget"`
	Status     string          `gorm:"type:varchar(20);not null;default:'PLANNING';index" json:"status"`
	StartDate  *time.Time      `json:"start_date"`
	EndDate    *time.Time      `json:"end_date"`

	Phases    []Phase    `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;" json:"phases,omitempty"`
	Materials []Material `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;" json:"materials,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Phase represents one stage of a project (foundation, framing, roofing, ...)
type Phase struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	Description     string     `gorm:"type:text" json:"description"`
	SortOrder       int        `gorm:"not null;default:0" json:"sort_order"`
	ProgressPercent int        `gorm:"not null;default:0" json:"progress_percent"` // 0..100
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`

	Photos []PhasePhoto `gorm:"foreignKey:PhaseID;constraint:OnDelete:CASCADE;" json:"photos,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PhasePhoto is a photo attached to a phase. The file itself lives in
// external storage; only the URL is recorded here.
type PhasePhoto struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PhaseID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"phase_id"`
	URL        string     `gorm:"type:text;not null" json:"url"`
	Caption    string     `gorm:"type:varchar(255)" json:"caption"`
	UploadedBy *uuid.UUID `gorm:"type:uuid" json:"uploaded_by"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Material is one material line item tracked against a project
type Material struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0" json:"quantity"`
	Unit      string          `gorm:"type:varchar(30)" json:"unit"` // bags, m3, pcs...
	UnitCost  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"unit_cost"`
	Supplier  string          `gorm:"type:varchar(255)" json:"supplier"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
