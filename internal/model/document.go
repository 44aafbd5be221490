package model

import (
	"time"

	"github.com/google/uuid"
)

// Document is metadata for a file kept in external storage (contracts,
// permits, drawings). The bytes never pass through this service.
type Document struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID  *uuid.UUID `gorm:"type:uuid;index" json:"project_id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	StorageURL string     `gorm:"type:text;not null" json:"storage_url"`
	MimeType   string     `gorm:"type:varchar(100)" json:"mime_type"`
	SizeBytes  int64      `gorm:"not null;default:0" json:"size_bytes"`
	UploadedBy uuid.UUID  `gorm:"type:uuid;not null;index" json:"uploaded_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
