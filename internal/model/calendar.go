package model

import (
	"time"

	"github.com/google/uuid"
)

// CalendarEvent is a scheduled entry, optionally tied to a project.
// Attendees receive a fire-and-forget email on creation.
type CalendarEvent struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"project_id"`
	Title     string     `gorm:"type:varchar(255);not null" json:"title"`
	Notes     string     `gorm:"type:text" json:"notes"`
	StartsAt  time.Time  `gorm:"not null;index" json:"starts_at"`
	EndsAt    time.Time  `gorm:"not null" json:"ends_at"`
	AllDay    bool       `gorm:"default:false" json:"all_day"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by"`

	Attendees []User `gorm:"many2many:event_attendees;" json:"attendees,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
