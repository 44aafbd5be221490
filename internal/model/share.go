package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ShareType enum constants
const (
	ShareTypePublic  = "public"
	ShareTypePrivate = "private"
)

// Expiry unit constants
const (
	ExpiryUnitMinutes = "minutes"
	ExpiryUnitHours   = "hours"
)

// Share link errors. Handlers map these to HTTP status codes.
var (
	ErrShareNotFound        = errors.New("share link not found")
	ErrShareExpired         = errors.New("share link has expired")
	ErrShareUnauthorized    = errors.New("missing or incorrect share link password")
	ErrShareForbidden       = errors.New("only the creator can revoke a share link")
	ErrShareInvalidOptions  = errors.New("at least one share option must be enabled")
	ErrShareMissingPassword = errors.New("a password is required for private share links")
	ErrShareInvalidExpiry   = errors.New("expiry amount must be a positive number of minutes or hours")
)

// ShareLink is a revocable, time-boxed capability granting anonymous read
// access to a filtered slice of one project's data. The row's UUID doubles
// as the public link token: {origin}/shared/{id}.
type ShareLink struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"created_by"`

	ShareType    string `gorm:"type:varchar(10);not null;default:'public'" json:"share_type"`
	PasswordHash string `gorm:"type:varchar(255)" json:"-"` // bcrypt; empty for public links

	// Share options: which data categories the link exposes.
	SharePhases    bool `gorm:"default:false" json:"share_phases"`
	ShareExpenses  bool `gorm:"default:false" json:"share_expenses"`
	ShareIncome    bool `gorm:"default:false" json:"share_income"`
	ShareMaterials bool `gorm:"default:false" json:"share_materials"`
	SharePhotos    bool `gorm:"default:false" json:"share_photos"`
	ShareTeam      bool `gorm:"default:false" json:"share_team"`

	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	ViewCount int64     `gorm:"default:0" json:"view_count"`

	Comments []ShareComment `gorm:"foreignKey:ShareLinkID;constraint:OnDelete:CASCADE;" json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Usable reports whether the link can still be resolved by a viewer at the
// given instant. Expired links stay queryable for the owner's management view.
func (s *ShareLink) Usable(now time.Time) bool {
	return s.IsActive && !now.After(s.ExpiresAt)
}

// HasAnyOption reports whether at least one data category is shared.
func (s *ShareLink) HasAnyOption() bool {
	return s.SharePhases || s.ShareExpenses || s.ShareIncome ||
		s.ShareMaterials || s.SharePhotos || s.ShareTeam
}

// ShareComment is an append-only visitor comment on a share link.
// No edit or delete is exposed for individual comments.
type ShareComment struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ShareLinkID uuid.UUID `gorm:"type:uuid;not null;index" json:"share_link_id"`
	AuthorName  string    `gorm:"type:varchar(255);not null" json:"author_name"`
	Comment     string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
