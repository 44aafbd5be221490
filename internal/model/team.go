package model

import (
	"time"

	"github.com/google/uuid"
)

// TeamMember links a user to a project with a trade/title.
// A user may belong to many projects; membership is per project.
type TeamMember struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_team_project_user,unique" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_team_project_user,unique" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user"`
	Title     string    `gorm:"type:varchar(100)" json:"title"` // foreman, electrician...
	JoinedAt  time.Time `gorm:"not null" json:"joined_at"`
	CreatedAt time.Time `json:"created_at"`
}
