package database

import (
	"log"

	"buildtrack/backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Role{},
		&model.Permission{},
		&model.Project{},
		&model.Phase{},
		&model.PhasePhoto{},
		&model.Material{},
		&model.Expense{},
		&model.Income{},
		&model.TeamMember{},
		&model.CalendarEvent{},
		&model.Document{},
		&model.ShareLink{},
		&model.ShareComment{},
		&model.Plan{},
		&model.Subscription{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
