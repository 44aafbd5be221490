package repository

import (
	"context"
	"time"

	"buildtrack/backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.CalendarEvent, attendeeIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CalendarEvent, error)
	ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.CalendarEvent, error)
	Update(ctx context.Context, event *model.CalendarEvent) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.CalendarEvent, attendeeIDs []uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Create(event).Error; err != nil {
		return err
	}

	if len(attendeeIDs) > 0 {
		var attendees []model.User
		if err := db.Where("id IN ?", attendeeIDs).Find(&attendees).Error; err != nil {
			return err
		}
		if err := db.Model(event).Association("Attendees").Replace(attendees); err != nil {
			return err
		}
	}
	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CalendarEvent, error) {
	var event model.CalendarEvent
	if err := GetDB(ctx, r.db).Preload("Attendees").First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListBetween returns events the user created or is invited to, overlapping
// the [from, to] window.
func (r *eventRepository) ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := GetDB(ctx, r.db).
		Preload("Attendees").
		Where("starts_at <= ? AND ends_at >= ?", to, from).
		Where("created_by = ? OR id IN (SELECT calendar_event_id FROM event_attendees WHERE user_id = ?)", userID, userID).
		Order("starts_at asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *model.CalendarEvent) error {
	return GetDB(ctx, r.db).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	var event model.CalendarEvent
	if err := db.First(&event, "id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Model(&event).Association("Attendees").Clear(); err != nil {
		return err
	}
	return db.Delete(&event).Error
}
