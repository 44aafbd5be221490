package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buildtrack/backend/internal/mailer"
	"buildtrack/backend/internal/model"
	"buildtrack/backend/internal/repository"
	"buildtrack/backend/internal/websocket"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateEventRequest struct {
	ProjectID   string   `json:"project_id"`
	Title       string   `json:"title" binding:"required"`
	Notes       string   `json:"notes"`
	StartsAt    string   `json:"starts_at" binding:"required"` // RFC3339
	EndsAt      string   `json:"ends_at" binding:"required"`
	AllDay      bool     `json:"all_day"`
	AttendeeIDs []string `json:"attendee_ids"`
}

type UpdateEventRequest struct {
	Title    string `json:"title"`
	Notes    string `json:"notes"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
	AllDay   *bool  `json:"all_day"`
}

type EventResponse struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"project_id,omitempty"`
	Title     string   `json:"title"`
	Notes     string   `json:"notes,omitempty"`
	StartsAt  string   `json:"starts_at"`
	EndsAt    string   `json:"ends_at"`
	AllDay    bool     `json:"all_day"`
	CreatedBy string   `json:"created_by"`
	Attendees []string `json:"attendees,omitempty"` // attendee names
}

// --- Interface ---

type CalendarService interface {
	CreateEvent(ctx context.Context, creatorID string, req CreateEventRequest) (*EventResponse, error)
	ListEvents(ctx context.Context, userID, from, to string) ([]EventResponse, error)
	UpdateEvent(ctx context.Context, eventID string, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

type calendarService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	txManager repository.TransactionManager
	mail      mailer.Mailer
	hub       *websocket.Hub
}

func NewCalendarService(
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	txManager repository.TransactionManager,
	mail mailer.Mailer,
	hub *websocket.Hub,
) CalendarService {
	return &calendarService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		txManager: txManager,
		mail:      mail,
		hub:       hub,
	}
}

// --- Implementation ---

func (s *calendarService) CreateEvent(ctx context.Context, creatorID string, req CreateEventRequest) (*EventResponse, error) {
	creator, err := uuid.Parse(creatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid creator id: %w", err)
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("invalid starts_at: %w", err)
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("invalid ends_at: %w", err)
	}
	if endsAt.Before(startsAt) {
		return nil, errors.New("ends_at must not be before starts_at")
	}

	var projectID *uuid.UUID
	if req.ProjectID != "" {
		parsed, err := uuid.Parse(req.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("invalid project id: %w", err)
		}
		projectID = &parsed
	}

	attendeeIDs := make([]uuid.UUID, 0, len(req.AttendeeIDs))
	for _, raw := range req.AttendeeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid attendee id '%s': %w", raw, err)
		}
		attendeeIDs = append(attendeeIDs, id)
	}

	event := &model.CalendarEvent{
		ProjectID: projectID,
		Title:     req.Title,
		Notes:     req.Notes,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		AllDay:    req.AllDay,
		CreatedBy: creator,
	}

	// Event row and attendee associations commit or roll back together.
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.eventRepo.Create(txCtx, event, attendeeIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.notifyAttendees(ctx, event, attendeeIDs)

	if s.hub != nil && projectID != nil {
		s.hub.BroadcastEvent(websocket.Event{
			Type:      websocket.EventCalendarCreated,
			ProjectID: projectID.String(),
			Payload:   map[string]interface{}{"event_id": event.ID.String(), "title": event.Title},
		})
	}

	resp := toEventResponse(event)
	return &resp, nil
}

func (s *calendarService) ListEvents(ctx context.Context, userID, from, to string) ([]EventResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	// Default window is the current month
	now := time.Now()
	fromTime := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	toTime := fromTime.AddDate(0, 1, 0)

	if from != "" {
		fromTime, err = time.Parse("2006-01-02", from)
		if err != nil {
			return nil, fmt.Errorf("invalid from date: %w", err)
		}
	}
	if to != "" {
		toTime, err = time.Parse("2006-01-02", to)
		if err != nil {
			return nil, fmt.Errorf("invalid to date: %w", err)
		}
	}

	events, err := s.eventRepo.ListBetween(ctx, uid, fromTime, toTime)
	if err != nil {
		return nil, err
	}

	res := make([]EventResponse, 0, len(events))
	for i := range events {
		res = append(res, toEventResponse(&events[i]))
	}
	return res, nil
}

func (s *calendarService) UpdateEvent(ctx context.Context, eventID string, req UpdateEventRequest) (*EventResponse, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event id: %w", err)
	}

	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("event not found")
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Notes != "" {
		event.Notes = req.Notes
	}
	if req.StartsAt != "" {
		startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			return nil, fmt.Errorf("invalid starts_at: %w", err)
		}
		event.StartsAt = startsAt
	}
	if req.EndsAt != "" {
		endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return nil, fmt.Errorf("invalid ends_at: %w", err)
		}
		event.EndsAt = endsAt
	}
	if req.AllDay != nil {
		event.AllDay = *req.AllDay
	}
	if event.EndsAt.Before(event.StartsAt) {
		return nil, errors.New("ends_at must not be before starts_at")
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	resp := toEventResponse(event)
	return &resp, nil
}

func (s *calendarService) DeleteEvent(ctx context.Context, eventID string) error {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event id: %w", err)
	}

	if _, err := s.eventRepo.FindByID(ctx, id); err != nil {
		return errors.New("event not found")
	}

	// Attendee cleanup and the event delete are one atomic unit.
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.eventRepo.Delete(txCtx, id)
	})
}

// notifyAttendees emails every attendee about the new event. Delivery is
// fire and forget; a failed send never fails event creation.
func (s *calendarService) notifyAttendees(ctx context.Context, event *model.CalendarEvent, attendeeIDs []uuid.UUID) {
	if s.mail == nil || len(attendeeIDs) == 0 {
		return
	}

	recipients := make([]string, 0, len(attendeeIDs))
	for _, id := range attendeeIDs {
		user, err := s.userRepo.GetByID(ctx, id.String())
		if err != nil {
			continue
		}
		recipients = append(recipients, user.Email)
	}
	if len(recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("Invitation: %s", event.Title)
	body := fmt.Sprintf("You have been invited to \"%s\" from %s to %s.",
		event.Title,
		event.StartsAt.Format(time.RFC1123),
		event.EndsAt.Format(time.RFC1123),
	)
	mailer.SendAsync(s.mail, recipients, subject, body)
}

func toEventResponse(e *model.CalendarEvent) EventResponse {
	resp := EventResponse{
		ID:        e.ID.String(),
		Title:     e.Title,
		Notes:     e.Notes,
		StartsAt:  e.StartsAt.Format(time.RFC3339),
		EndsAt:    e.EndsAt.Format(time.RFC3339),
		AllDay:    e.AllDay,
		CreatedBy: e.CreatedBy.String(),
	}
	if e.ProjectID != nil {
		resp.ProjectID = e.ProjectID.String()
	}
	for _, a := range e.Attendees {
		resp.Attendees = append(resp.Attendees, a.Username)
	}
	return resp
}
