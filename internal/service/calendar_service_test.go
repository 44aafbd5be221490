package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"buildtrack/backend/internal/model"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubEventRepo struct {
	events    map[uuid.UUID]*model.CalendarEvent
	attendees map[uuid.UUID][]uuid.UUID
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{
		events:    make(map[uuid.UUID]*model.CalendarEvent),
		attendees: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *stubEventRepo) Create(_ context.Context, event *model.CalendarEvent, attendeeIDs []uuid.UUID) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	clone := *event
	r.events[event.ID] = &clone
	r.attendees[event.ID] = attendeeIDs
	return nil
}

func (r *stubEventRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CalendarEvent, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	clone := *event
	return &clone, nil
}

func (r *stubEventRepo) ListBetween(_ context.Context, userID uuid.UUID, from, to time.Time) ([]model.CalendarEvent, error) {
	var out []model.CalendarEvent
	for _, e := range r.events {
		if e.StartsAt.After(to) || e.EndsAt.Before(from) {
			continue
		}
		if e.CreatedBy == userID {
			out = append(out, *e)
			continue
		}
		for _, a := range r.attendees[e.ID] {
			if a == userID {
				out = append(out, *e)
				break
			}
		}
	}
	return out, nil
}

func (r *stubEventRepo) Update(_ context.Context, event *model.CalendarEvent) error {
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *stubEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.events, id)
	delete(r.attendees, id)
	return nil
}

// stubTxManager counts how many writes the service funnels through a
// transaction boundary.
type stubTxManager struct {
	calls int
}

func (m *stubTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type quietMailer struct{}

func (m *quietMailer) Send(_ context.Context, _ []string, _, _ string) error { return nil }

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type calendarFixture struct {
	svc       CalendarService
	eventRepo *stubEventRepo
	userRepo  *stubUserRepo
	tx        *stubTxManager
	creatorID uuid.UUID
	attendees []uuid.UUID
}

func newCalendarFixture(t *testing.T) *calendarFixture {
	t.Helper()

	eventRepo := newStubEventRepo()
	userRepo := newStubUserRepo()
	tx := &stubTxManager{}

	var attendees []uuid.UUID
	for _, name := range []string{"tomas", "priya"} {
		user := &model.User{Username: name, Email: name + "@example.com", Role: "member"}
		if err := userRepo.Create(context.Background(), user); err != nil {
			t.Fatalf("seed user %s: %v", name, err)
		}
		attendees = append(attendees, user.ID)
	}

	return &calendarFixture{
		svc:       NewCalendarService(eventRepo, userRepo, tx, &quietMailer{}, nil),
		eventRepo: eventRepo,
		userRepo:  userRepo,
		tx:        tx,
		creatorID: uuid.New(),
		attendees: attendees,
	}
}

func defaultEventRequest(f *calendarFixture) CreateEventRequest {
	return CreateEventRequest{
		Title:    "Framing inspection",
		StartsAt: "2026-03-02T09:00:00Z",
		EndsAt:   "2026-03-02T10:00:00Z",
		AttendeeIDs: []string{
			f.attendees[0].String(),
			f.attendees[1].String(),
		},
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCreateEvent(t *testing.T) {
	f := newCalendarFixture(t)

	resp, err := f.svc.CreateEvent(context.Background(), f.creatorID.String(), defaultEventRequest(f))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	eventID := uuid.MustParse(resp.ID)
	if _, ok := f.eventRepo.events[eventID]; !ok {
		t.Fatal("event not stored")
	}
	if got := len(f.eventRepo.attendees[eventID]); got != 2 {
		t.Errorf("stored %d attendees, want 2", got)
	}

	// The event row and its attendee associations are one transactional write
	if f.tx.calls != 1 {
		t.Errorf("create ran %d transactions, want 1", f.tx.calls)
	}

	// Both attendees were looked up for the invitation email
	if f.userRepo.lookups != 2 {
		t.Errorf("user lookups = %d, want 2", f.userRepo.lookups)
	}
}

func TestCreateEvent_Validation(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()

	req := defaultEventRequest(f)
	req.StartsAt = "tomorrow"
	if _, err := f.svc.CreateEvent(ctx, f.creatorID.String(), req); err == nil {
		t.Error("malformed starts_at accepted")
	}

	req = defaultEventRequest(f)
	req.EndsAt = "2026-03-02T08:00:00Z" // before starts_at
	if _, err := f.svc.CreateEvent(ctx, f.creatorID.String(), req); err == nil {
		t.Error("ends_at before starts_at accepted")
	}

	req = defaultEventRequest(f)
	req.AttendeeIDs = []string{"not-a-uuid"}
	if _, err := f.svc.CreateEvent(ctx, f.creatorID.String(), req); err == nil {
		t.Error("malformed attendee id accepted")
	}

	if f.tx.calls != 0 {
		t.Errorf("validation failures opened %d transactions, want 0", f.tx.calls)
	}
}

func TestDeleteEvent(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()

	resp, err := f.svc.CreateEvent(ctx, f.creatorID.String(), defaultEventRequest(f))
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if err := f.svc.DeleteEvent(ctx, resp.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if len(f.eventRepo.events) != 0 {
		t.Error("event still stored after delete")
	}
	// One transaction for the create, one for the delete
	if f.tx.calls != 2 {
		t.Errorf("transaction count = %d, want 2", f.tx.calls)
	}

	if err := f.svc.DeleteEvent(ctx, resp.ID); err == nil {
		t.Error("deleting a missing event succeeded")
	}
}

func TestListEvents_Window(t *testing.T) {
	f := newCalendarFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateEvent(ctx, f.creatorID.String(), defaultEventRequest(f)); err != nil {
		t.Fatalf("create event: %v", err)
	}

	events, err := f.svc.ListEvents(ctx, f.creatorID.String(), "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events in window, want 1", len(events))
	}

	events, err = f.svc.ListEvents(ctx, f.creatorID.String(), "2026-04-01", "2026-04-30")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events outside window, want 0", len(events))
	}
}
