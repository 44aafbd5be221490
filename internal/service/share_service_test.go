package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"buildtrack/backend/internal/model"
	"buildtrack/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubShareRepo struct {
	links    map[uuid.UUID]*model.ShareLink
	comments map[uuid.UUID][]model.ShareComment
}

func newStubShareRepo() *stubShareRepo {
	return &stubShareRepo{
		links:    make(map[uuid.UUID]*model.ShareLink),
		comments: make(map[uuid.UUID][]model.ShareComment),
	}
}

func (r *stubShareRepo) Create(_ context.Context, link *model.ShareLink) error {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	link.CreatedAt = time.Now()
	clone := *link
	r.links[link.ID] = &clone
	return nil
}

func (r *stubShareRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ShareLink, error) {
	link, ok := r.links[id]
	if !ok {
		return nil, model.ErrShareNotFound
	}
	clone := *link
	return &clone, nil
}

func (r *stubShareRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]model.ShareLink, error) {
	var out []model.ShareLink
	for _, link := range r.links {
		if link.ProjectID == projectID {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (r *stubShareRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.links[id]; !ok {
		return model.ErrShareNotFound
	}
	delete(r.links, id)
	return nil
}

func (r *stubShareRepo) IncrementViewCount(_ context.Context, id uuid.UUID) error {
	link, ok := r.links[id]
	if !ok {
		return model.ErrShareNotFound
	}
	link.ViewCount++
	return nil
}

func (r *stubShareRepo) AppendComment(_ context.Context, comment *model.ShareComment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	r.comments[comment.ShareLinkID] = append(r.comments[comment.ShareLinkID], *comment)
	return nil
}

// ListComments returns most recent first, mirroring the real query order.
func (r *stubShareRepo) ListComments(_ context.Context, linkID uuid.UUID) ([]model.ShareComment, error) {
	stored := r.comments[linkID]
	out := make([]model.ShareComment, len(stored))
	for i, c := range stored {
		out[len(stored)-1-i] = c
	}
	return out, nil
}

type stubProjectRepo struct {
	projects map[uuid.UUID]*model.Project
	phases   map[uuid.UUID][]model.Phase
	photos   map[uuid.UUID][]model.PhasePhoto
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{
		projects: make(map[uuid.UUID]*model.Project),
		phases:   make(map[uuid.UUID][]model.Phase),
		photos:   make(map[uuid.UUID][]model.PhasePhoto),
	}
}

func (r *stubProjectRepo) Create(_ context.Context, p *model.Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	clone := *p
	r.projects[p.ID] = &clone
	return nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	clone := *p
	return &clone, nil
}

func (r *stubProjectRepo) FindByIDWithPhases(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Phases = r.phases[id]
	return p, nil
}

func (r *stubProjectRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, _, _ int) ([]model.Project, int64, error) {
	var out []model.Project
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubProjectRepo) CountByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *stubProjectRepo) Update(_ context.Context, p *model.Project) error {
	clone := *p
	r.projects[p.ID] = &clone
	return nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.projects, id)
	return nil
}

func (r *stubProjectRepo) CreatePhase(_ context.Context, phase *model.Phase) error {
	if phase.ID == uuid.Nil {
		phase.ID = uuid.New()
	}
	r.phases[phase.ProjectID] = append(r.phases[phase.ProjectID], *phase)
	return nil
}

func (r *stubProjectRepo) FindPhaseByID(_ context.Context, id uuid.UUID) (*model.Phase, error) {
	for _, list := range r.phases {
		for _, p := range list {
			if p.ID == id {
				clone := p
				return &clone, nil
			}
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubProjectRepo) ListPhases(_ context.Context, projectID uuid.UUID) ([]model.Phase, error) {
	return r.phases[projectID], nil
}

func (r *stubProjectRepo) UpdatePhase(_ context.Context, phase *model.Phase) error {
	list := r.phases[phase.ProjectID]
	for i := range list {
		if list[i].ID == phase.ID {
			list[i] = *phase
		}
	}
	return nil
}

func (r *stubProjectRepo) DeletePhase(_ context.Context, id uuid.UUID) error {
	for pid, list := range r.phases {
		for i, p := range list {
			if p.ID == id {
				r.phases[pid] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *stubProjectRepo) CreatePhoto(_ context.Context, photo *model.PhasePhoto) error {
	if photo.ID == uuid.Nil {
		photo.ID = uuid.New()
	}
	r.photos[photo.PhaseID] = append(r.photos[photo.PhaseID], *photo)
	return nil
}

func (r *stubProjectRepo) ListPhotosByProject(_ context.Context, projectID uuid.UUID) ([]model.PhasePhoto, error) {
	var out []model.PhasePhoto
	for _, phase := range r.phases[projectID] {
		out = append(out, r.photos[phase.ID]...)
	}
	return out, nil
}

func (r *stubProjectRepo) DeletePhoto(_ context.Context, id uuid.UUID) error {
	for pid, list := range r.photos {
		for i, p := range list {
			if p.ID == id {
				r.photos[pid] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

type stubFinanceRepo struct {
	expenses map[uuid.UUID][]model.Expense
	income   map[uuid.UUID][]model.Income
}

func newStubFinanceRepo() *stubFinanceRepo {
	return &stubFinanceRepo{
		expenses: make(map[uuid.UUID][]model.Expense),
		income:   make(map[uuid.UUID][]model.Income),
	}
}

func (r *stubFinanceRepo) CreateExpense(_ context.Context, e *model.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.expenses[e.ProjectID] = append(r.expenses[e.ProjectID], *e)
	return nil
}

func (r *stubFinanceRepo) ListExpenses(_ context.Context, projectID uuid.UUID, _, _ int) ([]model.Expense, int64, error) {
	list := r.expenses[projectID]
	return list, int64(len(list)), nil
}

func (r *stubFinanceRepo) ListAllExpenses(_ context.Context, projectID uuid.UUID) ([]model.Expense, error) {
	return r.expenses[projectID], nil
}

func (r *stubFinanceRepo) DeleteExpense(_ context.Context, id uuid.UUID) error {
	for pid, list := range r.expenses {
		for i, e := range list {
			if e.ID == id {
				r.expenses[pid] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *stubFinanceRepo) CreateIncome(_ context.Context, in *model.Income) error {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	r.income[in.ProjectID] = append(r.income[in.ProjectID], *in)
	return nil
}

func (r *stubFinanceRepo) ListAllIncome(_ context.Context, projectID uuid.UUID) ([]model.Income, error) {
	return r.income[projectID], nil
}

func (r *stubFinanceRepo) ListIncome(_ context.Context, projectID uuid.UUID, _, _ int) ([]model.Income, int64, error) {
	list := r.income[projectID]
	return list, int64(len(list)), nil
}

func (r *stubFinanceRepo) DeleteIncome(_ context.Context, id uuid.UUID) error {
	for pid, list := range r.income {
		for i, in := range list {
			if in.ID == id {
				r.income[pid] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *stubFinanceRepo) GetSummary(_ context.Context, projectID uuid.UUID) (*repository.FinanceSummaryRow, error) {
	totalExpenses := decimal.Zero
	for _, e := range r.expenses[projectID] {
		totalExpenses = totalExpenses.Add(e.Amount)
	}
	totalIncome := decimal.Zero
	for _, in := range r.income[projectID] {
		totalIncome = totalIncome.Add(in.Amount)
	}
	return &repository.FinanceSummaryRow{
		TotalExpenses: totalExpenses.String(),
		TotalIncome:   totalIncome.String(),
		ExpenseCount:  len(r.expenses[projectID]),
		IncomeCount:   len(r.income[projectID]),
	}, nil
}

type stubMaterialRepo struct {
	materials map[uuid.UUID][]model.Material
}

func newStubMaterialRepo() *stubMaterialRepo {
	return &stubMaterialRepo{materials: make(map[uuid.UUID][]model.Material)}
}

func (r *stubMaterialRepo) Create(_ context.Context, m *model.Material) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.materials[m.ProjectID] = append(r.materials[m.ProjectID], *m)
	return nil
}

func (r *stubMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Material, error) {
	for _, list := range r.materials {
		for _, m := range list {
			if m.ID == id {
				clone := m
				return &clone, nil
			}
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubMaterialRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]model.Material, error) {
	return r.materials[projectID], nil
}

func (r *stubMaterialRepo) Update(_ context.Context, _ *model.Material) error { return nil }

func (r *stubMaterialRepo) Delete(_ context.Context, id uuid.UUID) error {
	for pid, list := range r.materials {
		for i, m := range list {
			if m.ID == id {
				r.materials[pid] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

type stubTeamRepo struct {
	members map[uuid.UUID][]model.TeamMember
}

func newStubTeamRepo() *stubTeamRepo {
	return &stubTeamRepo{members: make(map[uuid.UUID][]model.TeamMember)}
}

func (r *stubTeamRepo) AddMember(_ context.Context, m *model.TeamMember) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.members[m.ProjectID] = append(r.members[m.ProjectID], *m)
	return nil
}

func (r *stubTeamRepo) FindMember(_ context.Context, id uuid.UUID) (*model.TeamMember, error) {
	for _, list := range r.members {
		for _, m := range list {
			if m.ID == id {
				clone := m
				return &clone, nil
			}
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubTeamRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]model.TeamMember, error) {
	return r.members[projectID], nil
}

func (r *stubTeamRepo) RemoveMember(_ context.Context, id uuid.UUID) error {
	for pid, list := range r.members {
		for i, m := range list {
			if m.ID == id {
				r.members[pid] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

type stubAuditRepo struct {
	entries []model.AuditLog
}

func (r *stubAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubAuditRepo) List(_ context.Context, _, _ int) ([]model.AuditLog, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type shareFixture struct {
	svc       *shareLinkService
	shareRepo *stubShareRepo
	projRepo  *stubProjectRepo
	finRepo   *stubFinanceRepo
	matRepo   *stubMaterialRepo
	teamRepo  *stubTeamRepo
	auditRepo *stubAuditRepo
	ownerID   uuid.UUID
	projectID uuid.UUID
	clock     time.Time
}

func newShareFixture(t *testing.T) *shareFixture {
	t.Helper()

	f := &shareFixture{
		shareRepo: newStubShareRepo(),
		projRepo:  newStubProjectRepo(),
		finRepo:   newStubFinanceRepo(),
		matRepo:   newStubMaterialRepo(),
		teamRepo:  newStubTeamRepo(),
		auditRepo: &stubAuditRepo{},
		ownerID:   uuid.New(),
		clock:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	project := &model.Project{
		OwnerID:    f.ownerID,
		Name:       "Maple Street Duplex",
		ClientName: "Hargrove Homes",
		Status:     model.ProjectStatusActive,
		Budget:     decimal.NewFromInt(250000),
	}
	if err := f.projRepo.Create(context.Background(), project); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	f.projectID = project.ID

	svc := NewShareLinkService(f.shareRepo, f.projRepo, f.finRepo, f.matRepo, f.teamRepo, f.auditRepo, nil, nil, "https://app.example.com")
	f.svc = svc.(*shareLinkService)
	f.svc.now = func() time.Time { return f.clock }

	return f
}

func (f *shareFixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func defaultShareRequest() CreateShareLinkRequest {
	return CreateShareLinkRequest{
		Options:   ShareOptions{PhaseDetails: true},
		Expiry:    ShareExpiry{Amount: 24, Unit: model.ExpiryUnitHours},
		ShareType: model.ShareTypePublic,
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCreateShareLink_Public(t *testing.T) {
	f := newShareFixture(t)

	link, err := f.svc.Create(context.Background(), f.ownerID.String(), f.projectID.String(), defaultShareRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if link.URL != "https://app.example.com/shared/"+link.ID {
		t.Errorf("unexpected URL %q", link.URL)
	}
	if link.Expired {
		t.Errorf("fresh link reported expired")
	}
	if !link.IsActive {
		t.Errorf("fresh link not active")
	}
	wantExpiry := f.clock.Add(24 * time.Hour).Format(time.RFC3339)
	if link.ExpiresAt != wantExpiry {
		t.Errorf("expires_at = %s, want %s", link.ExpiresAt, wantExpiry)
	}
	if len(f.auditRepo.entries) != 1 || f.auditRepo.entries[0].Action != model.ActionCreateShareLink {
		t.Errorf("expected one CREATE_SHARE_LINK audit entry, got %+v", f.auditRepo.entries)
	}
}

func TestCreateShareLink_NoOptions(t *testing.T) {
	f := newShareFixture(t)

	req := defaultShareRequest()
	req.Options = ShareOptions{}

	if _, err := f.svc.Create(context.Background(), f.ownerID.String(), f.projectID.String(), req); !errors.Is(err, model.ErrShareInvalidOptions) {
		t.Fatalf("expected ErrShareInvalidOptions, got %v", err)
	}
}

func TestCreateShareLink_PrivateWithoutPassword(t *testing.T) {
	f := newShareFixture(t)

	req := defaultShareRequest()
	req.ShareType = model.ShareTypePrivate

	if _, err := f.svc.Create(context.Background(), f.ownerID.String(), f.projectID.String(), req); !errors.Is(err, model.ErrShareMissingPassword) {
		t.Fatalf("expected ErrShareMissingPassword, got %v", err)
	}
}

func TestCreateShareLink_InvalidExpiry(t *testing.T) {
	f := newShareFixture(t)

	cases := []ShareExpiry{
		{Amount: 0, Unit: model.ExpiryUnitHours},
		{Amount: -5, Unit: model.ExpiryUnitMinutes},
		{Amount: 10, Unit: "days"},
	}
	for _, expiry := range cases {
		req := defaultShareRequest()
		req.Expiry = expiry
		if _, err := f.svc.Create(context.Background(), f.ownerID.String(), f.projectID.String(), req); !errors.Is(err, model.ErrShareInvalidExpiry) {
			t.Errorf("expiry %+v: expected ErrShareInvalidExpiry, got %v", expiry, err)
		}
	}
}

func TestCreateShareLink_PasswordNeverStoredPlain(t *testing.T) {
	f := newShareFixture(t)

	req := defaultShareRequest()
	req.ShareType = model.ShareTypePrivate
	req.Password = "hunter2"

	link, err := f.svc.Create(context.Background(), f.ownerID.String(), f.projectID.String(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stored := f.shareRepo.links[uuid.MustParse(link.ID)]
	if stored.PasswordHash == "hunter2" || stored.PasswordHash == "" {
		t.Errorf("password stored incorrectly: %q", stored.PasswordHash)
	}
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestResolveShareLink_Public(t *testing.T) {
	f := newShareFixture(t)

	f.projRepo.CreatePhase(context.Background(), &model.Phase{
		ProjectID: f.projectID, Name: "Foundation", ProgressPercent: 60,
	})

	link, err := f.svc.Create(context.Background(), f.ownerID.String(), f.projectID.String(), defaultShareRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	view, err := f.svc.Resolve(context.Background(), link.ID, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if view.ProjectName != "Maple Street Duplex" {
		t.Errorf("project name = %q", view.ProjectName)
	}
	if len(view.Phases) != 1 || view.Phases[0].Name != "Foundation" {
		t.Errorf("expected one shared phase, got %+v", view.Phases)
	}
	// Only phases were shared
	if view.Expenses != nil || view.Income != nil || view.Materials != nil || view.Photos != nil || view.Team != nil {
		t.Errorf("unshared categories leaked into view: %+v", view)
	}

	if got := f.shareRepo.links[uuid.MustParse(link.ID)].ViewCount; got != 1 {
		t.Errorf("view count = %d, want 1", got)
	}
}

func TestResolveShareLink_ProjectionFollowsOptions(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	f.finRepo.CreateExpense(ctx, &model.Expense{
		ProjectID: f.projectID, Category: model.ExpenseCategoryLabor,
		Amount: decimal.NewFromInt(1200), PaidAt: f.clock,
	})
	f.finRepo.CreateIncome(ctx, &model.Income{
		ProjectID: f.projectID, Source: "client draw",
		Amount: decimal.NewFromInt(5000), ReceivedAt: f.clock,
	})
	f.matRepo.Create(ctx, &model.Material{
		ProjectID: f.projectID, Name: "Cement",
		Quantity: decimal.NewFromInt(40), UnitCost: decimal.NewFromFloat(9.5),
	})

	req := defaultShareRequest()
	req.Options = ShareOptions{ExpenseDetails: true, IncomeDetails: true}

	link, err := f.svc.Create(ctx, f.ownerID.String(), f.projectID.String(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	view, err := f.svc.Resolve(ctx, link.ID, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if len(view.Expenses) != 1 || view.Expenses[0].Amount != "1200" {
		t.Errorf("expenses = %+v", view.Expenses)
	}
	if len(view.Income) != 1 || view.Income[0].Amount != "5000" {
		t.Errorf("income = %+v", view.Income)
	}
	if view.Materials != nil {
		t.Errorf("materials leaked despite option off: %+v", view.Materials)
	}
	if view.Phases != nil {
		t.Errorf("phases leaked despite option off: %+v", view.Phases)
	}
}

func TestResolveShareLink_PrivatePassword(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	req := defaultShareRequest()
	req.ShareType = model.ShareTypePrivate
	req.Password = "s3cret"

	link, err := f.svc.Create(ctx, f.ownerID.String(), f.projectID.String(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.svc.Resolve(ctx, link.ID, ""); !errors.Is(err, model.ErrShareUnauthorized) {
		t.Errorf("missing password: expected ErrShareUnauthorized, got %v", err)
	}
	if _, err := f.svc.Resolve(ctx, link.ID, "wrong"); !errors.Is(err, model.ErrShareUnauthorized) {
		t.Errorf("wrong password: expected ErrShareUnauthorized, got %v", err)
	}
	if _, err := f.svc.Resolve(ctx, link.ID, "s3cret"); err != nil {
		t.Errorf("correct password: %v", err)
	}

	// Failed attempts must not bump the counter
	if got := f.shareRepo.links[uuid.MustParse(link.ID)].ViewCount; got != 1 {
		t.Errorf("view count = %d, want 1", got)
	}
}

func TestResolveShareLink_Expiry(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	req := defaultShareRequest()
	req.Expiry = ShareExpiry{Amount: 30, Unit: model.ExpiryUnitMinutes}

	link, err := f.svc.Create(ctx, f.ownerID.String(), f.projectID.String(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.advance(29 * time.Minute)
	if _, err := f.svc.Resolve(ctx, link.ID, ""); err != nil {
		t.Fatalf("link expired early: %v", err)
	}

	f.advance(2 * time.Minute)
	if _, err := f.svc.Resolve(ctx, link.ID, ""); !errors.Is(err, model.ErrShareExpired) {
		t.Fatalf("expected ErrShareExpired, got %v", err)
	}
}

func TestResolveShareLink_UnknownID(t *testing.T) {
	f := newShareFixture(t)

	if _, err := f.svc.Resolve(context.Background(), uuid.NewString(), ""); !errors.Is(err, model.ErrShareNotFound) {
		t.Errorf("random uuid: expected ErrShareNotFound, got %v", err)
	}
	if _, err := f.svc.Resolve(context.Background(), "not-a-uuid", ""); !errors.Is(err, model.ErrShareNotFound) {
		t.Errorf("malformed id: expected ErrShareNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Revoke
// ---------------------------------------------------------------------------

func TestRevokeShareLink(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	link, err := f.svc.Create(ctx, f.ownerID.String(), f.projectID.String(), defaultShareRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Only the creator may revoke
	stranger := uuid.NewString()
	if err := f.svc.Revoke(ctx, link.ID, stranger); !errors.Is(err, model.ErrShareForbidden) {
		t.Fatalf("expected ErrShareForbidden, got %v", err)
	}

	if err := f.svc.Revoke(ctx, link.ID, f.ownerID.String()); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if _, err := f.svc.Resolve(ctx, link.ID, ""); !errors.Is(err, model.ErrShareNotFound) {
		t.Fatalf("revoked link still resolves: %v", err)
	}

	// Double revoke
	if err := f.svc.Revoke(ctx, link.ID, f.ownerID.String()); !errors.Is(err, model.ErrShareNotFound) {
		t.Fatalf("expected ErrShareNotFound on second revoke, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Comments
// ---------------------------------------------------------------------------

func TestShareComments(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	link, err := f.svc.Create(ctx, f.ownerID.String(), f.projectID.String(), defaultShareRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, c := range []string{"first", "second", "third"} {
		if err := f.svc.AddComment(ctx, link.ID, AddShareCommentRequest{AuthorName: "Dana", Comment: c}); err != nil {
			t.Fatalf("add comment %q: %v", c, err)
		}
		f.advance(time.Minute)
	}

	comments, err := f.svc.ListComments(ctx, link.ID, "")
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	// Most recent first
	if comments[0].Comment != "third" || comments[2].Comment != "first" {
		t.Errorf("unexpected order: %+v", comments)
	}
}

func TestShareComments_RejectedAfterExpiry(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	req := defaultShareRequest()
	req.Expiry = ShareExpiry{Amount: 10, Unit: model.ExpiryUnitMinutes}

	link, err := f.svc.Create(ctx, f.ownerID.String(), f.projectID.String(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.advance(time.Hour)
	err = f.svc.AddComment(ctx, link.ID, AddShareCommentRequest{AuthorName: "Dana", Comment: "too late"})
	if !errors.Is(err, model.ErrShareExpired) {
		t.Fatalf("expected ErrShareExpired, got %v", err)
	}
}

func TestShareComments_PrivateLinkRequiresPassword(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	req := defaultShareRequest()
	req.ShareType = model.ShareTypePrivate
	req.Password = "s3cret"

	link, err := f.svc.Create(ctx, f.ownerID.String(), f.projectID.String(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = f.svc.AddComment(ctx, link.ID, AddShareCommentRequest{AuthorName: "Dana", Comment: "no password"})
	if !errors.Is(err, model.ErrShareUnauthorized) {
		t.Fatalf("comment without password: expected ErrShareUnauthorized, got %v", err)
	}

	if err := f.svc.AddComment(ctx, link.ID, AddShareCommentRequest{AuthorName: "Dana", Comment: "private note", Password: "s3cret"}); err != nil {
		t.Fatalf("comment with password: %v", err)
	}

	if _, err := f.svc.ListComments(ctx, link.ID, ""); !errors.Is(err, model.ErrShareUnauthorized) {
		t.Fatalf("list without password: expected ErrShareUnauthorized, got %v", err)
	}
	if _, err := f.svc.ListComments(ctx, link.ID, "wrong"); !errors.Is(err, model.ErrShareUnauthorized) {
		t.Fatalf("list with wrong password: expected ErrShareUnauthorized, got %v", err)
	}

	comments, err := f.svc.ListComments(ctx, link.ID, "s3cret")
	if err != nil {
		t.Fatalf("list with password: %v", err)
	}
	if len(comments) != 1 || comments[0].Comment != "private note" {
		t.Errorf("unexpected comments: %+v", comments)
	}
}

func TestShareComments_UnreadableAfterExpiry(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	req := defaultShareRequest()
	req.ShareType = model.ShareTypePrivate
	req.Password = "s3cret"
	req.Expiry = ShareExpiry{Amount: 30, Unit: model.ExpiryUnitMinutes}

	link, err := f.svc.Create(ctx, f.ownerID.String(), f.projectID.String(), req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.svc.AddComment(ctx, link.ID, AddShareCommentRequest{AuthorName: "Dana", Comment: "private note", Password: "s3cret"}); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	f.advance(31 * time.Minute)

	// Even the correct password cannot reopen an expired thread
	if _, err := f.svc.ListComments(ctx, link.ID, "s3cret"); !errors.Is(err, model.ErrShareExpired) {
		t.Fatalf("expected ErrShareExpired, got %v", err)
	}
	if _, err := f.svc.ListComments(ctx, link.ID, ""); !errors.Is(err, model.ErrShareExpired) {
		t.Fatalf("expected ErrShareExpired without password too, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListForProject
// ---------------------------------------------------------------------------

func TestListSharesForProject(t *testing.T) {
	f := newShareFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Create(ctx, f.ownerID.String(), f.projectID.String(), defaultShareRequest()); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	links, err := f.svc.ListForProject(ctx, f.projectID.String())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(links) != 3 {
		t.Errorf("expected 3 links, got %d", len(links))
	}
}
