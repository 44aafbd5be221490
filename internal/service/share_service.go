package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"buildtrack/backend/internal/mailer"
	"buildtrack/backend/internal/model"
	"buildtrack/backend/internal/repository"
	"buildtrack/backend/internal/websocket"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- DTOs ---

// ShareOptions selects which data categories a link exposes. At least one
// must be true at creation time.
type ShareOptions struct {
	PhaseDetails     bool `json:"phase_details"`
	ExpenseDetails   bool `json:"expense_details"`
	IncomeDetails    bool `json:"income_details"`
	MaterialsDetails bool `json:"materials_details"`
	PhasePhotos      bool `json:"phase_photos"`
	TeamMembers      bool `json:"team_members"`
}

func (o ShareOptions) any() bool {
	return o.PhaseDetails || o.ExpenseDetails || o.IncomeDetails ||
		o.MaterialsDetails || o.PhasePhotos || o.TeamMembers
}

type ShareExpiry struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"` // minutes or hours
}

type CreateShareLinkRequest struct {
	Options     ShareOptions `json:"options"`
	Expiry      ShareExpiry  `json:"expiry"`
	ShareType   string       `json:"share_type" binding:"required,oneof=public private"`
	Password    string       `json:"password"`
	NotifyEmail string       `json:"notify_email" binding:"omitempty,email"`
}

type AddShareCommentRequest struct {
	AuthorName string `json:"author_name" binding:"required"`
	Comment    string `json:"comment" binding:"required"`
	Password   string `json:"password"` // required for private links
}

type ShareLinkResponse struct {
	ID        string       `json:"id"`
	URL       string       `json:"url"`
	ProjectID string       `json:"project_id"`
	ShareType string       `json:"share_type"`
	Options   ShareOptions `json:"options"`
	ExpiresAt string       `json:"expires_at"`
	IsActive  bool         `json:"is_active"`
	Expired   bool         `json:"expired"`
	ViewCount int64        `json:"view_count"`
	CreatedAt string       `json:"created_at"`
}

type ShareCommentResponse struct {
	ID         string `json:"id"`
	AuthorName string `json:"author_name"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
}

// SharedProjectView is the filtered projection returned to an anonymous
// viewer. Categories whose option flag is off are omitted entirely from the
// JSON, not null-filled.
type SharedProjectView struct {
	ProjectName string `json:"project_name"`
	ClientName  string `json:"client_name,omitempty"`
	Status      string `json:"status"`

	Phases    []SharedPhase      `json:"phases,omitempty"`
	Expenses  []SharedExpense    `json:"expenses,omitempty"`
	Income    []SharedIncome     `json:"income,omitempty"`
	Materials []SharedMaterial   `json:"materials,omitempty"`
	Photos    []SharedPhoto      `json:"photos,omitempty"`
	Team      []SharedTeamMember `json:"team,omitempty"`

	ExpiresAt string `json:"expires_at"`
}

type SharedPhase struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	ProgressPercent int    `json:"progress_percent"`
	StartDate       string `json:"start_date,omitempty"`
	EndDate         string `json:"end_date,omitempty"`
}

type SharedExpense struct {
	Category    string `json:"category"`
	Vendor      string `json:"vendor,omitempty"`
	Amount      string `json:"amount"`
	PaidAt      string `json:"paid_at"`
	Description string `json:"description,omitempty"`
}

type SharedIncome struct {
	Source     string `json:"source,omitempty"`
	Amount     string `json:"amount"`
	ReceivedAt string `json:"received_at"`
}

type SharedMaterial struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit,omitempty"`
	UnitCost string `json:"unit_cost"`
	Supplier string `json:"supplier,omitempty"`
}

type SharedPhoto struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

type SharedTeamMember struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// --- Interface ---

// ShareLinkService governs the full lifecycle of project share links.
type ShareLinkService interface {
	Create(ctx context.Context, operatorID, projectID string, req CreateShareLinkRequest) (*ShareLinkResponse, error)
	Resolve(ctx context.Context, linkID, suppliedPassword string) (*SharedProjectView, error)
	Revoke(ctx context.Context, linkID, operatorID string) error
	AddComment(ctx context.Context, linkID string, req AddShareCommentRequest) error
	ListComments(ctx context.Context, linkID, suppliedPassword string) ([]ShareCommentResponse, error)
	ListForProject(ctx context.Context, projectID string) ([]ShareLinkResponse, error)
}

type shareLinkService struct {
	shareRepo    repository.ShareLinkRepository
	projectRepo  repository.ProjectRepository
	financeRepo  repository.FinanceRepository
	materialRepo repository.MaterialRepository
	teamRepo     repository.TeamRepository
	auditRepo    repository.AuditRepository
	mail         mailer.Mailer
	hub          *websocket.Hub
	origin       string
	now          func() time.Time
}

func NewShareLinkService(
	shareRepo repository.ShareLinkRepository,
	projectRepo repository.ProjectRepository,
	financeRepo repository.FinanceRepository,
	materialRepo repository.MaterialRepository,
	teamRepo repository.TeamRepository,
	auditRepo repository.AuditRepository,
	mail mailer.Mailer,
	hub *websocket.Hub,
	origin string,
) ShareLinkService {
	return &shareLinkService{
		shareRepo:    shareRepo,
		projectRepo:  projectRepo,
		financeRepo:  financeRepo,
		materialRepo: materialRepo,
		teamRepo:     teamRepo,
		auditRepo:    auditRepo,
		mail:         mail,
		hub:          hub,
		origin:       origin,
		now:          time.Now,
	}
}

// --- Implementation ---

// normalizeExpiry converts an amount/unit pair to a duration.
func normalizeExpiry(e ShareExpiry) (time.Duration, error) {
	if e.Amount <= 0 {
		return 0, model.ErrShareInvalidExpiry
	}
	switch e.Unit {
	case model.ExpiryUnitMinutes:
		return time.Duration(e.Amount) * time.Minute, nil
	case model.ExpiryUnitHours:
		return time.Duration(e.Amount) * time.Hour, nil
	default:
		return 0, model.ErrShareInvalidExpiry
	}
}

func (s *shareLinkService) Create(ctx context.Context, operatorID, projectID string, req CreateShareLinkRequest) (*ShareLinkResponse, error) {
	if !req.Options.any() {
		return nil, model.ErrShareInvalidOptions
	}

	if req.ShareType == model.ShareTypePrivate && req.Password == "" {
		return nil, model.ErrShareMissingPassword
	}

	ttl, err := normalizeExpiry(req.Expiry)
	if err != nil {
		return nil, err
	}

	creatorID, err := uuid.Parse(operatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid operator id: %w", err)
	}

	projID, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	project, err := s.projectRepo.FindByID(ctx, projID)
	if err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}

	link := &model.ShareLink{
		ProjectID: projID,
		CreatedBy: creatorID,
		ShareType: req.ShareType,

		SharePhases:    req.Options.PhaseDetails,
		ShareExpenses:  req.Options.ExpenseDetails,
		ShareIncome:    req.Options.IncomeDetails,
		ShareMaterials: req.Options.MaterialsDetails,
		SharePhotos:    req.Options.PhasePhotos,
		ShareTeam:      req.Options.TeamMembers,

		ExpiresAt: s.now().Add(ttl),
		IsActive:  true,
		ViewCount: 0,
	}

	// Shared passwords are stored hashed; the plaintext is never persisted
	// or returned after creation.
	if req.ShareType == model.ShareTypePrivate {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash share password: %w", hashErr)
		}
		link.PasswordHash = string(hash)
	}

	if err := s.shareRepo.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to create share link: %w", err)
	}

	s.logAudit(ctx, creatorID, model.ActionCreateShareLink, link.ID.String(), project.Name, map[string]interface{}{
		"share_type": link.ShareType,
		"expires_at": link.ExpiresAt,
	})

	resp := s.toResponse(link)

	if req.NotifyEmail != "" {
		mailer.SendAsync(s.mail, []string{req.NotifyEmail},
			fmt.Sprintf("Project %q has been shared with you", project.Name),
			fmt.Sprintf("View the project here: %s\nThe link expires at %s.", resp.URL, resp.ExpiresAt))
	}

	return resp, nil
}

func (s *shareLinkService) Resolve(ctx context.Context, linkID, suppliedPassword string) (*SharedProjectView, error) {
	id, err := uuid.Parse(linkID)
	if err != nil {
		return nil, model.ErrShareNotFound
	}

	link, err := s.shareRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeViewer(link, suppliedPassword); err != nil {
		return nil, err
	}

	// Best-effort: a lost increment never fails the resolution.
	if err := s.shareRepo.IncrementViewCount(ctx, link.ID); err != nil {
		log.Printf("failed to increment view count for share %s: %v", link.ID, err)
	}

	view, err := s.buildProjection(ctx, link)
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(websocket.Event{
			Type:      websocket.EventShareResolved,
			ProjectID: link.ProjectID.String(),
			Payload:   map[string]string{"share_id": link.ID.String()},
		})
	}

	return view, nil
}

func (s *shareLinkService) Revoke(ctx context.Context, linkID, operatorID string) error {
	id, err := uuid.Parse(linkID)
	if err != nil {
		return model.ErrShareNotFound
	}

	operator, err := uuid.Parse(operatorID)
	if err != nil {
		return fmt.Errorf("invalid operator id: %w", err)
	}

	link, err := s.shareRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if link.CreatedBy != operator {
		return model.ErrShareForbidden
	}

	// Hard delete: no soft-undo, the token is permanently invalidated.
	if err := s.shareRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logAudit(ctx, operator, model.ActionRevokeShareLink, link.ID.String(), "", nil)

	return nil
}

// authorizeViewer applies the access gate every recipient-facing operation
// shares. Expiry is evaluated purely on read; expired links stay queryable
// for the owner but never resolve for viewers. The password check runs only
// after the link is known to be live.
func (s *shareLinkService) authorizeViewer(link *model.ShareLink, suppliedPassword string) error {
	if !link.Usable(s.now()) {
		return model.ErrShareExpired
	}

	if link.ShareType == model.ShareTypePrivate {
		if suppliedPassword == "" {
			return model.ErrShareUnauthorized
		}
		if bcrypt.CompareHashAndPassword([]byte(link.PasswordHash), []byte(suppliedPassword)) != nil {
			return model.ErrShareUnauthorized
		}
	}

	return nil
}

func (s *shareLinkService) AddComment(ctx context.Context, linkID string, req AddShareCommentRequest) error {
	id, err := uuid.Parse(linkID)
	if err != nil {
		return model.ErrShareNotFound
	}

	link, err := s.shareRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// Commenting demands the same access as resolving.
	if err := s.authorizeViewer(link, req.Password); err != nil {
		return err
	}

	comment := &model.ShareComment{
		ShareLinkID: link.ID,
		AuthorName:  req.AuthorName,
		Comment:     req.Comment,
		CreatedAt:   s.now(),
	}

	return s.shareRepo.AppendComment(ctx, comment)
}

func (s *shareLinkService) ListComments(ctx context.Context, linkID, suppliedPassword string) ([]ShareCommentResponse, error) {
	id, err := uuid.Parse(linkID)
	if err != nil {
		return nil, model.ErrShareNotFound
	}

	link, err := s.shareRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The comment thread is as protected as the shared data itself.
	if err := s.authorizeViewer(link, suppliedPassword); err != nil {
		return nil, err
	}

	comments, err := s.shareRepo.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}

	res := make([]ShareCommentResponse, 0, len(comments))
	for _, c := range comments {
		res = append(res, ShareCommentResponse{
			ID:         c.ID.String(),
			AuthorName: c.AuthorName,
			Comment:    c.Comment,
			CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		})
	}
	return res, nil
}

func (s *shareLinkService) ListForProject(ctx context.Context, projectID string) ([]ShareLinkResponse, error) {
	projID, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	links, err := s.shareRepo.ListByProject(ctx, projID)
	if err != nil {
		return nil, err
	}

	res := make([]ShareLinkResponse, 0, len(links))
	for i := range links {
		res = append(res, *s.toResponse(&links[i]))
	}
	return res, nil
}

// buildProjection assembles the filtered view, fetching only the categories
// the link shares.
func (s *shareLinkService) buildProjection(ctx context.Context, link *model.ShareLink) (*SharedProjectView, error) {
	project, err := s.projectRepo.FindByID(ctx, link.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}

	view := &SharedProjectView{
		ProjectName: project.Name,
		ClientName:  project.ClientName,
		Status:      project.Status,
		ExpiresAt:   link.ExpiresAt.Format(time.RFC3339),
	}

	if link.SharePhases {
		phases, err := s.projectRepo.ListPhases(ctx, link.ProjectID)
		if err != nil {
			return nil, err
		}
		view.Phases = make([]SharedPhase, 0, len(phases))
		for _, p := range phases {
			view.Phases = append(view.Phases, SharedPhase{
				Name:            p.Name,
				Description:     p.Description,
				ProgressPercent: p.ProgressPercent,
				StartDate:       formatDate(p.StartDate),
				EndDate:         formatDate(p.EndDate),
			})
		}
	}

	if link.ShareExpenses {
		expenses, err := s.financeRepo.ListAllExpenses(ctx, link.ProjectID)
		if err != nil {
			return nil, err
		}
		view.Expenses = make([]SharedExpense, 0, len(expenses))
		for _, e := range expenses {
			view.Expenses = append(view.Expenses, SharedExpense{
				Category:    e.Category,
				Vendor:      e.Vendor,
				Amount:      e.Amount.String(),
				PaidAt:      e.PaidAt.Format("2006-01-02"),
				Description: e.Description,
			})
		}
	}

	if link.ShareIncome {
		entries, err := s.financeRepo.ListAllIncome(ctx, link.ProjectID)
		if err != nil {
			return nil, err
		}
		view.Income = make([]SharedIncome, 0, len(entries))
		for _, in := range entries {
			view.Income = append(view.Income, SharedIncome{
				Source:     in.Source,
				Amount:     in.Amount.String(),
				ReceivedAt: in.ReceivedAt.Format("2006-01-02"),
			})
		}
	}

	if link.ShareMaterials {
		materials, err := s.materialRepo.ListByProject(ctx, link.ProjectID)
		if err != nil {
			return nil, err
		}
		view.Materials = make([]SharedMaterial, 0, len(materials))
		for _, m := range materials {
			view.Materials = append(view.Materials, SharedMaterial{
				Name:     m.Name,
				Quantity: m.Quantity.String(),
				Unit:     m.Unit,
				UnitCost: m.UnitCost.String(),
				Supplier: m.Supplier,
			})
		}
	}

	if link.SharePhotos {
		photos, err := s.projectRepo.ListPhotosByProject(ctx, link.ProjectID)
		if err != nil {
			return nil, err
		}
		view.Photos = make([]SharedPhoto, 0, len(photos))
		for _, p := range photos {
			view.Photos = append(view.Photos, SharedPhoto{URL: p.URL, Caption: p.Caption})
		}
	}

	if link.ShareTeam {
		members, err := s.teamRepo.ListByProject(ctx, link.ProjectID)
		if err != nil {
			return nil, err
		}
		view.Team = make([]SharedTeamMember, 0, len(members))
		for _, m := range members {
			view.Team = append(view.Team, SharedTeamMember{Name: m.User.Username, Title: m.Title})
		}
	}

	return view, nil
}

func (s *shareLinkService) toResponse(link *model.ShareLink) *ShareLinkResponse {
	return &ShareLinkResponse{
		ID:        link.ID.String(),
		URL:       fmt.Sprintf("%s/shared/%s", s.origin, link.ID),
		ProjectID: link.ProjectID.String(),
		ShareType: link.ShareType,
		Options: ShareOptions{
			PhaseDetails:     link.SharePhases,
			ExpenseDetails:   link.ShareExpenses,
			IncomeDetails:    link.ShareIncome,
			MaterialsDetails: link.ShareMaterials,
			PhasePhotos:      link.SharePhotos,
			TeamMembers:      link.ShareTeam,
		},
		ExpiresAt: link.ExpiresAt.Format(time.RFC3339),
		IsActive:  link.IsActive,
		Expired:   !link.Usable(s.now()),
		ViewCount: link.ViewCount,
		CreatedAt: link.CreatedAt.Format(time.RFC3339),
	}
}

func (s *shareLinkService) logAudit(ctx context.Context, userID uuid.UUID, action, entityID, entityName string, details map[string]interface{}) {
	logAuditEntry(ctx, s.auditRepo, userID, action, entityID, entityName, details)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
