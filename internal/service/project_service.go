package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buildtrack/backend/internal/model"
	"buildtrack/backend/internal/repository"
	"buildtrack/backend/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateProjectRequest struct {
	Name       string `json:"name" binding:"required"`
	ClientName string `json:"client_name"`
	Address    string `json:"address"`
	Budget     string `json:"budget"` // Decimal string
	Status     string `json:"status" binding:"omitempty,oneof=PLANNING ACTIVE ON_HOLD COMPLETED"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`
}

type UpdateProjectRequest struct {
	Name       string `json:"name"`
	ClientName string `json:"client_name"`
	Address    string `json:"address"`
	Budget     string `json:"budget"`
	Status     string `json:"status" binding:"omitempty,oneof=PLANNING ACTIVE ON_HOLD COMPLETED"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

type CreatePhaseRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type UpdatePhaseRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	SortOrder       *int   `json:"sort_order"`
	ProgressPercent *int   `json:"progress_percent"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
}

type AddPhotoRequest struct {
	URL     string `json:"url" binding:"required"`
	Caption string `json:"caption"`
}

type CreateMaterialRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity" binding:"required"` // Decimal string
	Unit     string `json:"unit"`
	UnitCost string `json:"unit_cost" binding:"required"`
	Supplier string `json:"supplier"`
}

type ProjectResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	ClientName      string          `json:"client_name"`
	Address         string          `json:"address"`
	Budget          string          `json:"budget"`
	Status          string          `json:"status"`
	StartDate       string          `json:"start_date,omitempty"`
	EndDate         string          `json:"end_date,omitempty"`
	ProgressPercent int             `json:"progress_percent"`
	Phases          []PhaseResponse `json:"phases,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type PhaseResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	SortOrder       int             `json:"sort_order"`
	ProgressPercent int             `json:"progress_percent"`
	StartDate       string          `json:"start_date,omitempty"`
	EndDate         string          `json:"end_date,omitempty"`
	Photos          []PhotoResponse `json:"photos"`
}

type PhotoResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Caption   string `json:"caption"`
	CreatedAt string `json:"created_at"`
}

type MaterialResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	UnitCost string `json:"unit_cost"`
	Supplier string `json:"supplier"`
}

// --- Interface ---

type ProjectService interface {
	CreateProject(ctx context.Context, ownerID string, req CreateProjectRequest) (*ProjectResponse, error)
	GetProject(ctx context.Context, id string) (*ProjectResponse, error)
	ListProjects(ctx context.Context, ownerID string, page, limit int) ([]ProjectResponse, int64, error)
	UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) (*ProjectResponse, error)
	DeleteProject(ctx context.Context, id string) error

	CreatePhase(ctx context.Context, projectID string, req CreatePhaseRequest) (*PhaseResponse, error)
	UpdatePhase(ctx context.Context, phaseID string, req UpdatePhaseRequest) (*PhaseResponse, error)
	DeletePhase(ctx context.Context, phaseID string) error
	AddPhasePhoto(ctx context.Context, phaseID, uploaderID string, req AddPhotoRequest) (*PhotoResponse, error)

	CreateMaterial(ctx context.Context, projectID string, req CreateMaterialRequest) (*MaterialResponse, error)
	ListMaterials(ctx context.Context, projectID string) ([]MaterialResponse, error)
	DeleteMaterial(ctx context.Context, id string) error
}

type projectService struct {
	projectRepo  repository.ProjectRepository
	materialRepo repository.MaterialRepository
	auditRepo    repository.AuditRepository
	hub          *websocket.Hub
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	materialRepo repository.MaterialRepository,
	auditRepo repository.AuditRepository,
	hub *websocket.Hub,
) ProjectService {
	return &projectService{
		projectRepo:  projectRepo,
		materialRepo: materialRepo,
		auditRepo:    auditRepo,
		hub:          hub,
	}
}

// --- Implementation ---

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date '%s': expected YYYY-MM-DD", s)
	}
	return &t, nil
}

func (s *projectService) CreateProject(ctx context.Context, ownerID string, req CreateProjectRequest) (*ProjectResponse, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}

	budget := decimal.Zero
	if req.Budget != "" {
		budget, err = decimal.NewFromString(req.Budget)
		if err != nil {
			return nil, fmt.Errorf("invalid budget: %w", err)
		}
		if budget.IsNegative() {
			return nil, errors.New("budget cannot be negative")
		}
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.ProjectStatusPlanning
	}

	project := &model.Project{
		OwnerID:    owner,
		Name:       req.Name,
		ClientName: req.ClientName,
		Address:    req.Address,
		Budget:     budget,
		Status:     status,
		StartDate:  startDate,
		EndDate:    endDate,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	logAuditEntry(ctx, s.auditRepo, owner, model.ActionCreateProject, project.ID.String(), project.Name, nil)

	return toProjectResponse(project, nil), nil
}

func (s *projectService) GetProject(ctx context.Context, id string) (*ProjectResponse, error) {
	projID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	project, err := s.projectRepo.FindByIDWithPhases(ctx, projID)
	if err != nil {
		return nil, errors.New("project not found")
	}

	return toProjectResponse(project, project.Phases), nil
}

func (s *projectService) ListProjects(ctx context.Context, ownerID string, page, limit int) ([]ProjectResponse, int64, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid owner id: %w", err)
	}

	projects, total, err := s.projectRepo.ListByOwner(ctx, owner, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		res = append(res, *toProjectResponse(&projects[i], nil))
	}
	return res, total, nil
}

func (s *projectService) UpdateProject(ctx context.Context, id string, req UpdateProjectRequest) (*ProjectResponse, error) {
	projID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	project, err := s.projectRepo.FindByID(ctx, projID)
	if err != nil {
		return nil, errors.New("project not found")
	}

	if req.Name != "" {
		project.Name = req.Name
	}
	if req.ClientName != "" {
		project.ClientName = req.ClientName
	}
	if req.Address != "" {
		project.Address = req.Address
	}
	if req.Status != "" {
		project.Status = req.Status
	}
	if req.Budget != "" {
		budget, err := decimal.NewFromString(req.Budget)
		if err != nil {
			return nil, fmt.Errorf("invalid budget: %w", err)
		}
		project.Budget = budget
	}
	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			return nil, err
		}
		project.StartDate = start
	}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			return nil, err
		}
		project.EndDate = end
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.GetProject(ctx, id)
}

func (s *projectService) DeleteProject(ctx context.Context, id string) error {
	projID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid project id: %w", err)
	}

	if _, err := s.projectRepo.FindByID(ctx, projID); err != nil {
		return errors.New("project not found")
	}

	return s.projectRepo.Delete(ctx, projID)
}

func (s *projectService) CreatePhase(ctx context.Context, projectID string, req CreatePhaseRequest) (*PhaseResponse, error) {
	projID, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	if _, err := s.projectRepo.FindByID(ctx, projID); err != nil {
		return nil, errors.New("project not found")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	phase := &model.Phase{
		ProjectID:   projID,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	if err := s.projectRepo.CreatePhase(ctx, phase); err != nil {
		return nil, fmt.Errorf("failed to create phase: %w", err)
	}

	resp := toPhaseResponse(phase)
	return &resp, nil
}

func (s *projectService) UpdatePhase(ctx context.Context, phaseID string, req UpdatePhaseRequest) (*PhaseResponse, error) {
	id, err := uuid.Parse(phaseID)
	if err != nil {
		return nil, fmt.Errorf("invalid phase id: %w", err)
	}

	phase, err := s.projectRepo.FindPhaseByID(ctx, id)
	if err != nil {
		return nil, errors.New("phase not found")
	}

	if req.Name != "" {
		phase.Name = req.Name
	}
	if req.Description != "" {
		phase.Description = req.Description
	}
	if req.SortOrder != nil {
		phase.SortOrder = *req.SortOrder
	}
	if req.ProgressPercent != nil {
		if *req.ProgressPercent < 0 || *req.ProgressPercent > 100 {
			return nil, errors.New("progress_percent must be between 0 and 100")
		}
		phase.ProgressPercent = *req.ProgressPercent
	}
	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			return nil, err
		}
		phase.StartDate = start
	}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			return nil, err
		}
		phase.EndDate = end
	}

	if err := s.projectRepo.UpdatePhase(ctx, phase); err != nil {
		return nil, fmt.Errorf("failed to update phase: %w", err)
	}

	if s.hub != nil && req.ProgressPercent != nil {
		s.hub.BroadcastEvent(websocket.Event{
			Type:      websocket.EventPhaseProgress,
			ProjectID: phase.ProjectID.String(),
			Payload:   map[string]interface{}{"phase_id": phase.ID.String(), "progress_percent": phase.ProgressPercent},
		})
	}

	resp := toPhaseResponse(phase)
	return &resp, nil
}

func (s *projectService) DeletePhase(ctx context.Context, phaseID string) error {
	id, err := uuid.Parse(phaseID)
	if err != nil {
		return fmt.Errorf("invalid phase id: %w", err)
	}

	if _, err := s.projectRepo.FindPhaseByID(ctx, id); err != nil {
		return errors.New("phase not found")
	}

	return s.projectRepo.DeletePhase(ctx, id)
}

func (s *projectService) AddPhasePhoto(ctx context.Context, phaseID, uploaderID string, req AddPhotoRequest) (*PhotoResponse, error) {
	id, err := uuid.Parse(phaseID)
	if err != nil {
		return nil, fmt.Errorf("invalid phase id: %w", err)
	}

	if _, err := s.projectRepo.FindPhaseByID(ctx, id); err != nil {
		return nil, errors.New("phase not found")
	}

	var uploader *uuid.UUID
	if parsed, err := uuid.Parse(uploaderID); err == nil {
		uploader = &parsed
	}

	photo := &model.PhasePhoto{
		PhaseID:    id,
		URL:        req.URL,
		Caption:    req.Caption,
		UploadedBy: uploader,
	}

	if err := s.projectRepo.CreatePhoto(ctx, photo); err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}

	return &PhotoResponse{
		ID:        photo.ID.String(),
		URL:       photo.URL,
		Caption:   photo.Caption,
		CreatedAt: photo.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *projectService) CreateMaterial(ctx context.Context, projectID string, req CreateMaterialRequest) (*MaterialResponse, error) {
	projID, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	if _, err := s.projectRepo.FindByID(ctx, projID); err != nil {
		return nil, errors.New("project not found")
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %w", err)
	}

	unitCost, err := decimal.NewFromString(req.UnitCost)
	if err != nil {
		return nil, fmt.Errorf("invalid unit_cost: %w", err)
	}

	material := &model.Material{
		ProjectID: projID,
		Name:      req.Name,
		Quantity:  quantity,
		Unit:      req.Unit,
		UnitCost:  unitCost,
		Supplier:  req.Supplier,
	}

	if err := s.materialRepo.Create(ctx, material); err != nil {
		return nil, fmt.Errorf("failed to create material: %w", err)
	}

	resp := toMaterialResponse(material)
	return &resp, nil
}

func (s *projectService) ListMaterials(ctx context.Context, projectID string) ([]MaterialResponse, error) {
	projID, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	materials, err := s.materialRepo.ListByProject(ctx, projID)
	if err != nil {
		return nil, err
	}

	res := make([]MaterialResponse, 0, len(materials))
	for i := range materials {
		res = append(res, toMaterialResponse(&materials[i]))
	}
	return res, nil
}

func (s *projectService) DeleteMaterial(ctx context.Context, id string) error {
	materialID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid material id: %w", err)
	}

	if _, err := s.materialRepo.FindByID(ctx, materialID); err != nil {
		return errors.New("material not found")
	}

	return s.materialRepo.Delete(ctx, materialID)
}

// --- Helpers ---

func toProjectResponse(p *model.Project, phases []model.Phase) *ProjectResponse {
	resp := &ProjectResponse{
		ID:         p.ID.String(),
		Name:       p.Name,
		ClientName: p.ClientName,
		Address:    p.Address,
		Budget:     p.Budget.String(),
		Status:     p.Status,
		StartDate:  formatDate(p.StartDate),
		EndDate:    formatDate(p.EndDate),
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}

	if len(phases) > 0 {
		resp.Phases = make([]PhaseResponse, 0, len(phases))
		total := 0
		for i := range phases {
			resp.Phases = append(resp.Phases, toPhaseResponse(&phases[i]))
			total += phases[i].ProgressPercent
		}
		// Project progress is the plain average over its phases
		resp.ProgressPercent = total / len(phases)
	}

	return resp
}

func toPhaseResponse(p *model.Phase) PhaseResponse {
	photos := make([]PhotoResponse, 0, len(p.Photos))
	for _, photo := range p.Photos {
		photos = append(photos, PhotoResponse{
			ID:        photo.ID.String(),
			URL:       photo.URL,
			Caption:   photo.Caption,
			CreatedAt: photo.CreatedAt.Format(time.RFC3339),
		})
	}

	return PhaseResponse{
		ID:              p.ID.String(),
		Name:            p.Name,
		Description:     p.Description,
		SortOrder:       p.SortOrder,
		ProgressPercent: p.ProgressPercent,
		StartDate:       formatDate(p.StartDate),
		EndDate:         formatDate(p.EndDate),
		Photos:          photos,
	}
}

func toMaterialResponse(m *model.Material) MaterialResponse {
	return MaterialResponse{
		ID:       m.ID.String(),
		Name:     m.Name,
		Quantity: m.Quantity.String(),
		Unit:     m.Unit,
		UnitCost: m.UnitCost.String(),
		Supplier: m.Supplier,
	}
}
