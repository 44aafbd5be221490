package service

import (
	"context"
	"fmt"

	"buildtrack/backend/internal/model"
	"buildtrack/backend/internal/permission"
	"buildtrack/backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"` // Permission codes from the closed vocabulary
}

type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateRolePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"` // Permission codes
}

type RoleResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	IsSystem    bool                 `json:"is_system"`
	Permissions []PermissionResponse `json:"permissions"`
	CreatedAt   string               `json:"created_at"`
}

type PermissionResponse struct {
	ID    string `json:"id"`
	Code  string `json:"code"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

// RolePreviewResponse simulates how a role sees the application: the
// dashboard widgets and sidebar entries its permission set unlocks.
type RolePreviewResponse struct {
	Role    string                        `json:"role"`
	Widgets []permission.WidgetDescriptor `json:"widgets"`
	Sidebar []permission.NavigationItem   `json:"sidebar"`
}

// --- Interface ---

type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id string) (*RoleResponse, error)
	CreateRole(ctx context.Context, creatorID string, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, id string) error
	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
	UpdateRolePermissions(ctx context.Context, roleID string, req UpdateRolePermissionsRequest) (*RoleResponse, error)
	PreviewRole(ctx context.Context, roleID string) (*RolePreviewResponse, error)
	SeedDefaultRolesAndPermissions(ctx context.Context) error
}

type roleService struct {
	repo repository.RoleRepository
}

func NewRoleService(repo repository.RoleRepository) RoleService {
	return &roleService{repo: repo}
}

// --- Implementation ---

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	res := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, toRoleResponse(r))
	}
	return res, nil
}

func (s *roleService) GetRole(ctx context.Context, id string) (*RoleResponse, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid role id: %w", err)
	}

	role, err := s.repo.FindByIDWithPermissions(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("role not found: %w", err)
	}

	resp := toRoleResponse(*role)
	return &resp, nil
}

// validatePermissionCodes rejects any code outside the closed vocabulary,
// keeping HasCapability exhaustive and typo-proof.
func validatePermissionCodes(codes []string) error {
	for _, code := range codes {
		if !permission.Valid(code) {
			return fmt.Errorf("unknown permission code '%s'", code)
		}
	}
	return nil
}

func (s *roleService) CreateRole(ctx context.Context, creatorID string, req CreateRoleRequest) (*RoleResponse, error) {
	if err := validatePermissionCodes(req.Permissions); err != nil {
		return nil, err
	}

	creator, err := uuid.Parse(creatorID)
	if err != nil {
		return nil, fmt.Errorf("invalid creator id: %w", err)
	}

	role := &model.Role{
		Name:        req.Name,
		CreatedBy:   &creator,
		Description: req.Description,
		IsSystem:    false,
	}

	if err := s.repo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	if len(req.Permissions) > 0 {
		perms, err := s.repo.FindPermissionsByCodes(ctx, req.Permissions)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch permissions: %w", err)
		}
		if err := s.repo.ReplacePermissions(ctx, role, perms); err != nil {
			return nil, fmt.Errorf("failed to assign permissions: %w", err)
		}
	}

	// Reload with permissions
	return s.GetRole(ctx, role.ID.String())
}

func (s *roleService) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid role id: %w", err)
	}

	role, err := s.repo.FindByID(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("role not found: %w", err)
	}

	if role.IsSystem {
		return nil, fmt.Errorf("cannot rename system role '%s'", role.Name)
	}

	role.Name = req.Name
	role.Description = req.Description

	if err := s.repo.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return s.GetRole(ctx, id)
}

func (s *roleService) DeleteRole(ctx context.Context, id string) error {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid role id: %w", err)
	}

	role, err := s.repo.FindByID(ctx, roleID)
	if err != nil {
		return fmt.Errorf("role not found: %w", err)
	}

	if role.IsSystem {
		return fmt.Errorf("cannot delete system role '%s'", role.Name)
	}

	if err := s.repo.Delete(ctx, role); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	return nil
}

func (s *roleService) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}

	res := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		res = append(res, toPermissionResponse(p))
	}
	return res, nil
}

func (s *roleService) UpdateRolePermissions(ctx context.Context, roleID string, req UpdateRolePermissionsRequest) (*RoleResponse, error) {
	if err := validatePermissionCodes(req.Permissions); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(roleID)
	if err != nil {
		return nil, fmt.Errorf("invalid role id: %w", err)
	}

	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("role not found: %w", err)
	}

	perms, err := s.repo.FindPermissionsByCodes(ctx, req.Permissions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %w", err)
	}

	if err := s.repo.ReplacePermissions(ctx, role, perms); err != nil {
		return nil, fmt.Errorf("failed to update permissions: %w", err)
	}

	return s.GetRole(ctx, roleID)
}

// PreviewRole computes the UI surface a role unlocks without impersonation.
func (s *roleService) PreviewRole(ctx context.Context, roleID string) (*RolePreviewResponse, error) {
	id, err := uuid.Parse(roleID)
	if err != nil {
		return nil, fmt.Errorf("invalid role id: %w", err)
	}

	role, err := s.repo.FindByIDWithPermissions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("role not found: %w", err)
	}

	codes := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		codes = append(codes, p.Code)
	}

	set := permission.NewSet(codes)
	return &RolePreviewResponse{
		Role:    role.Name,
		Widgets: permission.WidgetsFor(set),
		Sidebar: permission.SidebarFor(set),
	}, nil
}

// SeedDefaultRolesAndPermissions upserts the closed permission vocabulary
// and the built-in roles.
func (s *roleService) SeedDefaultRolesAndPermissions(ctx context.Context) error {
	permByCode := make(map[string]model.Permission, len(permission.Vocabulary))
	for _, def := range permission.Vocabulary {
		p := &model.Permission{
			Code:  string(def.Code),
			Name:  def.Name,
			Group: def.Group,
		}
		if err := s.repo.FindOrCreatePermission(ctx, p); err != nil {
			return fmt.Errorf("failed to seed permission '%s': %w", def.Code, err)
		}
		permByCode[p.Code] = *p
	}

	allCodes := make([]string, 0, len(permission.Vocabulary))
	for _, def := range permission.Vocabulary {
		allCodes = append(allCodes, string(def.Code))
	}

	roleDefinitions := []struct {
		Name        string
		Description string
		PermCodes   []string
	}{
		{
			Name:        "admin",
			Description: "Full access to every module",
			PermCodes:   allCodes,
		},
		{
			Name:        "manager",
			Description: "Runs projects, finances and scheduling",
			PermCodes: []string{
				string(permission.ViewProjects), string(permission.ManageProjects),
				string(permission.ViewExpenses), string(permission.AddExpense),
				string(permission.ViewIncome), string(permission.AddIncome),
				string(permission.ViewMaterials), string(permission.ManageMaterials),
				string(permission.ViewCalendar), string(permission.ManageCalendar),
				string(permission.ViewDocuments), string(permission.ManageDocuments),
				string(permission.ViewTeam), string(permission.ManageTeam),
				string(permission.ShareProjects), string(permission.ViewAudit),
			},
		},
		{
			Name:        "member",
			Description: "Sees assigned work and records expenses",
			PermCodes: []string{
				string(permission.ViewProjects),
				string(permission.ViewExpenses), string(permission.AddExpense),
				string(permission.ViewMaterials),
				string(permission.ViewCalendar),
				string(permission.ViewDocuments),
				string(permission.ViewTeam),
			},
		},
	}

	for _, def := range roleDefinitions {
		role, err := s.repo.FindByName(ctx, def.Name)
		if err != nil {
			role = &model.Role{
				Name:        def.Name,
				Description: def.Description,
				IsSystem:    true,
			}
			if err := s.repo.Create(ctx, role); err != nil {
				return fmt.Errorf("failed to seed role '%s': %w", def.Name, err)
			}
		}

		perms := make([]model.Permission, 0, len(def.PermCodes))
		for _, code := range def.PermCodes {
			if p, ok := permByCode[code]; ok {
				perms = append(perms, p)
			}
		}
		if err := s.repo.ReplacePermissions(ctx, role, perms); err != nil {
			return fmt.Errorf("failed to assign permissions to role '%s': %w", def.Name, err)
		}
	}

	return nil
}

// --- Helpers ---

func toRoleResponse(r model.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, toPermissionResponse(p))
	}

	return RoleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: perms,
		CreatedAt:   r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toPermissionResponse(p model.Permission) PermissionResponse {
	return PermissionResponse{
		ID:    p.ID.String(),
		Code:  p.Code,
		Name:  p.Name,
		Group: p.Group,
	}
}
