package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buildtrack/backend/internal/model"
	"buildtrack/backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type AddTeamMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Title  string `json:"title"`
}

type TeamMemberResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Title    string `json:"title"`
	JoinedAt string `json:"joined_at"`
}

// --- Interface ---

type TeamService interface {
	AddMember(ctx context.Context, projectID string, req AddTeamMemberRequest) (*TeamMemberResponse, error)
	ListMembers(ctx context.Context, projectID string) ([]TeamMemberResponse, error)
	RemoveMember(ctx context.Context, memberID string) error
}

type teamService struct {
	teamRepo    repository.TeamRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

func NewTeamService(
	teamRepo repository.TeamRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
) TeamService {
	return &teamService{
		teamRepo:    teamRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// --- Implementation ---

func (s *teamService) AddMember(ctx context.Context, projectID string, req AddTeamMemberRequest) (*TeamMemberResponse, error) {
	projID, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	if _, err := s.projectRepo.FindByID(ctx, projID); err != nil {
		return nil, errors.New("project not found")
	}
	user, err := s.userRepo.GetByID(ctx, userID.String())
	if err != nil {
		return nil, errors.New("user not found")
	}

	member := &model.TeamMember{
		ProjectID: projID,
		UserID:    userID,
		Title:     req.Title,
		JoinedAt:  time.Now(),
	}

	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		// The unique index on (project_id, user_id) rejects duplicates
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return &TeamMemberResponse{
		ID:       member.ID.String(),
		UserID:   userID.String(),
		Name:     user.Username,
		Email:    user.Email,
		Title:    member.Title,
		JoinedAt: member.JoinedAt.Format(time.RFC3339),
	}, nil
}

func (s *teamService) ListMembers(ctx context.Context, projectID string) ([]TeamMemberResponse, error) {
	projID, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	members, err := s.teamRepo.ListByProject(ctx, projID)
	if err != nil {
		return nil, err
	}

	res := make([]TeamMemberResponse, 0, len(members))
	for _, m := range members {
		res = append(res, TeamMemberResponse{
			ID:       m.ID.String(),
			UserID:   m.UserID.String(),
			Name:     m.User.Username,
			Email:    m.User.Email,
			Title:    m.Title,
			JoinedAt: m.JoinedAt.Format(time.RFC3339),
		})
	}
	return res, nil
}

func (s *teamService) RemoveMember(ctx context.Context, memberID string) error {
	id, err := uuid.Parse(memberID)
	if err != nil {
		return fmt.Errorf("invalid member id: %w", err)
	}

	if _, err := s.teamRepo.FindMember(ctx, id); err != nil {
		return errors.New("team member not found")
	}

	return s.teamRepo.RemoveMember(ctx, id)
}
