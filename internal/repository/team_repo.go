package repository

import (
	"context"

	"buildtrack/backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamRepository interface {
	AddMember(ctx context.Context, member *model.TeamMember) error
	FindMember(ctx context.Context, id uuid.UUID) (*model.TeamMember, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.TeamMember, error)
	RemoveMember(ctx context.Context, id uuid.UUID) error
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) AddMember(ctx context.Context, member *model.TeamMember) error {
	return GetDB(ctx, r.db).Create(member).Error
}

func (r *teamRepository) FindMember(ctx context.Context, id uuid.UUID) (*model.TeamMember, error) {
	var member model.TeamMember
	if err := GetDB(ctx, r.db).Preload("User").First(&member, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.TeamMember, error) {
	var members []model.TeamMember
	if err := GetDB(ctx, r.db).Preload("User").Where("project_id = ?", projectID).Order("joined_at asc").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *teamRepository) RemoveMember(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.TeamMember{}).Error
}
