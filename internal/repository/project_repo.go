package repository

import (
	"context"

	"buildtrack/backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectRepository covers projects, their phases and phase photos.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	FindByIDWithPhases(ctx context.Context, id uuid.UUID) (*model.Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Project, int64, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreatePhase(ctx context.Context, phase *model.Phase) error
	FindPhaseByID(ctx context.Context, id uuid.UUID) (*model.Phase, error)
	ListPhases(ctx context.Context, projectID uuid.UUID) ([]model.Phase, error)
	UpdatePhase(ctx context.Context, phase *model.Phase) error
	DeletePhase(ctx context.Context, id uuid.UUID) error

	CreatePhoto(ctx context.Context, photo *model.PhasePhoto) error
	ListPhotosByProject(ctx context.Context, projectID uuid.UUID) ([]model.PhasePhoto, error)
	DeletePhoto(ctx context.Context, id uuid.UUID) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return GetDB(ctx, r.db).Create(project).Error
}

func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := GetDB(ctx, r.db).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByIDWithPhases(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := GetDB(ctx, r.db).
		Preload("Phases", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order asc") }).
		Preload("Phases.Photos").
		First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]model.Project, int64, error) {
	var projects []model.Project
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Project{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("owner_id = ?", ownerID).Order("created_at desc").Offset(offset).Limit(limit).Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *projectRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var total int64
	err := GetDB(ctx, r.db).Model(&model.Project{}).Where("owner_id = ?", ownerID).Count(&total).Error
	return total, err
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return GetDB(ctx, r.db).Save(project).Error
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Project{}).Error
}

func (r *projectRepository) CreatePhase(ctx context.Context, phase *model.Phase) error {
	return GetDB(ctx, r.db).Create(phase).Error
}

func (r *projectRepository) FindPhaseByID(ctx context.Context, id uuid.UUID) (*model.Phase, error) {
	var phase model.Phase
	if err := GetDB(ctx, r.db).First(&phase, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &phase, nil
}

func (r *projectRepository) ListPhases(ctx context.Context, projectID uuid.UUID) ([]model.Phase, error) {
	var phases []model.Phase
	if err := GetDB(ctx, r.db).
		Preload("Photos").
		Where("project_id = ?", projectID).
		Order("sort_order asc").
		Find(&phases).Error; err != nil {
		return nil, err
	}
	return phases, nil
}

func (r *projectRepository) UpdatePhase(ctx context.Context, phase *model.Phase) error {
	return GetDB(ctx, r.db).Save(phase).Error
}

func (r *projectRepository) DeletePhase(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Phase{}).Error
}

func (r *projectRepository) CreatePhoto(ctx context.Context, photo *model.PhasePhoto) error {
	return GetDB(ctx, r.db).Create(photo).Error
}

func (r *projectRepository) ListPhotosByProject(ctx context.Context, projectID uuid.UUID) ([]model.PhasePhoto, error) {
	var photos []model.PhasePhoto
	if err := GetDB(ctx, r.db).
		Joins("JOIN phases ON phases.id = phase_photos.phase_id").
		Where("phases.project_id = ?", projectID).
		Order("phase_photos.created_at desc").
		Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *projectRepository) DeletePhoto(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.PhasePhoto{}).Error
}
