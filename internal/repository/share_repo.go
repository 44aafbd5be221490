package repository

import (
	"context"
	"errors"

	"buildtrack/backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShareLinkRepository is the persistence port for share links. Rows are
// immutable after creation except for the view counter and comment appends;
// revocation is a hard delete.
type ShareLinkRepository interface {
	Create(ctx context.Context, link *model.ShareLink) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ShareLink, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.ShareLink, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	AppendComment(ctx context.Context, comment *model.ShareComment) error
	ListComments(ctx context.Context, linkID uuid.UUID) ([]model.ShareComment, error)
}

type shareLinkRepository struct {
	db *gorm.DB
}

func NewShareLinkRepository(db *gorm.DB) ShareLinkRepository {
	return &shareLinkRepository{db: db}
}

func (r *shareLinkRepository) Create(ctx context.Context, link *model.ShareLink) error {
	return GetDB(ctx, r.db).Create(link).Error
}

func (r *shareLinkRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ShareLink, error) {
	var link model.ShareLink
	if err := GetDB(ctx, r.db).First(&link, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrShareNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *shareLinkRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.ShareLink, error) {
	var links []model.ShareLink
	if err := GetDB(ctx, r.db).Where("project_id = ?", projectID).Order("created_at desc").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *shareLinkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ShareLink{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrShareNotFound
	}
	return nil
}

// IncrementViewCount bumps the counter with a single UPDATE. Concurrent
// viewers therefore never lose increments, but a failure here is treated as
// best-effort by the caller.
func (r *shareLinkRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.ShareLink{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *shareLinkRepository) AppendComment(ctx context.Context, comment *model.ShareComment) error {
	return GetDB(ctx, r.db).Create(comment).Error
}

func (r *shareLinkRepository) ListComments(ctx context.Context, linkID uuid.UUID) ([]model.ShareComment, error) {
	var comments []model.ShareComment
	if err := GetDB(ctx, r.db).Where("share_link_id = ?", linkID).Order("created_at desc").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
