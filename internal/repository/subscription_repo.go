package repository

import (
	"context"

	"buildtrack/backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	ListPlans(ctx context.Context) ([]model.Plan, error)
	FindPlanByCode(ctx context.Context, code string) (*model.Plan, error)
	SeedPlan(ctx context.Context, plan *model.Plan) error

	FindByUser(ctx context.Context, userID uuid.UUID) (*model.Subscription, error)
	Upsert(ctx context.Context, sub *model.Subscription) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) ListPlans(ctx context.Context) ([]model.Plan, error) {
	var plans []model.Plan
	if err := GetDB(ctx, r.db).Order("price asc").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *subscriptionRepository) FindPlanByCode(ctx context.Context, code string) (*model.Plan, error) {
	var plan model.Plan
	if err := GetDB(ctx, r.db).First(&plan, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *subscriptionRepository) SeedPlan(ctx context.Context, plan *model.Plan) error {
	return GetDB(ctx, r.db).Where("code = ?", plan.Code).FirstOrCreate(plan).Error
}

func (r *subscriptionRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*model.Subscription, error) {
	var sub model.Subscription
	if err := GetDB(ctx, r.db).Preload("Plan").First(&sub, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) Upsert(ctx context.Context, sub *model.Subscription) error {
	db := GetDB(ctx, r.db)
	var existing model.Subscription
	if err := db.First(&existing, "user_id = ?", sub.UserID).Error; err != nil {
		return db.Create(sub).Error
	}
	sub.ID = existing.ID
	return db.Save(sub).Error
}
