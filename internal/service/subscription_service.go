package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"buildtrack/backend/internal/model"
	"buildtrack/backend/internal/payment"
	"buildtrack/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrWebhookSignature = errors.New("invalid webhook signature")

// --- DTOs ---

type PlanResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	Interval    string `json:"interval"`
	MaxProjects int    `json:"max_projects"`
}

type SubscriptionResponse struct {
	ID               string       `json:"id"`
	Plan             PlanResponse `json:"plan"`
	Status           string       `json:"status"`
	CurrentPeriodEnd string       `json:"current_period_end,omitempty"`
}

type CheckoutRequest struct {
	PlanCode   string `json:"plan_code" binding:"required"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// WebhookEvent is the payload the gateway posts after checkout resolves.
type WebhookEvent struct {
	Type             string `json:"type"` // checkout.completed, subscription.canceled
	UserID           string `json:"client_reference_id"`
	PlanCode         string `json:"plan"`
	ExternalRef      string `json:"subscription_id"`
	CurrentPeriodEnd string `json:"current_period_end"` // RFC3339
}

// --- Interface ---

type SubscriptionService interface {
	ListPlans(ctx context.Context) ([]PlanResponse, error)
	GetSubscription(ctx context.Context, userID string) (*SubscriptionResponse, error)
	StartCheckout(ctx context.Context, userID string, req CheckoutRequest) (*CheckoutResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	SeedDefaultPlans(ctx context.Context) error
}

type subscriptionService struct {
	subRepo   repository.SubscriptionRepository
	auditRepo repository.AuditRepository
	gateway   payment.Gateway
}

func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	auditRepo repository.AuditRepository,
	gateway payment.Gateway,
) SubscriptionService {
	return &subscriptionService{
		subRepo:   subRepo,
		auditRepo: auditRepo,
		gateway:   gateway,
	}
}

// --- Implementation ---

func (s *subscriptionService) ListPlans(ctx context.Context) ([]PlanResponse, error) {
	plans, err := s.subRepo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		res = append(res, toPlanResponse(&plans[i]))
	}
	return res, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, userID string) (*SubscriptionResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	sub, err := s.subRepo.FindByUser(ctx, uid)
	if err != nil {
		return nil, errors.New("no subscription found")
	}

	resp := toSubscriptionResponse(sub)
	return &resp, nil
}

func (s *subscriptionService) StartCheckout(ctx context.Context, userID string, req CheckoutRequest) (*CheckoutResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}

	plan, err := s.subRepo.FindPlanByCode(ctx, req.PlanCode)
	if err != nil {
		return nil, errors.New("unknown plan")
	}

	checkoutURL, err := s.gateway.CreateCheckoutURL(ctx, payment.CheckoutRequest{
		UserID:     userID,
		PlanCode:   plan.Code,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &CheckoutResponse{CheckoutURL: checkoutURL}, nil
}

func (s *subscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !s.gateway.VerifySignature(payload, signature) {
		return ErrWebhookSignature
	}

	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("malformed webhook payload: %w", err)
	}

	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return fmt.Errorf("webhook carries invalid user id: %w", err)
	}

	switch event.Type {
	case "checkout.completed":
		return s.activate(ctx, userID, event)
	case "subscription.canceled":
		return s.cancel(ctx, userID)
	default:
		// Unrecognized event types are acknowledged and dropped
		return nil
	}
}

func (s *subscriptionService) activate(ctx context.Context, userID uuid.UUID, event WebhookEvent) error {
	plan, err := s.subRepo.FindPlanByCode(ctx, event.PlanCode)
	if err != nil {
		return fmt.Errorf("webhook names unknown plan '%s'", event.PlanCode)
	}

	var periodEnd *time.Time
	if event.CurrentPeriodEnd != "" {
		if t, err := time.Parse(time.RFC3339, event.CurrentPeriodEnd); err == nil {
			periodEnd = &t
		}
	}

	sub := &model.Subscription{
		UserID:           userID,
		PlanID:           plan.ID,
		Status:           model.SubscriptionActive,
		CurrentPeriodEnd: periodEnd,
		ExternalRef:      event.ExternalRef,
	}

	if err := s.subRepo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("failed to activate subscription: %w", err)
	}

	logAuditEntry(ctx, s.auditRepo, userID, model.ActionActivateSubscription, sub.ID.String(), plan.Name, map[string]interface{}{
		"plan": plan.Code,
	})
	return nil
}

func (s *subscriptionService) cancel(ctx context.Context, userID uuid.UUID) error {
	sub, err := s.subRepo.FindByUser(ctx, userID)
	if err != nil {
		return errors.New("no subscription to cancel")
	}

	sub.Status = model.SubscriptionCanceled
	if err := s.subRepo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}

	logAuditEntry(ctx, s.auditRepo, userID, model.ActionCancelSubscription, sub.ID.String(), "", nil)
	return nil
}

func (s *subscriptionService) SeedDefaultPlans(ctx context.Context) error {
	plans := []model.Plan{
		{Code: "starter", Name: "Starter", Price: decimal.NewFromInt(0), Currency: "USD", Interval: model.PlanIntervalMonthly, MaxProjects: 2},
		{Code: "pro", Name: "Pro", Price: decimal.NewFromInt(29), Currency: "USD", Interval: model.PlanIntervalMonthly, MaxProjects: 25},
		{Code: "business", Name: "Business", Price: decimal.NewFromInt(99), Currency: "USD", Interval: model.PlanIntervalMonthly, MaxProjects: 0},
	}

	for i := range plans {
		if err := s.subRepo.SeedPlan(ctx, &plans[i]); err != nil {
			return fmt.Errorf("failed to seed plan %s: %w", plans[i].Code, err)
		}
	}
	return nil
}

// --- Helpers ---

func toPlanResponse(p *model.Plan) PlanResponse {
	return PlanResponse{
		ID:          p.ID.String(),
		Code:        p.Code,
		Name:        p.Name,
		Price:       p.Price.String(),
		Currency:    p.Currency,
		Interval:    p.Interval,
		MaxProjects: p.MaxProjects,
	}
}

func toSubscriptionResponse(s *model.Subscription) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:     s.ID.String(),
		Plan:   toPlanResponse(&s.Plan),
		Status: s.Status,
	}
	if s.CurrentPeriodEnd != nil {
		resp.CurrentPeriodEnd = s.CurrentPeriodEnd.Format(time.RFC3339)
	}
	return resp
}
