package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"buildtrack/backend/internal/model"
	"buildtrack/backend/internal/payment"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubSubscriptionRepo struct {
	plans map[string]*model.Plan
	subs  map[uuid.UUID]*model.Subscription
}

func newStubSubscriptionRepo() *stubSubscriptionRepo {
	return &stubSubscriptionRepo{
		plans: make(map[string]*model.Plan),
		subs:  make(map[uuid.UUID]*model.Subscription),
	}
}

func (r *stubSubscriptionRepo) ListPlans(_ context.Context) ([]model.Plan, error) {
	var out []model.Plan
	for _, p := range r.plans {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubSubscriptionRepo) FindPlanByCode(_ context.Context, code string) (*model.Plan, error) {
	p, ok := r.plans[code]
	if !ok {
		return nil, errors.New("record not found")
	}
	clone := *p
	return &clone, nil
}

func (r *stubSubscriptionRepo) SeedPlan(_ context.Context, plan *model.Plan) error {
	if existing, ok := r.plans[plan.Code]; ok {
		*plan = *existing
		return nil
	}
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	clone := *plan
	r.plans[plan.Code] = &clone
	return nil
}

func (r *stubSubscriptionRepo) FindByUser(_ context.Context, userID uuid.UUID) (*model.Subscription, error) {
	sub, ok := r.subs[userID]
	if !ok {
		return nil, errors.New("record not found")
	}
	clone := *sub
	for _, p := range r.plans {
		if p.ID == sub.PlanID {
			clone.Plan = *p
		}
	}
	return &clone, nil
}

func (r *stubSubscriptionRepo) Upsert(_ context.Context, sub *model.Subscription) error {
	if existing, ok := r.subs[sub.UserID]; ok {
		sub.ID = existing.ID
	} else if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	clone := *sub
	r.subs[sub.UserID] = &clone
	return nil
}

// stubGateway accepts exactly one signature string and records checkouts.
type stubGateway struct {
	validSignature string
	checkouts      []payment.CheckoutRequest
}

func (g *stubGateway) CreateCheckoutURL(_ context.Context, req payment.CheckoutRequest) (string, error) {
	g.checkouts = append(g.checkouts, req)
	return fmt.Sprintf("https://pay.example.com/c/%s?plan=%s", req.UserID, req.PlanCode), nil
}

func (g *stubGateway) VerifySignature(_ []byte, signature string) bool {
	return signature == g.validSignature
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type billingFixture struct {
	svc     SubscriptionService
	repo    *stubSubscriptionRepo
	audit   *stubAuditRepo
	gateway *stubGateway
	userID  uuid.UUID
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()

	repo := newStubSubscriptionRepo()
	audit := &stubAuditRepo{}
	gateway := &stubGateway{validSignature: "good-sig"}
	svc := NewSubscriptionService(repo, audit, gateway)

	if err := svc.SeedDefaultPlans(context.Background()); err != nil {
		t.Fatalf("seed plans: %v", err)
	}

	return &billingFixture{
		svc:     svc,
		repo:    repo,
		audit:   audit,
		gateway: gateway,
		userID:  uuid.New(),
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestSeedDefaultPlans(t *testing.T) {
	f := newBillingFixture(t)

	plans, err := f.svc.ListPlans(context.Background())
	if err != nil {
		t.Fatalf("list plans: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("got %d plans, want 3", len(plans))
	}

	byCode := make(map[string]PlanResponse, len(plans))
	for _, p := range plans {
		byCode[p.Code] = p
	}
	if byCode["starter"].Price != "0" {
		t.Errorf("starter price = %q, want 0", byCode["starter"].Price)
	}
	if byCode["pro"].MaxProjects != 25 {
		t.Errorf("pro max projects = %d, want 25", byCode["pro"].MaxProjects)
	}
	if byCode["business"].MaxProjects != 0 {
		t.Errorf("business max projects = %d, want 0 (unlimited)", byCode["business"].MaxProjects)
	}
}

func TestStartCheckout(t *testing.T) {
	f := newBillingFixture(t)

	resp, err := f.svc.StartCheckout(context.Background(), f.userID.String(), CheckoutRequest{
		PlanCode:   "pro",
		SuccessURL: "https://app.example.com/billing/success",
	})
	if err != nil {
		t.Fatalf("start checkout: %v", err)
	}
	if resp.CheckoutURL == "" {
		t.Error("empty checkout URL")
	}
	if len(f.gateway.checkouts) != 1 {
		t.Fatalf("gateway saw %d checkouts, want 1", len(f.gateway.checkouts))
	}
	if got := f.gateway.checkouts[0].PlanCode; got != "pro" {
		t.Errorf("checkout plan = %q", got)
	}
}

func TestStartCheckout_UnknownPlan(t *testing.T) {
	f := newBillingFixture(t)

	if _, err := f.svc.StartCheckout(context.Background(), f.userID.String(), CheckoutRequest{PlanCode: "platinum"}); err == nil {
		t.Error("checkout succeeded for nonexistent plan")
	}
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	f := newBillingFixture(t)

	payload := []byte(`{"type":"checkout.completed"}`)
	err := f.svc.HandleWebhook(context.Background(), payload, "forged")
	if !errors.Is(err, ErrWebhookSignature) {
		t.Fatalf("got %v, want ErrWebhookSignature", err)
	}
	if len(f.repo.subs) != 0 {
		t.Error("forged webhook created a subscription")
	}
}

func TestHandleWebhook_CheckoutCompleted(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	periodEnd := time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC)
	payload := []byte(fmt.Sprintf(
		`{"type":"checkout.completed","client_reference_id":"%s","plan":"pro","subscription_id":"gw_sub_42","current_period_end":"%s"}`,
		f.userID, periodEnd.Format(time.RFC3339),
	))

	if err := f.svc.HandleWebhook(ctx, payload, "good-sig"); err != nil {
		t.Fatalf("handle webhook: %v", err)
	}

	sub, err := f.svc.GetSubscription(ctx, f.userID.String())
	if err != nil {
		t.Fatalf("get subscription: %v", err)
	}
	if sub.Status != model.SubscriptionActive {
		t.Errorf("status = %q, want active", sub.Status)
	}
	if sub.Plan.Code != "pro" {
		t.Errorf("plan = %q, want pro", sub.Plan.Code)
	}
	if sub.CurrentPeriodEnd != periodEnd.Format(time.RFC3339) {
		t.Errorf("period end = %q", sub.CurrentPeriodEnd)
	}

	var sawActivate bool
	for _, e := range f.audit.entries {
		if e.Action == model.ActionActivateSubscription {
			sawActivate = true
		}
	}
	if !sawActivate {
		t.Error("no activation audit entry")
	}
}

func TestHandleWebhook_SubscriptionCanceled(t *testing.T) {
	f := newBillingFixture(t)
	ctx := context.Background()

	activate := []byte(fmt.Sprintf(
		`{"type":"checkout.completed","client_reference_id":"%s","plan":"starter"}`, f.userID,
	))
	if err := f.svc.HandleWebhook(ctx, activate, "good-sig"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	cancel := []byte(fmt.Sprintf(
		`{"type":"subscription.canceled","client_reference_id":"%s"}`, f.userID,
	))
	if err := f.svc.HandleWebhook(ctx, cancel, "good-sig"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	sub, err := f.svc.GetSubscription(ctx, f.userID.String())
	if err != nil {
		t.Fatalf("get subscription: %v", err)
	}
	if sub.Status != model.SubscriptionCanceled {
		t.Errorf("status = %q, want canceled", sub.Status)
	}
}

func TestHandleWebhook_UnknownTypeAcknowledged(t *testing.T) {
	f := newBillingFixture(t)

	payload := []byte(fmt.Sprintf(
		`{"type":"invoice.finalized","client_reference_id":"%s"}`, f.userID,
	))
	if err := f.svc.HandleWebhook(context.Background(), payload, "good-sig"); err != nil {
		t.Errorf("unknown event type returned error: %v", err)
	}
}
