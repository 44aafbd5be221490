package service

import (
	"context"
	"testing"
	"time"

	"buildtrack/backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type financeFixture struct {
	svc       FinanceService
	finRepo   *stubFinanceRepo
	projRepo  *stubProjectRepo
	auditRepo *stubAuditRepo
	ownerID   uuid.UUID
	projectID uuid.UUID
}

func newFinanceFixture(t *testing.T) *financeFixture {
	t.Helper()

	f := &financeFixture{
		finRepo:   newStubFinanceRepo(),
		projRepo:  newStubProjectRepo(),
		auditRepo: &stubAuditRepo{},
		ownerID:   uuid.New(),
	}

	project := &model.Project{
		OwnerID: f.ownerID,
		Name:    "Riverside Remodel",
		Status:  model.ProjectStatusActive,
	}
	if err := f.projRepo.Create(context.Background(), project); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	f.projectID = project.ID

	f.svc = NewFinanceService(f.finRepo, f.projRepo, f.auditRepo, nil)
	return f
}

func TestAddExpense(t *testing.T) {
	f := newFinanceFixture(t)

	expense, err := f.svc.AddExpense(context.Background(), f.projectID.String(), f.ownerID.String(), CreateExpenseRequest{
		Category: model.ExpenseCategoryLabor,
		Vendor:   "Ace Framing",
		Amount:   "1250.50",
		PaidAt:   "2026-02-10",
	})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}

	if expense.Amount != "1250.5" {
		t.Errorf("amount = %q", expense.Amount)
	}
	if expense.PaidAt != "2026-02-10" {
		t.Errorf("paid_at = %q", expense.PaidAt)
	}
	if len(f.auditRepo.entries) != 1 || f.auditRepo.entries[0].Action != model.ActionCreateExpense {
		t.Errorf("expected CREATE_EXPENSE audit entry, got %+v", f.auditRepo.entries)
	}
}

func TestAddExpense_Validation(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	cases := []CreateExpenseRequest{
		{Amount: "not-a-number"},
		{Amount: "0"},
		{Amount: "-12.50"},
		{Amount: "10", PaidAt: "02/10/2026"},
	}
	for _, req := range cases {
		if _, err := f.svc.AddExpense(ctx, f.projectID.String(), f.ownerID.String(), req); err == nil {
			t.Errorf("request %+v accepted, expected error", req)
		}
	}

	if _, err := f.svc.AddExpense(ctx, uuid.NewString(), f.ownerID.String(), CreateExpenseRequest{Amount: "10"}); err == nil {
		t.Error("unknown project accepted")
	}
}

func TestAddExpense_DefaultsCategoryAndDate(t *testing.T) {
	f := newFinanceFixture(t)

	expense, err := f.svc.AddExpense(context.Background(), f.projectID.String(), f.ownerID.String(), CreateExpenseRequest{
		Amount: "300",
	})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}

	if expense.Category != model.ExpenseCategoryOther {
		t.Errorf("category = %q, want OTHER", expense.Category)
	}
	if expense.PaidAt != time.Now().Format("2006-01-02") {
		t.Errorf("paid_at = %q, want today", expense.PaidAt)
	}
}

func TestFinanceSummary(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	for _, amount := range []string{"1000", "250.25"} {
		if _, err := f.svc.AddExpense(ctx, f.projectID.String(), f.ownerID.String(), CreateExpenseRequest{Amount: amount}); err != nil {
			t.Fatalf("add expense: %v", err)
		}
	}
	if _, err := f.svc.AddIncome(ctx, f.projectID.String(), f.ownerID.String(), CreateIncomeRequest{Amount: "5000", Source: "client"}); err != nil {
		t.Fatalf("add income: %v", err)
	}

	summary, err := f.svc.GetSummary(ctx, f.projectID.String())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TotalExpenses != "1250.25" {
		t.Errorf("total expenses = %q", summary.TotalExpenses)
	}
	if summary.TotalIncome != "5000" {
		t.Errorf("total income = %q", summary.TotalIncome)
	}
	if summary.Balance != "3749.75" {
		t.Errorf("balance = %q", summary.Balance)
	}
	if summary.ExpenseCount != 2 || summary.IncomeCount != 1 {
		t.Errorf("counts = %d/%d", summary.ExpenseCount, summary.IncomeCount)
	}
}

func TestFinanceSummary_NegativeBalance(t *testing.T) {
	f := newFinanceFixture(t)
	ctx := context.Background()

	if _, err := f.svc.AddExpense(ctx, f.projectID.String(), f.ownerID.String(), CreateExpenseRequest{Amount: "800"}); err != nil {
		t.Fatalf("add expense: %v", err)
	}

	summary, err := f.svc.GetSummary(ctx, f.projectID.String())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	want := decimal.NewFromInt(-800).String()
	if summary.Balance != want {
		t.Errorf("balance = %q, want %q", summary.Balance, want)
	}
}
