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

type CreateExpenseRequest struct {
	Category    string `json:"category" binding:"omitempty,oneof=LABOR MATERIALS EQUIPMENT PERMITS OTHER"`
	Vendor      string `json:"vendor"`
	Amount      string `json:"amount" binding:"required"`
	PaidAt      string `json:"paid_at"` // YYYY-MM-DD, defaults to today
	ReceiptURL  string `json:"receipt_url"`
	Description string `json:"description"`
}

type CreateIncomeRequest struct {
	Source      string `json:"source"`
	Amount      string `json:"amount" binding:"required"`
	ReceivedAt  string `json:"received_at"`
	Description string `json:"description"`
}

type ExpenseResponse struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Category    string `json:"category"`
	Vendor      string `json:"vendor"`
	Amount      string `json:"amount"`
	PaidAt      string `json:"paid_at"`
	ReceiptURL  string `json:"receipt_url,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type IncomeResponse struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Source      string `json:"source"`
	Amount      string `json:"amount"`
	ReceivedAt  string `json:"received_at"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// FinanceSummaryResponse is the per-project ledger rollup. Balance is
// total income minus total expenses and may be negative.
type FinanceSummaryResponse struct {
	ProjectID     string `json:"project_id"`
	TotalExpenses string `json:"total_expenses"`
	TotalIncome   string `json:"total_income"`
	Balance       string `json:"balance"`
	ExpenseCount  int    `json:"expense_count"`
	IncomeCount   int    `json:"income_count"`
}

// --- Interface ---

type FinanceService interface {
	AddExpense(ctx context.Context, projectID, userID string, req CreateExpenseRequest) (*ExpenseResponse, error)
	ListExpenses(ctx context.Context, projectID string, page, limit int) ([]ExpenseResponse, int64, error)
	DeleteExpense(ctx context.Context, id string) error

	AddIncome(ctx context.Context, projectID, userID string, req CreateIncomeRequest) (*IncomeResponse, error)
	ListIncome(ctx context.Context, projectID string, page, limit int) ([]IncomeResponse, int64, error)
	DeleteIncome(ctx context.Context, id string) error

	GetSummary(ctx context.Context, projectID string) (*FinanceSummaryResponse, error)
}

type financeService struct {
	financeRepo repository.FinanceRepository
	projectRepo repository.ProjectRepository
	auditRepo   repository.AuditRepository
	hub         *websocket.Hub
}

func NewFinanceService(
	financeRepo repository.FinanceRepository,
	projectRepo repository.ProjectRepository,
	auditRepo repository.AuditRepository,
	hub *websocket.Hub,
) FinanceService {
	return &financeService{
		financeRepo: financeRepo,
		projectRepo: projectRepo,
		auditRepo:   auditRepo,
		hub:         hub,
	}
}

// --- Implementation ---

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, errors.New("amount must be greater than zero")
	}
	return amount, nil
}

func parseLedgerDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date '%s': expected YYYY-MM-DD", raw)
	}
	return t, nil
}

func (s *financeService) AddExpense(ctx context.Context, projectID, userID string, req CreateExpenseRequest) (*ExpenseResponse, error) {
	projID, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	project, err := s.projectRepo.FindByID(ctx, projID)
	if err != nil {
		return nil, errors.New("project not found")
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	paidAt, err := parseLedgerDate(req.PaidAt)
	if err != nil {
		return nil, err
	}

	category := req.Category
	if category == "" {
		category = model.ExpenseCategoryOther
	}

	var creator *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		creator = &parsed
	}

	expense := &model.Expense{
		ProjectID:   projID,
		Category:    category,
		Vendor:      req.Vendor,
		Amount:      amount,
		PaidAt:      paidAt,
		ReceiptURL:  req.ReceiptURL,
		Description: req.Description,
		CreatedBy:   creator,
	}

	if err := s.financeRepo.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}

	if creator != nil {
		logAuditEntry(ctx, s.auditRepo, *creator, model.ActionCreateExpense, expense.ID.String(), project.Name, map[string]interface{}{
			"amount":   amount.String(),
			"category": category,
		})
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(websocket.Event{
			Type:      websocket.EventExpenseCreated,
			ProjectID: projID.String(),
			Payload:   map[string]interface{}{"expense_id": expense.ID.String(), "amount": amount.String()},
		})
	}

	resp := toExpenseResponse(expense)
	return &resp, nil
}

func (s *financeService) ListExpenses(ctx context.Context, projectID string, page, limit int) ([]ExpenseResponse, int64, error) {
	projID, err := uuid.Parse(projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid project id: %w", err)
	}

	expenses, total, err := s.financeRepo.ListExpenses(ctx, projID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		res = append(res, toExpenseResponse(&expenses[i]))
	}
	return res, total, nil
}

func (s *financeService) DeleteExpense(ctx context.Context, id string) error {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid expense id: %w", err)
	}
	return s.financeRepo.DeleteExpense(ctx, expenseID)
}

func (s *financeService) AddIncome(ctx context.Context, projectID, userID string, req CreateIncomeRequest) (*IncomeResponse, error) {
	projID, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	project, err := s.projectRepo.FindByID(ctx, projID)
	if err != nil {
		return nil, errors.New("project not found")
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	receivedAt, err := parseLedgerDate(req.ReceivedAt)
	if err != nil {
		return nil, err
	}

	var creator *uuid.UUID
	if parsed, err := uuid.Parse(userID); err == nil {
		creator = &parsed
	}

	income := &model.Income{
		ProjectID:   projID,
		Source:      req.Source,
		Amount:      amount,
		ReceivedAt:  receivedAt,
		Description: req.Description,
		CreatedBy:   creator,
	}

	if err := s.financeRepo.CreateIncome(ctx, income); err != nil {
		return nil, fmt.Errorf("failed to record income: %w", err)
	}

	if creator != nil {
		logAuditEntry(ctx, s.auditRepo, *creator, model.ActionCreateIncome, income.ID.String(), project.Name, map[string]interface{}{
			"amount": amount.String(),
			"source": req.Source,
		})
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(websocket.Event{
			Type:      websocket.EventIncomeRecorded,
			ProjectID: projID.String(),
			Payload:   map[string]interface{}{"income_id": income.ID.String(), "amount": amount.String()},
		})
	}

	resp := toIncomeResponse(income)
	return &resp, nil
}

func (s *financeService) ListIncome(ctx context.Context, projectID string, page, limit int) ([]IncomeResponse, int64, error) {
	projID, err := uuid.Parse(projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid project id: %w", err)
	}

	entries, total, err := s.financeRepo.ListIncome(ctx, projID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]IncomeResponse, 0, len(entries))
	for i := range entries {
		res = append(res, toIncomeResponse(&entries[i]))
	}
	return res, total, nil
}

func (s *financeService) DeleteIncome(ctx context.Context, id string) error {
	incomeID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid income id: %w", err)
	}
	return s.financeRepo.DeleteIncome(ctx, incomeID)
}

func (s *financeService) GetSummary(ctx context.Context, projectID string) (*FinanceSummaryResponse, error) {
	projID, err := uuid.Parse(projectID)
	if err != nil {
		return nil, fmt.Errorf("invalid project id: %w", err)
	}

	if _, err := s.projectRepo.FindByID(ctx, projID); err != nil {
		return nil, errors.New("project not found")
	}

	row, err := s.financeRepo.GetSummary(ctx, projID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ledger: %w", err)
	}

	totalExpenses, err := decimal.NewFromString(orZero(row.TotalExpenses))
	if err != nil {
		return nil, fmt.Errorf("bad expense total %q: %w", row.TotalExpenses, err)
	}
	totalIncome, err := decimal.NewFromString(orZero(row.TotalIncome))
	if err != nil {
		return nil, fmt.Errorf("bad income total %q: %w", row.TotalIncome, err)
	}

	return &FinanceSummaryResponse{
		ProjectID:     projID.String(),
		TotalExpenses: totalExpenses.String(),
		TotalIncome:   totalIncome.String(),
		Balance:       totalIncome.Sub(totalExpenses).String(),
		ExpenseCount:  row.ExpenseCount,
		IncomeCount:   row.IncomeCount,
	}, nil
}

// --- Helpers ---

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func toExpenseResponse(e *model.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID.String(),
		ProjectID:   e.ProjectID.String(),
		Category:    e.Category,
		Vendor:      e.Vendor,
		Amount:      e.Amount.String(),
		PaidAt:      e.PaidAt.Format("2006-01-02"),
		ReceiptURL:  e.ReceiptURL,
		Description: e.Description,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}

func toIncomeResponse(i *model.Income) IncomeResponse {
	return IncomeResponse{
		ID:          i.ID.String(),
		ProjectID:   i.ProjectID.String(),
		Source:      i.Source,
		Amount:      i.Amount.String(),
		ReceivedAt:  i.ReceivedAt.Format("2006-01-02"),
		Description: i.Description,
		CreatedAt:   i.CreatedAt.Format(time.RFC3339),
	}
}
