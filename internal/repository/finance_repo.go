package repository

import (
	"context"
	"fmt"

	"buildtrack/backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FinanceSummaryRow aggregates one project's ledger totals. Amounts come
// back as text so callers can parse them into decimals without float loss.
type FinanceSummaryRow struct {
	TotalExpenses string `gorm:"column:total_expenses"`
	TotalIncome   string `gorm:"column:total_income"`
	ExpenseCount  int    `gorm:"column:expense_count"`
	IncomeCount   int    `gorm:"column:income_count"`
}

// FinanceRepository covers the expense and income ledgers of a project.
type FinanceRepository interface {
	CreateExpense(ctx context.Context, expense *model.Expense) error
	ListExpenses(ctx context.Context, projectID uuid.UUID, page, limit int) ([]model.Expense, int64, error)
	ListAllExpenses(ctx context.Context, projectID uuid.UUID) ([]model.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error

	CreateIncome(ctx context.Context, income *model.Income) error
	ListIncome(ctx context.Context, projectID uuid.UUID, page, limit int) ([]model.Income, int64, error)
	ListAllIncome(ctx context.Context, projectID uuid.UUID) ([]model.Income, error)
	DeleteIncome(ctx context.Context, id uuid.UUID) error

	GetSummary(ctx context.Context, projectID uuid.UUID) (*FinanceSummaryRow, error)
}

type financeRepository struct {
	db *gorm.DB
}

func NewFinanceRepository(db *gorm.DB) FinanceRepository {
	return &financeRepository{db: db}
}

func (r *financeRepository) CreateExpense(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *financeRepository) ListExpenses(ctx context.Context, projectID uuid.UUID, page, limit int) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Expense{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("project_id = ?", projectID).Order("paid_at desc").Offset(offset).Limit(limit).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

// ListAllExpenses returns the full ledger, used when a projection must not
// truncate.
func (r *financeRepository) ListAllExpenses(ctx context.Context, projectID uuid.UUID) ([]model.Expense, error) {
	var expenses []model.Expense
	if err := GetDB(ctx, r.db).Where("project_id = ?", projectID).Order("paid_at desc").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (r *financeRepository) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Expense{}).Error
}

func (r *financeRepository) CreateIncome(ctx context.Context, income *model.Income) error {
	return GetDB(ctx, r.db).Create(income).Error
}

func (r *financeRepository) ListIncome(ctx context.Context, projectID uuid.UUID, page, limit int) ([]model.Income, int64, error) {
	var entries []model.Income
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Income{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("project_id = ?", projectID).Order("received_at desc").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *financeRepository) ListAllIncome(ctx context.Context, projectID uuid.UUID) ([]model.Income, error) {
	var entries []model.Income
	if err := GetDB(ctx, r.db).Where("project_id = ?", projectID).Order("received_at desc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *financeRepository) DeleteIncome(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Income{}).Error
}

func (r *financeRepository) GetSummary(ctx context.Context, projectID uuid.UUID) (*FinanceSummaryRow, error) {
	query := `
		SELECT
			COALESCE((SELECT CAST(SUM(amount) AS TEXT) FROM expenses WHERE project_id = $1), '0') AS total_expenses,
			COALESCE((SELECT CAST(SUM(amount) AS TEXT) FROM incomes WHERE project_id = $1), '0') AS total_income,
			(SELECT COUNT(*) FROM expenses WHERE project_id = $1) AS expense_count,
			(SELECT COUNT(*) FROM incomes WHERE project_id = $1) AS income_count
	`

	var row FinanceSummaryRow
	if err := GetDB(ctx, r.db).Raw(query, projectID).Scan(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to query finance summary: %w", err)
	}
	return &row, nil
}
