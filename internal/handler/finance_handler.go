package handler

import (
	"net/http"

	"buildtrack/backend/internal/middleware"
	"buildtrack/backend/internal/permission"
	"buildtrack/backend/internal/service"
	"buildtrack/backend/pkg/pagination"
	"buildtrack/backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type FinanceHandler struct {
	financeService service.FinanceService
}

func NewFinanceHandler(financeService service.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

func (h *FinanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/api/projects/:id")
	{
		projects.GET("/expenses", middleware.RequirePermission(string(permission.ViewExpenses)), h.ListExpenses)
		projects.POST("/expenses", middleware.RequirePermission(string(permission.AddExpense)), h.AddExpense)
		projects.GET("/income", middleware.RequirePermission(string(permission.ViewIncome)), h.ListIncome)
		projects.POST("/income", middleware.RequirePermission(string(permission.AddIncome)), h.AddIncome)

		// Summary needs both ledgers
		projects.GET("/finance/summary",
			middleware.RequirePermission(string(permission.ViewExpenses), string(permission.ViewIncome)),
			h.GetSummary)
	}

	router.DELETE("/api/expenses/:id", middleware.RequirePermission(string(permission.AddExpense)), h.DeleteExpense)
	router.DELETE("/api/income/:id", middleware.RequirePermission(string(permission.AddIncome)), h.DeleteIncome)
}

// AddExpense records a cost entry against a project's ledger
// @Summary      Record expense
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Project ID"
// @Param        payload  body      service.CreateExpenseRequest  true  "Expense Payload"
// @Success      201      {object}  response.Response{data=service.ExpenseResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/projects/{id}/expenses [post]
func (h *FinanceHandler) AddExpense(c *gin.Context) {
	var req service.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	expense, err := h.financeService.AddExpense(c.Request.Context(), c.Param("id"), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, expense))
}

func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	params := pagination.Parse(c)

	expenses, total, err := h.financeService.ListExpenses(c.Request.Context(), c.Param("id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, expenses, params.Page, params.Limit, total))
}

func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	if err := h.financeService.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Expense deleted"}))
}

// AddIncome records a payment received against a project
func (h *FinanceHandler) AddIncome(c *gin.Context) {
	var req service.CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	income, err := h.financeService.AddIncome(c.Request.Context(), c.Param("id"), c.GetString("userID"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, income))
}

func (h *FinanceHandler) ListIncome(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.financeService.ListIncome(c.Request.Context(), c.Param("id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, entries, params.Page, params.Limit, total))
}

func (h *FinanceHandler) DeleteIncome(c *gin.Context) {
	if err := h.financeService.DeleteIncome(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Income entry deleted"}))
}

// GetSummary returns the project's ledger totals and balance
// @Summary      Finance summary
// @Tags         finance
// @Produce      json
// @Param        id   path      string  true  "Project ID"
// @Success      200  {object}  response.Response{data=service.FinanceSummaryResponse}
// @Router       /api/projects/{id}/finance/summary [get]
func (h *FinanceHandler) GetSummary(c *gin.Context) {
	summary, err := h.financeService.GetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
