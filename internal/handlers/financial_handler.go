package handlers

import (
	"net/http"

	"canteen_manager/internal/middleware"
	"canteen_manager/internal/services"

	"github.com/gin-gonic/gin"
)

// FinancialHandler serves expenses and sales reports.
type FinancialHandler struct {
	expenses services.ExpenseService
	sales    services.SalesService
}

func NewFinancialHandler(expenses services.ExpenseService, sales services.SalesService) *FinancialHandler {
	return &FinancialHandler{expenses: expenses, sales: sales}
}

func (h *FinancialHandler) ListExpenses(c *gin.Context) {
	canteenID, ok := queryID(c, "canteen_id")
	if !ok {
		return
	}
	expenses, err := h.expenses.ListExpenses(c.Request.Context(), middleware.ActorFrom(c), services.ExpenseQuery{
		CanteenID: canteenID,
		From:      c.Query("from"),
		To:        c.Query("to"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

func (h *FinancialHandler) GetExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	expense, err := h.expenses.GetExpense(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (h *FinancialHandler) CreateExpense(c *gin.Context) {
	var req services.ExpenseInput
	if !bind(c, &req) {
		return
	}
	expense, err := h.expenses.CreateExpense(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

func (h *FinancialHandler) UpdateExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.ExpenseUpdate
	if !bind(c, &req) {
		return
	}
	expense, err := h.expenses.UpdateExpense(c.Request.Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func (h *FinancialHandler) DeleteExpense(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.expenses.DeleteExpense(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FinancialHandler) ListReports(c *gin.Context) {
	canteenID, ok := queryID(c, "canteen_id")
	if !ok {
		return
	}
	reports, err := h.sales.ListReports(c.Request.Context(), middleware.ActorFrom(c), canteenID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *FinancialHandler) GetReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := h.sales.GetReport(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *FinancialHandler) UpsertReport(c *gin.Context) {
	var req services.SalesReportInput
	if !bind(c, &req) {
		return
	}
	report, err := h.sales.UpsertReport(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *FinancialHandler) GenerateReport(c *gin.Context) {
	var req struct {
		CanteenID *uint  `json:"canteen_id"`
		Date      string `json:"date"`
	}
	if !bind(c, &req) {
		return
	}
	report, err := h.sales.GenerateDailyReport(c.Request.Context(), middleware.ActorFrom(c), req.CanteenID, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *FinancialHandler) DeleteReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.sales.DeleteReport(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
