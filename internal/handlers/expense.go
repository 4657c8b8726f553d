package handlers

import (
	"errors"
	"net/http"

	"github.com/hariharan-1607/budget-sample/internal/auth"
	dom "github.com/hariharan-1607/budget-sample/internal/domain"
	"github.com/hariharan-1607/budget-sample/internal/dto"
	"github.com/hariharan-1607/budget-sample/internal/service"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	svc *service.BudgetService
}

func NewExpenseHandler(svc *service.BudgetService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// Create godoc
// @Summary      Add an expense to a budget
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Budget ID"
// @Param        body  body      dto.CreateExpenseRequest  true  "Expense body"
// @Success      201   {object}  dto.ExpenseResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /budgets/{id}/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	budgetID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Category and amount are required"})
		return
	}
	e, err := h.svc.CreateExpense(c.Request.Context(), userID, budgetID, req.Category, req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Budget not found"})
			return
		}
		if errors.Is(err, service.ErrEmptyField) || errors.Is(err, service.ErrNegativeAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Category and amount are required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error creating expense"})
		return
	}
	c.JSON(http.StatusCreated, expenseToResponse(e))
}

// Update godoc
// @Summary      Update an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      int  true  "Budget ID"
// @Param        expenseId  path      int  true  "Expense ID"
// @Param        body       body      dto.UpdateExpenseRequest  true  "Partial update"
// @Success      200        {object}  dto.ExpenseResponse
// @Failure      400        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /budgets/{id}/expenses/{expenseId} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	budgetID, ok := parseID(c, "id")
	if !ok {
		return
	}
	expenseID, ok := parseID(c, "expenseId")
	if !ok {
		return
	}
	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}
	e, err := h.svc.UpdateExpense(c.Request.Context(), userID, budgetID, expenseID, req.Category, req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Expense not found"})
			return
		}
		if errors.Is(err, service.ErrEmptyField) || errors.Is(err, service.ErrNegativeAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error updating expense"})
		return
	}
	c.JSON(http.StatusOK, expenseToResponse(e))
}

// Delete godoc
// @Summary      Delete an expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      int  true  "Budget ID"
// @Param        expenseId  path      int  true  "Expense ID"
// @Success      200        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /budgets/{id}/expenses/{expenseId} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	budgetID, ok := parseID(c, "id")
	if !ok {
		return
	}
	expenseID, ok := parseID(c, "expenseId")
	if !ok {
		return
	}
	if err := h.svc.DeleteExpense(c.Request.Context(), userID, budgetID, expenseID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Expense not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error deleting expense"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Expense deleted successfully"})
}

func expenseToResponse(e dom.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:          e.ID,
		BudgetID:    e.BudgetID,
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.Date,
	}
}

func expensesToResponses(list []dom.Expense) []dto.ExpenseResponse {
	out := make([]dto.ExpenseResponse, len(list))
	for i := range list {
		out[i] = expenseToResponse(list[i])
	}
	return out
}
