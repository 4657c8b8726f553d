package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hariharan-1607/budget-sample/internal/auth"
	dom "github.com/hariharan-1607/budget-sample/internal/domain"
	"github.com/hariharan-1607/budget-sample/internal/dto"
	"github.com/hariharan-1607/budget-sample/internal/service"

	"github.com/gin-gonic/gin"
)

type BudgetHandler struct {
	svc *service.BudgetService
}

func NewBudgetHandler(svc *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{svc: svc}
}

// List godoc
// @Summary      List budgets with their expenses
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.BudgetResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	list, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error fetching budgets"})
		return
	}
	c.JSON(http.StatusOK, budgetsToResponses(list))
}

// Create godoc
// @Summary      Create a budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateBudgetRequest  true  "Budget body"
// @Success      201   {object}  dto.BudgetResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Name and total amount are required"})
		return
	}
	b, err := h.svc.CreateBudget(c.Request.Context(), userID, req.Name, req.TotalAmount)
	if err != nil {
		if errors.Is(err, service.ErrEmptyField) || errors.Is(err, service.ErrNegativeAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Name and total amount are required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error creating budget"})
		return
	}
	c.JSON(http.StatusCreated, budgetToResponse(b))
}

// Update godoc
// @Summary      Update a budget
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Budget ID"
// @Param        body  body      dto.UpdateBudgetRequest  true  "Partial update"
// @Success      200   {object}  dto.BudgetResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}
	b, err := h.svc.UpdateBudget(c.Request.Context(), userID, id, req.Name, req.TotalAmount)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Budget not found"})
			return
		}
		if errors.Is(err, service.ErrEmptyField) || errors.Is(err, service.ErrNegativeAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error updating budget"})
		return
	}
	c.JSON(http.StatusOK, budgetToResponse(b))
}

// Delete godoc
// @Summary      Delete a budget and its expenses
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Budget ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBudget(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Budget not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error deleting budget"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Budget deleted successfully"})
}

// parseID reads a positive int64 path param; responds 404 on garbage so a
// malformed ID looks the same as a missing resource.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Not found"})
		return 0, false
	}
	return id, true
}

func budgetToResponse(b dom.Budget) dto.BudgetResponse {
	return dto.BudgetResponse{
		ID:          b.ID,
		Name:        b.Name,
		TotalAmount: b.TotalAmount,
		Remaining:   b.Remaining(),
		CreatedAt:   b.CreatedAt,
		Expenses:    expensesToResponses(b.Expenses),
	}
}

func budgetsToResponses(list []dom.Budget) []dto.BudgetResponse {
	out := make([]dto.BudgetResponse, len(list))
	for i := range list {
		out[i] = budgetToResponse(list[i])
	}
	return out
}
