package dto

import "time"

// CreateBudgetRequest is the JSON body for POST /budgets.
// required rejects a zero amount, matching the missing-field check.
type CreateBudgetRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=120"`
	TotalAmount float64 `json:"totalAmount" binding:"required,gte=0"`
}

// UpdateBudgetRequest is a partial update: nil = leave unchanged.
type UpdateBudgetRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=120"`
	TotalAmount *float64 `json:"totalAmount" binding:"omitempty,gte=0"`
}

// BudgetResponse is the API view of a budget. Remaining is derived
// server-side: totalAmount minus the sum of expense amounts; negative
// means over budget.
type BudgetResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	TotalAmount float64           `json:"totalAmount"`
	Remaining   float64           `json:"remaining"`
	CreatedAt   time.Time         `json:"created_at"`
	Expenses    []ExpenseResponse `json:"expenses"`
}
