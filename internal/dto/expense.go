package dto

import "time"

// CreateExpenseRequest is the JSON body for POST /budgets/:id/expenses.
type CreateExpenseRequest struct {
	Category    string  `json:"category" binding:"required,min=1,max=120"`
	Amount      float64 `json:"amount" binding:"required,gte=0"`
	Description string  `json:"description" binding:"max=1000"`
}

// UpdateExpenseRequest is a partial update: nil = leave unchanged.
type UpdateExpenseRequest struct {
	Category    *string  `json:"category" binding:"omitempty,min=1,max=120"`
	Amount      *float64 `json:"amount" binding:"omitempty,gte=0"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
}

type ExpenseResponse struct {
	ID          int64     `json:"id"`
	BudgetID    int64     `json:"budget_id"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}
