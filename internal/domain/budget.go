package domain

import "time"

// Budget belongs to exactly one user. Expenses is populated by the
// repository when listing; empty budgets carry an empty (non-nil) slice.
type Budget struct {
	ID          int64
	UserID      int64
	Name        string
	TotalAmount float64
	CreatedAt   time.Time

	Expenses []Expense
}

// Remaining is derived, never stored: allotment minus spent so far.
// Negative means over budget, which is a valid state.
func (b Budget) Remaining() float64 {
	remaining := b.TotalAmount
	for _, e := range b.Expenses {
		remaining -= e.Amount
	}
	return remaining
}

// Expense belongs to exactly one budget.
type Expense struct {
	ID          int64
	BudgetID    int64
	Category    string
	Amount      float64
	Description string
	Date        time.Time
}
