package repo

import (
	"context"

	dom "github.com/hariharan-1607/budget-sample/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpenseRepo provides expense persistence. Ownership is transitive: the
// caller must own the parent budget, and the statements enforce that in
// the same round trip as the mutation.
type ExpenseRepo interface {
	Create(ctx context.Context, userID, budgetID int64, category string, amount float64, description string) (dom.Expense, error)
	Update(ctx context.Context, userID, budgetID, expenseID int64, category *string, amount *float64, description *string) (dom.Expense, error)
	Delete(ctx context.Context, userID, budgetID, expenseID int64) error
}

type PGExpenseRepo struct {
	db *pgxpool.Pool
}

func NewPGExpenseRepo(db *pgxpool.Pool) *PGExpenseRepo {
	return &PGExpenseRepo{db: db}
}

// Create inserts an expense under the budget only if the budget is owned
// by userID; pgx.ErrNoRows otherwise.
func (r *PGExpenseRepo) Create(ctx context.Context, userID, budgetID int64, category string, amount float64, description string) (dom.Expense, error) {
	query := `
		INSERT INTO expenses (budget_id, category, amount, description)
		SELECT b.id, $3, $4, $5
		FROM budgets b WHERE b.id = $1 AND b.user_id = $2
		RETURNING id, budget_id, category, amount, description, date`
	var e dom.Expense
	err := r.db.QueryRow(ctx, query, budgetID, userID, category, amount, description).Scan(
		&e.ID, &e.BudgetID, &e.Category, &e.Amount, &e.Description, &e.Date,
	)
	return e, err
}

// Update applies only the non-nil fields; the expense must belong to the
// budget and the budget to the user (composite check).
func (r *PGExpenseRepo) Update(ctx context.Context, userID, budgetID, expenseID int64, category *string, amount *float64, description *string) (dom.Expense, error) {
	query := `
		UPDATE expenses e
		SET category = COALESCE($4, e.category),
		    amount = COALESCE($5, e.amount),
		    description = COALESCE($6, e.description)
		FROM budgets b
		WHERE e.id = $1 AND e.budget_id = $2 AND b.id = e.budget_id AND b.user_id = $3
		RETURNING e.id, e.budget_id, e.category, e.amount, e.description, e.date`
	var e dom.Expense
	err := r.db.QueryRow(ctx, query, expenseID, budgetID, userID, category, amount, description).Scan(
		&e.ID, &e.BudgetID, &e.Category, &e.Amount, &e.Description, &e.Date,
	)
	return e, err
}

// Delete removes the expense under the same composite check. Returns
// pgx.ErrNoRows when nothing matched.
func (r *PGExpenseRepo) Delete(ctx context.Context, userID, budgetID, expenseID int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM expenses e
		USING budgets b
		WHERE e.id = $1 AND e.budget_id = $2 AND b.id = e.budget_id AND b.user_id = $3`,
		expenseID, budgetID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
