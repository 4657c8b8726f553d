package repo

import (
	"context"

	dom "github.com/hariharan-1607/budget-sample/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetRepo provides budget persistence. Every read and write is scoped
// to the owning user in the statement itself, so a row that exists but
// belongs to someone else is indistinguishable from a missing row.
type BudgetRepo interface {
	Create(ctx context.Context, userID int64, name string, totalAmount float64) (dom.Budget, error)
	ListByUser(ctx context.Context, userID int64) ([]dom.Budget, error)
	Update(ctx context.Context, userID, id int64, name *string, totalAmount *float64) (dom.Budget, error)
	Delete(ctx context.Context, userID, id int64) error
}

type PGBudgetRepo struct {
	db *pgxpool.Pool
}

func NewPGBudgetRepo(db *pgxpool.Pool) *PGBudgetRepo {
	return &PGBudgetRepo{db: db}
}

func (r *PGBudgetRepo) Create(ctx context.Context, userID int64, name string, totalAmount float64) (dom.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, name, total_amount)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, total_amount, created_at`
	var b dom.Budget
	err := r.db.QueryRow(ctx, query, userID, name, totalAmount).Scan(
		&b.ID, &b.UserID, &b.Name, &b.TotalAmount, &b.CreatedAt,
	)
	if err != nil {
		return dom.Budget{}, err
	}
	b.Expenses = []dom.Expense{}
	return b, nil
}

// ListByUser returns the user's budgets newest-created first, each with
// its expenses newest-dated first.
func (r *PGBudgetRepo) ListByUser(ctx context.Context, userID int64) ([]dom.Budget, error) {
	query := `
		SELECT id, user_id, name, total_amount, created_at
		FROM budgets WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []dom.Budget
	var ids []int64
	for rows.Next() {
		var b dom.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.TotalAmount, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Expenses = []dom.Expense{}
		list = append(list, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return []dom.Budget{}, nil
	}

	expQuery := `
		SELECT id, budget_id, category, amount, description, date
		FROM expenses WHERE budget_id = ANY($1) ORDER BY date DESC, id DESC`
	expRows, err := r.db.Query(ctx, expQuery, ids)
	if err != nil {
		return nil, err
	}
	defer expRows.Close()

	byBudget := make(map[int64][]dom.Expense, len(list))
	for expRows.Next() {
		var e dom.Expense
		if err := expRows.Scan(&e.ID, &e.BudgetID, &e.Category, &e.Amount, &e.Description, &e.Date); err != nil {
			return nil, err
		}
		byBudget[e.BudgetID] = append(byBudget[e.BudgetID], e)
	}
	if err := expRows.Err(); err != nil {
		return nil, err
	}
	for i := range list {
		if exp, ok := byBudget[list[i].ID]; ok {
			list[i].Expenses = exp
		}
	}
	return list, nil
}

// Update applies only the non-nil fields. The WHERE clause carries the
// owner check, so there is no read-then-write window; pgx.ErrNoRows means
// absent or not owned.
func (r *PGBudgetRepo) Update(ctx context.Context, userID, id int64, name *string, totalAmount *float64) (dom.Budget, error) {
	query := `
		UPDATE budgets
		SET name = COALESCE($3, name), total_amount = COALESCE($4, total_amount)
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, total_amount, created_at`
	var b dom.Budget
	err := r.db.QueryRow(ctx, query, id, userID, name, totalAmount).Scan(
		&b.ID, &b.UserID, &b.Name, &b.TotalAmount, &b.CreatedAt,
	)
	if err != nil {
		return dom.Budget{}, err
	}
	b.Expenses, err = r.expensesFor(ctx, b.ID)
	if err != nil {
		return dom.Budget{}, err
	}
	return b, nil
}

func (r *PGBudgetRepo) expensesFor(ctx context.Context, budgetID int64) ([]dom.Expense, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, budget_id, category, amount, description, date
		FROM expenses WHERE budget_id = $1 ORDER BY date DESC, id DESC`, budgetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []dom.Expense{}
	for rows.Next() {
		var e dom.Expense
		if err := rows.Scan(&e.ID, &e.BudgetID, &e.Category, &e.Amount, &e.Description, &e.Date); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes the budget if owned by userID; expenses go with it via
// the FK cascade. Returns pgx.ErrNoRows when nothing matched.
func (r *PGBudgetRepo) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
