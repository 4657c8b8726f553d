package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	dom "github.com/hariharan-1607/budget-sample/internal/domain"
	"github.com/hariharan-1607/budget-sample/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/hariharan-1607/budget-sample/internal/cache"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrEmptyField     = errors.New("required field is empty")
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// BudgetService implements ownership-checked CRUD over budgets and their
// expenses. Absent and not-owned are collapsed into ErrNotFound on purpose.
type BudgetService struct {
	budgets  repo.BudgetRepo
	expenses repo.ExpenseRepo
	cache    *cache.BudgetCache
	sf       singleflight.Group
}

// NewBudgetService creates a BudgetService. If c is nil, caching is disabled.
func NewBudgetService(b repo.BudgetRepo, e repo.ExpenseRepo, c *cache.BudgetCache) *BudgetService {
	return &BudgetService{budgets: b, expenses: e, cache: c}
}

// List returns the user's budgets with expenses, newest-created first.
func (s *BudgetService) List(ctx context.Context, userID int64) ([]dom.Budget, error) {
	if s.cache != nil {
		key := "list:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.budgets.ListByUser(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Budget), nil
	}
	return s.budgets.ListByUser(ctx, userID)
}

// CreateBudget creates a budget owned by userID with an empty expense list.
func (s *BudgetService) CreateBudget(ctx context.Context, userID int64, name string, totalAmount float64) (dom.Budget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dom.Budget{}, ErrEmptyField
	}
	if totalAmount < 0 {
		return dom.Budget{}, ErrNegativeAmount
	}
	b, err := s.budgets.Create(ctx, userID, name, totalAmount)
	if err != nil {
		return dom.Budget{}, err
	}
	s.invalidateCache(ctx, userID)
	return b, nil
}

// UpdateBudget applies only the supplied fields.
func (s *BudgetService) UpdateBudget(ctx context.Context, userID, id int64, name *string, totalAmount *float64) (dom.Budget, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return dom.Budget{}, ErrEmptyField
		}
		name = &trimmed
	}
	if totalAmount != nil && *totalAmount < 0 {
		return dom.Budget{}, ErrNegativeAmount
	}
	b, err := s.budgets.Update(ctx, userID, id, name, totalAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Budget{}, ErrNotFound
		}
		return dom.Budget{}, err
	}
	s.invalidateCache(ctx, userID)
	return b, nil
}

// DeleteBudget removes the budget and, via the store cascade, its expenses.
func (s *BudgetService) DeleteBudget(ctx context.Context, userID, id int64) error {
	if err := s.budgets.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// CreateExpense records an expense under a budget the user owns.
func (s *BudgetService) CreateExpense(ctx context.Context, userID, budgetID int64, category string, amount float64, description string) (dom.Expense, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return dom.Expense{}, ErrEmptyField
	}
	if amount < 0 {
		return dom.Expense{}, ErrNegativeAmount
	}
	e, err := s.expenses.Create(ctx, userID, budgetID, category, amount, strings.TrimSpace(description))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Expense{}, ErrNotFound
		}
		return dom.Expense{}, err
	}
	s.invalidateCache(ctx, userID)
	return e, nil
}

// UpdateExpense applies only the supplied fields; the expense must belong
// to the budget and the budget to the user.
func (s *BudgetService) UpdateExpense(ctx context.Context, userID, budgetID, expenseID int64, category *string, amount *float64, description *string) (dom.Expense, error) {
	if category != nil {
		trimmed := strings.TrimSpace(*category)
		if trimmed == "" {
			return dom.Expense{}, ErrEmptyField
		}
		category = &trimmed
	}
	if amount != nil && *amount < 0 {
		return dom.Expense{}, ErrNegativeAmount
	}
	e, err := s.expenses.Update(ctx, userID, budgetID, expenseID, category, amount, description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Expense{}, ErrNotFound
		}
		return dom.Expense{}, err
	}
	s.invalidateCache(ctx, userID)
	return e, nil
}

// DeleteExpense removes the expense under the same composite check.
func (s *BudgetService) DeleteExpense(ctx context.Context, userID, budgetID, expenseID int64) error {
	if err := s.expenses.Delete(ctx, userID, budgetID, expenseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *BudgetService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
