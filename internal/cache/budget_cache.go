package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/hariharan-1607/budget-sample/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyListPrefix = "budget:list:"

// BudgetCache caches each user's assembled budget list (with expenses)
// in Redis. Every write to a user's budgets or expenses invalidates
// that user's entry.
type BudgetCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewBudgetCache returns a new BudgetCache.
func NewBudgetCache(rdb *redis.Client, ttl time.Duration) *BudgetCache {
	return &BudgetCache{rdb: rdb, ttl: ttl}
}

func listKey(userID int64) string {
	return keyListPrefix + strconv.FormatInt(userID, 10)
}

// GetList returns the cached list for userID or nil if miss.
func (c *BudgetCache) GetList(ctx context.Context, userID int64) ([]dom.Budget, error) {
	b, err := c.rdb.Get(ctx, listKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Budget
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []dom.Budget{}
	}
	return list, nil
}

// SetList stores the list for userID.
func (c *BudgetCache) SetList(ctx context.Context, userID int64, list []dom.Budget) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID), b, c.ttl).Err()
}

// Invalidate drops the cached list for userID.
func (c *BudgetCache) Invalidate(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, listKey(userID)).Err()
}
