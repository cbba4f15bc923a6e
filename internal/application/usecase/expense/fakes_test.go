package expense

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/domain/aggregation"
	"github.com/spendwise/backend/internal/domain/entity"
)

type fakeExpenseRepository struct {
	mu        sync.Mutex
	expenses  []*entity.Expense
	err       error
	findCalls int
	// afterFind runs once FindByOwner has loaded its rows.
	afterFind func()
}

func (r *fakeExpenseRepository) Create(_ context.Context, expense *entity.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.expenses = append(r.expenses, expense)
	return nil
}

func (r *fakeExpenseRepository) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Expense, error) {
	out, err := r.filter(ownerID, func(*entity.Expense) bool { return true })
	if r.afterFind != nil {
		r.afterFind()
	}
	return out, err
}

func (r *fakeExpenseRepository) FindByOwnerInRange(_ context.Context, ownerID uuid.UUID, start, end time.Time) ([]*entity.Expense, error) {
	return r.filter(ownerID, func(e *entity.Expense) bool {
		return !e.CreatedAt.Before(start) && !e.CreatedAt.After(end)
	})
}

func (r *fakeExpenseRepository) FindRecentByOwner(_ context.Context, ownerID uuid.UUID, limit int) ([]*entity.Expense, error) {
	out, err := r.filter(ownerID, func(*entity.Expense) bool { return true })
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeExpenseRepository) filter(ownerID uuid.UUID, keep func(*entity.Expense) bool) ([]*entity.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	if r.err != nil {
		return nil, r.err
	}

	var out []*entity.Expense
	for _, e := range r.expenses {
		if e.OwnerID == ownerID && keep(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type cacheKey struct {
	owner uuid.UUID
	gen   int64
}

type fakeSummaryCache struct {
	mu          sync.Mutex
	gens        map[uuid.UUID]int64
	history     map[cacheKey][]aggregation.MonthBucket
	unavailable bool
	invalidated []uuid.UUID
	hits        int
}

func newFakeSummaryCache() *fakeSummaryCache {
	return &fakeSummaryCache{
		gens:    map[uuid.UUID]int64{},
		history: map[cacheKey][]aggregation.MonthBucket{},
	}
}

func (c *fakeSummaryCache) Generation(_ context.Context, ownerID uuid.UUID) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unavailable {
		return 0, false
	}
	return c.gens[ownerID], true
}

func (c *fakeSummaryCache) GetMonthlyHistory(_ context.Context, ownerID uuid.UUID, gen int64) ([]aggregation.MonthBucket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.history[cacheKey{ownerID, gen}]
	if ok {
		c.hits++
	}
	return h, ok
}

func (c *fakeSummaryCache) SetMonthlyHistory(_ context.Context, ownerID uuid.UUID, gen int64, history []aggregation.MonthBucket) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history[cacheKey{ownerID, gen}] = history
}

func (c *fakeSummaryCache) Invalidate(_ context.Context, ownerID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[ownerID]++
	c.invalidated = append(c.invalidated, ownerID)
}
