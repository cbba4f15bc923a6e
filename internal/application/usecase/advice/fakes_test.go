package advice

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/domain/entity"
)

type fakeExpenseRepository struct {
	mu       sync.Mutex
	expenses []*entity.Expense
	err      error
	limits   []int
}

func (r *fakeExpenseRepository) Create(_ context.Context, expense *entity.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expenses = append(r.expenses, expense)
	return nil
}

func (r *fakeExpenseRepository) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Expense, error) {
	return r.owned(ownerID, func(*entity.Expense) bool { return true })
}

func (r *fakeExpenseRepository) FindByOwnerInRange(_ context.Context, ownerID uuid.UUID, start, end time.Time) ([]*entity.Expense, error) {
	return r.owned(ownerID, func(e *entity.Expense) bool {
		return !e.CreatedAt.Before(start) && !e.CreatedAt.After(end)
	})
}

func (r *fakeExpenseRepository) FindRecentByOwner(_ context.Context, ownerID uuid.UUID, limit int) ([]*entity.Expense, error) {
	r.mu.Lock()
	r.limits = append(r.limits, limit)
	r.mu.Unlock()

	out, err := r.owned(ownerID, func(*entity.Expense) bool { return true })
	if err != nil {
		return nil, err
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeExpenseRepository) owned(ownerID uuid.UUID, keep func(*entity.Expense) bool) ([]*entity.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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

type fakeGenerator struct {
	mu       sync.Mutex
	reply    string
	err      error
	disabled bool
	prompts  []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

func (g *fakeGenerator) IsAvailable() bool {
	return !g.disabled
}
