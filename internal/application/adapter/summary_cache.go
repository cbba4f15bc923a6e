package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/domain/aggregation"
)

// SummaryCache stores derived per-owner aggregates.
// Cache failures are never fatal: implementations report a miss instead.
//
// Entries are versioned by a per-owner generation. Callers read the
// generation before loading from the store and pass it back on Set, so a
// history computed before a concurrent Invalidate is never served.
type SummaryCache interface {
	// Generation returns the owner's current generation. It returns false
	// when the cache cannot be trusted for this owner and must be bypassed.
	Generation(ctx context.Context, ownerID uuid.UUID) (int64, bool)

	// GetMonthlyHistory returns the history cached under gen and true on a hit.
	GetMonthlyHistory(ctx context.Context, ownerID uuid.UUID, gen int64) ([]aggregation.MonthBucket, bool)

	// SetMonthlyHistory stores the owner's history under gen.
	SetMonthlyHistory(ctx context.Context, ownerID uuid.UUID, gen int64, history []aggregation.MonthBucket)

	// Invalidate advances the owner's generation, retiring every cached aggregate.
	Invalidate(ctx context.Context, ownerID uuid.UUID)
}
