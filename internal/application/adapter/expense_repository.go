package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/domain/entity"
)

// ExpenseRepository defines the interface for expense persistence operations.
// Implementations wrap backend failures with domainerror.ErrStoreUnavailable.
type ExpenseRepository interface {
	// Create inserts a new expense.
	Create(ctx context.Context, expense *entity.Expense) error

	// FindByOwner returns every expense of the owner, newest first.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Expense, error)

	// FindByOwnerInRange returns the owner's expenses with start <= created_at <= end, newest first.
	FindByOwnerInRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]*entity.Expense, error)

	// FindRecentByOwner returns at most limit of the owner's most recent expenses, newest first.
	FindRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]*entity.Expense, error)
}
