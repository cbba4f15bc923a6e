// Package expense contains the expense use cases: recording expenses and
// serving summaries, monthly history and forecasts for one owner.
package expense

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/application/adapter"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// Service binds the aggregation engine to an owner's stored expenses.
type Service struct {
	expenseRepo adapter.ExpenseRepository
	cache       adapter.SummaryCache
	loc         *time.Location
	now         func() time.Time
}

// NewService creates a new expense Service. cache may be nil. loc fixes the
// calendar used for day and month bounds; nil means UTC.
func NewService(expenseRepo adapter.ExpenseRepository, cache adapter.SummaryCache, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		expenseRepo: expenseRepo,
		cache:       cache,
		loc:         loc,
		now:         time.Now,
	}
}

// Location returns the calendar location used by the service.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Now returns the current time in the service location.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

func requireOwner(ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeNotAuthenticated,
			"not authenticated",
			domainerror.ErrNotAuthenticated,
		)
	}
	return nil
}

// storeError converts a repository failure into an ExpenseError. Failures are
// propagated as-is; retry policy belongs to the caller.
func storeError(operation string, ownerID uuid.UUID, err error) error {
	slog.Error("Expense store operation failed",
		"operation", operation,
		"owner_id", ownerID,
		"error", err,
	)

	var expErr *domainerror.ExpenseError
	if errors.As(err, &expErr) {
		return expErr
	}
	if !errors.Is(err, domainerror.ErrStoreUnavailable) {
		err = errors.Join(domainerror.ErrStoreUnavailable, err)
	}
	return domainerror.NewExpenseError(
		domainerror.ErrCodeStoreUnavailable,
		"expense store unavailable",
		err,
	)
}
