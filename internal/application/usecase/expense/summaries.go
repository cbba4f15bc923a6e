package expense

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/domain/aggregation"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// RangeSummaryInput represents an inclusive time window for one owner.
type RangeSummaryInput struct {
	OwnerID uuid.UUID
	Start   time.Time
	End     time.Time
}

// MonthSummaryInput represents a calendar month query. Month is 1-12.
type MonthSummaryInput struct {
	OwnerID uuid.UUID
	Month   int
	Year    int
}

// DaySummaryInput represents a calendar day query. Only the date part of
// Date, read in the service location, is significant.
type DaySummaryInput struct {
	OwnerID uuid.UUID
	Date    time.Time
}

// RangeSummary totals the owner's spending in [Start, End].
func (s *Service) RangeSummary(ctx context.Context, input RangeSummaryInput) (aggregation.Summary, error) {
	if err := requireOwner(input.OwnerID); err != nil {
		return aggregation.Summary{}, err
	}
	if input.Start.After(input.End) {
		return aggregation.EmptySummary(), nil
	}

	expenses, err := s.expenseRepo.FindByOwnerInRange(ctx, input.OwnerID, input.Start, input.End)
	if err != nil {
		return aggregation.Summary{}, storeError("range", input.OwnerID, err)
	}

	return aggregation.RangeSummary(expenses, input.Start, input.End), nil
}

// MonthSummary totals the owner's spending in one calendar month.
func (s *Service) MonthSummary(ctx context.Context, input MonthSummaryInput) (aggregation.Summary, error) {
	if err := requireOwner(input.OwnerID); err != nil {
		return aggregation.Summary{}, err
	}
	if input.Month < 1 || input.Month > 12 || input.Year < 1 || input.Year > 9999 {
		return aggregation.Summary{}, domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidPeriod,
			"valid month (1-12) and year required",
			domainerror.ErrInvalidPeriod,
		)
	}

	start, end := aggregation.MonthBounds(input.Year, time.Month(input.Month), s.loc)
	return s.RangeSummary(ctx, RangeSummaryInput{OwnerID: input.OwnerID, Start: start, End: end})
}

// DaySummary totals the owner's spending on one calendar day.
func (s *Service) DaySummary(ctx context.Context, input DaySummaryInput) (aggregation.Summary, error) {
	if err := requireOwner(input.OwnerID); err != nil {
		return aggregation.Summary{}, err
	}

	return s.RangeSummary(ctx, RangeSummaryInput{
		OwnerID: input.OwnerID,
		Start:   aggregation.StartOfDay(input.Date, s.loc),
		End:     aggregation.EndOfDay(input.Date, s.loc),
	})
}
