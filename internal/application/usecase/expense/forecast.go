package expense

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendwise/backend/internal/domain/aggregation"
)

// PredictNextOutput represents a next-month forecast.
type PredictNextOutput struct {
	Predicted int64
	// Window holds the buckets the forecast was averaged over, oldest first.
	Window []aggregation.MonthBucket
}

// MonthlyHistory returns the owner's month-bucketed totals, oldest first.
// Results are served from the summary cache when available.
func (s *Service) MonthlyHistory(ctx context.Context, ownerID uuid.UUID) ([]aggregation.MonthBucket, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	// The generation is read before the store so that an expense added
	// during the load retires whatever this call writes back.
	var gen int64
	cached := false
	if s.cache != nil {
		gen, cached = s.cache.Generation(ctx, ownerID)
	}
	if cached {
		if history, ok := s.cache.GetMonthlyHistory(ctx, ownerID, gen); ok {
			return history, nil
		}
	}

	expenses, err := s.expenseRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError("history", ownerID, err)
	}

	history := aggregation.MonthlyHistory(expenses, s.loc)
	if cached {
		s.cache.SetMonthlyHistory(ctx, ownerID, gen, history)
	}
	return history, nil
}

// PredictNext forecasts the owner's spend for the coming month.
func (s *Service) PredictNext(ctx context.Context, ownerID uuid.UUID) (*PredictNextOutput, error) {
	history, err := s.MonthlyHistory(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	window := history
	if len(window) > aggregation.TrailingWindow {
		window = window[len(window)-aggregation.TrailingWindow:]
	}

	return &PredictNextOutput{
		Predicted: aggregation.PredictNextPeriod(history),
		Window:    window,
	}, nil
}

// TotalSpent returns the owner's all-time spend.
func (s *Service) TotalSpent(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	history, err := s.MonthlyHistory(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, bucket := range history {
		total = total.Add(bucket.Total)
	}
	return total, nil
}
