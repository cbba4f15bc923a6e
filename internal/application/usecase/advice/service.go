// Package advice contains the spending-advice and investment-advice use cases.
package advice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/application/usecase/expense"
	"github.com/spendwise/backend/internal/domain/aggregation"
)

// RecentExpenseLimit is the number of most recent expenses included in a prompt.
const RecentExpenseLimit = 20

// ExpenseReader is the part of the expense service the advice flow reads.
type ExpenseReader interface {
	MonthSummary(ctx context.Context, input expense.MonthSummaryInput) (aggregation.Summary, error)
	PredictNext(ctx context.Context, ownerID uuid.UUID) (*expense.PredictNextOutput, error)
	TotalSpent(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error)
	Location() *time.Location
}

// Service produces personalised advice from an owner's spending.
type Service struct {
	expenseRepo    adapter.ExpenseRepository
	expenses       ExpenseReader
	generator      adapter.AdviceGenerator
	currencySymbol string
	now            func() time.Time
}

// NewService creates a new advice Service.
func NewService(
	expenseRepo adapter.ExpenseRepository,
	expenses ExpenseReader,
	generator adapter.AdviceGenerator,
	currencySymbol string,
) *Service {
	return &Service{
		expenseRepo:    expenseRepo,
		expenses:       expenses,
		generator:      generator,
		currencySymbol: currencySymbol,
		now:            time.Now,
	}
}
