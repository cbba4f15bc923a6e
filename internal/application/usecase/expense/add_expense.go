package expense

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendwise/backend/internal/domain/entity"
	domainerror "github.com/spendwise/backend/internal/domain/error"
)

// AddExpenseInput represents the input for recording an expense.
type AddExpenseInput struct {
	OwnerID  uuid.UUID
	Amount   decimal.Decimal
	Category string
	// Date back-dates the expense. When nil the current time is used.
	Date *time.Time
}

// AddExpenseOutput represents the output of recording an expense.
type AddExpenseOutput struct {
	Expense *entity.Expense
}

// AddExpense validates and persists a new expense, then drops the owner's
// cached aggregates.
func (s *Service) AddExpense(ctx context.Context, input AddExpenseInput) (*AddExpenseOutput, error) {
	if err := requireOwner(input.OwnerID); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(input.Category)
	if !input.Amount.IsPositive() || category == "" {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpense,
			"amount and category required",
			domainerror.ErrInvalidExpense,
		)
	}
	if !entity.ValidAmount(input.Amount) {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidExpense,
			"amount must have at most 2 decimal places and be below 10000000000000",
			domainerror.ErrInvalidExpense,
		)
	}
	if utf8.RuneCountInString(category) > entity.MaxCategoryLength {
		return nil, domainerror.NewExpenseError(
			domainerror.ErrCodeCategoryTooLong,
			"category must be at most 64 characters",
			domainerror.ErrCategoryTooLong,
		)
	}

	createdAt := input.Date
	if createdAt == nil {
		now := s.now()
		createdAt = &now
	}

	expense := entity.NewExpense(input.OwnerID, input.Amount, category, createdAt)
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, storeError("create", input.OwnerID, err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, input.OwnerID)
	}

	return &AddExpenseOutput{Expense: expense}, nil
}
