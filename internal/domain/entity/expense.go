// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxCategoryLength is the maximum number of characters in a category label.
const MaxCategoryLength = 64

// AmountScale is the number of decimal places an amount may carry.
const AmountScale = 2

// MaxAmount is the exclusive upper bound of an amount. It matches the
// decimal(15,2) column.
var MaxAmount = decimal.New(1, 13)

// ValidAmount reports whether amount is positive, has at most AmountScale
// decimal places and is below MaxAmount.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() &&
		amount.Equal(amount.Truncate(AmountScale)) &&
		amount.LessThan(MaxAmount)
}

// Expense represents a single spending record owned by one user.
// Expenses are append-only: they are never updated or deleted.
type Expense struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Amount    decimal.Decimal // Always positive
	Category  string
	CreatedAt time.Time
}

// NewExpense creates a new Expense. When createdAt is nil the expense is
// stamped with the current time.
func NewExpense(ownerID uuid.UUID, amount decimal.Decimal, category string, createdAt *time.Time) *Expense {
	stamp := time.Now().UTC()
	if createdAt != nil {
		stamp = createdAt.UTC()
	}

	return &Expense{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Amount:    amount,
		Category:  category,
		CreatedAt: stamp,
	}
}
