package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendwise/backend/internal/domain/entity"
)

// ExpenseModel represents the expenses table in the database.
// CreatedAt is always stored in UTC.
type ExpenseModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_expenses_owner_created,priority:1"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Category  string          `gorm:"type:varchar(64);not null"`
	CreatedAt time.Time       `gorm:"not null;index:idx_expenses_owner_created,priority:2"`

	Owner *UserModel `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the ExpenseModel.
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToEntity converts an ExpenseModel to a domain Expense entity.
func (m *ExpenseModel) ToEntity() *entity.Expense {
	return &entity.Expense{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Amount:    m.Amount,
		Category:  m.Category,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

// ExpenseFromEntity creates an ExpenseModel from a domain Expense entity.
func ExpenseFromEntity(expense *entity.Expense) *ExpenseModel {
	return &ExpenseModel{
		ID:        expense.ID,
		OwnerID:   expense.OwnerID,
		Amount:    expense.Amount,
		Category:  expense.Category,
		CreatedAt: expense.CreatedAt.UTC(),
	}
}
