package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
	"github.com/spendwise/backend/internal/integration/persistence/model"
)

// expenseRepository implements the adapter.ExpenseRepository interface.
type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository instance.
func NewExpenseRepository(db *gorm.DB) adapter.ExpenseRepository {
	return &expenseRepository{
		db: db,
	}
}

// Create inserts a new expense.
func (r *expenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	result := r.db.WithContext(ctx).Create(model.ExpenseFromEntity(expense))
	if result.Error != nil {
		return storeFailure(result.Error)
	}
	return nil
}

// FindByOwner returns every expense of the owner, newest first.
func (r *expenseRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Expense, error) {
	return r.find(r.byOwner(ctx, ownerID))
}

// FindByOwnerInRange returns the owner's expenses with start <= created_at <= end, newest first.
func (r *expenseRepository) FindByOwnerInRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]*entity.Expense, error) {
	query := r.byOwner(ctx, ownerID).
		Where("created_at >= ? AND created_at <= ?", start.UTC(), end.UTC())
	return r.find(query)
}

// FindRecentByOwner returns at most limit of the owner's most recent expenses.
func (r *expenseRepository) FindRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]*entity.Expense, error) {
	return r.find(r.byOwner(ctx, ownerID).Limit(limit))
}

func (r *expenseRepository) byOwner(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.ExpenseModel{}).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC, id DESC")
}

func (r *expenseRepository) find(query *gorm.DB) ([]*entity.Expense, error) {
	var expenseModels []model.ExpenseModel
	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, storeFailure(err)
	}

	expenses := make([]*entity.Expense, len(expenseModels))
	for i := range expenseModels {
		expenses[i] = expenseModels[i].ToEntity()
	}
	return expenses, nil
}
