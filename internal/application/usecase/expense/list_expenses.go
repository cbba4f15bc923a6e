package expense

import (
	"context"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/domain/entity"
)

// ListExpenses returns every expense of the owner, newest first.
// An owner without expenses gets an empty, non-nil slice.
func (s *Service) ListExpenses(ctx context.Context, ownerID uuid.UUID) ([]*entity.Expense, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError("list", ownerID, err)
	}
	if expenses == nil {
		expenses = []*entity.Expense{}
	}
	return expenses, nil
}
