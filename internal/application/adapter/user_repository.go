package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/spendwise/backend/internal/domain/entity"
)

// UserRepository persists accounts. Emails are stored lower-cased; lookups
// expect an already normalized email.
type UserRepository interface {
	// Create stores user. A taken email yields domainerror.ErrEmailAlreadyExists.
	Create(ctx context.Context, user *entity.User) error

	// FindByID returns domainerror.ErrUserNotFound when no row matches.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail returns domainerror.ErrUserNotFound when no row matches.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
