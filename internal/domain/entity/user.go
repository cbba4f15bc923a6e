package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. Its ID is the owner of every expense it records.
// Accounts are written once at signup and never edited, so there is no
// update timestamp.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string // lower-cased, unique
	PasswordHash string // bcrypt
	CreatedAt    time.Time
}

// NewUser creates an account stamped with the current UTC time. email must
// already be normalised.
func NewUser(name, email, passwordHash string) *User {
	return &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}
