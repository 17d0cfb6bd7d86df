package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a registered account with its password hash.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
}

// PasswordHasher hashes and verifies passwords with a one-way salted function.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, candidate string) bool
}
