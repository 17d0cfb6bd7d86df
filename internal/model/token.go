package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenManager issues and verifies signed session tokens.
type TokenManager interface {
	Issue(user User) (string, SessionClaims, error)
	Verify(token string) (SessionClaims, error)
}

// SessionClaims are the identity fields carried inside a session token.
type SessionClaims struct {
	SubjectID uuid.UUID
	Email     string
	Name      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
