package model

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// HistoryStore persists per-user lookup history in insertion order.
type HistoryStore interface {
	Append(ctx context.Context, entry HistoryEntry) error
	List(ctx context.Context, userID uuid.UUID) ([]HistoryEntry, error)
	DeleteMany(ctx context.Context, userID uuid.UUID, ids []string) (int, error)
}

// HistoryEntry is a single completed geolocation lookup of a user.
type HistoryEntry struct {
	ID        string
	UserID    uuid.UUID
	IP        string
	Payload   json.RawMessage
	CreatedAt time.Time
}
