package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/ipgeo-server/internal/lock"
	"github.com/dtroode/ipgeo-server/internal/logger"
	"github.com/dtroode/ipgeo-server/internal/model"
)

// History manages per-user lookup history. Mutations of one user are
// serialized; different users proceed in parallel.
type History struct {
	store        model.HistoryStore
	locks        *lock.Keyed
	storeTimeout time.Duration
	logger       *logger.Logger

	now   func() time.Time
	newID func() string
}

func NewHistory(store model.HistoryStore, storeTimeout time.Duration, logger *logger.Logger) *History {
	return &History{
		store:        store,
		locks:        lock.NewKeyed(),
		storeTimeout: storeTimeout,
		logger:       logger,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

func (s *History) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// Append records a completed lookup and returns the stored entry.
func (s *History) Append(ctx context.Context, userID uuid.UUID, ip string, payload json.RawMessage) (model.HistoryEntry, error) {
	entry := model.HistoryEntry{
		ID:        s.newID(),
		UserID:    userID,
		IP:        ip,
		Payload:   payload,
		CreatedAt: s.now().UTC(),
	}

	unlock := s.locks.Lock(userID.String())
	defer unlock()

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	if err := s.store.Append(storeCtx, entry); err != nil {
		s.logger.Error("History service: failed to append entry",
			"user_id", userID,
			"entry_id", entry.ID,
			"error", err.Error())
		return model.HistoryEntry{}, wrapPersistence("failed to append history entry", err)
	}

	s.logger.Debug("History service: entry appended",
		"user_id", userID,
		"entry_id", entry.ID)

	return entry, nil
}

// List returns the user's entries in insertion order.
func (s *History) List(ctx context.Context, userID uuid.UUID) ([]model.HistoryEntry, error) {
	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	entries, err := s.store.List(storeCtx, userID)
	if err != nil {
		s.logger.Error("History service: failed to list entries",
			"user_id", userID,
			"error", err.Error())
		return nil, wrapPersistence("failed to list history", err)
	}
	if entries == nil {
		entries = []model.HistoryEntry{}
	}

	return entries, nil
}

// Delete removes the user's entries whose ids are listed and returns how many
// were removed. Ids that are unknown or owned by other users are ignored.
func (s *History) Delete(ctx context.Context, userID uuid.UUID, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	unlock := s.locks.Lock(userID.String())
	defer unlock()

	storeCtx, cancel := s.storeContext(ctx)
	defer cancel()

	n, err := s.store.DeleteMany(storeCtx, userID, ids)
	if err != nil {
		s.logger.Error("History service: failed to delete entries",
			"user_id", userID,
			"error", err.Error())
		return 0, wrapPersistence("failed to delete history entries", err)
	}

	s.logger.Debug("History service: entries deleted",
		"user_id", userID,
		"requested", len(ids),
		"deleted", n)

	return n, nil
}

// Document is the export form of a user's history.
type Document struct {
	History []EntryView `json:"history"`
}

// EntryView is the wire form of a history entry.
type EntryView struct {
	ID   string          `json:"id"`
	IP   string          `json:"ip"`
	Data json.RawMessage `json:"data"`
	When time.Time       `json:"when"`
}

func NewEntryView(e model.HistoryEntry) EntryView {
	return EntryView{ID: e.ID, IP: e.IP, Data: e.Payload, When: e.CreatedAt.UTC()}
}

func NewDocument(entries []model.HistoryEntry) Document {
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, NewEntryView(e))
	}
	return Document{History: views}
}
