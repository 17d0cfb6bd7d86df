// Package memory keeps users and lookup history in process memory.
//
// A Store can be given a persister which receives the complete state after
// every mutation. The mutation only becomes visible when the persister
// succeeds, so a durable backend never observes a half-applied write.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/ipgeo-server/internal/model"
)

var (
	_ model.UserStore    = (*Store)(nil)
	_ model.HistoryStore = (*Store)(nil)
)

// State is a full copy of the store contents.
type State struct {
	Users     []model.User
	Histories map[uuid.UUID][]model.HistoryEntry
}

// Persister durably records a state. It is called with the store write lock held.
type Persister func(State) error

// Option configures a Store.
type Option func(*Store)

// WithPersister makes every mutation conditional on p succeeding.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

// WithState preloads the store, e.g. from a file read at startup.
func WithState(state State) Option {
	return func(s *Store) { s.initial = &state }
}

type Store struct {
	mu sync.RWMutex

	users     []model.User
	byID      map[uuid.UUID]int
	byEmail   map[string]int
	histories map[uuid.UUID][]model.HistoryEntry
	owners    map[string]uuid.UUID

	persist Persister
	initial *State
}

// New creates an empty Store, or one loaded from WithState.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		byID:      make(map[uuid.UUID]int),
		byEmail:   make(map[string]int),
		histories: make(map[uuid.UUID][]model.HistoryEntry),
		owners:    make(map[string]uuid.UUID),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.initial != nil {
		if err := s.load(*s.initial); err != nil {
			return nil, err
		}
		s.initial = nil
	}

	return s, nil
}

func (s *Store) load(state State) error {
	for _, u := range state.Users {
		if _, ok := s.byEmail[u.Email]; ok {
			return fmt.Errorf("duplicate email %q in initial state", u.Email)
		}
		if _, ok := s.byID[u.ID]; ok {
			return fmt.Errorf("duplicate user id %s in initial state", u.ID)
		}
		s.byID[u.ID] = len(s.users)
		s.byEmail[u.Email] = len(s.users)
		s.users = append(s.users, u)
	}

	for userID, entries := range state.Histories {
		for _, e := range entries {
			if _, ok := s.owners[e.ID]; ok {
				return fmt.Errorf("duplicate history id %q in initial state", e.ID)
			}
			s.owners[e.ID] = userID
		}
		s.histories[userID] = append([]model.HistoryEntry(nil), entries...)
	}

	return nil
}

func (s *Store) stateLocked() State {
	histories := make(map[uuid.UUID][]model.HistoryEntry, len(s.histories))
	for k, v := range s.histories {
		histories[k] = v
	}
	return State{
		Users:     append([]model.User(nil), s.users...),
		Histories: histories,
	}
}

func (s *Store) commit(state State) error {
	if s.persist == nil {
		return nil
	}
	if err := s.persist(state); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	return nil
}

func (s *Store) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byEmail[email]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return s.users[idx], nil
}

func (s *Store) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return model.User{}, model.ErrEmailTaken
	}
	if _, ok := s.byID[user.ID]; ok {
		return model.User{}, fmt.Errorf("user id %s already exists", user.ID)
	}

	next := s.stateLocked()
	next.Users = append(next.Users, user)
	if err := s.commit(next); err != nil {
		return model.User{}, err
	}

	s.byID[user.ID] = len(s.users)
	s.byEmail[user.Email] = len(s.users)
	s.users = append(s.users, user)

	return user, nil
}

func (s *Store) Append(_ context.Context, entry model.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.owners[entry.ID]; ok {
		return model.ErrDuplicateID
	}

	cur := s.histories[entry.UserID]
	updated := make([]model.HistoryEntry, len(cur), len(cur)+1)
	copy(updated, cur)
	updated = append(updated, entry)

	next := s.stateLocked()
	next.Histories[entry.UserID] = updated
	if err := s.commit(next); err != nil {
		return err
	}

	s.histories[entry.UserID] = updated
	s.owners[entry.ID] = entry.UserID

	return nil
}

func (s *Store) List(_ context.Context, userID uuid.UUID) ([]model.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cur := s.histories[userID]
	out := make([]model.HistoryEntry, len(cur))
	copy(out, cur)
	return out, nil
}

func (s *Store) DeleteMany(_ context.Context, userID uuid.UUID, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remove := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if s.owners[id] == userID {
			remove[id] = struct{}{}
		}
	}
	if len(remove) == 0 {
		return 0, nil
	}

	cur := s.histories[userID]
	kept := make([]model.HistoryEntry, 0, len(cur))
	for _, e := range cur {
		if _, ok := remove[e.ID]; !ok {
			kept = append(kept, e)
		}
	}
	removed := len(cur) - len(kept)

	next := s.stateLocked()
	next.Histories[userID] = kept
	if err := s.commit(next); err != nil {
		return 0, err
	}

	s.histories[userID] = kept
	for id := range remove {
		delete(s.owners, id)
	}

	return removed, nil
}

// Close is a no-op kept for symmetry with the SQL backends.
func (s *Store) Close() error {
	return nil
}
