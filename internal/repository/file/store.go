// Package file persists the store as a single JSON document of the form
// {"users": [...], "histories": {"<userId>": [...]}}.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/ipgeo-server/internal/model"
	"github.com/dtroode/ipgeo-server/internal/repository/memory"
)

type document struct {
	Users     []userRecord             `json:"users"`
	Histories map[string][]entryRecord `json:"histories"`
}

type userRecord struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

type entryRecord struct {
	ID   string          `json:"id"`
	IP   string          `json:"ip"`
	Data json.RawMessage `json:"data"`
	When time.Time       `json:"when"`
}

// Open loads the document at path, creating it on first write, and returns a
// memory store that rewrites the document atomically on every mutation.
func Open(path string) (*memory.Store, error) {
	state, err := read(path)
	if err != nil {
		return nil, err
	}

	w := &writer{path: path}
	store, err := memory.New(memory.WithState(state), memory.WithPersister(w.write))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return store, nil
}

func read(path string) (memory.State, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return memory.State{}, nil
	}
	if err != nil {
		return memory.State{}, fmt.Errorf("failed to read store file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return memory.State{}, fmt.Errorf("failed to decode store file: %w", err)
	}

	return fromDocument(doc)
}

func fromDocument(doc document) (memory.State, error) {
	state := memory.State{Histories: make(map[uuid.UUID][]model.HistoryEntry, len(doc.Histories))}

	for _, u := range doc.Users {
		state.Users = append(state.Users, model.User{
			ID:           u.ID,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Name:         u.Name,
			CreatedAt:    u.CreatedAt,
		})
	}

	for key, records := range doc.Histories {
		userID, err := uuid.Parse(key)
		if err != nil {
			return memory.State{}, fmt.Errorf("invalid history owner %q: %w", key, err)
		}
		entries := make([]model.HistoryEntry, 0, len(records))
		for _, r := range records {
			entries = append(entries, model.HistoryEntry{
				ID:        r.ID,
				UserID:    userID,
				IP:        r.IP,
				Payload:   r.Data,
				CreatedAt: r.When,
			})
		}
		state.Histories[userID] = entries
	}

	return state, nil
}

func toDocument(state memory.State) document {
	doc := document{
		Users:     make([]userRecord, 0, len(state.Users)),
		Histories: make(map[string][]entryRecord, len(state.Histories)),
	}

	for _, u := range state.Users {
		doc.Users = append(doc.Users, userRecord{
			ID:           u.ID,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Name:         u.Name,
			CreatedAt:    u.CreatedAt,
		})
	}

	for userID, entries := range state.Histories {
		records := make([]entryRecord, 0, len(entries))
		for _, e := range entries {
			records = append(records, entryRecord{ID: e.ID, IP: e.IP, Data: e.Payload, When: e.CreatedAt})
		}
		doc.Histories[userID.String()] = records
	}

	return doc
}

type writer struct {
	path string
}

// write replaces the document via a synced temp file and rename, so readers
// see either the old or the new document and never a partial one.
func (w *writer) write(state memory.State) error {
	raw, err := json.MarshalIndent(toDocument(state), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store file: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, w.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	return nil
}
