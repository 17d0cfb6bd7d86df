package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/ipgeo-server/internal/model"
)

func TestOpen_PersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")

	s, err := Open(path)
	require.NoError(t, err)

	u := model.User{ID: uuid.New(), Email: "candidate@example.com", PasswordHash: "hash", Name: "Candidate User", CreatedAt: time.Now().UTC()}
	_, err = s.Create(ctx, u)
	require.NoError(t, err)

	e1 := model.HistoryEntry{ID: uuid.NewString(), UserID: u.ID, IP: "8.8.8.8", Payload: json.RawMessage(`{"city":"X"}`), CreatedAt: time.Now().UTC()}
	e2 := model.HistoryEntry{ID: uuid.NewString(), UserID: u.ID, IP: "1.1.1.1", Payload: json.RawMessage(`{"city":"Y"}`), CreatedAt: time.Now().UTC()}
	require.NoError(t, s.Append(ctx, e1))
	require.NoError(t, s.Append(ctx, e2))

	n, err := s.DeleteMany(ctx, u.ID, []string{e1.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	reopened, err := Open(path)
	require.NoError(t, err)

	got, err := reopened.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	list, err := reopened.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, e2.ID, list[0].ID)
	assert.JSONEq(t, `{"city":"Y"}`, string(list[0].Payload))
}

func TestOpen_DocumentShape(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")

	s, err := Open(path)
	require.NoError(t, err)

	userID := uuid.New()
	_, err = s.Create(ctx, model.User{ID: userID, Email: "a@b.c", PasswordHash: "h", Name: "A"})
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, model.HistoryEntry{ID: "e1", UserID: userID, IP: "8.8.8.8", Payload: json.RawMessage(`{"city":"X"}`)}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "users")
	assert.Contains(t, doc, "histories")

	var histories map[string][]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["histories"], &histories))
	require.Len(t, histories[userID.String()], 1)
	entry := histories[userID.String()][0]
	assert.Contains(t, entry, "id")
	assert.Contains(t, entry, "ip")
	assert.Contains(t, entry, "data")
	assert.Contains(t, entry, "when")
}

func TestOpen_InvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Open(path)
	require.Error(t, err)
}

func TestOpen_InvalidHistoryOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"users":[],"histories":{"1":[]}}`), 0o600))

	_, err := Open(path)
	require.Error(t, err)
}

func TestOpen_WriteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "db.json")

	s, err := Open(path)
	require.NoError(t, err)

	// A regular file where the parent directory should be makes every write fail.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub"), nil, 0o600))

	userID := uuid.New()
	err = s.Append(ctx, model.HistoryEntry{ID: uuid.NewString(), UserID: userID, IP: "8.8.8.8", Payload: json.RawMessage(`{}`)})
	require.ErrorIs(t, err, model.ErrPersistence)

	list, err := s.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
