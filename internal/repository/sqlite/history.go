package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/ipgeo-server/internal/model"
)

var _ model.HistoryStore = (*HistoryRepository)(nil)

type HistoryRepository struct {
	db DBTX
}

func NewHistoryRepository(db DBTX) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, entry model.HistoryEntry) error {
	query := `INSERT INTO history_entries (id, user_id, ip, payload, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.UserID.String(), entry.IP, string(entry.Payload), formatTime(entry.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicateID
		}
		return fmt.Errorf("failed to append history entry: %w", err)
	}

	return nil
}

func (r *HistoryRepository) List(ctx context.Context, userID uuid.UUID) ([]model.HistoryEntry, error) {
	query := `SELECT id, ip, payload, created_at FROM history_entries WHERE user_id = ? ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := make([]model.HistoryEntry, 0)
	for rows.Next() {
		var (
			entry     model.HistoryEntry
			payload   string
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.IP, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.UserID = userID
		entry.Payload = []byte(payload)
		if entry.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	return entries, nil
}

func (r *HistoryRepository) DeleteMany(ctx context.Context, userID uuid.UUID, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	// ids are bound as a single JSON array, independent of the variable limit.
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return 0, fmt.Errorf("failed to encode history ids: %w", err)
	}
	query := `DELETE FROM history_entries WHERE user_id = ? AND id IN (SELECT value FROM json_each(?))`

	res, err := r.db.ExecContext(ctx, query, userID.String(), string(idsJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to delete history entries: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(n), nil
}
