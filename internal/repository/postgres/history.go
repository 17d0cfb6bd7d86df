package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/ipgeo-server/internal/model"
)

var _ model.HistoryStore = (*HistoryRepository)(nil)

type HistoryRepository struct {
	db *Connection
}

func NewHistoryRepository(db *Connection) *HistoryRepository {
	return &HistoryRepository{
		db: db,
	}
}

func (r *HistoryRepository) Append(ctx context.Context, entry model.HistoryEntry) error {
	query := `INSERT INTO history_entries (id, user_id, ip, payload, created_at)
			  VALUES ($1, $2, $3, $4::json, $5)`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.UserID, entry.IP, string(entry.Payload), entry.CreatedAt,
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
	query := `
		SELECT id, user_id, ip, payload, created_at
		FROM history_entries
		WHERE user_id = $1
		ORDER BY seq`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := make([]model.HistoryEntry, 0)
	for rows.Next() {
		var (
			entry   model.HistoryEntry
			payload []byte
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.IP, &payload, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Payload = payload
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

	const query = `DELETE FROM history_entries WHERE user_id = $1 AND id = ANY($2)`
	cmd, err := r.db.Exec(ctx, query, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete history entries: %w", err)
	}

	return int(cmd.RowsAffected()), nil
}
