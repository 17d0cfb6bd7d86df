package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/ipgeo-server/internal/logger"
	"github.com/dtroode/ipgeo-server/internal/model"
)

// Export uploads a user's history document to object storage.
type Export struct {
	history *History
	storage model.Storage
	logger  *logger.Logger
	now     func() time.Time
}

func NewExport(history *History, storage model.Storage, logger *logger.Logger) *Export {
	return &Export{history: history, storage: storage, logger: logger, now: time.Now}
}

// ExportHistory writes {"history":[...]} to exports/<userID>/<unixnano>.json
// and returns the object key.
func (s *Export) ExportHistory(ctx context.Context, userID uuid.UUID) (string, error) {
	entries, err := s.history.List(ctx, userID)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(NewDocument(entries))
	if err != nil {
		return "", fmt.Errorf("failed to encode history: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%d.json", userID, s.now().UnixNano())
	if err := s.storage.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		s.logger.Error("Export service: failed to upload history",
			"user_id", userID,
			"key", key,
			"error", err.Error())
		return "", fmt.Errorf("failed to upload history export: %w", err)
	}

	s.logger.Info("Export service: history exported",
		"user_id", userID,
		"key", key,
		"entries", len(entries))

	return key, nil
}
