package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/ipgeo-server/internal/logger"
	"github.com/dtroode/ipgeo-server/internal/model"
	"github.com/dtroode/ipgeo-server/internal/service"
)

// HistoryService defines per-user lookup history operations.
type HistoryService interface {
	Append(ctx context.Context, userID uuid.UUID, ip string, payload json.RawMessage) (model.HistoryEntry, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.HistoryEntry, error)
	Delete(ctx context.Context, userID uuid.UUID, ids []string) (int, error)
}

type addHistoryRequest struct {
	IP   string          `json:"ip"`
	Data json.RawMessage `json:"data"`
}

func (r addHistoryRequest) validate() error {
	if r.IP == "" || isEmptyData(r.Data) {
		return model.NewValidationError("entry", "ip and data required")
	}
	return nil
}

// isEmptyData reports whether data is absent or one of the scalar zero values
// null, false, 0 or "". Empty objects and arrays count as present.
func isEmptyData(data json.RawMessage) bool {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return true
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return false
	}
	switch v := v.(type) {
	case nil:
		return true
	case bool:
		return !v
	case float64:
		return v == 0
	case string:
		return v == ""
	}
	return false
}

type deleteHistoryRequest struct {
	IDs *[]string `json:"ids"`
}

type EntryResponse struct {
	Entry service.EntryView `json:"entry"`
}

type DeleteResponse struct {
	Deleted int `json:"deleted"`
}

// History handles the caller's lookup history.
type History struct {
	historyService HistoryService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewHistory(historyService HistoryService, contextManager model.ContextManager, logger *logger.Logger) *History {
	return &History{
		historyService: historyService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func userIDFrom(c *gin.Context, cm model.ContextManager) (uuid.UUID, bool) {
	claims, ok := cm.GetClaimsFromContext(c.Request.Context())
	if !ok || claims.SubjectID == uuid.Nil {
		WriteError(c, model.ErrMissingToken)
		return uuid.Nil, false
	}
	return claims.SubjectID, true
}

// List returns the caller's entries in insertion order.
func (h *History) List(c *gin.Context) {
	userID, ok := userIDFrom(c, h.contextManager)
	if !ok {
		return
	}

	entries, err := h.historyService.List(c.Request.Context(), userID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, service.NewDocument(entries))
}

// Add records a completed lookup.
func (h *History) Add(c *gin.Context) {
	userID, ok := userIDFrom(c, h.contextManager)
	if !ok {
		return
	}

	var req addHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteError(c, model.NewValidationError("entry", "ip and data required"))
		return
	}
	if err := req.validate(); err != nil {
		WriteError(c, err)
		return
	}

	entry, err := h.historyService.Append(c.Request.Context(), userID, req.IP, req.Data)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, EntryResponse{Entry: service.NewEntryView(entry)})
}

// Delete removes the listed entries of the caller and reports how many were removed.
func (h *History) Delete(c *gin.Context) {
	userID, ok := userIDFrom(c, h.contextManager)
	if !ok {
		return
	}

	var req deleteHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IDs == nil {
		WriteError(c, model.NewValidationError("ids", "ids array required"))
		return
	}

	deleted, err := h.historyService.Delete(c.Request.Context(), userID, *req.IDs)
	if err != nil {
		WriteError(c, err)
		return
	}

	h.logger.Debug("History handler: entries deleted",
		"user_id", userID,
		"deleted", deleted)

	c.JSON(http.StatusOK, DeleteResponse{Deleted: deleted})
}
