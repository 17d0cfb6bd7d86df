package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/ipgeo-server/internal/model"
)

// ExportService uploads a user's history to object storage.
type ExportService interface {
	ExportHistory(ctx context.Context, userID uuid.UUID) (string, error)
}

type ExportResponse struct {
	Key string `json:"key"`
}

// Export handles history export requests.
type Export struct {
	exportService  ExportService
	contextManager model.ContextManager
}

func NewExport(exportService ExportService, contextManager model.ContextManager) *Export {
	return &Export{exportService: exportService, contextManager: contextManager}
}

func (h *Export) Create(c *gin.Context) {
	userID, ok := userIDFrom(c, h.contextManager)
	if !ok {
		return
	}

	key, err := h.exportService.ExportHistory(c.Request.Context(), userID)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, ExportResponse{Key: key})
}
