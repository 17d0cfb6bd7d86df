package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/ipgeo-server/internal/model"
)

// ClaimsView is the wire form of session claims.
type ClaimsView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IssuedAt  int64     `json:"iat"`
	ExpiresAt int64     `json:"exp"`
}

type ProfileResponse struct {
	User ClaimsView `json:"user"`
}

// Profile returns the identity carried by the caller's token.
type Profile struct {
	contextManager model.ContextManager
}

func NewProfile(contextManager model.ContextManager) *Profile {
	return &Profile{contextManager: contextManager}
}

func (h *Profile) Get(c *gin.Context) {
	claims, ok := h.contextManager.GetClaimsFromContext(c.Request.Context())
	if !ok {
		WriteError(c, model.ErrMissingToken)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{User: ClaimsView{
		ID:        claims.SubjectID,
		Email:     claims.Email,
		Name:      claims.Name,
		IssuedAt:  claims.IssuedAt.Unix(),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}})
}
