package context

import (
	"context"

	"github.com/dtroode/ipgeo-server/internal/model"
)

type claimsKey struct{}

var _ model.ContextManager = (*Manager)(nil)

// Manager stores verified session claims on a request context.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetClaimsToContext returns a child context carrying claims.
func (m *Manager) SetClaimsToContext(ctx context.Context, claims model.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaimsFromContext returns the claims set by SetClaimsToContext.
func (m *Manager) GetClaimsFromContext(ctx context.Context) (model.SessionClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(model.SessionClaims)
	return claims, ok
}
