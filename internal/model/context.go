package model

import (
	"context"
)

type ContextManager interface {
	SetClaimsToContext(ctx context.Context, claims SessionClaims) context.Context
	GetClaimsFromContext(ctx context.Context) (SessionClaims, bool)
}
