package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/ipgeo-server/internal/api/http/handler"
	"github.com/dtroode/ipgeo-server/internal/logger"
	"github.com/dtroode/ipgeo-server/internal/model"
)

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (model.SessionClaims, error)
}

// Authenticate guards protected routes with a bearer session token.
type Authenticate struct {
	verifier       TokenVerifier
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(verifier TokenVerifier, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		verifier:       verifier,
		contextManager: contextManager,
		logger:         logger,
	}
}

// bearerToken extracts the credential from "Authorization: Bearer <token>".
// ok is false when no credential was presented at all.
func bearerToken(header string) (token string, ok bool, err error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false, nil
	}

	scheme, credential, found := strings.Cut(header, " ")
	credential = strings.TrimSpace(credential)
	if !found || credential == "" {
		return "", false, nil
	}
	if !strings.EqualFold(scheme, "Bearer") {
		return "", true, fmt.Errorf("unsupported authorization scheme %q", scheme)
	}

	return credential, true, nil
}

// Handle rejects the request with 401 unless it carries a valid token, and
// otherwise stores the token claims on the request context.
func (a *Authenticate) Handle(c *gin.Context) {
	token, ok, err := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		handler.WriteError(c, model.ErrMissingToken)
		return
	}
	if err != nil {
		a.logger.Debug("Authenticate middleware: malformed authorization header",
			"path", c.FullPath(),
			"error", err.Error())
		handler.WriteError(c, fmt.Errorf("%w: %w", model.ErrInvalidToken, err))
		return
	}

	claims, err := a.verifier.Verify(c.Request.Context(), token)
	if err != nil {
		a.logger.Debug("Authenticate middleware: token rejected",
			"path", c.FullPath(),
			"error", err.Error())
		handler.WriteError(c, fmt.Errorf("%w: %w", model.ErrInvalidToken, err))
		return
	}

	c.Request = c.Request.WithContext(a.contextManager.SetClaimsToContext(c.Request.Context(), claims))
	c.Next()
}
