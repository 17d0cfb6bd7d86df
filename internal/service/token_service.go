package service

import (
	"context"
	"fmt"

	"github.com/dtroode/ipgeo-server/internal/logger"
	"github.com/dtroode/ipgeo-server/internal/model"
)

// TokenService issues and verifies session tokens through the TokenManager.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

func (s *TokenService) Issue(_ context.Context, user model.User) (string, model.SessionClaims, error) {
	token, claims, err := s.manager.Issue(user)
	if err != nil {
		s.logger.Error("Token service: failed to issue token",
			"user_id", user.ID,
			"error", err.Error())
		return "", model.SessionClaims{}, fmt.Errorf("issue token: %w", err)
	}

	return token, claims, nil
}

// Verify returns the claims of a valid token. Failures wrap model.ErrInvalidToken
// together with the manager's reason.
func (s *TokenService) Verify(_ context.Context, token string) (model.SessionClaims, error) {
	claims, err := s.manager.Verify(token)
	if err != nil {
		s.logger.Debug("Token service: token rejected",
			"error", err.Error())
		return model.SessionClaims{}, fmt.Errorf("%w: %w", model.ErrInvalidToken, err)
	}

	return claims, nil
}
