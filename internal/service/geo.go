package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dtroode/ipgeo-server/internal/logger"
	"github.com/dtroode/ipgeo-server/internal/model"
)

// Geo proxies lookups to the geolocation provider.
type Geo struct {
	provider model.GeoProvider
	logger   *logger.Logger
}

func NewGeo(provider model.GeoProvider, logger *logger.Logger) *Geo {
	return &Geo{provider: provider, logger: logger}
}

// Lookup returns the provider document for ip, or for the caller when ip is
// empty. Any provider failure is reported as model.ErrUpstream.
func (s *Geo) Lookup(ctx context.Context, ip string) (json.RawMessage, error) {
	doc, err := s.provider.Lookup(ctx, ip)
	if err != nil {
		s.logger.Warn("Geo service: provider lookup failed",
			"ip", ip,
			"error", err.Error())
		return nil, fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}

	return doc, nil
}
