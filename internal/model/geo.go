package model

import (
	"context"
	"encoding/json"
)

// GeoProvider resolves an address to the provider's geolocation document.
// An empty ip asks the provider about the caller's own address.
type GeoProvider interface {
	Lookup(ctx context.Context, ip string) (json.RawMessage, error)
}
