// Package ipinfo looks up IP geolocation through the ipinfo.io HTTP API.
package ipinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dtroode/ipgeo-server/internal/model"
)

const (
	DefaultBaseURL = "https://ipinfo.io"
	DefaultTimeout = 5 * time.Second

	maxBodySize = 1 << 20
)

var _ model.GeoProvider = (*Client)(nil)

// Client calls {base}/{ip}/geo, or {base}/geo for the caller's own address.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client. Zero values fall back to the defaults.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) endpoint(ip string) string {
	if ip == "" {
		return c.baseURL + "/geo"
	}
	return c.baseURL + "/" + url.PathEscape(ip) + "/geo"
}

// Lookup returns the provider's JSON document for ip unchanged.
func (c *Client) Lookup(ctx context.Context, ip string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(ip), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("provider responded with status %d", resp.StatusCode)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("provider response is not valid JSON")
	}

	return json.RawMessage(body), nil
}
