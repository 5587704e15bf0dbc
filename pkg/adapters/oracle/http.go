// Package oracle provides StatOracle implementations: an HTTP client for a
// remote calculation service and a deterministic scripted oracle for tests,
// examples and offline use.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
)

// DefaultTimeout bounds a single calculation call.
const DefaultTimeout = 10 * time.Second

// HTTPClient calls a remote stat-calculation service over JSON/HTTP. It
// implements ports.StatOracle. The service contract is a single POST
// endpoint taking a build description and returning its computed stats.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

// HTTPOption configures the HTTPClient.
type HTTPOption func(*HTTPClient)

// WithTimeout sets the per-call timeout (default 10s).
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTPClient) { c.client.Timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) { c.client = hc }
}

// NewHTTPClient creates a client for the given calculation endpoint.
func NewHTTPClient(endpoint string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate posts the build to the service and decodes the stats. Any
// transport, status or decode problem is returned as an error; the search
// layer treats it as a per-candidate failure.
func (c *HTTPClient) Calculate(ctx context.Context, build domain.BuildContext) (domain.BuildStats, error) {
	body, err := json.Marshal(build)
	if err != nil {
		return domain.BuildStats{}, fmt.Errorf("encode build: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.BuildStats{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.BuildStats{}, fmt.Errorf("oracle call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.BuildStats{}, fmt.Errorf("oracle returned %d: %s", resp.StatusCode, payload)
	}

	var stats domain.BuildStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return domain.BuildStats{}, fmt.Errorf("decode stats: %w", err)
	}
	return stats, nil
}
