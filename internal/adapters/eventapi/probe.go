// Package eventapi polls the external event-state endpoint.
package eventapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/ports/secondary"
)

// Probe implements secondary.EventProbe against a JSON endpoint of the
// shape {"active": bool}.
type Probe struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewProbe creates a probe for the given endpoint.
func NewProbe(url string, logger *zap.Logger) *Probe {
	return &Probe{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// EventActive fetches the current flag. Errors mean "unknown"; the caller
// keeps the last stored state.
func (p *Probe) EventActive(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build event-state request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to reach event-state endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("event-state endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode event-state response: %w", err)
	}

	p.logger.Debug("polled event state", zap.Bool("active", body.Active))
	return body.Active, nil
}

// Ensure Probe implements the interface
var _ secondary.EventProbe = (*Probe)(nil)
