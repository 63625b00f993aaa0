// Package webhook delivers structured notification events to a chat
// webhook as JSON. Rendering stays minimal: the receiving side owns
// presentation.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/ports/secondary"
)

// Notifier implements secondary.Notifier against a single webhook URL.
type Notifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewNotifier creates a webhook notifier.
func NewNotifier(url string, logger *zap.Logger) *Notifier {
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

type payload struct {
	Content string      `json:"content"`
	Events  []wireEvent `json:"events"`
}

type wireEvent struct {
	Kind        string `json:"kind"`
	CarrierID   string `json:"carrier_id,omitempty"`
	CarrierName string `json:"carrier_name,omitempty"`
	Operator    string `json:"operator,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// Notify posts the events in one request. A non-2xx response is an error;
// the caller treats delivery as best effort.
func (n *Notifier) Notify(ctx context.Context, events []secondary.Event) error {
	if len(events) == 0 {
		return nil
	}

	p := payload{Content: summarize(events)}
	for _, e := range events {
		p.Events = append(p.Events, wireEvent{
			Kind:        string(e.Kind),
			CarrierID:   e.CarrierID,
			CarrierName: e.CarrierName,
			Operator:    e.Operator,
			Detail:      e.Detail,
		})
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook delivery failed: status %d", resp.StatusCode)
	}

	n.logger.Debug("delivered notifications", zap.Int("events", len(events)))
	return nil
}

func summarize(events []secondary.Event) string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		switch e.Kind {
		case secondary.EventNewCarrier:
			lines = append(lines, fmt.Sprintf("New carrier signed up: %s (%s)", e.CarrierName, e.CarrierID))
		case secondary.EventOrphanCarrier:
			lines = append(lines, fmt.Sprintf("Carrier %s (%s) is in the ledger but missing from the sheet, needs review", e.CarrierName, e.CarrierID))
		case secondary.EventUnloadStarted:
			lines = append(lines, fmt.Sprintf("%s (%s) started unloading: %s", e.CarrierName, e.CarrierID, e.Detail))
		case secondary.EventUnloadCompleted:
			lines = append(lines, fmt.Sprintf("%s (%s) finished unloading: %s", e.CarrierName, e.CarrierID, e.Detail))
		case secondary.EventIdleReminder:
			lines = append(lines, "No carrier is unloading right now. Who's next?")
		case secondary.EventWindowOpened:
			lines = append(lines, "The cruise is on!")
		case secondary.EventWindowClosed:
			lines = append(lines, "The cruise has ended.")
		case secondary.EventLedgerArchived:
			lines = append(lines, fmt.Sprintf("Ledger archived: %s", e.Detail))
		case secondary.EventReportRefresh:
			lines = append(lines, fmt.Sprintf("Report refresh requested: %s", e.Detail))
		default:
			lines = append(lines, e.Detail)
		}
	}
	return strings.Join(lines, "\n")
}

// Ensure Notifier implements the interface
var _ secondary.Notifier = (*Notifier)(nil)
