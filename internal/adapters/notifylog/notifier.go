// Package notifylog is the fallback notifier used when no webhook is
// configured: events land in the structured log instead of a channel.
package notifylog

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/ports/secondary"
)

// Notifier logs each event at Info level.
type Notifier struct {
	logger *zap.Logger
}

// NewNotifier creates a log-backed notifier.
func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Notify writes one log line per event. It never fails.
func (n *Notifier) Notify(ctx context.Context, events []secondary.Event) error {
	for _, e := range events {
		n.logger.Info("notification",
			zap.String("kind", string(e.Kind)),
			zap.String("carrier_id", e.CarrierID),
			zap.String("carrier_name", e.CarrierName),
			zap.String("operator", e.Operator),
			zap.String("detail", e.Detail))
	}
	return nil
}

// Ensure Notifier implements the interface
var _ secondary.Notifier = (*Notifier)(nil)
