package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/apperr"
	"github.com/example/cruisebot/internal/ports/primary"
	"github.com/example/cruisebot/internal/ports/secondary"
)

// EventStatus reports the current window state.
func (s *LedgerServiceImpl) EventStatus(ctx context.Context) (*primary.EventStatus, error) {
	state, err := s.ledger.GetEventState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read event state: %w", err)
	}

	status := &primary.EventStatus{
		Active:           state.Active,
		FlippedAt:        state.FlippedAt,
		UpdatesSuspended: state.UpdatesSuspended,
	}
	if state.Active {
		status.Remaining = s.remaining(state)
	}
	return status, nil
}

// RemainingDuration estimates the time left in the active window.
func (s *LedgerServiceImpl) RemainingDuration(ctx context.Context) (time.Duration, error) {
	state, err := s.ledger.GetEventState(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read event state: %w", err)
	}
	if !state.Active {
		return 0, apperr.ErrNoActiveEvent
	}
	return s.remaining(state), nil
}

// remaining is the window-length estimate anchored at the observed flip.
// It is an estimate: the flip is noticed by polling, so the anchor lags
// the true opening by up to one poll interval.
func (s *LedgerServiceImpl) remaining(state *secondary.EventStateRecord) time.Duration {
	if state.FlippedAt.IsZero() {
		return 0
	}
	left := s.opts.EventDuration - time.Since(state.FlippedAt)
	if left < 0 {
		return 0
	}
	return left
}

// SetEventActive records an observed flip of the external event flag. When
// the stored flag already matches this is a no-op, so the poller can call
// it every tick.
func (s *LedgerServiceImpl) SetEventActive(ctx context.Context, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.ledger.GetEventState(ctx)
	if err != nil {
		return fmt.Errorf("failed to read event state: %w", err)
	}
	if state.Active == active {
		return nil
	}

	now := time.Now().UTC()
	if err := s.ledger.SetEventActive(ctx, active, now); err != nil {
		return fmt.Errorf("failed to flip event state: %w", err)
	}

	kind := secondary.EventWindowClosed
	if active {
		kind = secondary.EventWindowOpened
	}
	s.logger.Info("event window flipped",
		zap.Bool("active", active),
		zap.Time("at", now))
	s.notify(ctx, secondary.Event{Kind: kind})
	return nil
}
