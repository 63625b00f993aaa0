package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/apperr"
	"github.com/example/cruisebot/internal/ports/secondary"
)

// Outcome labels accepted by Archive.
const (
	OutcomeHeld    = "held"
	OutcomeNotHeld = "not_held"
)

const windowDateLayout = "2006-01-02"

// Archive snapshots the active ledger into history for the window starting
// at windowStart, clears the active set, and suspends reconciliation until
// a new data source is configured.
//
// The suspension is raised before the confirmation wait so a scheduled
// reconciliation cannot race the archival. If the operator declines or the
// wait times out, the previous suspension state is restored.
func (s *LedgerServiceImpl) Archive(ctx context.Context, windowStart, outcome string) error {
	if _, err := time.Parse(windowDateLayout, windowStart); err != nil {
		return fmt.Errorf("%w: window start %q is not a YYYY-MM-DD date", apperr.ErrValidation, windowStart)
	}
	if outcome != OutcomeHeld && outcome != OutcomeNotHeld {
		return fmt.Errorf("%w: outcome must be %q or %q", apperr.ErrValidation, OutcomeHeld, OutcomeNotHeld)
	}

	exists, err := s.ledger.HistoryWindowExists(ctx, windowStart)
	if err != nil {
		return fmt.Errorf("failed to check history: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: an archive for window %s already exists", apperr.ErrDateCollision, windowStart)
	}

	count, err := s.ledger.CountCarriers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count carriers: %w", err)
	}

	prior, err := s.ledger.GetEventState(ctx)
	if err != nil {
		return fmt.Errorf("failed to read event state: %w", err)
	}
	if err := s.ledger.SetUpdatesSuspended(ctx, true); err != nil {
		return fmt.Errorf("failed to suspend updates: %w", err)
	}

	preview := fmt.Sprintf("Archive %d carriers for window %s (%s), then clear the active ledger.\nReconciliation stays suspended until a new source is set.",
		count, windowStart, outcome)
	ok, err := s.confirm.Confirm(ctx, "Archive the ledger?", preview)
	if err != nil || !ok {
		if restoreErr := s.ledger.SetUpdatesSuspended(ctx, prior.UpdatesSuspended); restoreErr != nil {
			s.logger.Error("failed to restore suspension state", zap.Error(restoreErr))
		}
		if err != nil {
			return err
		}
		return apperr.ErrConfirmationDeclined
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	windowEnd := time.Now().UTC().Format(windowDateLayout)
	var copied, cleared int
	err = s.ledger.InTx(ctx, func(tx secondary.Ledger) error {
		var err error
		copied, err = tx.CopyCarriersToHistory(ctx, windowStart, windowEnd, outcome)
		if err != nil {
			return fmt.Errorf("failed to copy carriers to history: %w", err)
		}
		cleared, err = tx.DeleteAllCarriers(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear active ledger: %w", err)
		}
		if cleared != copied {
			return fmt.Errorf("archived %d rows but cleared %d", copied, cleared)
		}
		return nil
	})
	if err != nil {
		// The copy rolled back. Leave the suspension raised: the operator
		// asked for an archive, so a half-done one must not resume updates.
		return err
	}

	s.logger.Info("ledger archived",
		zap.String("window_start", windowStart),
		zap.String("window_end", windowEnd),
		zap.String("outcome", outcome),
		zap.Int("carriers", copied))

	s.writeDump(ctx)
	events := []secondary.Event{{
		Kind:   secondary.EventLedgerArchived,
		Detail: fmt.Sprintf("%d carriers archived for window %s (%s)", copied, windowStart, outcome),
	}}
	events = append(events, s.reportRefreshEvents(ctx)...)
	s.notify(ctx, events...)
	return nil
}
