package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/apperr"
	"github.com/example/cruisebot/internal/core/unload"
	"github.com/example/cruisebot/internal/ports/primary"
	"github.com/example/cruisebot/internal/ports/secondary"
)

// StartUnload opens an unload cycle for a carrier. The run slot is consumed
// here: total_unloads increments at start, not at completion, so an
// abandoned cycle still burns the run it claimed.
func (s *LedgerServiceImpl) StartUnload(ctx context.Context, req primary.StartUnloadRequest) (*primary.Carrier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, id, err := s.resolve(ctx, req.CarrierID)
	if err != nil {
		return nil, err
	}

	gctx := unload.StartContext{CarrierID: id, Found: rec != nil}
	if rec != nil {
		gctx.UnloadRef = nullStr(rec.UnloadRef)
		gctx.TotalUnloads = rec.TotalUnloads
		gctx.RunCount = rec.RunCount
	}
	if guard := unload.CanStartUnload(gctx); !guard.Allowed {
		return nil, guard.Error()
	}

	ref := uuid.NewString()
	now := time.Now().UTC()
	marketOpens := sql.NullTime{}
	if !req.MarketOpensAt.IsZero() {
		marketOpens = sql.NullTime{Time: req.MarketOpensAt.UTC(), Valid: true}
	}

	if err := s.ledger.SetUnloadInProgress(ctx, id, ref, req.Operator, now, marketOpens); err != nil {
		return nil, fmt.Errorf("failed to start unload: %w", err)
	}

	s.logger.Info("unload started",
		zap.String("carrier_id", id),
		zap.String("unload_ref", ref),
		zap.String("operator", req.Operator),
		zap.Int("slot", rec.TotalUnloads+1),
		zap.Int("run_count", rec.RunCount))

	s.writeDump(ctx)
	detail := req.Location
	if marketOpens.Valid {
		detail = fmt.Sprintf("market opens %s", marketOpens.Time.Format(time.RFC3339))
	}
	events := []secondary.Event{{
		Kind:        secondary.EventUnloadStarted,
		CarrierID:   id,
		CarrierName: rec.Name,
		Operator:    req.Operator,
		Detail:      detail,
	}}
	events = append(events, s.reportRefreshEvents(ctx)...)
	s.notify(ctx, events...)

	return s.reload(ctx, id)
}

// CompleteUnload closes the open cycle and reports how long it ran.
func (s *LedgerServiceImpl) CompleteUnload(ctx context.Context, carrierID string) (*primary.CompleteUnloadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, id, err := s.resolve(ctx, carrierID)
	if err != nil {
		return nil, err
	}

	gctx := unload.CompleteContext{CarrierID: id, Found: rec != nil}
	if rec != nil {
		gctx.UnloadRef = nullStr(rec.UnloadRef)
	}
	if guard := unload.CanCompleteUnload(gctx); !guard.Allowed {
		return nil, guard.Error()
	}

	now := time.Now().UTC()
	var duration time.Duration
	if rec.UnloadStartedAt.Valid {
		duration = now.Sub(rec.UnloadStartedAt.Time)
		if duration < 0 {
			duration = 0
		}
	}

	err = s.ledger.InTx(ctx, func(tx secondary.Ledger) error {
		if err := tx.ClearUnload(ctx, id); err != nil {
			return fmt.Errorf("failed to clear unload: %w", err)
		}
		if err := tx.SetLastUnloadCompleted(ctx, sql.NullTime{Time: now, Valid: true}); err != nil {
			return fmt.Errorf("failed to stamp completion marker: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("unload completed",
		zap.String("carrier_id", id),
		zap.Duration("duration", duration))

	s.writeDump(ctx)
	events := []secondary.Event{{
		Kind:        secondary.EventUnloadCompleted,
		CarrierID:   id,
		CarrierName: rec.Name,
		Operator:    nullStr(rec.UnloadStartedBy),
		Detail:      fmt.Sprintf("done in %s", duration.Round(time.Second)),
	}}
	events = append(events, s.reportRefreshEvents(ctx)...)
	s.notify(ctx, events...)

	updated, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	return &primary.CompleteUnloadResult{Carrier: updated, Duration: duration}, nil
}

// ForceComplete is the administrative override. It increments total_unloads
// unconditionally and clears any open marker, with no run-budget or
// open-cycle guard. Because a normal start already consumed its slot,
// forcing while a cycle is open counts that run twice. That is the known
// cost of the escape hatch; operators confirm before it runs.
func (s *LedgerServiceImpl) ForceComplete(ctx context.Context, carrierID string) (*primary.Carrier, error) {
	rec, id, err := s.resolve(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	if guard := unload.CanForceComplete(unload.ForceContext{CarrierID: id, Found: rec != nil}); !guard.Allowed {
		return nil, guard.Error()
	}

	preview := fmt.Sprintf("Force-complete %s (%s): unloads go %d -> %d of %d runs, open marker cleared.",
		rec.Name, rec.ID, rec.TotalUnloads, rec.TotalUnloads+1, rec.RunCount)
	ok, err := s.confirm.Confirm(ctx, "Force-complete this unload?", preview)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrConfirmationDeclined
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-resolve under the lock: the row may have changed during the wait.
	rec, id, err = s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if guard := unload.CanForceComplete(unload.ForceContext{CarrierID: id, Found: rec != nil}); !guard.Allowed {
		return nil, guard.Error()
	}

	err = s.ledger.InTx(ctx, func(tx secondary.Ledger) error {
		if err := tx.IncrementTotalUnloads(ctx, id); err != nil {
			return fmt.Errorf("failed to increment unload counter: %w", err)
		}
		if err := tx.ClearUnload(ctx, id); err != nil {
			return fmt.Errorf("failed to clear unload: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Warn("unload force-completed",
		zap.String("carrier_id", id),
		zap.Int("total_unloads", rec.TotalUnloads+1))

	s.writeDump(ctx)
	events := []secondary.Event{{
		Kind:        secondary.EventUnloadCompleted,
		CarrierID:   id,
		CarrierName: rec.Name,
		Detail:      "force-completed by an operator",
	}}
	events = append(events, s.reportRefreshEvents(ctx)...)
	s.notify(ctx, events...)

	return s.reload(ctx, id)
}

// IdleReminderCheck emits at most one reminder when the event is active,
// nothing is unloading, and the last completed unload is old enough. The
// completion marker is nulled after sending so the reminder cannot repeat
// until another unload completes.
func (s *LedgerServiceImpl) IdleReminderCheck(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.ledger.GetEventState(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read event state: %w", err)
	}
	if !state.Active || !state.LastUnloadCompletedAt.Valid {
		return false, nil
	}

	idle := time.Since(state.LastUnloadCompletedAt.Time)
	if idle < s.opts.ReminderAfter {
		return false, nil
	}

	busy, err := s.ledger.AnyUnloadInProgress(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check open unloads: %w", err)
	}
	if busy {
		return false, nil
	}

	s.notify(ctx, secondary.Event{
		Kind:   secondary.EventIdleReminder,
		Detail: fmt.Sprintf("no unload for %s", idle.Round(time.Minute)),
	})
	if err := s.ledger.SetLastUnloadCompleted(ctx, sql.NullTime{}); err != nil {
		return true, fmt.Errorf("failed to clear completion marker: %w", err)
	}

	s.logger.Info("idle reminder sent", zap.Duration("idle", idle))
	return true, nil
}

// reload fetches the fresh row after a mutation.
func (s *LedgerServiceImpl) reload(ctx context.Context, id string) (*primary.Carrier, error) {
	records, err := s.ledger.GetCarriersByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload carrier: %w", err)
	}
	if len(records) != 1 {
		return nil, fmt.Errorf("%w: %s after write", apperr.ErrNotFound, id)
	}
	return recordToCarrier(records[0]), nil
}

func nullStr(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}
