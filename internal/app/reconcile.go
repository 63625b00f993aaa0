package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/apperr"
	"github.com/example/cruisebot/internal/core/carrier"
	"github.com/example/cruisebot/internal/core/reconcile"
	"github.com/example/cruisebot/internal/ports/primary"
	"github.com/example/cruisebot/internal/ports/secondary"
)

// Reconcile fetches the external snapshot and merges it against the active
// ledger in one transaction.
func (s *LedgerServiceImpl) Reconcile(ctx context.Context) (*primary.ReconcileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reconcileLocked(ctx)
}

// reconcileLocked is the pass body. Callers hold s.mu.
func (s *LedgerServiceImpl) reconcileLocked(ctx context.Context) (*primary.ReconcileResult, error) {
	state, err := s.ledger.GetEventState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read event state: %w", err)
	}
	if state.UpdatesSuspended {
		return nil, fmt.Errorf("%w: configure a new data source to resume", apperr.ErrUpdatesSuspended)
	}

	cfg, err := s.ledger.GetSourceConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read source config: %w", err)
	}
	if !cfg.Configured {
		return nil, fmt.Errorf("%w: run 'cruisebot source set' first", apperr.ErrSourceNotConfigured)
	}

	rows, err := s.source.FetchSnapshot(ctx, *cfg)
	if err != nil {
		return nil, err
	}

	// Any malformed identifier aborts the whole pass before a single write.
	snapshot, err := carrier.Aggregate(rows)
	if err != nil {
		return nil, err
	}

	records, err := s.ledger.ListCarriers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list carriers: %w", err)
	}
	current := make([]carrier.Carrier, len(records))
	for i, rec := range records {
		current[i] = recordToEntity(rec)
	}

	plan, err := reconcile.Diff(snapshot, current)
	if err != nil {
		return nil, err
	}

	if plan.HasWrites() {
		err = s.ledger.InTx(ctx, func(tx secondary.Ledger) error {
			for _, add := range plan.Adds {
				rec := entityToRecord(add)
				rec.TotalUnloads = 0
				if err := tx.InsertCarrier(ctx, rec); err != nil {
					return fmt.Errorf("failed to insert carrier %s: %w", add.ID, err)
				}
			}
			for _, upd := range plan.Updates {
				if err := tx.UpdateCarrierFields(ctx, entityToRecord(upd)); err != nil {
					return fmt.Errorf("failed to update carrier %s: %w", upd.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		s.writeDump(ctx)
	}

	result := &primary.ReconcileResult{
		Added:     len(plan.Adds),
		Updated:   len(plan.Updates),
		Unchanged: plan.Unchanged,
	}

	var events []secondary.Event
	for _, add := range plan.Adds {
		result.NewCarriers = append(result.NewCarriers, entityToCarrier(add))
		events = append(events, secondary.Event{
			Kind:        secondary.EventNewCarrier,
			CarrierID:   add.ID,
			CarrierName: add.Name,
		})
	}
	for _, orphan := range plan.Orphans {
		result.Orphans = append(result.Orphans, entityToCarrier(orphan))
		events = append(events, secondary.Event{
			Kind:        secondary.EventOrphanCarrier,
			CarrierID:   orphan.ID,
			CarrierName: orphan.Name,
			Detail:      "in ledger but missing from the snapshot",
		})
	}
	if plan.HasWrites() {
		events = append(events, s.reportRefreshEvents(ctx)...)
	}
	s.notify(ctx, events...)

	s.logger.Info("reconciliation pass finished",
		zap.Int("added", result.Added),
		zap.Int("updated", result.Updated),
		zap.Int("unchanged", result.Unchanged),
		zap.Int("orphans", len(result.Orphans)))
	return result, nil
}

// GetSource retrieves the configured data-source pointer.
func (s *LedgerServiceImpl) GetSource(ctx context.Context) (*primary.SourcePointer, bool, error) {
	cfg, err := s.ledger.GetSourceConfig(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read source config: %w", err)
	}
	if !cfg.Configured {
		return nil, false, nil
	}
	return &primary.SourcePointer{
		SpreadsheetID: cfg.SpreadsheetID,
		Worksheet:     cfg.Worksheet,
		SubmissionURL: cfg.SubmissionURL,
	}, true, nil
}

// ConfigureSource persists a new data-source pointer, lifts any update
// suspension, and runs one seeding reconciliation pass. The active ledger
// must be empty so the new source starts from a clean slate.
func (s *LedgerServiceImpl) ConfigureSource(ctx context.Context, ptr primary.SourcePointer) (*primary.ReconcileResult, error) {
	if ptr.SpreadsheetID == "" || ptr.Worksheet == "" {
		return nil, fmt.Errorf("%w: spreadsheet id and worksheet are required", apperr.ErrValidation)
	}

	count, err := s.ledger.CountCarriers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count carriers: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %d active carriers, archive the ledger first", apperr.ErrLedgerNotEmpty, count)
	}

	preview := fmt.Sprintf("New data source: spreadsheet %s, worksheet %q.", ptr.SpreadsheetID, ptr.Worksheet)
	ok, err := s.confirm.Confirm(ctx, "Configure this source and resume updates?", preview)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.ErrConfirmationDeclined
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.ledger.InTx(ctx, func(tx secondary.Ledger) error {
		rec := &secondary.SourceConfigRecord{
			SpreadsheetID: ptr.SpreadsheetID,
			Worksheet:     ptr.Worksheet,
			SubmissionURL: ptr.SubmissionURL,
		}
		if err := tx.SetSourceConfig(ctx, rec); err != nil {
			return fmt.Errorf("failed to persist source config: %w", err)
		}
		if err := tx.SetUpdatesSuspended(ctx, false); err != nil {
			return fmt.Errorf("failed to lift update suspension: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("data source configured",
		zap.String("spreadsheet_id", ptr.SpreadsheetID),
		zap.String("worksheet", ptr.Worksheet))

	result, err := s.reconcileLocked(ctx)
	if err != nil {
		return nil, fmt.Errorf("source configured, but the seeding pass failed: %w", err)
	}
	return result, nil
}
