// Package app implements the primary ports. LedgerServiceImpl is the one
// object owning the storage handle and the process-wide mutual exclusion:
// every multi-statement ledger mutation serializes on its lock.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/apperr"
	"github.com/example/cruisebot/internal/core/carrier"
	"github.com/example/cruisebot/internal/ports/primary"
	"github.com/example/cruisebot/internal/ports/secondary"
)

// Options carries the tunable knobs of the service.
type Options struct {
	// EventDuration is the assumed length of one event window, used for
	// the remaining-duration estimate.
	EventDuration time.Duration

	// ReminderAfter is how long after the last completed unload, with
	// nothing in progress, the idle reminder fires.
	ReminderAfter time.Duration
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		EventDuration: 48 * time.Hour,
		ReminderAfter: 20 * time.Minute,
	}
}

// LedgerServiceImpl implements the LedgerService interface.
type LedgerServiceImpl struct {
	// mu serializes every read-modify-write sequence. It is never held
	// across a confirmation wait or any other human input.
	mu sync.Mutex

	ledger   secondary.Ledger
	source   secondary.SnapshotSource
	notifier secondary.Notifier
	dump     secondary.DumpWriter
	confirm  secondary.Confirmer
	logger   *zap.Logger
	opts     Options
}

// NewLedgerService creates a new LedgerService with injected dependencies.
func NewLedgerService(
	ledger secondary.Ledger,
	source secondary.SnapshotSource,
	notifier secondary.Notifier,
	dumpWriter secondary.DumpWriter,
	confirmer secondary.Confirmer,
	logger *zap.Logger,
	opts Options,
) *LedgerServiceImpl {
	if opts.EventDuration <= 0 {
		opts.EventDuration = DefaultOptions().EventDuration
	}
	if opts.ReminderAfter <= 0 {
		opts.ReminderAfter = DefaultOptions().ReminderAfter
	}
	return &LedgerServiceImpl{
		ledger:   ledger,
		source:   source,
		notifier: notifier,
		dump:     dumpWriter,
		confirm:  confirmer,
		logger:   logger,
		opts:     opts,
	}
}

// GetCarrier retrieves one active carrier.
func (s *LedgerServiceImpl) GetCarrier(ctx context.Context, carrierID string) (*primary.Carrier, error) {
	rec, _, err := s.resolve(ctx, carrierID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, carrierID)
	}
	return recordToCarrier(rec), nil
}

// ListCarriers retrieves the active ledger ordered by identifier.
func (s *LedgerServiceImpl) ListCarriers(ctx context.Context) ([]*primary.Carrier, error) {
	records, err := s.ledger.ListCarriers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list carriers: %w", err)
	}

	carriers := make([]*primary.Carrier, len(records))
	for i, rec := range records {
		carriers[i] = recordToCarrier(rec)
	}
	return carriers, nil
}

// DeleteCarrier removes one active row after operator confirmation (the
// command exists to clean up bad entries, so it previews what it kills).
func (s *LedgerServiceImpl) DeleteCarrier(ctx context.Context, carrierID string) error {
	rec, id, err := s.resolve(ctx, carrierID)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
	}

	preview := fmt.Sprintf("Delete carrier %s (%s): %d runs logged, %d unloads recorded.",
		rec.Name, rec.ID, rec.RunCount, rec.TotalUnloads)
	ok, err := s.confirm.Confirm(ctx, "Delete this carrier?", preview)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrConfirmationDeclined
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ledger.DeleteCarrier(ctx, id); err != nil {
		return fmt.Errorf("failed to delete carrier: %w", err)
	}

	s.logger.Info("carrier deleted", zap.String("carrier_id", id))
	s.writeDump(ctx)
	s.notify(ctx, s.reportRefreshEvents(ctx)...)
	return nil
}

// PinReport registers a report message to refresh on ledger change.
func (s *LedgerServiceImpl) PinReport(ctx context.Context, channelID, messageID string) error {
	return s.ledger.PinReport(ctx, channelID, messageID)
}

// UnpinReport removes a registered report message.
func (s *LedgerServiceImpl) UnpinReport(ctx context.Context, channelID, messageID string) error {
	return s.ledger.UnpinReport(ctx, channelID, messageID)
}

// ListPinnedReports retrieves the registered report messages.
func (s *LedgerServiceImpl) ListPinnedReports(ctx context.Context) ([]*primary.PinnedReport, error) {
	records, err := s.ledger.ListPinnedReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pinned reports: %w", err)
	}
	reports := make([]*primary.PinnedReport, len(records))
	for i, rec := range records {
		reports[i] = &primary.PinnedReport{ChannelID: rec.ChannelID, MessageID: rec.MessageID}
	}
	return reports, nil
}

// Helper methods

// resolve normalizes a raw identifier and looks it up. A nil record with a
// nil error means "not found"; more than one row is corruption.
func (s *LedgerServiceImpl) resolve(ctx context.Context, rawID string) (*secondary.CarrierRecord, string, error) {
	id, err := carrier.NormalizeID(rawID)
	if err != nil {
		return nil, "", err
	}

	records, err := s.ledger.GetCarriersByID(ctx, id)
	if err != nil {
		return nil, id, fmt.Errorf("failed to look up carrier: %w", err)
	}

	switch len(records) {
	case 0:
		return nil, id, nil
	case 1:
		return records[0], id, nil
	default:
		s.logger.Error("duplicate active rows for identifier",
			zap.String("carrier_id", id),
			zap.Int("rows", len(records)))
		return nil, id, fmt.Errorf("%w: %s has %d active rows", apperr.ErrLedgerCorrupt, id, len(records))
	}
}

// writeDump exports the committed ledger. Best effort: failure is logged
// and otherwise ignored.
func (s *LedgerServiceImpl) writeDump(ctx context.Context) {
	records, err := s.ledger.ListCarriers(ctx)
	if err != nil {
		s.logger.Warn("dump skipped: cannot read ledger", zap.Error(err))
		return
	}
	state, err := s.ledger.GetEventState(ctx)
	if err != nil {
		s.logger.Warn("dump skipped: cannot read event state", zap.Error(err))
		return
	}

	payload := &secondary.DumpPayload{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		EventActive: state.Active,
		Carriers:    records,
	}
	if err := s.dump.WriteDump(ctx, payload); err != nil {
		s.logger.Warn("ledger dump failed", zap.Error(err))
	}
}

// notify delivers events best effort.
func (s *LedgerServiceImpl) notify(ctx context.Context, events ...secondary.Event) {
	if len(events) == 0 {
		return
	}
	if err := s.notifier.Notify(ctx, events); err != nil {
		s.logger.Warn("notification delivery failed",
			zap.Int("events", len(events)),
			zap.Error(err))
	}
}

// reportRefreshEvents builds one refresh event naming the registered
// report messages, or nothing when none are pinned.
func (s *LedgerServiceImpl) reportRefreshEvents(ctx context.Context) []secondary.Event {
	pins, err := s.ledger.ListPinnedReports(ctx)
	if err != nil {
		s.logger.Warn("cannot list pinned reports", zap.Error(err))
		return nil
	}
	if len(pins) == 0 {
		return nil
	}

	refs := make([]string, len(pins))
	for i, p := range pins {
		refs[i] = p.ChannelID + "/" + p.MessageID
	}
	return []secondary.Event{{
		Kind:   secondary.EventReportRefresh,
		Detail: fmt.Sprintf("%d pinned report(s): %v", len(pins), refs),
	}}
}

func recordToEntity(rec *secondary.CarrierRecord) carrier.Carrier {
	c := carrier.Carrier{
		ID:              rec.ID,
		Name:            rec.Name,
		WineTotal:       rec.WineTotal,
		Platform:        rec.Platform,
		DiscordUsername: rec.DiscordUsername,
		Timestamp:       rec.SourceTimestamp,
		RunCount:        rec.RunCount,
		TotalUnloads:    rec.TotalUnloads,
		Timezone:        rec.Timezone,
	}
	if rec.UnloadRef.Valid {
		c.UnloadRef = rec.UnloadRef.String
	}
	if rec.UnloadStartedBy.Valid {
		c.UnloadStartedBy = rec.UnloadStartedBy.String
	}
	return c
}

func entityToRecord(c carrier.Carrier) *secondary.CarrierRecord {
	return &secondary.CarrierRecord{
		ID:              c.ID,
		Name:            c.Name,
		WineTotal:       c.WineTotal,
		Platform:        c.Platform,
		DiscordUsername: c.DiscordUsername,
		SourceTimestamp: c.Timestamp,
		RunCount:        c.RunCount,
		TotalUnloads:    c.TotalUnloads,
		Timezone:        c.Timezone,
	}
}

func recordToCarrier(rec *secondary.CarrierRecord) *primary.Carrier {
	c := &primary.Carrier{
		ID:              rec.ID,
		Name:            rec.Name,
		Platform:        rec.Platform,
		DiscordUsername: rec.DiscordUsername,
		Timestamp:       rec.SourceTimestamp,
		RunCount:        rec.RunCount,
		TotalUnloads:    rec.TotalUnloads,
		Timezone:        rec.Timezone,
	}
	if rec.WineTotal.Valid {
		c.WineTotal = int(rec.WineTotal.Int64)
		c.WineTotalKnown = true
	}
	if rec.UnloadRef.Valid {
		c.UnloadRef = rec.UnloadRef.String
	}
	if rec.UnloadStartedBy.Valid {
		c.UnloadStartedBy = rec.UnloadStartedBy.String
	}
	if rec.UnloadStartedAt.Valid {
		c.UnloadStartedAt = rec.UnloadStartedAt.Time
	}
	if rec.UnloadMarketOpens.Valid {
		c.MarketOpensAt = rec.UnloadMarketOpens.Time
	}
	return c
}

func entityToCarrier(c carrier.Carrier) *primary.Carrier {
	out := &primary.Carrier{
		ID:              c.ID,
		Name:            c.Name,
		Platform:        c.Platform,
		DiscordUsername: c.DiscordUsername,
		Timestamp:       c.Timestamp,
		RunCount:        c.RunCount,
		TotalUnloads:    c.TotalUnloads,
		UnloadRef:       c.UnloadRef,
		UnloadStartedBy: c.UnloadStartedBy,
		Timezone:        c.Timezone,
	}
	if c.WineTotal.Valid {
		out.WineTotal = int(c.WineTotal.Int64)
		out.WineTotalKnown = true
	}
	return out
}

// Ensure LedgerServiceImpl implements the interface
var _ primary.LedgerService = (*LedgerServiceImpl)(nil)
