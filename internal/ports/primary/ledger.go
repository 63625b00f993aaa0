// Package primary defines the primary ports (driving interfaces) for the
// application. The command layer talks to the core exclusively through
// these.
package primary

import (
	"context"
	"time"
)

// Carrier is the presentation shape of a carrier entity.
type Carrier struct {
	ID              string
	Name            string
	WineTotal       int
	WineTotalKnown  bool
	Platform        string
	DiscordUsername string
	Timestamp       string
	RunCount        int
	TotalUnloads    int
	UnloadRef       string
	UnloadStartedBy string
	UnloadStartedAt time.Time
	MarketOpensAt   time.Time
	Timezone        string
}

// Unloading reports whether an unload cycle is open.
func (c *Carrier) Unloading() bool {
	return c.UnloadRef != ""
}

// ReconcileResult summarizes one reconciliation pass.
type ReconcileResult struct {
	Added     int
	Updated   int
	Unchanged int
	// Orphans are active ledger rows missing from the snapshot, surfaced
	// for manual review.
	Orphans []*Carrier
	// NewCarriers are the rows inserted this pass, for announcements.
	NewCarriers []*Carrier
}

// StartUnloadRequest carries the parameters of an unload start.
type StartUnloadRequest struct {
	CarrierID string
	Location  string
	Operator  string
	// MarketOpensAt, when set, is the timed variant: a future market-open
	// time carried for display only.
	MarketOpensAt time.Time
}

// CompleteUnloadResult reports a finished unload cycle.
type CompleteUnloadResult struct {
	Carrier *Carrier
	// Duration is completion time minus start time, floored at zero.
	Duration time.Duration
}

// SourcePointer identifies the external spreadsheet feeding reconciliation.
type SourcePointer struct {
	SpreadsheetID string
	Worksheet     string
	SubmissionURL string
}

// EventStatus is the externally visible event-window state.
type EventStatus struct {
	Active           bool
	FlippedAt        time.Time
	Remaining        time.Duration
	UpdatesSuspended bool
}

// PinnedReport is one registered report message reference.
type PinnedReport struct {
	ChannelID string
	MessageID string
}

// LedgerService is the single primary port over the carrier ledger. One
// instance owns the storage handle and the process-wide mutual exclusion;
// every mutating method serializes on that lock.
type LedgerService interface {
	// Reconcile fetches the external snapshot and merges it against the
	// active ledger in one transaction. It refuses to run while the data
	// source is unconfigured or updates are suspended.
	Reconcile(ctx context.Context) (*ReconcileResult, error)

	// StartUnload opens an unload cycle. The run slot is consumed at
	// start: total_unloads increments here, not at completion.
	StartUnload(ctx context.Context, req StartUnloadRequest) (*Carrier, error)

	// CompleteUnload closes the open cycle and reports its duration.
	CompleteUnload(ctx context.Context, carrierID string) (*CompleteUnloadResult, error)

	// ForceComplete is the confirmation-gated administrative override: it
	// increments total_unloads unconditionally and clears any open marker.
	ForceComplete(ctx context.Context, carrierID string) (*Carrier, error)

	// DeleteCarrier removes one active row after confirmation.
	DeleteCarrier(ctx context.Context, carrierID string) error

	// Archive snapshots the active ledger into history for the window
	// starting at windowStart (YYYY-MM-DD), clears the active set, and
	// suspends updates until a new source is configured.
	Archive(ctx context.Context, windowStart, outcome string) error

	// ConfigureSource persists a new data-source pointer (active ledger
	// must be empty), lifts the update suspension, and runs one seeding
	// reconciliation pass.
	ConfigureSource(ctx context.Context, ptr SourcePointer) (*ReconcileResult, error)

	// GetSource retrieves the configured data-source pointer. The second
	// return is false when no pointer has ever been set.
	GetSource(ctx context.Context) (*SourcePointer, bool, error)

	// EventStatus reports the current window state including the remaining
	// duration estimate.
	EventStatus(ctx context.Context) (*EventStatus, error)

	// RemainingDuration estimates time left in the active window.
	RemainingDuration(ctx context.Context) (time.Duration, error)

	// SetEventActive records an observed flip of the external event flag.
	// A no-op when the stored flag already matches.
	SetEventActive(ctx context.Context, active bool) error

	// IdleReminderCheck emits at most one reminder when the event is
	// active, nothing is unloading, and no unload completed recently.
	// Returns whether a reminder was sent.
	IdleReminderCheck(ctx context.Context) (bool, error)

	// GetCarrier retrieves one active carrier.
	GetCarrier(ctx context.Context, carrierID string) (*Carrier, error)

	// ListCarriers retrieves the active ledger ordered by identifier.
	ListCarriers(ctx context.Context) ([]*Carrier, error)

	// PinReport registers a report message to refresh on ledger change.
	PinReport(ctx context.Context, channelID, messageID string) error

	// UnpinReport removes a registered report message.
	UnpinReport(ctx context.Context, channelID, messageID string) error

	// ListPinnedReports retrieves the registered report messages.
	ListPinnedReports(ctx context.Context) ([]*PinnedReport, error)
}
