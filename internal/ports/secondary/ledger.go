// Package secondary defines the secondary ports (driven adapters) for the
// application: the ledger store and the external collaborators.
package secondary

import (
	"context"
	"database/sql"
	"time"
)

// Ledger defines the secondary port for ledger persistence.
//
// InTx runs fn against a transactional view of the same interface; every
// multi-statement mutation (reconciliation pass, archival) goes through it
// so the pass commits all-or-nothing.
type Ledger interface {
	// InTx runs fn in a single transaction, committing on nil and rolling
	// back on error.
	InTx(ctx context.Context, fn func(tx Ledger) error) error

	// ListCarriers retrieves every active carrier row, ordered by identifier.
	ListCarriers(ctx context.Context) ([]*CarrierRecord, error)

	// GetCarriersByID retrieves all active rows for an identifier. More
	// than one row is the uniqueness invariant being violated; callers
	// treat that as corruption, the store just reports what is there.
	GetCarriersByID(ctx context.Context, id string) ([]*CarrierRecord, error)

	// InsertCarrier persists a new active carrier row.
	InsertCarrier(ctx context.Context, rec *CarrierRecord) error

	// UpdateCarrierFields writes through the externally sourced fields
	// (name, wine total, discord username, timestamp, run count, timezone).
	// Ledger-owned fields are untouched.
	UpdateCarrierFields(ctx context.Context, rec *CarrierRecord) error

	// DeleteCarrier removes one active row.
	DeleteCarrier(ctx context.Context, id string) error

	// DeleteAllCarriers clears the active set, returning the row count.
	DeleteAllCarriers(ctx context.Context) (int, error)

	// CountCarriers returns the active row count.
	CountCarriers(ctx context.Context) (int, error)

	// SetUnloadInProgress stamps the open-unload marker and increments
	// total_unloads in the same statement (the slot is consumed at start).
	SetUnloadInProgress(ctx context.Context, id, ref, startedBy string, startedAt time.Time, marketOpensAt sql.NullTime) error

	// IncrementTotalUnloads bumps the counter without touching the marker
	// (forced completion path).
	IncrementTotalUnloads(ctx context.Context, id string) error

	// ClearUnload nulls the open-unload marker and its attribution.
	ClearUnload(ctx context.Context, id string) error

	// AnyUnloadInProgress reports whether any active row has an open unload.
	AnyUnloadInProgress(ctx context.Context) (bool, error)

	// HistoryWindowExists reports whether an archive exists for the window
	// start date.
	HistoryWindowExists(ctx context.Context, windowStart string) (bool, error)

	// CopyCarriersToHistory copies every active row into history with the
	// window dates and outcome stamped in the same insert. Returns the
	// number of rows copied.
	CopyCarriersToHistory(ctx context.Context, windowStart, windowEnd, outcome string) (int, error)

	// ListHistory retrieves archived rows for a window start date.
	ListHistory(ctx context.Context, windowStart string) ([]*HistoryRecord, error)

	// GetEventState retrieves the single event-state row.
	GetEventState(ctx context.Context) (*EventStateRecord, error)

	// SetEventActive flips the event flag and records when it flipped.
	SetEventActive(ctx context.Context, active bool, flippedAt time.Time) error

	// SetUpdatesSuspended raises or clears the reconciliation gate.
	SetUpdatesSuspended(ctx context.Context, suspended bool) error

	// SetLastUnloadCompleted stamps (or nulls) the completion marker the
	// idle-reminder check consumes.
	SetLastUnloadCompleted(ctx context.Context, at sql.NullTime) error

	// GetSourceConfig retrieves the data-source pointer.
	GetSourceConfig(ctx context.Context) (*SourceConfigRecord, error)

	// SetSourceConfig persists the data-source pointer.
	SetSourceConfig(ctx context.Context, rec *SourceConfigRecord) error

	// PinReport registers a message reference to refresh on ledger change.
	PinReport(ctx context.Context, channelID, messageID string) error

	// UnpinReport removes a registered message reference.
	UnpinReport(ctx context.Context, channelID, messageID string) error

	// ListPinnedReports retrieves every registered message reference.
	ListPinnedReports(ctx context.Context) ([]*PinnedReportRecord, error)
}

// CarrierRecord represents an active carrier as stored in persistence.
type CarrierRecord struct {
	ID                 string
	Name               string
	WineTotal          sql.NullInt64
	Platform           string
	DiscordUsername    string
	SourceTimestamp    string
	RunCount           int
	TotalUnloads       int
	UnloadRef          sql.NullString
	UnloadStartedBy    sql.NullString
	UnloadStartedAt    sql.NullTime
	UnloadMarketOpens  sql.NullTime
	Timezone           string
	CreatedAt          string
	UpdatedAt          string
}

// HistoryRecord represents an archived carrier row.
type HistoryRecord struct {
	WindowStart string
	WindowEnd   string
	Outcome     string
	Carrier     CarrierRecord
	ArchivedAt  string
}

// EventStateRecord is the single-row event flag plus the markers that hang
// off it.
type EventStateRecord struct {
	Active                bool
	FlippedAt             time.Time
	LastUnloadCompletedAt sql.NullTime
	UpdatesSuspended      bool
}

// SourceConfigRecord is the data-source pointer. Configured is false until
// a pointer has ever been persisted.
type SourceConfigRecord struct {
	SpreadsheetID string
	Worksheet     string
	SubmissionURL string
	Configured    bool
	UpdatedAt     string
}

// PinnedReportRecord is one registered report message reference.
type PinnedReportRecord struct {
	ChannelID string
	MessageID string
	CreatedAt string
}
