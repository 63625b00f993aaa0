// Package apperr defines the sentinel errors shared across the cruisebot
// core. Callers match on these with errors.Is to decide how a failure is
// presented ("no such carrier" vs "bad format" vs "try again later").
package apperr

import "errors"

var (
	// ErrValidation marks malformed input (identifier, date) rejected
	// before any write. The wrapping message names the offending value.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the identifier does not resolve to an active carrier.
	ErrNotFound = errors.New("carrier not found")

	// ErrAlreadyUnloading means the carrier has an open unload cycle.
	ErrAlreadyUnloading = errors.New("unload already in progress")

	// ErrRunsExhausted means total_unloads has reached run_count.
	ErrRunsExhausted = errors.New("no unloads remaining")

	// ErrNoActiveUnload means a completion was requested with no open cycle.
	ErrNoActiveUnload = errors.New("no unload in progress")

	// ErrDateCollision means a history window already exists for the
	// requested archival start date.
	ErrDateCollision = errors.New("archive window already exists")

	// ErrLedgerNotEmpty means the active ledger must be archived before the
	// data source can be reconfigured.
	ErrLedgerNotEmpty = errors.New("active ledger is not empty")

	// ErrNoActiveEvent means the event window is not currently open.
	ErrNoActiveEvent = errors.New("no active event")

	// ErrSourceNotConfigured means reconciliation has no data-source
	// pointer to fetch from.
	ErrSourceNotConfigured = errors.New("data source not configured")

	// ErrUpdatesSuspended means reconciliation is gated off between
	// archival and the next confirmed data-source configuration.
	ErrUpdatesSuspended = errors.New("ledger updates are suspended")

	// ErrLedgerCorrupt marks the uniqueness invariant being violated
	// (more than one active row per identifier). Never silently repaired.
	ErrLedgerCorrupt = errors.New("ledger corruption: duplicate carrier rows")

	// ErrConfirmationDeclined means the operator cancelled a
	// confirmation-gated operation, or the confirmation wait timed out.
	ErrConfirmationDeclined = errors.New("operation not confirmed")

	// ErrSnapshotFetch wraps transient failures talking to the external
	// data source. Not retried here; the periodic caller tries again.
	ErrSnapshotFetch = errors.New("snapshot fetch failed")
)
