package secondary

import "context"

// SnapshotSource defines the secondary port for the external spreadsheet.
// Each fetch is stateless and re-authorized per call.
type SnapshotSource interface {
	// FetchSnapshot returns the sheet as flat header->value records.
	// Transient network or auth failures surface as errors wrapping
	// apperr.ErrSnapshotFetch; the caller does not retry.
	FetchSnapshot(ctx context.Context, cfg SourceConfigRecord) ([]map[string]string, error)
}

// EventProbe defines the secondary port for the external event-state
// service. An error means "unknown"; the caller decides the fallback.
type EventProbe interface {
	EventActive(ctx context.Context) (bool, error)
}

// EventKind classifies a structured notification event.
type EventKind string

const (
	EventNewCarrier      EventKind = "new_carrier"
	EventOrphanCarrier   EventKind = "orphan_carrier"
	EventUnloadStarted   EventKind = "unload_started"
	EventUnloadCompleted EventKind = "unload_completed"
	EventIdleReminder    EventKind = "idle_reminder"
	EventWindowOpened    EventKind = "window_opened"
	EventWindowClosed    EventKind = "window_closed"
	EventLedgerArchived  EventKind = "ledger_archived"
	EventReportRefresh   EventKind = "report_refresh"
)

// Event is one structured notification. The core produces these; the
// transport adapter decides rendering and delivery.
type Event struct {
	Kind        EventKind
	CarrierID   string
	CarrierName string
	Operator    string
	Detail      string
}

// Notifier defines the secondary port for outbound notifications.
// Delivery is best effort: failures are logged by the caller, not fatal.
type Notifier interface {
	Notify(ctx context.Context, events []Event) error
}

// DumpPayload is the durable export written after committed changes.
type DumpPayload struct {
	GeneratedAt string           `json:"generated_at"`
	EventActive bool             `json:"event_active"`
	Carriers    []*CarrierRecord `json:"carriers"`
}

// DumpWriter defines the secondary port for the recovery-file export.
type DumpWriter interface {
	WriteDump(ctx context.Context, payload *DumpPayload) error
}

// Confirmer defines the secondary port for operator confirmation of
// destructive operations. Implementations show the preview, wait a bounded
// time, and report false on decline or timeout. The ledger lock is never
// held across this wait.
type Confirmer interface {
	Confirm(ctx context.Context, prompt, preview string) (bool, error)
}
