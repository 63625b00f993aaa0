// Package reconcile contains the pure merge logic between an aggregated
// external snapshot and the active ledger. It classifies every entity and
// produces a write plan; applying the plan is the service's job.
package reconcile

import (
	"fmt"

	"github.com/example/cruisebot/internal/apperr"
	"github.com/example/cruisebot/internal/core/carrier"
)

// Plan is the outcome of diffing a snapshot against the ledger.
type Plan struct {
	// Adds are snapshot entities with no active ledger row. They are
	// inserted with TotalUnloads zero and no unload marker.
	Adds []carrier.Carrier

	// Updates are snapshot entities whose ledger row differs under the
	// carrier equality rule. Ledger-owned fields are preserved.
	Updates []carrier.Carrier

	// Unchanged counts entities whose ledger row already matches.
	Unchanged int

	// Orphans are active ledger rows absent from the snapshot. They are
	// surfaced for manual review, never deleted automatically.
	Orphans []carrier.Carrier
}

// HasWrites reports whether applying the plan touches the ledger.
func (p *Plan) HasWrites() bool {
	return len(p.Adds) > 0 || len(p.Updates) > 0
}

// Diff classifies every snapshot entity against the active ledger rows.
//
// More than one ledger row per identifier violates the uniqueness
// invariant and is treated as a programming-error-class failure: the
// whole pass aborts with apperr.ErrLedgerCorrupt.
func Diff(snapshot []carrier.Carrier, ledger []carrier.Carrier) (*Plan, error) {
	byID := make(map[string]carrier.Carrier, len(ledger))
	for _, row := range ledger {
		if _, dup := byID[row.ID]; dup {
			return nil, fmt.Errorf("%w: identifier %s", apperr.ErrLedgerCorrupt, row.ID)
		}
		byID[row.ID] = row
	}

	plan := &Plan{}
	inSnapshot := make(map[string]bool, len(snapshot))

	for _, entity := range snapshot {
		inSnapshot[entity.ID] = true

		existing, ok := byID[entity.ID]
		if !ok {
			plan.Adds = append(plan.Adds, entity)
			continue
		}
		if existing.Equal(entity) {
			plan.Unchanged++
			continue
		}
		plan.Updates = append(plan.Updates, entity)
	}

	for _, row := range ledger {
		if !inSnapshot[row.ID] {
			plan.Orphans = append(plan.Orphans, row)
		}
	}

	return plan, nil
}
