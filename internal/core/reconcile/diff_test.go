package reconcile

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/example/cruisebot/internal/apperr"
	"github.com/example/cruisebot/internal/core/carrier"
)

func entity(id, name string, wine int64, runs int) carrier.Carrier {
	return carrier.Carrier{
		ID:        id,
		Name:      name,
		WineTotal: sql.NullInt64{Int64: wine, Valid: true},
		Platform:  carrier.DefaultPlatform,
		RunCount:  runs,
	}
}

func TestDiff(t *testing.T) {
	t.Run("classifies adds, updates, unchanged and orphans", func(t *testing.T) {
		snapshot := []carrier.Carrier{
			entity("AAA-111", "Unchanged", 100, 1),
			entity("BBB-222", "Updated", 250, 2),
			entity("CCC-333", "Brand New", 50, 1),
		}
		ledger := []carrier.Carrier{
			entity("AAA-111", "Unchanged", 100, 1),
			entity("BBB-222", "Updated", 200, 2),
			entity("DDD-444", "Withdrawn", 75, 1),
		}

		plan, err := Diff(snapshot, ledger)
		if err != nil {
			t.Fatalf("Diff error: %v", err)
		}

		if len(plan.Adds) != 1 || plan.Adds[0].ID != "CCC-333" {
			t.Errorf("Adds = %v, want [CCC-333]", plan.Adds)
		}
		if len(plan.Updates) != 1 || plan.Updates[0].ID != "BBB-222" {
			t.Errorf("Updates = %v, want [BBB-222]", plan.Updates)
		}
		if plan.Unchanged != 1 {
			t.Errorf("Unchanged = %d, want 1", plan.Unchanged)
		}
		if len(plan.Orphans) != 1 || plan.Orphans[0].ID != "DDD-444" {
			t.Errorf("Orphans = %v, want [DDD-444]", plan.Orphans)
		}
		if !plan.HasWrites() {
			t.Error("plan with adds and updates should report writes")
		}
	})

	t.Run("identical inputs are a no-op", func(t *testing.T) {
		rows := []carrier.Carrier{
			entity("AAA-111", "A", 10, 1),
			entity("BBB-222", "B", 20, 2),
		}
		plan, err := Diff(rows, rows)
		if err != nil {
			t.Fatalf("Diff error: %v", err)
		}
		if plan.HasWrites() || len(plan.Orphans) != 0 || plan.Unchanged != 2 {
			t.Errorf("plan = %+v, want 2 unchanged and no writes", plan)
		}
	})

	t.Run("ledger-owned fields do not force updates", func(t *testing.T) {
		snap := entity("AAA-111", "A", 10, 1)
		row := snap
		row.TotalUnloads = 1
		row.UnloadRef = "ref-1"
		row.Timestamp = "older"

		plan, err := Diff([]carrier.Carrier{snap}, []carrier.Carrier{row})
		if err != nil {
			t.Fatalf("Diff error: %v", err)
		}
		if plan.Unchanged != 1 || plan.HasWrites() {
			t.Errorf("plan = %+v, want unchanged", plan)
		}
	})

	t.Run("orphan with an empty snapshot is every ledger row", func(t *testing.T) {
		ledger := []carrier.Carrier{entity("AAA-111", "A", 10, 1), entity("BBB-222", "B", 20, 1)}
		plan, err := Diff(nil, ledger)
		if err != nil {
			t.Fatalf("Diff error: %v", err)
		}
		if len(plan.Orphans) != 2 {
			t.Errorf("Orphans = %v, want both rows", plan.Orphans)
		}
	})

	t.Run("duplicate ledger rows are fatal", func(t *testing.T) {
		ledger := []carrier.Carrier{entity("AAA-111", "A", 10, 1), entity("AAA-111", "A again", 20, 1)}
		_, err := Diff(nil, ledger)
		if !errors.Is(err, apperr.ErrLedgerCorrupt) {
			t.Fatalf("error = %v, want apperr.ErrLedgerCorrupt", err)
		}
	})
}
