package carrier

import (
	"errors"
	"testing"

	"github.com/example/cruisebot/internal/apperr"
)

func row(name, id, wine string) map[string]string {
	return map[string]string{
		SheetColName: name,
		SheetColID:   id,
		SheetColWine: wine,
	}
}

func TestAggregate(t *testing.T) {
	t.Run("sums wine and counts runs per identifier", func(t *testing.T) {
		got, err := Aggregate([]map[string]string{
			row("Thirsty Gal", "ABC-123", "100"),
			row("Thirsty Gal", "ABC-123", "50"),
			row("Thirsty Gal", "ABC-123", "75"),
		})
		if err != nil {
			t.Fatalf("Aggregate error: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("len = %d, want 1", len(got))
		}
		c := got[0]
		if !c.WineTotal.Valid || c.WineTotal.Int64 != 225 {
			t.Errorf("WineTotal = %+v, want 225", c.WineTotal)
		}
		if c.RunCount != 3 {
			t.Errorf("RunCount = %d, want 3", c.RunCount)
		}
	})

	t.Run("preserves first-seen order across identifiers", func(t *testing.T) {
		got, err := Aggregate([]map[string]string{
			row("B", "BBB-222", "10"),
			row("A", "AAA-111", "20"),
			row("B", "BBB-222", "30"),
		})
		if err != nil {
			t.Fatalf("Aggregate error: %v", err)
		}
		if len(got) != 2 || got[0].ID != "BBB-222" || got[1].ID != "AAA-111" {
			t.Fatalf("order = %v, want [BBB-222 AAA-111]", []string{got[0].ID, got[1].ID})
		}
		if got[0].WineTotal.Int64 != 40 || got[0].RunCount != 2 {
			t.Errorf("BBB-222 = %+v, want wine 40 runs 2", got[0])
		}
	})

	t.Run("malformed wine on a repeat row contributes nothing", func(t *testing.T) {
		got, err := Aggregate([]map[string]string{
			row("A", "AAA-111", "100"),
			row("A", "AAA-111", "oops"),
		})
		if err != nil {
			t.Fatalf("Aggregate error: %v", err)
		}
		if got[0].WineTotal.Int64 != 100 || got[0].RunCount != 2 {
			t.Errorf("got %+v, want wine 100 runs 2", got[0])
		}
	})

	t.Run("blank trailing rows are skipped", func(t *testing.T) {
		got, err := Aggregate([]map[string]string{
			row("A", "AAA-111", "10"),
			row("", "", ""),
			row("", "  ", ""),
		})
		if err != nil {
			t.Fatalf("Aggregate error: %v", err)
		}
		if len(got) != 1 || got[0].ID != "AAA-111" {
			t.Fatalf("got %v, want only AAA-111", got)
		}
		if got[0].RunCount != 1 {
			t.Errorf("RunCount = %d, want 1 (blank rows must not count runs)", got[0].RunCount)
		}
	})

	t.Run("one malformed identifier aborts the whole batch", func(t *testing.T) {
		_, err := Aggregate([]map[string]string{
			row("Fine", "AAA-111", "10"),
			row("Broken", "OOPS!", "10"),
		})
		if !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("error = %v, want apperr.ErrValidation", err)
		}
	})
}
