package dump

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/ports/secondary"
)

func TestWriteDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.json")
	w := NewWriter(path, zap.NewNop())

	payload := &secondary.DumpPayload{
		GeneratedAt: "2026-03-01T12:00:00Z",
		EventActive: true,
		Carriers: []*secondary.CarrierRecord{
			{ID: "ABC-123", Name: "Thirsty Gal", RunCount: 3},
		},
	}
	if err := w.WriteDump(context.Background(), payload); err != nil {
		t.Fatalf("WriteDump: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	var got secondary.DumpPayload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if !got.EventActive || len(got.Carriers) != 1 || got.Carriers[0].ID != "ABC-123" {
		t.Errorf("dump = %+v", got)
	}

	// No temp file should remain after the rename.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestWriteDumpOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	w := NewWriter(path, zap.NewNop())
	ctx := context.Background()

	if err := w.WriteDump(ctx, &secondary.DumpPayload{GeneratedAt: "first"}); err != nil {
		t.Fatalf("WriteDump: %v", err)
	}
	if err := w.WriteDump(ctx, &secondary.DumpPayload{GeneratedAt: "second"}); err != nil {
		t.Fatalf("WriteDump: %v", err)
	}

	data, _ := os.ReadFile(path)
	var got secondary.DumpPayload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if got.GeneratedAt != "second" {
		t.Errorf("GeneratedAt = %q, want second", got.GeneratedAt)
	}
}
