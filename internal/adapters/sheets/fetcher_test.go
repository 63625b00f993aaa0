package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/apperr"
	"github.com/example/cruisebot/internal/ports/secondary"
)

const sampleCSV = `"Carrier Name","Carrier ID","Wine Total","Discord Username"
"Thirsty Gal","ABC-123","15000","gal#0001"
"Dry Dock","K4F-77T","","dock#0002"
"Short Row","XYZ-789"
`

func testConfig() secondary.SourceConfigRecord {
	return secondary.SourceConfigRecord{
		SpreadsheetID: "sheet-1",
		Worksheet:     "March 2026",
		Configured:    true,
	}
}

func TestFetchSnapshot(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	f := NewFetcher(server.URL+"/%s/export?sheet=%s", zap.NewNop())
	records, err := f.FetchSnapshot(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}

	if gotPath != "/sheet-1/export?sheet=March+2026" {
		t.Errorf("request path = %q", gotPath)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if records[0]["Carrier ID"] != "ABC-123" || records[0]["Wine Total"] != "15000" {
		t.Errorf("first record = %v", records[0])
	}
	// Ragged rows pad missing trailing cells with empty strings.
	if v, ok := records[2]["Wine Total"]; !ok || v != "" {
		t.Errorf("short row padding = %q, present=%v", v, ok)
	}
}

func TestFetchSnapshotStatusFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	f := NewFetcher(server.URL+"/%s/%s", zap.NewNop())
	_, err := f.FetchSnapshot(context.Background(), testConfig())
	if !errors.Is(err, apperr.ErrSnapshotFetch) {
		t.Fatalf("error = %v, want apperr.ErrSnapshotFetch", err)
	}
}

func TestFetchSnapshotEmptySheet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	f := NewFetcher(server.URL+"/%s/%s", zap.NewNop())
	records, err := f.FetchSnapshot(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("FetchSnapshot: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %v, want none", records)
	}
}
