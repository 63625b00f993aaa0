// Package sheets fetches the participant spreadsheet as CSV over HTTP.
package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/apperr"
	"github.com/example/cruisebot/internal/ports/secondary"
)

// DefaultURLTemplate is the Google Sheets CSV export form: first verb is
// the spreadsheet id, second the worksheet name.
const DefaultURLTemplate = "https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s"

// Fetcher implements secondary.SnapshotSource over a CSV export URL.
// Each fetch is a fresh request; no session state is kept.
type Fetcher struct {
	urlTemplate string
	client      *http.Client
	logger      *zap.Logger
}

// NewFetcher creates a snapshot fetcher. urlTemplate must contain two %s
// verbs (spreadsheet id, worksheet name); empty means DefaultURLTemplate.
func NewFetcher(urlTemplate string, logger *zap.Logger) *Fetcher {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	return &Fetcher{
		urlTemplate: urlTemplate,
		client:      &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

// FetchSnapshot downloads the configured worksheet and returns one
// header->value record per data row. Short rows are tolerated (trailing
// cells default to empty); transport and status failures wrap
// apperr.ErrSnapshotFetch.
func (f *Fetcher) FetchSnapshot(ctx context.Context, cfg secondary.SourceConfigRecord) ([]map[string]string, error) {
	target := fmt.Sprintf(f.urlTemplate, url.PathEscape(cfg.SpreadsheetID), url.QueryEscape(cfg.Worksheet))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrSnapshotFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrSnapshotFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", apperr.ErrSnapshotFetch, resp.StatusCode)
	}

	records, err := parseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrSnapshotFetch, err)
	}

	f.logger.Debug("fetched snapshot",
		zap.String("worksheet", cfg.Worksheet),
		zap.Int("rows", len(records)))
	return records, nil
}

func parseCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var records []map[string]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(records)+2, err)
		}

		rec := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Ensure Fetcher implements the interface
var _ secondary.SnapshotSource = (*Fetcher)(nil)
