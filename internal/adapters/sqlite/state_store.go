package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/cruisebot/internal/ports/secondary"
)

// GetEventState retrieves the single event-state row.
func (l *Ledger) GetEventState(ctx context.Context) (*secondary.EventStateRecord, error) {
	var (
		rec       secondary.EventStateRecord
		flippedAt sql.NullTime
	)
	err := l.q.QueryRowContext(ctx,
		"SELECT active, flipped_at, last_unload_completed_at, updates_suspended FROM event_state WHERE id = 1",
	).Scan(&rec.Active, &flippedAt, &rec.LastUnloadCompletedAt, &rec.UpdatesSuspended)
	if err != nil {
		return nil, fmt.Errorf("failed to get event state: %w", err)
	}
	if flippedAt.Valid {
		rec.FlippedAt = flippedAt.Time
	}
	return &rec, nil
}

// SetEventActive flips the event flag and records when it flipped.
func (l *Ledger) SetEventActive(ctx context.Context, active bool, flippedAt time.Time) error {
	_, err := l.q.ExecContext(ctx,
		"UPDATE event_state SET active = ?, flipped_at = ? WHERE id = 1",
		active, flippedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to set event state: %w", err)
	}
	return nil
}

// SetUpdatesSuspended raises or clears the reconciliation gate.
func (l *Ledger) SetUpdatesSuspended(ctx context.Context, suspended bool) error {
	_, err := l.q.ExecContext(ctx,
		"UPDATE event_state SET updates_suspended = ? WHERE id = 1", suspended,
	)
	if err != nil {
		return fmt.Errorf("failed to set update suspension: %w", err)
	}
	return nil
}

// SetLastUnloadCompleted stamps or nulls the completion marker.
func (l *Ledger) SetLastUnloadCompleted(ctx context.Context, at sql.NullTime) error {
	_, err := l.q.ExecContext(ctx,
		"UPDATE event_state SET last_unload_completed_at = ? WHERE id = 1", at,
	)
	if err != nil {
		return fmt.Errorf("failed to set completion marker: %w", err)
	}
	return nil
}

// GetSourceConfig retrieves the data-source pointer.
func (l *Ledger) GetSourceConfig(ctx context.Context) (*secondary.SourceConfigRecord, error) {
	var (
		rec       secondary.SourceConfigRecord
		updatedAt sql.NullTime
	)
	err := l.q.QueryRowContext(ctx,
		"SELECT spreadsheet_id, worksheet, submission_url, configured, updated_at FROM source_config WHERE id = 1",
	).Scan(&rec.SpreadsheetID, &rec.Worksheet, &rec.SubmissionURL, &rec.Configured, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get source config: %w", err)
	}
	if updatedAt.Valid {
		rec.UpdatedAt = updatedAt.Time.Format(time.RFC3339)
	}
	return &rec, nil
}

// SetSourceConfig persists the data-source pointer and marks it configured.
func (l *Ledger) SetSourceConfig(ctx context.Context, rec *secondary.SourceConfigRecord) error {
	_, err := l.q.ExecContext(ctx,
		"UPDATE source_config SET spreadsheet_id = ?, worksheet = ?, submission_url = ?, configured = 1, updated_at = CURRENT_TIMESTAMP WHERE id = 1",
		rec.SpreadsheetID, rec.Worksheet, rec.SubmissionURL,
	)
	if err != nil {
		return fmt.Errorf("failed to set source config: %w", err)
	}
	return nil
}

// PinReport registers a report message reference. Registering the same
// reference twice is a no-op.
func (l *Ledger) PinReport(ctx context.Context, channelID, messageID string) error {
	_, err := l.q.ExecContext(ctx,
		"INSERT OR IGNORE INTO pinned_reports (channel_id, message_id) VALUES (?, ?)",
		channelID, messageID,
	)
	if err != nil {
		return fmt.Errorf("failed to pin report: %w", err)
	}
	return nil
}

// UnpinReport removes a registered report message reference.
func (l *Ledger) UnpinReport(ctx context.Context, channelID, messageID string) error {
	result, err := l.q.ExecContext(ctx,
		"DELETE FROM pinned_reports WHERE channel_id = ? AND message_id = ?",
		channelID, messageID,
	)
	if err != nil {
		return fmt.Errorf("failed to unpin report: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("pinned report %s/%s not found", channelID, messageID)
	}
	return nil
}

// ListPinnedReports retrieves every registered report message reference.
func (l *Ledger) ListPinnedReports(ctx context.Context) ([]*secondary.PinnedReportRecord, error) {
	rows, err := l.q.QueryContext(ctx,
		"SELECT channel_id, message_id, created_at FROM pinned_reports ORDER BY created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pinned reports: %w", err)
	}
	defer rows.Close()

	var records []*secondary.PinnedReportRecord
	for rows.Next() {
		var (
			rec       secondary.PinnedReportRecord
			createdAt sql.NullTime
		)
		if err := rows.Scan(&rec.ChannelID, &rec.MessageID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan pinned report: %w", err)
		}
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time.Format(time.RFC3339)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
