package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/cruisebot/internal/ports/secondary"
)

// HistoryWindowExists reports whether an archive exists for the window
// start date.
func (l *Ledger) HistoryWindowExists(ctx context.Context, windowStart string) (bool, error) {
	var count int
	err := l.q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM carrier_history WHERE window_start = ?", windowStart,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check archive window %s: %w", windowStart, err)
	}
	return count > 0, nil
}

// CopyCarriersToHistory copies every active row into history. The window
// dates and outcome are stamped in the copy INSERT itself, so there is
// never a half-stamped history row for a concurrent pass to misattribute.
func (l *Ledger) CopyCarriersToHistory(ctx context.Context, windowStart, windowEnd, outcome string) (int, error) {
	result, err := l.q.ExecContext(ctx,
		`INSERT INTO carrier_history (window_start, window_end, outcome, carrier_id, name, wine_total, platform, discord_username, source_timestamp, run_count, total_unloads, timezone)
		 SELECT ?, ?, ?, carrier_id, name, wine_total, platform, discord_username, source_timestamp, run_count, total_unloads, timezone FROM carriers`,
		windowStart, windowEnd, outcome,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to archive carriers for window %s: %w", windowStart, err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

// ListHistory retrieves archived rows for a window start date.
func (l *Ledger) ListHistory(ctx context.Context, windowStart string) ([]*secondary.HistoryRecord, error) {
	rows, err := l.q.QueryContext(ctx,
		`SELECT window_start, window_end, outcome, carrier_id, name, wine_total, platform, discord_username, source_timestamp, run_count, total_unloads, timezone, archived_at
		 FROM carrier_history WHERE window_start = ? ORDER BY carrier_id`,
		windowStart,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history for window %s: %w", windowStart, err)
	}
	defer rows.Close()

	var records []*secondary.HistoryRecord
	for rows.Next() {
		var (
			rec        secondary.HistoryRecord
			archivedAt sql.NullTime
		)
		err := rows.Scan(
			&rec.WindowStart, &rec.WindowEnd, &rec.Outcome,
			&rec.Carrier.ID, &rec.Carrier.Name, &rec.Carrier.WineTotal,
			&rec.Carrier.Platform, &rec.Carrier.DiscordUsername, &rec.Carrier.SourceTimestamp,
			&rec.Carrier.RunCount, &rec.Carrier.TotalUnloads, &rec.Carrier.Timezone,
			&archivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if archivedAt.Valid {
			rec.ArchivedAt = archivedAt.Time.Format(time.RFC3339)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
