package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/cruisebot/internal/apperr"
	"github.com/example/cruisebot/internal/ports/secondary"
)

const carrierColumns = "carrier_id, name, wine_total, platform, discord_username, source_timestamp, run_count, total_unloads, unload_ref, unload_started_by, unload_started_at, unload_market_opens_at, timezone, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCarrier(row rowScanner) (*secondary.CarrierRecord, error) {
	var (
		rec       secondary.CarrierRecord
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err := row.Scan(
		&rec.ID, &rec.Name, &rec.WineTotal, &rec.Platform, &rec.DiscordUsername,
		&rec.SourceTimestamp, &rec.RunCount, &rec.TotalUnloads,
		&rec.UnloadRef, &rec.UnloadStartedBy, &rec.UnloadStartedAt, &rec.UnloadMarketOpens,
		&rec.Timezone, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time.Format(time.RFC3339)
	}
	if updatedAt.Valid {
		rec.UpdatedAt = updatedAt.Time.Format(time.RFC3339)
	}
	return &rec, nil
}

// ListCarriers retrieves every active carrier row, ordered by identifier.
func (l *Ledger) ListCarriers(ctx context.Context) ([]*secondary.CarrierRecord, error) {
	rows, err := l.q.QueryContext(ctx,
		"SELECT "+carrierColumns+" FROM carriers ORDER BY carrier_id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list carriers: %w", err)
	}
	defer rows.Close()

	var records []*secondary.CarrierRecord
	for rows.Next() {
		rec, err := scanCarrier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan carrier: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetCarriersByID retrieves all active rows for an identifier. The primary
// key makes more than one row impossible in this store, but the port
// contract reports whatever is present so corruption is never masked.
func (l *Ledger) GetCarriersByID(ctx context.Context, id string) ([]*secondary.CarrierRecord, error) {
	rows, err := l.q.QueryContext(ctx,
		"SELECT "+carrierColumns+" FROM carriers WHERE carrier_id = ?", id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get carrier %s: %w", id, err)
	}
	defer rows.Close()

	var records []*secondary.CarrierRecord
	for rows.Next() {
		rec, err := scanCarrier(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan carrier: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// InsertCarrier persists a new active carrier row.
func (l *Ledger) InsertCarrier(ctx context.Context, rec *secondary.CarrierRecord) error {
	_, err := l.q.ExecContext(ctx,
		`INSERT INTO carriers (carrier_id, name, wine_total, platform, discord_username, source_timestamp, run_count, total_unloads, timezone)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.WineTotal, rec.Platform, rec.DiscordUsername,
		rec.SourceTimestamp, rec.RunCount, rec.TotalUnloads, rec.Timezone,
	)
	if err != nil {
		return fmt.Errorf("failed to insert carrier %s: %w", rec.ID, err)
	}
	return nil
}

// UpdateCarrierFields writes through the externally sourced fields. The
// identifier is the match key and ledger-owned columns are untouched.
func (l *Ledger) UpdateCarrierFields(ctx context.Context, rec *secondary.CarrierRecord) error {
	result, err := l.q.ExecContext(ctx,
		`UPDATE carriers SET name = ?, wine_total = ?, discord_username = ?, source_timestamp = ?, run_count = ?, timezone = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE carrier_id = ?`,
		rec.Name, rec.WineTotal, rec.DiscordUsername, rec.SourceTimestamp, rec.RunCount, rec.Timezone, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update carrier %s: %w", rec.ID, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, rec.ID)
	}
	return nil
}

// DeleteCarrier removes one active row.
func (l *Ledger) DeleteCarrier(ctx context.Context, id string) error {
	result, err := l.q.ExecContext(ctx, "DELETE FROM carriers WHERE carrier_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete carrier %s: %w", id, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
	}
	return nil
}

// DeleteAllCarriers clears the active set.
func (l *Ledger) DeleteAllCarriers(ctx context.Context) (int, error) {
	result, err := l.q.ExecContext(ctx, "DELETE FROM carriers")
	if err != nil {
		return 0, fmt.Errorf("failed to clear carriers: %w", err)
	}
	n, _ := result.RowsAffected()
	return int(n), nil
}

// CountCarriers returns the active row count.
func (l *Ledger) CountCarriers(ctx context.Context) (int, error) {
	var count int
	if err := l.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM carriers").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count carriers: %w", err)
	}
	return count, nil
}

// SetUnloadInProgress stamps the open-unload marker and consumes the run
// slot in one statement.
func (l *Ledger) SetUnloadInProgress(ctx context.Context, id, ref, startedBy string, startedAt time.Time, marketOpensAt sql.NullTime) error {
	result, err := l.q.ExecContext(ctx,
		`UPDATE carriers SET unload_ref = ?, unload_started_by = ?, unload_started_at = ?, unload_market_opens_at = ?, total_unloads = total_unloads + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE carrier_id = ?`,
		ref, startedBy, startedAt.UTC(), marketOpensAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to start unload for %s: %w", id, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
	}
	return nil
}

// IncrementTotalUnloads bumps the counter without touching the marker.
func (l *Ledger) IncrementTotalUnloads(ctx context.Context, id string) error {
	result, err := l.q.ExecContext(ctx,
		"UPDATE carriers SET total_unloads = total_unloads + 1, updated_at = CURRENT_TIMESTAMP WHERE carrier_id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("failed to increment unloads for %s: %w", id, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
	}
	return nil
}

// ClearUnload nulls the open-unload marker and its attribution.
func (l *Ledger) ClearUnload(ctx context.Context, id string) error {
	result, err := l.q.ExecContext(ctx,
		`UPDATE carriers SET unload_ref = NULL, unload_started_by = NULL, unload_started_at = NULL, unload_market_opens_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE carrier_id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("failed to clear unload for %s: %w", id, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
	}
	return nil
}

// AnyUnloadInProgress reports whether any active row has an open unload.
func (l *Ledger) AnyUnloadInProgress(ctx context.Context) (bool, error) {
	var count int
	if err := l.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM carriers WHERE unload_ref IS NOT NULL").Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check open unloads: %w", err)
	}
	return count > 0, nil
}
