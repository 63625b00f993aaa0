package carrier

import "database/sql"

// Aggregate folds raw snapshot rows into one Carrier per identifier.
//
// A participant completing multiple runs logs one spreadsheet row per run,
// so repeats of an identifier sum wine totals and count one run each.
// First-seen order is preserved so reconciliation output is stable.
//
// Blank rows normalize to Empty carriers and are skipped. Any malformed
// identifier aborts the whole batch: reconciliation is all-or-nothing at
// the pass level, not per-row.
func Aggregate(rows []map[string]string) ([]Carrier, error) {
	byID := make(map[string]int)
	var out []Carrier

	for _, row := range rows {
		c, err := FromSheetRow(row)
		if err != nil {
			return nil, err
		}
		if c.Empty() {
			continue
		}

		idx, seen := byID[c.ID]
		if !seen {
			byID[c.ID] = len(out)
			out = append(out, c)
			continue
		}

		agg := &out[idx]
		agg.RunCount++
		if c.WineTotal.Valid {
			agg.WineTotal = sql.NullInt64{Int64: agg.WineTotal.Int64 + c.WineTotal.Int64, Valid: true}
		}
		// Later rows refresh the attribution fields; the sheet is
		// append-only so the last row is the most recent.
		if c.Name != "" {
			agg.Name = c.Name
		}
		if c.DiscordUsername != "" {
			agg.DiscordUsername = c.DiscordUsername
		}
		if c.Timestamp != "" {
			agg.Timestamp = c.Timestamp
		}
		if c.Timezone != "" {
			agg.Timezone = c.Timezone
		}
	}

	return out, nil
}
