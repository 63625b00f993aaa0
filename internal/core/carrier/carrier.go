// Package carrier contains the pure domain logic for carrier entities:
// identifier validation, normalization of raw source rows into Carrier
// values, and the equality rules reconciliation depends on.
package carrier

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/example/cruisebot/internal/apperr"
)

// Column headers as they appear in the participant spreadsheet.
const (
	SheetColName      = "Carrier Name"
	SheetColID        = "Carrier ID"
	SheetColWine      = "Wine Total"
	SheetColPlatform  = "Platform"
	SheetColDiscord   = "Discord Username"
	SheetColTimestamp = "Timestamp"
	SheetColTimezone  = "Timezone"
	SheetColRuns      = "Run Count"
)

// DefaultPlatform is assumed for every carrier in the current dataset.
// Earlier events allowed per-platform variation; the column is kept so the
// data survives if that ever comes back.
const DefaultPlatform = "PC"

var (
	// idPattern is the lenient XXX-XXX shape used for operator-typed
	// lookups, where a mistyped O or I should still resolve if a row
	// somehow carries one.
	idPattern = regexp.MustCompile(`^[A-Z0-9]{3}-[A-Z0-9]{3}$`)

	// strictIDPattern is the shape snapshot rows must satisfy. The carrier
	// identifier alphabet has no O and no I (only 0 and 1 are valid).
	strictIDPattern = regexp.MustCompile(`^[A-HJ-NP-Z0-9]{3}-[A-HJ-NP-Z0-9]{3}$`)
)

// Carrier is the canonical entity both source shapes normalize into.
//
// WineTotal is nullable because totals arrive as free text in the source
// sheet; a malformed total is stored as unset rather than failing the row.
type Carrier struct {
	ID              string
	Name            string
	WineTotal       sql.NullInt64
	Platform        string
	DiscordUsername string
	Timestamp       string
	RunCount        int
	TotalUnloads    int
	UnloadRef       string
	UnloadStartedBy string
	Timezone        string
}

// NormalizeID upper-cases and validates an operator-typed identifier
// against the lenient XXX-XXX shape.
func NormalizeID(raw string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if !idPattern.MatchString(id) {
		return "", fmt.Errorf("%w: identifier %q is not of the form XXX-XXX", apperr.ErrValidation, raw)
	}
	return id, nil
}

// FromSheetRow builds a Carrier from one spreadsheet row.
//
// A fully blank row (sheet exports carry trailing empty lines) normalizes
// to an Empty carrier rather than failing. Otherwise the identifier is
// validated against the strict alphabet; a mismatch is a batch-level
// failure (the whole reconciliation pass aborts), so the error names both
// the identifier and the carrier name for the operator. A malformed wine
// total is tolerated and stored as unset.
func FromSheetRow(row map[string]string) (Carrier, error) {
	name := strings.TrimSpace(row[SheetColName])
	id := strings.ToUpper(strings.TrimSpace(row[SheetColID]))

	if blankRow(row) {
		return Carrier{}, nil
	}

	if !strictIDPattern.MatchString(id) {
		return Carrier{}, fmt.Errorf("%w: carrier %q has malformed identifier %q", apperr.ErrValidation, name, row[SheetColID])
	}

	c := Carrier{
		ID:              id,
		Name:            name,
		Platform:        DefaultPlatform,
		DiscordUsername: strings.TrimSpace(row[SheetColDiscord]),
		Timestamp:       strings.TrimSpace(row[SheetColTimestamp]),
		Timezone:        strings.TrimSpace(row[SheetColTimezone]),
	}

	if wine, err := strconv.Atoi(strings.TrimSpace(row[SheetColWine])); err == nil {
		c.WineTotal = sql.NullInt64{Int64: int64(wine), Valid: true}
	}

	// A named carrier with no explicit counters gets the defaults: one run,
	// nothing unloaded yet.
	if c.Name != "" {
		c.RunCount = 1
		if runs, err := strconv.Atoi(strings.TrimSpace(row[SheetColRuns])); err == nil && runs >= 1 {
			c.RunCount = runs
		}
	}

	return c, nil
}

func blankRow(row map[string]string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Equal reports whether two carriers match for reconciliation purposes.
// Timestamp and the ledger-owned fields (TotalUnloads, unload markers) are
// excluded: they are not sourced from the snapshot and must not trigger
// an update classification.
func (c Carrier) Equal(other Carrier) bool {
	return c.ID == other.ID &&
		c.Name == other.Name &&
		c.WineTotal == other.WineTotal &&
		c.Platform == other.Platform &&
		c.DiscordUsername == other.DiscordUsername &&
		c.Timezone == other.Timezone &&
		c.RunCount == other.RunCount
}

// Empty reports whether the carrier carries no data. Timestamp and Platform
// are ignored (Platform is defaulted, so it is always set). An Empty
// carrier is the "nothing here" sentinel: blank snapshot rows normalize to
// it and aggregation drops them.
func (c Carrier) Empty() bool {
	return c.ID == "" &&
		c.Name == "" &&
		!c.WineTotal.Valid &&
		c.DiscordUsername == "" &&
		c.RunCount == 0 &&
		c.TotalUnloads == 0 &&
		c.UnloadRef == "" &&
		c.UnloadStartedBy == "" &&
		c.Timezone == ""
}

// Unloading reports whether an unload cycle is currently open.
func (c Carrier) Unloading() bool {
	return c.UnloadRef != ""
}
