// Package sqlite_test contains integration tests for the SQLite ledger.
//
// Test databases are created from db.GetSchemaSQL(), the single
// authoritative schema, so store code referencing a missing column fails
// here with "no such column" instead of in production.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/cruisebot/internal/db"
	"github.com/example/cruisebot/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// One connection: the pool would otherwise hand later queries a fresh
	// (schema-less) in-memory database.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// testCarrier returns a record with sensible defaults for seeding.
func testCarrier(id, name string, wine int64, runs int) *secondary.CarrierRecord {
	return &secondary.CarrierRecord{
		ID:              id,
		Name:            name,
		WineTotal:       sql.NullInt64{Int64: wine, Valid: true},
		Platform:        "PC",
		DiscordUsername: "someone#0001",
		SourceTimestamp: "2026/03/01 10:00:00",
		RunCount:        runs,
	}
}
