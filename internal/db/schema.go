package db

// SchemaSQL is the complete schema for fresh cruisebot installs.
//
// This is the single source of truth for the database layout. Repository
// tests load it through GetSchemaSQL() so test databases cannot drift from
// production: a repository referencing a missing column fails immediately
// with "no such column".
const SchemaSQL = `
-- Active carriers (current event)
CREATE TABLE IF NOT EXISTS carriers (
	carrier_id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	wine_total INTEGER,
	platform TEXT NOT NULL DEFAULT 'PC',
	discord_username TEXT NOT NULL DEFAULT '',
	source_timestamp TEXT NOT NULL DEFAULT '',
	run_count INTEGER NOT NULL DEFAULT 1,
	total_unloads INTEGER NOT NULL DEFAULT 0,
	unload_ref TEXT,
	unload_started_by TEXT,
	unload_started_at DATETIME,
	unload_market_opens_at DATETIME,
	timezone TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Archived carriers, one copy per event window. Window dates are stamped
-- in the same INSERT that copies the rows; there is no second stamping
-- pass over null sentinels.
CREATE TABLE IF NOT EXISTS carrier_history (
	window_start TEXT NOT NULL,
	window_end TEXT NOT NULL,
	outcome TEXT NOT NULL CHECK(outcome IN ('held', 'not_held')),
	carrier_id TEXT NOT NULL,
	name TEXT NOT NULL,
	wine_total INTEGER,
	platform TEXT NOT NULL DEFAULT 'PC',
	discord_username TEXT NOT NULL DEFAULT '',
	source_timestamp TEXT NOT NULL DEFAULT '',
	run_count INTEGER NOT NULL DEFAULT 1,
	total_unloads INTEGER NOT NULL DEFAULT 0,
	timezone TEXT NOT NULL DEFAULT '',
	archived_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (window_start, carrier_id)
);

-- Single-row event window flag
CREATE TABLE IF NOT EXISTS event_state (
	id INTEGER PRIMARY KEY CHECK(id = 1),
	active INTEGER NOT NULL DEFAULT 0,
	flipped_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	last_unload_completed_at DATETIME,
	updates_suspended INTEGER NOT NULL DEFAULT 0
);

-- Single-row data source pointer
CREATE TABLE IF NOT EXISTS source_config (
	id INTEGER PRIMARY KEY CHECK(id = 1),
	spreadsheet_id TEXT NOT NULL DEFAULT '',
	worksheet TEXT NOT NULL DEFAULT '',
	submission_url TEXT NOT NULL DEFAULT '',
	configured INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Report messages refreshed whenever the ledger changes
CREATE TABLE IF NOT EXISTS pinned_reports (
	channel_id TEXT NOT NULL,
	message_id TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (channel_id, message_id)
);

-- Seed the single-row tables so reads never miss
INSERT OR IGNORE INTO event_state (id, active, updates_suspended) VALUES (1, 0, 0);
INSERT OR IGNORE INTO source_config (id) VALUES (1);
`

// GetSchemaSQL returns the authoritative schema for test databases.
func GetSchemaSQL() string {
	return SchemaSQL
}
