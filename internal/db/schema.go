package db

import "database/sql"

// Schema DDL for the run database. Events and hearings are append-only.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	start_date TEXT NOT NULL,
	horizon_days INTEGER NOT NULL,
	seed INTEGER NOT NULL,
	policy TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	date TEXT NOT NULL,
	type TEXT NOT NULL,
	case_id TEXT NOT NULL,
	case_type TEXT,
	stage TEXT,
	courtroom_id INTEGER,
	detail TEXT
);

CREATE TABLE IF NOT EXISTS cause_lists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	date TEXT NOT NULL,
	courtroom_id INTEGER NOT NULL,
	sequence INTEGER NOT NULL,
	case_id TEXT NOT NULL,
	case_type TEXT,
	stage TEXT,
	explanation TEXT
);

CREATE TABLE IF NOT EXISTS hearings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	case_id TEXT NOT NULL,
	date TEXT NOT NULL,
	outcome TEXT NOT NULL,
	stage_before TEXT,
	stage_after TEXT,
	courtroom_id INTEGER
);

CREATE TABLE IF NOT EXISTS daily_metrics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	date TEXT NOT NULL,
	scheduled INTEGER NOT NULL,
	heard INTEGER NOT NULL,
	adjourned INTEGER NOT NULL,
	disposed INTEGER NOT NULL,
	unripe_filtered INTEGER NOT NULL,
	gap_blocked INTEGER NOT NULL,
	capacity_limited INTEGER NOT NULL,
	active_cases INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_summaries (
	run_id INTEGER PRIMARY KEY REFERENCES runs(id),
	days INTEGER NOT NULL,
	hearings_total INTEGER NOT NULL,
	heard INTEGER NOT NULL,
	adjourned INTEGER NOT NULL,
	disposals INTEGER NOT NULL,
	disposal_rate REAL NOT NULL,
	adjournment_rate REAL NOT NULL,
	utilization REAL NOT NULL,
	gini REAL NOT NULL,
	coverage REAL NOT NULL,
	overrides_applied INTEGER NOT NULL,
	overrides_rejected INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_run_date ON events(run_id, date);
CREATE INDEX IF NOT EXISTS idx_cause_lists_run_date ON cause_lists(run_id, date, courtroom_id);
CREATE INDEX IF NOT EXISTS idx_hearings_run_case ON hearings(run_id, case_id);
`

// InitSchema creates the run-store tables if they do not exist.
func InitSchema(conn *sql.DB) error {
	_, err := conn.Exec(schema)
	return err
}
