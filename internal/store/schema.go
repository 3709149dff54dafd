package store

// Schema creates the report tables. Dates are the primary keys, matching the
// upsert-by-date semantics of the API: one daily report per calendar day, one
// weekly report per (start,end) pair, one OKR document per creation date.
const Schema = `
CREATE TABLE IF NOT EXISTS daily_reports (
	entry_date TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS weekly_reports (
	start_date TEXT NOT NULL,
	end_date   TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (start_date, end_date)
);

CREATE TABLE IF NOT EXISTS okr_reports (
	creation_date TEXT PRIMARY KEY,
	content       TEXT NOT NULL,
	created_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS todo_items (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	content    TEXT NOT NULL,
	completed  INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
