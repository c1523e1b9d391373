package storage

import "fmt"

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// schemaTemplate contains the SQL statements to create the database
// schema. The three submission tables carry no foreign key constraints;
// parent/child integrity is enforced by the purge ordering at the
// application level.
const schemaTemplate = `
-- Form submissions (parent table)
CREATE TABLE IF NOT EXISTS %[1]s (
    id TEXT PRIMARY KEY,
    form_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_%[1]s_created_at ON %[1]s(created_at);

-- Submitted field values (child, references submission by id only)
CREATE TABLE IF NOT EXISTS %[2]s (
    id TEXT PRIMARY KEY,
    submission_id TEXT NOT NULL,
    field_key TEXT NOT NULL,
    field_value TEXT
);

CREATE INDEX IF NOT EXISTS idx_%[2]s_submission_id ON %[2]s(submission_id);

-- Per-submission action history (child, references submission by id only)
CREATE TABLE IF NOT EXISTS %[3]s (
    id TEXT PRIMARY KEY,
    submission_id TEXT NOT NULL,
    action TEXT NOT NULL,
    actor TEXT,
    logged_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_%[3]s_submission_id ON %[3]s(submission_id);

-- Named scalar options (retention_days lives here)
CREATE TABLE IF NOT EXISTS options (
    name TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

-- Persisted recurring triggers, one row per trigger name
CREATE TABLE IF NOT EXISTS schedules (
    name TEXT PRIMARY KEY,
    next_fire_at TIMESTAMP NOT NULL,
    spec TEXT NOT NULL
);

-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version if not already present.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`

// GetSchemaVersion retrieves the recorded schema version.
const GetSchemaVersion = `SELECT version FROM schema_version ORDER BY version DESC LIMIT 1`

// schemaSQL renders the schema for the resolved table names.
func schemaSQL(tables TableSet) string {
	return fmt.Sprintf(schemaTemplate, tables.Submissions, tables.FieldValues, tables.ActionLogs)
}
