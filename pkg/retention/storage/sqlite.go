package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"formloft-hq/curator/pkg/retention"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver is the registered database/sql driver name: "sqlite3"
	// (cgo) or "sqlite" (pure Go). Both are linked; default "sqlite3".
	Driver string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// Tables resolves the three submission table names.
	Tables TableSet
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/curator.db",
		Driver:       "sqlite3",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
		Tables:       DefaultTableSet(),
	}
}

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	tables TableSet
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite storage backend. It initializes
// the database schema and enables WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = "sqlite3"
	}

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, retention.NewStoreError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := newSQLiteStore(db, config)

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("SQLite store initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
		"tables", fmt.Sprintf("%s,%s,%s", s.tables.Submissions, s.tables.FieldValues, s.tables.ActionLogs),
	)

	return s, nil
}

// newSQLiteStore wraps an existing database handle. Used by
// NewSQLiteStore and by tests that substitute the handle.
func newSQLiteStore(db *sql.DB, config *SQLiteConfig) *SQLiteStore {
	tables := config.Tables
	if tables == (TableSet{}) {
		tables = DefaultTableSet()
	}
	return &SQLiteStore{
		db:     db,
		config: config,
		tables: tables,
		logger: slog.Default().With("component", "retention.storage.sqlite"),
	}
}

// initialize sets up pragmas and the database schema.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return retention.NewStoreError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return retention.NewStoreError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(schemaSQL(s.tables)); err != nil {
		return retention.NewStoreError("sqlite", "create_schema", err)
	}

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return retention.NewStoreError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return retention.NewStoreError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return retention.NewStoreError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// DeleteExpired deletes all submissions created strictly before cutoff
// together with their child rows, inside a single transaction.
//
// The eligible submission ids are captured once into a temporary table
// so all three delete passes operate on the same snapshot: a backdated
// submission inserted mid-run can never age into eligibility between
// passes. Deletion order is action logs, field values, submissions.
func (s *SQLiteStore) DeleteExpired(ctx context.Context, cutoff time.Time) (retention.PurgeCounts, error) {
	var counts retention.PurgeCounts

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, retention.NewStoreError("sqlite", "begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS purge_batch"); err != nil {
		return counts, retention.NewStoreError("sqlite", "snapshot", err)
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("CREATE TEMP TABLE purge_batch AS SELECT id FROM %s WHERE created_at < ?", s.tables.Submissions),
		cutoff,
	); err != nil {
		return counts, retention.NewStoreError("sqlite", "snapshot", err)
	}

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE submission_id IN (SELECT id FROM purge_batch)", s.tables.ActionLogs))
	if err != nil {
		return counts, retention.NewStoreError("sqlite", "delete_action_logs", err)
	}
	counts.ActionLogs, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE submission_id IN (SELECT id FROM purge_batch)", s.tables.FieldValues))
	if err != nil {
		return counts, retention.NewStoreError("sqlite", "delete_field_values", err)
	}
	counts.FieldValues, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id IN (SELECT id FROM purge_batch)", s.tables.Submissions))
	if err != nil {
		return counts, retention.NewStoreError("sqlite", "delete_submissions", err)
	}
	counts.Submissions, _ = res.RowsAffected()

	if _, err := tx.ExecContext(ctx, "DROP TABLE purge_batch"); err != nil {
		return counts, retention.NewStoreError("sqlite", "snapshot_cleanup", err)
	}

	if err := tx.Commit(); err != nil {
		return retention.PurgeCounts{}, retention.NewStoreError("sqlite", "commit", err)
	}

	return counts, nil
}

// CountExpired reports what DeleteExpired would remove for the given
// cutoff without deleting anything.
func (s *SQLiteStore) CountExpired(ctx context.Context, cutoff time.Time) (retention.PurgeCounts, error) {
	var counts retention.PurgeCounts

	eligible := fmt.Sprintf("SELECT id FROM %s WHERE created_at < ?", s.tables.Submissions)

	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE submission_id IN (%s)", s.tables.ActionLogs, eligible),
		cutoff,
	).Scan(&counts.ActionLogs)
	if err != nil {
		return counts, retention.NewStoreError("sqlite", "count_action_logs", err)
	}

	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE submission_id IN (%s)", s.tables.FieldValues, eligible),
		cutoff,
	).Scan(&counts.FieldValues)
	if err != nil {
		return counts, retention.NewStoreError("sqlite", "count_field_values", err)
	}

	err = s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE created_at < ?", s.tables.Submissions),
		cutoff,
	).Scan(&counts.Submissions)
	if err != nil {
		return counts, retention.NewStoreError("sqlite", "count_submissions", err)
	}

	return counts, nil
}

// InsertSubmission stores a submission row. A blank ID is replaced with
// a generated one.
func (s *SQLiteStore) InsertSubmission(ctx context.Context, sub *retention.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, form_id, created_at) VALUES (?, ?, ?)", s.tables.Submissions),
		sub.ID, sub.FormID, sub.CreatedAt,
	)
	if err != nil {
		return retention.NewStoreError("sqlite", "insert_submission", err)
	}
	return nil
}

// AddFieldValue stores one field value row.
func (s *SQLiteStore) AddFieldValue(ctx context.Context, fv *retention.FieldValue) error {
	if fv.ID == "" {
		fv.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, submission_id, field_key, field_value) VALUES (?, ?, ?, ?)", s.tables.FieldValues),
		fv.ID, fv.SubmissionID, fv.FieldKey, fv.FieldValue,
	)
	if err != nil {
		return retention.NewStoreError("sqlite", "add_field_value", err)
	}
	return nil
}

// AppendActionLog stores one action log row.
func (s *SQLiteStore) AppendActionLog(ctx context.Context, entry *retention.ActionLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, submission_id, action, actor, logged_at) VALUES (?, ?, ?, ?, ?)", s.tables.ActionLogs),
		entry.ID, entry.SubmissionID, entry.Action, entry.Actor, entry.LoggedAt,
	)
	if err != nil {
		return retention.NewStoreError("sqlite", "append_action_log", err)
	}
	return nil
}

// GetSubmission fetches a submission by id.
func (s *SQLiteStore) GetSubmission(ctx context.Context, id string) (*retention.Submission, bool, error) {
	var sub retention.Submission
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id, form_id, created_at FROM %s WHERE id = ?", s.tables.Submissions),
		id,
	).Scan(&sub.ID, &sub.FormID, &sub.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, retention.NewStoreError("sqlite", "get_submission", err)
	}
	return &sub, true, nil
}

// ListFieldValues returns the field values of one submission.
func (s *SQLiteStore) ListFieldValues(ctx context.Context, submissionID string) ([]*retention.FieldValue, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, submission_id, field_key, field_value FROM %s WHERE submission_id = ?", s.tables.FieldValues),
		submissionID,
	)
	if err != nil {
		return nil, retention.NewStoreError("sqlite", "list_field_values", err)
	}
	defer rows.Close()

	var result []*retention.FieldValue
	for rows.Next() {
		var fv retention.FieldValue
		if err := rows.Scan(&fv.ID, &fv.SubmissionID, &fv.FieldKey, &fv.FieldValue); err != nil {
			return nil, retention.NewStoreError("sqlite", "scan_field_value", err)
		}
		result = append(result, &fv)
	}
	if err := rows.Err(); err != nil {
		return nil, retention.NewStoreError("sqlite", "list_field_values", err)
	}
	return result, nil
}

// ListActionLogs returns the action log of one submission.
func (s *SQLiteStore) ListActionLogs(ctx context.Context, submissionID string) ([]*retention.ActionLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, submission_id, action, actor, logged_at FROM %s WHERE submission_id = ?", s.tables.ActionLogs),
		submissionID,
	)
	if err != nil {
		return nil, retention.NewStoreError("sqlite", "list_action_logs", err)
	}
	defer rows.Close()

	var result []*retention.ActionLogEntry
	for rows.Next() {
		var entry retention.ActionLogEntry
		if err := rows.Scan(&entry.ID, &entry.SubmissionID, &entry.Action, &entry.Actor, &entry.LoggedAt); err != nil {
			return nil, retention.NewStoreError("sqlite", "scan_action_log", err)
		}
		result = append(result, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, retention.NewStoreError("sqlite", "list_action_logs", err)
	}
	return result, nil
}

// GetOption reads a named option. ok is false when the option was never
// set, not an empty or zero value.
func (s *SQLiteStore) GetOption(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM options WHERE name = ?", name).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, retention.NewStoreError("sqlite", "get_option", err)
	}
	return value, true, nil
}

// SetOption writes a named option, replacing any existing value.
func (s *SQLiteStore) SetOption(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO options (name, value) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET value = excluded.value",
		name, value,
	)
	if err != nil {
		return retention.NewStoreError("sqlite", "set_option", err)
	}
	return nil
}

// RegisterTrigger stores a trigger, replacing a pending one of the same
// name. The schedules table is keyed by name, so at most one trigger of
// a given name is ever pending.
func (s *SQLiteStore) RegisterTrigger(ctx context.Context, trig *retention.Trigger) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO schedules (name, next_fire_at, spec) VALUES (?, ?, ?) ON CONFLICT(name) DO UPDATE SET next_fire_at = excluded.next_fire_at, spec = excluded.spec",
		trig.Name, trig.NextFire, trig.Spec,
	)
	if err != nil {
		return retention.NewStoreError("sqlite", "register_trigger", err)
	}
	return nil
}

// PendingTrigger reads the pending trigger of the given name.
func (s *SQLiteStore) PendingTrigger(ctx context.Context, name string) (*retention.Trigger, bool, error) {
	var trig retention.Trigger
	err := s.db.QueryRowContext(ctx,
		"SELECT name, next_fire_at, spec FROM schedules WHERE name = ?", name,
	).Scan(&trig.Name, &trig.NextFire, &trig.Spec)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, retention.NewStoreError("sqlite", "pending_trigger", err)
	}
	return &trig, true, nil
}

// CancelTrigger removes the pending trigger. Cancelling a trigger that
// is not pending is a no-op.
func (s *SQLiteStore) CancelTrigger(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM schedules WHERE name = ?", name)
	if err != nil {
		return retention.NewStoreError("sqlite", "cancel_trigger", err)
	}
	return nil
}

// Close releases resources held by the store.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return retention.NewStoreError("sqlite", "close", err)
	}
	s.logger.Info("SQLite store closed")
	return nil
}
