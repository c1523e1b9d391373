package retention

import (
	"context"
	"time"
)

// Submission is one form submission row. Field values and action log
// entries reference it by id; referential integrity is application-level,
// the schema carries no foreign key constraints.
type Submission struct {
	// ID is the unique submission identifier.
	ID string

	// FormID identifies the form this submission belongs to.
	FormID string

	// CreatedAt is the submission timestamp used for age eligibility.
	CreatedAt time.Time
}

// FieldValue is one submitted field belonging to a submission.
type FieldValue struct {
	ID           string
	SubmissionID string
	FieldKey     string
	FieldValue   string
}

// ActionLogEntry records one action taken against a submission
// (viewed, exported, flagged, ...).
type ActionLogEntry struct {
	ID           string
	SubmissionID string
	Action       string
	Actor        string
	LoggedAt     time.Time
}

// Trigger is one persisted recurring fire registration. The next fire
// time survives process restarts so enabling the job after a restart
// honors the pending fire instead of rescheduling it.
type Trigger struct {
	// Name identifies the trigger ("retention.purge").
	Name string

	// NextFire is when the trigger is due.
	NextFire time.Time

	// Spec is the recurrence in cron syntax ("@every 24h", "0 3 * * *").
	Spec string
}

// PurgeCounts holds per-table deleted row counts for one purge pass.
type PurgeCounts struct {
	ActionLogs  int64
	FieldValues int64
	Submissions int64
}

// Total returns the number of rows deleted across all three tables.
func (c PurgeCounts) Total() int64 {
	return c.ActionLogs + c.FieldValues + c.Submissions
}

// PurgeResult reports the outcome of one purge run.
type PurgeResult struct {
	// Skipped is true when retention is disabled or unset and the run
	// deliberately deleted nothing.
	Skipped bool

	// Cutoff is the eligibility boundary used for this run. Rows with
	// CreatedAt strictly before the cutoff were eligible; zero when
	// the run was skipped.
	Cutoff time.Time

	// Counts are the rows deleted per table.
	Counts PurgeCounts
}

// Store is the persistence surface the purge engine operates on.
type Store interface {
	// DeleteExpired deletes, in one transaction, all action log entries
	// and field values belonging to submissions created strictly before
	// cutoff, then the submissions themselves. The eligible submission
	// set is snapshotted once at the start of the transaction so all
	// three passes see the same set. A failure in any pass rolls the
	// whole operation back.
	DeleteExpired(ctx context.Context, cutoff time.Time) (PurgeCounts, error)

	// CountExpired reports how many rows DeleteExpired would remove
	// for the given cutoff, without deleting anything.
	CountExpired(ctx context.Context, cutoff time.Time) (PurgeCounts, error)
}
