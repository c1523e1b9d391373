package storage

import (
	"context"

	"formloft-hq/curator/pkg/retention"
)

// TableSet resolves the three table identifiers the purge operates on.
// The names are injected at construction and fixed for the lifetime of
// the store; nothing derives table names per call.
type TableSet struct {
	// Submissions is the parent table.
	Submissions string

	// FieldValues is the child table holding submitted field data.
	FieldValues string

	// ActionLogs is the child table holding per-submission action history.
	ActionLogs string
}

// DefaultTableSet returns the default table names.
func DefaultTableSet() TableSet {
	return TableSet{
		Submissions: "submissions",
		FieldValues: "submission_fields",
		ActionLogs:  "submission_logs",
	}
}

// Store is the full persistence surface: the purge operations consumed
// by the engine, the option store consumed by settings, the trigger
// store consumed by the scheduler, and the submission write/read path.
type Store interface {
	retention.Store

	// InsertSubmission stores a submission. A blank ID is replaced
	// with a generated one.
	InsertSubmission(ctx context.Context, sub *retention.Submission) error

	// AddFieldValue stores one field value row.
	AddFieldValue(ctx context.Context, fv *retention.FieldValue) error

	// AppendActionLog stores one action log row.
	AppendActionLog(ctx context.Context, entry *retention.ActionLogEntry) error

	// GetSubmission fetches a submission by id.
	GetSubmission(ctx context.Context, id string) (*retention.Submission, bool, error)

	// ListFieldValues returns the field values of one submission.
	ListFieldValues(ctx context.Context, submissionID string) ([]*retention.FieldValue, error)

	// ListActionLogs returns the action log of one submission.
	ListActionLogs(ctx context.Context, submissionID string) ([]*retention.ActionLogEntry, error)

	// GetOption reads a named option. ok is false when the option was
	// never set.
	GetOption(ctx context.Context, name string) (value string, ok bool, err error)

	// SetOption writes a named option, replacing any existing value.
	SetOption(ctx context.Context, name, value string) error

	// RegisterTrigger stores a trigger, replacing a pending one of the
	// same name.
	RegisterTrigger(ctx context.Context, trig *retention.Trigger) error

	// PendingTrigger reads the pending trigger of the given name.
	PendingTrigger(ctx context.Context, name string) (*retention.Trigger, bool, error)

	// CancelTrigger removes the pending trigger. Cancelling a trigger
	// that is not pending is a no-op.
	CancelTrigger(ctx context.Context, name string) error

	// Close releases resources held by the store.
	Close() error
}
