// Package retention implements the age-based retention engine for form
// submissions.
//
// # Overview
//
// Submissions older than an administrator-configured number of days are
// deleted together with their child rows (field values and action log
// entries). The threshold lives in the options store (see
// pkg/retention/settings); the recurring daily trigger lives in
// pkg/retention/schedule; the storage backends live in
// pkg/retention/storage.
//
// # Purge semantics
//
// Eligibility is created_at strictly before now - retention_days days.
// A submission exactly at the cutoff is retained. The eligible set is
// snapshotted once per run and all three delete passes (action logs,
// field values, submissions, in that order) operate on the same set
// inside a single transaction, so a failure in any pass leaves the
// dataset untouched.
//
// A threshold of 0, or one that was never configured, disables purging
// entirely. The engine treats this as an explicit no-op result rather
// than an error.
//
// # Host integration
//
// The Job type exposes the four host entry points: Activate,
// Deactivate, RunScheduled and SaveSettings.
package retention
