package retention

import (
	"fmt"
	"time"
)

// StoreError represents an error from the storage backend.
type StoreError struct {
	Backend   string // Storage backend type ("sqlite", "memory")
	Operation string // Operation that failed ("delete_expired", "set_option", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError creates a new StoreError.
func NewStoreError(backend, operation string, cause error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// SettingsError represents a failure reading or writing the retention
// setting. It is surfaced to the caller; this package never retries.
type SettingsError struct {
	Option string // Option name ("retention_days")
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *SettingsError) Error() string {
	return fmt.Sprintf("settings error [option=%s]: %v", e.Option, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *SettingsError) Unwrap() error {
	return e.Cause
}

// NewSettingsError creates a new SettingsError.
func NewSettingsError(option string, cause error) *SettingsError {
	return &SettingsError{
		Option: option,
		Cause:  cause,
	}
}

// PurgeError represents a failed purge run. The transaction boundary in
// the store guarantees nothing was half-applied when this is returned.
type PurgeError struct {
	Cutoff time.Time // Eligibility boundary of the failed run
	Cause  error     // Underlying error
}

// Error implements the error interface.
func (e *PurgeError) Error() string {
	return fmt.Sprintf("purge error [cutoff=%s]: %v", e.Cutoff.Format(time.RFC3339), e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *PurgeError) Unwrap() error {
	return e.Cause
}

// NewPurgeError creates a new PurgeError.
func NewPurgeError(cutoff time.Time, cause error) *PurgeError {
	return &PurgeError{
		Cutoff: cutoff,
		Cause:  cause,
	}
}

// ScheduleError represents a failure registering, querying or cancelling
// the recurring trigger.
type ScheduleError struct {
	Trigger   string // Trigger name
	Operation string // Operation that failed ("register", "pending", "cancel")
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *ScheduleError) Error() string {
	return fmt.Sprintf("schedule error [trigger=%s, operation=%s]: %v", e.Trigger, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ScheduleError) Unwrap() error {
	return e.Cause
}

// NewScheduleError creates a new ScheduleError.
func NewScheduleError(trigger, operation string, cause error) *ScheduleError {
	return &ScheduleError{
		Trigger:   trigger,
		Operation: operation,
		Cause:     cause,
	}
}
