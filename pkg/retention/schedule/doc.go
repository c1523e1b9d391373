// Package schedule arms and fires the recurring purge trigger.
//
// The trigger is persisted (name, next fire time, recurrence spec) in
// the trigger store, so the pending fire survives process restarts:
// enabling after a restart honors the stored fire time instead of
// re-anchoring it, and enabling never causes an immediate run.
//
// The scheduler guarantees at most one pending trigger per name and
// runs firings synchronously; the next fire is not armed until the
// current handler returns.
package schedule
