// Package settings manages the administrator-facing retention
// configuration.
//
// The single setting is the retention threshold in days, stored as a
// named option. Unset ("never configured") is distinguishable from an
// explicit 0 ("retention disabled"); both disable purging. Negative
// writes are normalized to 0, never rejected.
//
// FileWatcher optionally re-applies the threshold from the config file
// on change, using the same write path as the admin surface.
package settings
