// Package storage provides persistence backends for the retention job.
//
// The Store interface covers four concerns: the transactional purge
// consumed by the engine, the named-option store consumed by settings,
// the persistent trigger store consumed by the scheduler, and the
// submission write/read path used by the host.
//
// # SQLite Backend
//
// The SQLite backend is the production store:
//
//   - WAL mode for concurrent reads during a purge
//   - busy timeout for lock contention
//   - schema version tracking
//   - selectable driver: mattn/go-sqlite3 (cgo) or modernc.org/sqlite
//     (pure Go), both linked
//
// The three table names are injected at construction and validated as
// plain identifiers before they are ever interpolated into a statement.
//
// DeleteExpired snapshots the eligible submission ids into a temp table
// at the head of its transaction; the three delete passes (action logs,
// field values, submissions) all join against that snapshot, so a
// failure in any pass rolls everything back and concurrent inserts can
// never shift the eligible set mid-run.
//
// # Memory Backend
//
// MemoryStore mirrors the same semantics in maps and exists for tests.
package storage
