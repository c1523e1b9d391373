// Package logging builds the process-wide structured logger.
//
// Components obtain their loggers with
//
//	slog.Default().With("component", "retention.engine")
//
// so installing the configured logger via Setup at startup is enough to
// direct all component output.
package logging
