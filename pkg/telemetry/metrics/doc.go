// Package metrics provides Prometheus metrics for the retention job.
//
// All metrics are registered against an injectable registry:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	http.Handle("/metrics", collector.Handler())
//
// Exported series:
//
//   - curator_retention_purge_runs_total{result}
//   - curator_retention_purge_rows_deleted_total{table}
//   - curator_retention_purge_duration_seconds
//   - curator_retention_purge_last_run_timestamp_seconds
//   - curator_retention_schedule_next_fire_timestamp_seconds
package metrics
