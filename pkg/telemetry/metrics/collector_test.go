package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"formloft-hq/curator/pkg/config"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	cfg := &config.MetricsConfig{
		Namespace: "curator",
		Subsystem: "retention",
	}
	return NewCollector(cfg, prometheus.NewRegistry())
}

func TestCollector_RecordPurgeRun(t *testing.T) {
	collector := newTestCollector(t)

	collector.RecordPurgeRun("success", 5, 12, 3, 250*time.Millisecond)
	collector.RecordPurgeRun("success", 0, 0, 0, 10*time.Millisecond)
	collector.RecordPurgeRun("skipped", 0, 0, 0, time.Millisecond)
	collector.RecordPurgeRun("error", 0, 0, 0, time.Second)

	if count := testutil.ToFloat64(collector.purgeRuns.WithLabelValues("success")); count != 2 {
		t.Errorf("purge_runs_total{result=\"success\"} = %v, want 2", count)
	}
	if count := testutil.ToFloat64(collector.purgeRuns.WithLabelValues("skipped")); count != 1 {
		t.Errorf("purge_runs_total{result=\"skipped\"} = %v, want 1", count)
	}
	if count := testutil.ToFloat64(collector.purgeRuns.WithLabelValues("error")); count != 1 {
		t.Errorf("purge_runs_total{result=\"error\"} = %v, want 1", count)
	}

	if rows := testutil.ToFloat64(collector.rowsDeleted.WithLabelValues("action_logs")); rows != 5 {
		t.Errorf("purge_rows_deleted_total{table=\"action_logs\"} = %v, want 5", rows)
	}
	if rows := testutil.ToFloat64(collector.rowsDeleted.WithLabelValues("field_values")); rows != 12 {
		t.Errorf("purge_rows_deleted_total{table=\"field_values\"} = %v, want 12", rows)
	}
	if rows := testutil.ToFloat64(collector.rowsDeleted.WithLabelValues("submissions")); rows != 3 {
		t.Errorf("purge_rows_deleted_total{table=\"submissions\"} = %v, want 3", rows)
	}

	if last := testutil.ToFloat64(collector.lastRun); last == 0 {
		t.Error("purge_last_run_timestamp_seconds not set")
	}
}

func TestCollector_SetNextFire(t *testing.T) {
	collector := newTestCollector(t)

	fireAt := time.Date(2026, 8, 30, 3, 0, 0, 0, time.UTC)
	collector.SetNextFire(fireAt)
	if got := testutil.ToFloat64(collector.nextFire); got != float64(fireAt.Unix()) {
		t.Errorf("schedule_next_fire_timestamp_seconds = %v, want %v", got, fireAt.Unix())
	}

	collector.SetNextFire(time.Time{})
	if got := testutil.ToFloat64(collector.nextFire); got != 0 {
		t.Errorf("schedule_next_fire_timestamp_seconds after disarm = %v, want 0", got)
	}
}

func TestCollector_DefaultsNamespace(t *testing.T) {
	collector := NewCollector(&config.MetricsConfig{}, prometheus.NewRegistry())
	collector.RecordPurgeRun("success", 1, 1, 1, time.Millisecond)

	families, err := collector.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}

	found := false
	for _, mf := range families {
		if mf.GetName() == "curator_retention_purge_runs_total" {
			found = true
		}
	}
	if !found {
		t.Error("metric curator_retention_purge_runs_total not registered")
	}
}
