package retention_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"formloft-hq/curator/pkg/retention"
	"formloft-hq/curator/pkg/retention/storage"
)

// fakeThreshold is an in-memory ThresholdSource.
type fakeThreshold struct {
	days int
	set  bool
	err  error
}

func (f *fakeThreshold) RetentionDays(ctx context.Context) (int, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	return f.days, f.set, nil
}

func (f *fakeThreshold) SetRetentionDays(ctx context.Context, raw int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if raw < 0 {
		raw = 0
	}
	f.days = raw
	f.set = true
	return raw, nil
}

// fakeTrigger records Enable/Disable calls.
type fakeTrigger struct {
	enabled  int
	disabled int
	err      error
}

func (f *fakeTrigger) Enable(ctx context.Context) error {
	f.enabled++
	return f.err
}

func (f *fakeTrigger) Disable(ctx context.Context) error {
	f.disabled++
	return f.err
}

func newTestJob(threshold *fakeThreshold, trigger *fakeTrigger, store storage.Store) *retention.Job {
	engine := retention.NewEngine(store, nil)
	return retention.NewJob(threshold, trigger, engine, nil)
}

func TestJob_ActivateDeactivate(t *testing.T) {
	trigger := &fakeTrigger{}
	job := newTestJob(&fakeThreshold{}, trigger, storage.NewMemoryStore())

	ctx := context.Background()
	if err := job.Activate(ctx); err != nil {
		t.Fatalf("Activate() failed: %v", err)
	}
	if err := job.Activate(ctx); err != nil {
		t.Fatalf("second Activate() failed: %v", err)
	}
	if trigger.enabled != 2 {
		t.Errorf("Enable called %d times, want 2", trigger.enabled)
	}

	if err := job.Deactivate(ctx); err != nil {
		t.Fatalf("Deactivate() failed: %v", err)
	}
	if trigger.disabled != 1 {
		t.Errorf("Disable called %d times, want 1", trigger.disabled)
	}
}

func TestJob_Run_UnconfiguredSkips(t *testing.T) {
	store := storage.NewMemoryStore()
	job := newTestJob(&fakeThreshold{set: false}, &fakeTrigger{}, store)

	ctx := context.Background()
	now := time.Now()
	seedSubmission(t, store, "sub-old", now, 400)

	result, err := job.Run(ctx, now)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !result.Skipped {
		t.Error("expected Skipped for unconfigured threshold")
	}
	if _, ok, _ := store.GetSubmission(ctx, "sub-old"); !ok {
		t.Error("submission deleted despite unconfigured threshold")
	}
}

func TestJob_Run_PurgesWithConfiguredThreshold(t *testing.T) {
	store := storage.NewMemoryStore()
	job := newTestJob(&fakeThreshold{days: 30, set: true}, &fakeTrigger{}, store)

	ctx := context.Background()
	now := time.Now()
	seedSubmission(t, store, "sub-old", now, 40)
	seedSubmission(t, store, "sub-new", now, 10)

	result, err := job.Run(ctx, now)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if result.Skipped {
		t.Fatal("expected run, got Skipped")
	}
	if result.Counts.Submissions != 1 {
		t.Errorf("Submissions deleted = %d, want 1", result.Counts.Submissions)
	}
}

func TestJob_Run_SettingsErrorSurfaced(t *testing.T) {
	readErr := errors.New("options table unavailable")
	job := newTestJob(&fakeThreshold{err: readErr}, &fakeTrigger{}, storage.NewMemoryStore())

	_, err := job.Run(context.Background(), time.Now())
	if !errors.Is(err, readErr) {
		t.Fatalf("Run() error = %v, want %v", err, readErr)
	}
}

func TestJob_SaveSettings_Normalizes(t *testing.T) {
	threshold := &fakeThreshold{}
	job := newTestJob(threshold, &fakeTrigger{}, storage.NewMemoryStore())

	stored, err := job.SaveSettings(context.Background(), -5)
	if err != nil {
		t.Fatalf("SaveSettings(-5) failed: %v", err)
	}
	if stored != 0 {
		t.Errorf("SaveSettings(-5) = %d, want 0", stored)
	}
	if !threshold.set {
		t.Error("threshold not persisted")
	}
}
