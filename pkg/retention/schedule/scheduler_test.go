package schedule_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/WatchBeam/clock"

	"formloft-hq/curator/pkg/retention"
	"formloft-hq/curator/pkg/retention/schedule"
	"formloft-hq/curator/pkg/retention/storage"
)

func newTestScheduler(t *testing.T, store schedule.TriggerStore, handler schedule.Handler, clk clock.Clock) *schedule.Scheduler {
	t.Helper()
	sched, err := schedule.New(store, handler, nil, clk)
	if err != nil {
		t.Fatalf("schedule.New() failed: %v", err)
	}
	return sched
}

func TestScheduler_EnableRegistersOneRecurrenceOut(t *testing.T) {
	store := storage.NewMemoryStore()
	clk := clock.NewMockClock()

	var fires int32
	sched := newTestScheduler(t, store, func(ctx context.Context) error {
		atomic.AddInt32(&fires, 1)
		return nil
	}, clk)

	ctx := context.Background()
	if err := sched.Enable(ctx); err != nil {
		t.Fatalf("Enable() failed: %v", err)
	}
	defer sched.Disable(ctx)

	if !sched.IsScheduled() {
		t.Error("IsScheduled() = false after Enable")
	}

	next, err := sched.NextFire(ctx)
	if err != nil {
		t.Fatalf("NextFire() failed: %v", err)
	}
	if next == nil {
		t.Fatal("no pending trigger after Enable")
	}
	// cron rounds the recurrence to whole seconds.
	if gap := next.Sub(clk.Now()); gap < 24*time.Hour-time.Second || gap > 24*time.Hour {
		t.Errorf("NextFire = %v, want one recurrence after %v", *next, clk.Now())
	}

	// Enabling never runs the purge immediately.
	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt32(&fires); n != 0 {
		t.Errorf("handler ran %d times on enable, want 0", n)
	}
}

func TestScheduler_EnableIdempotent(t *testing.T) {
	store := storage.NewMemoryStore()
	clk := clock.NewMockClock()
	sched := newTestScheduler(t, store, func(ctx context.Context) error { return nil }, clk)

	ctx := context.Background()
	if err := sched.Enable(ctx); err != nil {
		t.Fatalf("Enable() failed: %v", err)
	}
	defer sched.Disable(ctx)

	first, err := sched.NextFire(ctx)
	if err != nil || first == nil {
		t.Fatalf("NextFire() = %v, err=%v", first, err)
	}

	if err := sched.Enable(ctx); err != nil {
		t.Fatalf("second Enable() failed: %v", err)
	}

	second, err := sched.NextFire(ctx)
	if err != nil || second == nil {
		t.Fatalf("NextFire() after re-enable = %v, err=%v", second, err)
	}
	if !second.Equal(*first) {
		t.Errorf("re-enable moved NextFire from %v to %v", *first, *second)
	}
}

func TestScheduler_DisableWhenUnscheduled(t *testing.T) {
	store := storage.NewMemoryStore()
	sched := newTestScheduler(t, store, func(ctx context.Context) error { return nil }, clock.NewMockClock())

	// Disabling without a prior Enable is a no-op.
	if err := sched.Disable(context.Background()); err != nil {
		t.Fatalf("Disable() failed: %v", err)
	}
	if sched.IsScheduled() {
		t.Error("IsScheduled() = true after Disable")
	}
}

func TestScheduler_DisableCancelsPendingTrigger(t *testing.T) {
	store := storage.NewMemoryStore()
	clk := clock.NewMockClock()
	sched := newTestScheduler(t, store, func(ctx context.Context) error { return nil }, clk)

	ctx := context.Background()
	if err := sched.Enable(ctx); err != nil {
		t.Fatalf("Enable() failed: %v", err)
	}
	if err := sched.Disable(ctx); err != nil {
		t.Fatalf("Disable() failed: %v", err)
	}

	next, err := sched.NextFire(ctx)
	if err != nil {
		t.Fatalf("NextFire() failed: %v", err)
	}
	if next != nil {
		t.Errorf("trigger still pending after Disable: %v", *next)
	}
	if sched.IsScheduled() {
		t.Error("IsScheduled() = true after Disable")
	}
}

func TestScheduler_FireRunsHandlerAndReArms(t *testing.T) {
	store := storage.NewMemoryStore()
	clk := clock.NewMockClock()

	fired := make(chan struct{}, 1)
	sched := newTestScheduler(t, store, func(ctx context.Context) error {
		select {
		case fired <- struct{}{}:
		default:
		}
		return nil
	}, clk)

	ctx := context.Background()
	if err := sched.Enable(ctx); err != nil {
		t.Fatalf("Enable() failed: %v", err)
	}
	defer sched.Disable(ctx)

	first, err := sched.NextFire(ctx)
	if err != nil || first == nil {
		t.Fatalf("NextFire() = %v, err=%v", first, err)
	}

	// Let the fire loop reach its timer before advancing the clock.
	time.Sleep(100 * time.Millisecond)
	clk.AddTime(24*time.Hour + time.Second)

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("handler did not run after advancing past the fire time")
	}

	// The trigger re-arms one recurrence past the fire.
	deadline := time.Now().Add(5 * time.Second)
	for {
		next, err := sched.NextFire(ctx)
		if err != nil {
			t.Fatalf("NextFire() failed: %v", err)
		}
		if next != nil && next.After(*first) {
			if gap := next.Sub(clk.Now()); gap < 24*time.Hour-time.Second || gap > 24*time.Hour {
				t.Errorf("re-armed NextFire = %v, want one recurrence after %v", *next, clk.Now())
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("trigger never re-armed after fire")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestScheduler_EnableHonorsPersistedTrigger(t *testing.T) {
	store := storage.NewMemoryStore()
	clk := clock.NewMockClock()
	ctx := context.Background()

	// A pending trigger left by a previous process.
	persisted := clk.Now().Add(time.Hour)
	err := store.RegisterTrigger(ctx, &retention.Trigger{
		Name:     schedule.DefaultTriggerName,
		NextFire: persisted,
		Spec:     "@every 24h",
	})
	if err != nil {
		t.Fatalf("RegisterTrigger() failed: %v", err)
	}

	sched := newTestScheduler(t, store, func(ctx context.Context) error { return nil }, clk)
	if err := sched.Enable(ctx); err != nil {
		t.Fatalf("Enable() failed: %v", err)
	}
	defer sched.Disable(ctx)

	next, err := sched.NextFire(ctx)
	if err != nil || next == nil {
		t.Fatalf("NextFire() = %v, err=%v", next, err)
	}
	if !next.Equal(persisted) {
		t.Errorf("NextFire = %v, want persisted %v", *next, persisted)
	}
}

func TestScheduler_NextFireListener(t *testing.T) {
	store := storage.NewMemoryStore()
	clk := clock.NewMockClock()
	sched := newTestScheduler(t, store, func(ctx context.Context) error { return nil }, clk)

	var observed []time.Time
	sched.SetNextFireListener(func(t time.Time) {
		observed = append(observed, t)
	})

	ctx := context.Background()
	if err := sched.Enable(ctx); err != nil {
		t.Fatalf("Enable() failed: %v", err)
	}
	if err := sched.Disable(ctx); err != nil {
		t.Fatalf("Disable() failed: %v", err)
	}

	if len(observed) != 2 {
		t.Fatalf("listener observed %d changes, want 2", len(observed))
	}
	if observed[0].IsZero() {
		t.Error("armed fire time reported as zero")
	}
	if !observed[1].IsZero() {
		t.Errorf("disarm reported %v, want zero time", observed[1])
	}
}

func TestScheduler_InvalidSpec(t *testing.T) {
	_, err := schedule.New(storage.NewMemoryStore(), func(ctx context.Context) error { return nil },
		&schedule.Config{Spec: "not a schedule"}, clock.NewMockClock())
	if err == nil {
		t.Fatal("expected error for invalid spec")
	}
}
