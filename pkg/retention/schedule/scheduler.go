package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/WatchBeam/clock"
	"github.com/robfig/cron/v3"

	"formloft-hq/curator/pkg/retention"
)

// DefaultTriggerName identifies the recurring purge trigger.
const DefaultTriggerName = "retention.purge"

// TriggerStore persists named recurring triggers so a pending fire time
// survives process restarts. Implemented by the storage backends.
type TriggerStore interface {
	// RegisterTrigger stores a trigger, replacing a pending one of
	// the same name. The name is a primary key: at most one trigger
	// of a given name is ever pending.
	RegisterTrigger(ctx context.Context, trig *retention.Trigger) error

	// PendingTrigger reads the pending trigger of the given name.
	PendingTrigger(ctx context.Context, name string) (*retention.Trigger, bool, error)

	// CancelTrigger removes the pending trigger; a no-op when nothing
	// is pending.
	CancelTrigger(ctx context.Context, name string) error
}

// Handler runs when the trigger fires. Firings are synchronous: the
// next fire is not armed until the handler returns, so runs never
// overlap.
type Handler func(ctx context.Context) error

// Config contains configuration for the scheduler.
type Config struct {
	// TriggerName names the persisted trigger.
	TriggerName string

	// Spec is the recurrence in cron syntax. The default "@every 24h"
	// fires daily relative to the enable time; a wall-clock expression
	// like "0 3 * * *" works too.
	Spec string
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() *Config {
	return &Config{
		TriggerName: DefaultTriggerName,
		Spec:        "@every 24h",
	}
}

// Scheduler drives the recurring purge trigger through the states
// Unscheduled -> Scheduled -> Unscheduled. While Scheduled, it sleeps
// until the persisted fire time, runs the handler, then advances the
// trigger by one recurrence and persists it.
type Scheduler struct {
	triggers TriggerStore
	handler  Handler
	config   *Config
	clock    clock.Clock
	sched    cron.Schedule
	logger   *slog.Logger

	// onNextFire, when set, observes every change of the pending fire
	// time (zero time means disarmed). Used for metrics.
	onNextFire func(time.Time)

	mu        sync.Mutex
	scheduled bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// New creates a scheduler. config nil uses defaults; clk nil uses the
// wall clock.
func New(triggers TriggerStore, handler Handler, config *Config, clk clock.Clock) (*Scheduler, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.TriggerName == "" {
		config.TriggerName = DefaultTriggerName
	}
	if clk == nil {
		clk = clock.C
	}

	sched, err := cron.ParseStandard(config.Spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule spec %q: %w", config.Spec, err)
	}

	return &Scheduler{
		triggers: triggers,
		handler:  handler,
		config:   config,
		clock:    clk,
		sched:    sched,
		logger:   slog.Default().With("component", "retention.schedule"),
	}, nil
}

// SetNextFireListener installs an observer for pending fire time
// changes. Call before Enable.
func (s *Scheduler) SetNextFireListener(fn func(time.Time)) {
	s.onNextFire = fn
}

// Enable arms the trigger and starts the fire loop. Enabling an
// already-scheduled job is a no-op. If a trigger is already pending in
// the store (from a previous process), its fire time is honored; no
// immediate run happens on enable; the first fire of a fresh trigger
// is one full recurrence away.
func (s *Scheduler) Enable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduled {
		return nil
	}

	trig, ok, err := s.triggers.PendingTrigger(ctx, s.config.TriggerName)
	if err != nil {
		return retention.NewScheduleError(s.config.TriggerName, "pending", err)
	}

	if !ok {
		trig = &retention.Trigger{
			Name:     s.config.TriggerName,
			NextFire: s.sched.Next(s.clock.Now()),
			Spec:     s.config.Spec,
		}
		if err := s.triggers.RegisterTrigger(ctx, trig); err != nil {
			return retention.NewScheduleError(s.config.TriggerName, "register", err)
		}
		s.logger.Info("purge trigger registered",
			"trigger", trig.Name,
			"next_fire", trig.NextFire,
			"spec", trig.Spec,
		)
	} else {
		s.logger.Info("pending purge trigger honored",
			"trigger", trig.Name,
			"next_fire", trig.NextFire,
		)
	}

	s.notifyNextFire(trig.NextFire)

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.scheduled = true
	go s.run(s.stopCh, s.doneCh)

	return nil
}

// Disable cancels the pending trigger unconditionally and stops the
// fire loop. Disabling an unscheduled job is a no-op.
func (s *Scheduler) Disable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.triggers.CancelTrigger(ctx, s.config.TriggerName); err != nil {
		return retention.NewScheduleError(s.config.TriggerName, "cancel", err)
	}

	if s.scheduled {
		close(s.stopCh)
		<-s.doneCh
		s.scheduled = false
		s.logger.Info("purge trigger cancelled", "trigger", s.config.TriggerName)
	}

	s.notifyNextFire(time.Time{})
	return nil
}

// IsScheduled reports whether the fire loop is running.
func (s *Scheduler) IsScheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduled
}

// NextFire returns the pending fire time, or nil when no trigger is
// pending.
func (s *Scheduler) NextFire(ctx context.Context) (*time.Time, error) {
	trig, ok, err := s.triggers.PendingTrigger(ctx, s.config.TriggerName)
	if err != nil {
		return nil, retention.NewScheduleError(s.config.TriggerName, "pending", err)
	}
	if !ok {
		return nil, nil
	}
	return &trig.NextFire, nil
}

// run is the fire loop. One iteration per fire: sleep until the
// persisted fire time, run the handler, advance and persist the next
// fire. A cancelled trigger or a close of stopCh ends the loop.
func (s *Scheduler) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ctx := context.Background()

	for {
		trig, ok, err := s.triggers.PendingTrigger(ctx, s.config.TriggerName)
		if err != nil {
			s.logger.Error("failed to read pending trigger", "error", err)
			select {
			case <-stopCh:
				return
			case <-s.clock.After(time.Minute):
				continue
			}
		}
		if !ok {
			s.logger.Debug("trigger no longer pending, stopping fire loop")
			return
		}

		wait := trig.NextFire.Sub(s.clock.Now())
		if wait < 0 {
			wait = 0
		}

		select {
		case <-stopCh:
			return
		case <-s.clock.After(wait):
		}

		s.logger.Info("purge trigger fired", "trigger", trig.Name)
		if err := s.handler(ctx); err != nil {
			s.logger.Error("scheduled purge run failed", "error", err)
		}

		trig.NextFire = s.sched.Next(s.clock.Now())
		if err := s.triggers.RegisterTrigger(ctx, trig); err != nil {
			s.logger.Error("failed to persist next fire time", "error", err)
			return
		}
		s.notifyNextFire(trig.NextFire)

		s.logger.Debug("purge trigger re-armed",
			"trigger", trig.Name,
			"next_fire", trig.NextFire,
		)
	}
}

func (s *Scheduler) notifyNextFire(t time.Time) {
	if s.onNextFire != nil {
		s.onNextFire(t)
	}
}
