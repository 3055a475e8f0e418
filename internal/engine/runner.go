package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/geosentinal/slope-risk-service/internal/observability"
)

// Sink receives completed ticks for fan-out (Kafka, WebSocket).
// A failing sink must not stop the evaluation loop.
type Sink interface {
	PublishTick(ctx context.Context, tick TickResult) error
}

// Runner drives auto-mode ticks on a recurring timer. It starts
// disabled; the mode endpoint toggles it and retunes the period at
// runtime. The interval only controls cadence, never scoring.
type Runner struct {
	cycle   *Cycle
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	sinks   []Sink

	mu       sync.Mutex
	enabled  bool
	interval time.Duration
	reconfig chan struct{}
}

// NewRunner creates a disabled Runner with the given default interval.
func NewRunner(
	cycle *Cycle,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics *observability.Metrics,
	interval time.Duration,
	sinks ...Sink,
) *Runner {
	return &Runner{
		cycle:    cycle,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		sinks:    sinks,
		interval: interval,
		reconfig: make(chan struct{}, 1),
	}
}

// SetAuto enables or disables auto mode. A positive interval replaces
// the current period; zero keeps it.
func (r *Runner) SetAuto(enabled bool, interval time.Duration) {
	r.mu.Lock()
	r.enabled = enabled
	if interval > 0 {
		r.interval = interval
	}
	r.mu.Unlock()

	if enabled {
		r.metrics.AutoRunning.Set(1)
	} else {
		r.metrics.AutoRunning.Set(0)
	}
	r.logger.Info("auto mode reconfigured", "enabled", enabled, "interval", r.Interval())

	select {
	case r.reconfig <- struct{}{}:
	default:
	}
}

// Enabled reports whether auto mode is active.
func (r *Runner) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// Interval returns the current auto-tick period.
func (r *Runner) Interval() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.interval
}

// Run executes the auto loop until the context is cancelled. While
// disabled it parks until reconfigured.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("runner started", "interval", r.Interval())
	defer r.metrics.AutoRunning.Set(0)

	for {
		r.mu.Lock()
		enabled, interval := r.enabled, r.interval
		r.mu.Unlock()

		if !enabled {
			select {
			case <-ctx.Done():
				r.logger.Info("runner stopping", "reason", ctx.Err())
				return nil
			case <-r.reconfig:
				continue
			}
		}

		timer := r.clock.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info("runner stopping", "reason", ctx.Err())
			return nil
		case <-r.reconfig:
			timer.Stop()
		case <-timer.Chan():
			r.tick(ctx)
		}
	}
}

// tick runs one auto evaluation and fans the result out to all sinks.
func (r *Runner) tick(ctx context.Context) {
	tick, err := r.cycle.RunAuto()
	if err != nil {
		r.logger.Error("auto tick failed", "error", err)
		return
	}

	for _, s := range r.sinks {
		if err := s.PublishTick(ctx, tick); err != nil {
			r.logger.Warn("tick fan-out failed", "sink", fmt.Sprintf("%T", s), "tick_id", tick.TickID, "error", err)
		}
	}
}
