package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalTrigger submits a job to the scheduler every interval
type IntervalTrigger struct {
	name       JobName
	interval   time.Duration
	runOnStart bool
	scheduler  *Scheduler
	logger     *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a trigger for name. With runOnStart the first
// run is submitted immediately instead of after one interval.
func NewIntervalTrigger(scheduler *Scheduler, name JobName, interval time.Duration, runOnStart bool, logger *zap.Logger) *IntervalTrigger {
	return &IntervalTrigger{
		name:       name,
		interval:   interval,
		runOnStart: runOnStart,
		scheduler:  scheduler,
		logger:     logger.Named("trigger"),
	}
}

// Start starts the ticker loop
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return nil
	}
	if t.interval <= 0 {
		return ErrInvalidConfig
	}
	t.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Interval trigger started",
		zap.String("job", string(t.name)),
		zap.Duration("interval", t.interval),
	)
	return nil
}

// Stop stops the ticker loop, bounded by ctx
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.cancel()
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *IntervalTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	if t.runOnStart {
		t.fire()
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.fire()
		}
	}
}

func (t *IntervalTrigger) fire() {
	_, err := t.scheduler.Submit(t.name)
	switch {
	case err == nil:
	case errors.Is(err, ErrJobQueueFull):
		t.logger.Warn("Skipping trigger, job already queued", zap.String("job", string(t.name)))
	default:
		t.logger.Error("Failed to submit job", zap.String("job", string(t.name)), zap.Error(err))
	}
}
