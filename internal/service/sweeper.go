package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
)

// IntervalTask is one recurring maintenance job with its own cadence.
type IntervalTask struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) int
}

// Sweeper runs interval tasks on jittered timers until the context is
// cancelled. Jitter desynchronizes the cadences so the flush and the expiry
// sweeps don't pile onto the stores in the same instant.
type Sweeper struct {
	tasks  []IntervalTask
	jitter time.Duration
	logger *slog.Logger

	wg sync.WaitGroup
}

func NewSweeper(logger *slog.Logger, jitter time.Duration, tasks ...IntervalTask) *Sweeper {
	return &Sweeper{tasks: tasks, jitter: jitter, logger: logger}
}

// Start launches one goroutine per task. It returns immediately; use Wait
// for shutdown.
func (s *Sweeper) Start(ctx context.Context) {
	for _, t := range s.tasks {
		s.wg.Add(1)
		go func(t IntervalTask) {
			defer s.wg.Done()
			s.loop(ctx, t)
		}(t)
	}
}

// Wait blocks until every task goroutine observed cancellation and exited.
func (s *Sweeper) Wait() {
	s.wg.Wait()
}

func (s *Sweeper) loop(ctx context.Context, t IntervalTask) {
	timer := time.NewTimer(s.next(t.Interval))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		start := time.Now()
		n := t.Run(ctx)
		if n > 0 {
			s.logger.Info("sweep done", "task", t.Name, "processed", n, "took", time.Since(start))
		}
		timer.Reset(s.next(t.Interval))
	}
}

// next spreads the cadence by a random offset in [0, jitter).
func (s *Sweeper) next(interval time.Duration) time.Duration {
	if s.jitter <= 0 {
		return interval
	}
	return interval + time.Duration(rand.Int64N(int64(s.jitter)))
}
