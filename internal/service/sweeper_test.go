package service

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSweeperRunsAndStops(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var runs atomic.Int32
	sweeper := NewSweeper(logger, 0, IntervalTask{
		Name:     "counter",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) int {
			runs.Add(1)
			return 1
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		sweeper.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}

func TestSweeperJitterSpreadsCadence(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewSweeper(logger, 5*time.Millisecond)

	for i := 0; i < 100; i++ {
		d := s.next(10 * time.Millisecond)
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.Less(t, d, 15*time.Millisecond)
	}
}
