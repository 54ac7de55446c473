package service

import (
	"context"
	"log/slog"
)

// Flusher persists the full engine state. Mutating operations call it
// write-through; the sweeper additionally flushes on a timer. A failed
// write-through is logged and retried by the next flush, never surfaced to
// the caller.
type Flusher interface {
	Flush(ctx context.Context) error
}

// NopFlusher discards flushes.
type NopFlusher struct{}

func (NopFlusher) Flush(context.Context) error { return nil }

func persist(ctx context.Context, f Flusher) {
	if err := f.Flush(ctx); err != nil {
		slog.Warn("write-through save failed", "error", err)
	}
}
