package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"group-sync/core/pacing"

	"go.uber.org/zap"
)

// Source yields items one at a time. Next returns io.EOF when exhausted.
type Source[T any] interface {
	Next() (T, error)
}

// Handler processes one full (or final partial) batch.
type Handler[T any] func(ctx context.Context, items []T) error

// Stats reports what a run consumed.
type Stats struct {
	Items   int
	Batches int
}

// Processor reads a source in fixed-size chunks. At most Size items are held
// in memory; reading pauses while a batch is handled.
type Processor[T any] struct {
	size   int
	floor  *pacing.Floor
	handle Handler[T]
	logger *zap.Logger
}

// New creates a processor. A size below one is treated as one.
func New[T any](cfg Config, handle Handler[T], logger *zap.Logger) *Processor[T] {
	size := cfg.Size
	if size < 1 {
		size = 1
	}
	return &Processor[T]{
		size:   size,
		floor:  pacing.NewFloor(time.Duration(cfg.ItemDelayMs) * time.Millisecond),
		handle: handle,
		logger: logger,
	}
}

// Run drains src. The trailing partial batch is handled before returning.
// A source or handler error stops the run.
func (p *Processor[T]) Run(ctx context.Context, src Source[T]) (Stats, error) {
	var stats Stats
	buf := make([]T, 0, p.size)

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		p.logger.Debug("Handling batch",
			zap.Int("batch", stats.Batches+1),
			zap.Int("items", len(buf)),
		)
		if err := p.handle(ctx, buf); err != nil {
			return fmt.Errorf("batch %d: %w", stats.Batches+1, err)
		}
		stats.Batches++
		buf = buf[:0]
		return nil
	}

	for {
		item, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read item %d: %w", stats.Items+1, err)
		}
		stats.Items++

		buf = append(buf, item)
		if len(buf) == p.size {
			if err := flush(); err != nil {
				return stats, err
			}
		}

		// Pause after the item and any flush it triggered.
		if _, err := p.floor.Hold(ctx, time.Now()); err != nil {
			return stats, err
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}
	return stats, nil
}
