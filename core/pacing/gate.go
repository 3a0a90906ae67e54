package pacing

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate spaces successive dispatches at a fixed rate.
// The first Wait returns immediately; each later Wait returns no sooner than
// 1/rate after the previous one. It is safe for concurrent use.
type Gate struct {
	limiter *rate.Limiter
	every   time.Duration
}

// MinOpsPerSec is the slowest accepted rate: one dispatch per hour.
const MinOpsPerSec = 1.0 / 3600

const maxInterval = time.Hour

// NewGate creates a gate admitting opsPerSec dispatches per second.
// A non-positive rate disables pacing; positive rates below MinOpsPerSec are
// raised to it.
func NewGate(opsPerSec float64) *Gate {
	if opsPerSec <= 0 {
		return &Gate{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	every := maxInterval
	if opsPerSec >= MinOpsPerSec {
		every = time.Duration(float64(time.Second) / opsPerSec)
	}
	return &Gate{
		limiter: rate.NewLimiter(rate.Every(every), 1),
		every:   every,
	}
}

// Wait blocks until the next dispatch is admitted and returns how long it
// waited.
func (g *Gate) Wait(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := g.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// Interval is the minimum spacing between dispatches. Zero when unpaced.
func (g *Gate) Interval() time.Duration {
	return g.every
}

// Floor enforces a minimum duration for a unit of work, such as one page.
type Floor struct {
	min time.Duration
}

// NewFloor creates a floor of the given minimum duration.
func NewFloor(min time.Duration) *Floor {
	return &Floor{min: min}
}

// Hold blocks until min has elapsed since start and returns the time spent
// waiting. It returns immediately when the work already took longer.
func (f *Floor) Hold(ctx context.Context, start time.Time) (time.Duration, error) {
	remaining := f.min - time.Since(start)
	if remaining <= 0 {
		return 0, nil
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
		return remaining, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
