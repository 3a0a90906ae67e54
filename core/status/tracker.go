package status

import (
	"sync"
	"time"

	"group-sync/core/reconcile"
)

var _ reconcile.Observer = (*Tracker)(nil)

// Tracker keeps the latest run snapshot published by the driver.
// It is safe for concurrent use by the driver and HTTP handlers.
type Tracker struct {
	mu      sync.RWMutex
	current reconcile.Summary
}

// NewTracker returns a tracker for a run that has not fetched yet.
func NewTracker(runID string) *Tracker {
	return &Tracker{
		current: reconcile.Summary{
			RunID:   runID,
			State:   reconcile.StateFetching,
			Started: time.Now(),
		},
	}
}

// PageDone implements reconcile.Observer.
func (t *Tracker) PageDone(s reconcile.Summary) {
	t.mu.Lock()
	t.current = s
	t.mu.Unlock()
}

// Snapshot returns the latest summary.
func (t *Tracker) Snapshot() reconcile.Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}
