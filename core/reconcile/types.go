package reconcile

import (
	"context"
	"time"
)

// State is a phase of the pagination loop.
type State string

const (
	// StateFetching requests the page at the current cursor.
	StateFetching State = "FETCHING"
	// StateProcessingPage resolves and synchronizes every user of a page.
	StateProcessingPage State = "PROCESSING_PAGE"
	// StatePacing holds the loop until the page's pacing window has passed.
	StatePacing State = "PACING"
	// StateDone is terminal: the directory reported no further pages.
	StateDone State = "DONE"
)

// RoleResolver returns the role labels currently valid for a user.
// Implementations never fail: lookup errors degrade to fewer roles.
type RoleResolver interface {
	Resolve(ctx context.Context, userID string) []string
}

// MembershipSyncer ensures a user holds the groups of its roles and records
// one outcome per attempt.
type MembershipSyncer interface {
	Sync(ctx context.Context, userID string, roles []string) SyncResult
}

// SyncResult summarizes the outcomes recorded for one user.
type SyncResult struct {
	// Outcomes is the number of outcome records written.
	Outcomes int
	// Failures is the number of failed group assignments.
	Failures int
	// NoRoles is set when the user resolved to zero roles.
	NoRoles bool
}

// Observer receives a snapshot of the run after every page.
type Observer interface {
	PageDone(s Summary)
}

// Options controls a run of the pagination loop.
type Options struct {
	// RunID identifies the run in logs and archived reports.
	// A random id is generated when empty.
	RunID string

	// Limit is the page size requested from the directory.
	Limit int32

	// Concurrency caps the role resolutions in flight for one page.
	// Zero or a value above Limit means one per page user.
	Concurrency int

	// StartCursor resumes listing at a previously returned cursor.
	// Nil starts from the beginning.
	StartCursor *string

	// PageFloor is the minimum duration of one page, fetch included.
	// Zero disables the floor.
	PageFloor time.Duration
}

// Summary reports the progress and totals of a run.
type Summary struct {
	// RunID identifies the run.
	RunID string `json:"run_id"`

	// State is the loop state at the time of the snapshot.
	State State `json:"state"`

	// Pages counts fetched pages.
	Pages int `json:"pages"`

	// Users counts users that were resolved and synchronized.
	Users int `json:"users"`

	// Skipped counts users seen again on a later page and not reprocessed.
	Skipped int `json:"skipped"`

	// Outcomes counts recorded outcomes.
	Outcomes int `json:"outcomes"`

	// Failures counts failed group assignments.
	Failures int `json:"failures"`

	// NoRoles counts users without any role.
	NoRoles int `json:"no_roles"`

	// Cursor is the cursor of the page being fetched, empty for the first
	// page. After a fatal fetch error it is the value to resume from.
	Cursor string `json:"cursor"`

	// Started is when the run began.
	Started time.Time `json:"started"`

	// Elapsed is the run duration at the time of the snapshot.
	Elapsed time.Duration `json:"elapsed"`
}
