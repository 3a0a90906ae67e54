// Package reconcile provides the paginated, rate-limited reconciliation loop
// between an identity directory and the roster.
//
// The Driver walks the directory one page at a time and, for every user on a
// page, asks a RoleResolver for the user's roles and a MembershipSyncer to
// place the user in the matching groups. It never touches the database or the
// directory groups itself; both collaborators are injected.
//
// # State Machine
//
//	FETCHING -> PROCESSING_PAGE -> PACING -> FETCHING ... -> DONE
//
//   - FETCHING: list one page at the current cursor. A fetch error is fatal and
//     the returned Summary carries the cursor to resume from.
//   - PROCESSING_PAGE: roles are resolved concurrently for the whole page;
//     synchronizations are then dispatched in page order, each one admitted by
//     the pacing gate, and run concurrently once dispatched.
//   - PACING: the page is held until its floor has elapsed since the fetch
//     started.
//   - DONE: the directory returned no next cursor.
//
// # Failure Isolation
//
// Per-user and per-role failures are the collaborators' business: they are
// recorded as outcomes and never stop the loop. A user reappearing on a later
// page is skipped so that no (user, role) pair is attempted twice in one run.
//
// # Usage Example
//
//	d := reconcile.NewDriver(dir, resolver, syncer, pacing.NewGate(20),
//	    reconcile.Options{Limit: 60, PageFloor: time.Second}, logger)
//	summary, err := d.Run(ctx)
package reconcile
