package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"group-sync/core/directory"
	"group-sync/core/pacing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Driver runs the reconciliation loop: it pages through the directory,
// resolves roles for every user and synchronizes group membership under a
// pacing budget.
type Driver struct {
	dir      directory.Directory
	resolver RoleResolver
	syncer   MembershipSyncer
	gate     *pacing.Gate
	floor    *pacing.Floor
	observer Observer
	logger   *zap.Logger
	opts     Options
}

// NewDriver creates a driver from its collaborators.
func NewDriver(
	dir directory.Directory,
	resolver RoleResolver,
	syncer MembershipSyncer,
	gate *pacing.Gate,
	opts Options,
	logger *zap.Logger,
) *Driver {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Limit <= 0 || opts.Limit > directory.MaxPageSize {
		opts.Limit = directory.MaxPageSize
	}
	if opts.Concurrency <= 0 || opts.Concurrency > int(opts.Limit) {
		opts.Concurrency = int(opts.Limit)
	}
	if gate == nil {
		gate = pacing.NewGate(0)
	}
	return &Driver{
		dir:      dir,
		resolver: resolver,
		syncer:   syncer,
		gate:     gate,
		floor:    pacing.NewFloor(opts.PageFloor),
		logger:   logger,
		opts:     opts,
	}
}

// SetObserver registers o to receive a snapshot after every page.
func (d *Driver) SetObserver(o Observer) {
	d.observer = o
}

// RunID returns the id of the run.
func (d *Driver) RunID() string {
	return d.opts.RunID
}

// Run pages through the directory until it reports no further pages.
// A page fetch failure aborts the run; the returned summary then holds the
// cursor to resume from. Per-user and per-role failures never abort.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		RunID:   d.opts.RunID,
		Started: time.Now(),
	}
	seen := make(map[string]struct{})
	cursor := d.opts.StartCursor

	for {
		pageStart := time.Now()
		d.enter(summary, StateFetching)
		summary.Cursor = ""
		if cursor != nil {
			summary.Cursor = *cursor
		}

		page, err := d.dir.ListUsers(ctx, cursor, d.opts.Limit)
		if err != nil {
			summary.Elapsed = time.Since(summary.Started)
			return summary, fmt.Errorf("failed to fetch page %d at cursor %q: %w", summary.Pages+1, summary.Cursor, err)
		}
		summary.Pages++

		d.logger.Info("Fetched page",
			zap.Int("page", summary.Pages),
			zap.Int("users", len(page.Users)),
			zap.String("cursor", summary.Cursor),
			zap.Bool("has_next", page.NextCursor != nil),
		)

		d.enter(summary, StateProcessingPage)
		if err := d.processPage(ctx, page.Users, seen, summary); err != nil {
			summary.Elapsed = time.Since(summary.Started)
			return summary, err
		}

		d.enter(summary, StatePacing)
		waited, err := d.floor.Hold(ctx, pageStart)
		if err != nil {
			summary.Elapsed = time.Since(summary.Started)
			return summary, err
		}
		if waited > 0 {
			d.logger.Info("Holding before next page", zap.Duration("wait", waited))
		}

		summary.Elapsed = time.Since(summary.Started)
		if d.observer != nil {
			d.observer.PageDone(*summary)
		}

		if page.NextCursor == nil {
			break
		}
		cursor = page.NextCursor
	}

	d.enter(summary, StateDone)
	summary.Cursor = ""
	summary.Elapsed = time.Since(summary.Started)
	if d.observer != nil {
		d.observer.PageDone(*summary)
	}

	d.logger.Info("Reconciliation complete",
		zap.Int("pages", summary.Pages),
		zap.Int("users", summary.Users),
		zap.Int("skipped", summary.Skipped),
		zap.Int("outcomes", summary.Outcomes),
		zap.Int("failures", summary.Failures),
		zap.Int("no_roles", summary.NoRoles),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

// processPage resolves roles for every user concurrently and dispatches the
// synchronizations in page order, each one admitted by the pacing gate. It
// returns once every dispatched user has its outcomes recorded.
func (d *Driver) processPage(ctx context.Context, users []directory.User, seen map[string]struct{}, summary *Summary) error {
	pending := make([]directory.User, 0, len(users))
	for _, u := range users {
		if _, dup := seen[u.Username]; dup {
			d.logger.Warn("User already processed in this run, skipping", zap.String("username", u.Username))
			summary.Skipped++
			continue
		}
		seen[u.Username] = struct{}{}
		pending = append(pending, u)
	}
	if len(pending) == 0 {
		return nil
	}

	// One buffered slot per user keeps resolvers from blocking on the
	// dispatcher, which consumes them in page order.
	resolved := make([]chan []string, len(pending))
	for i := range resolved {
		resolved[i] = make(chan []string, 1)
	}

	// Go blocks once Concurrency resolutions are in flight, so launching
	// runs beside the dispatcher.
	resolving, rctx := errgroup.WithContext(ctx)
	resolving.SetLimit(d.opts.Concurrency)
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for i, u := range pending {
			resolving.Go(func() error {
				if err := rctx.Err(); err != nil {
					resolved[i] <- nil
					return err
				}
				resolved[i] <- d.resolver.Resolve(rctx, u.Username)
				return nil
			})
		}
	}()

	var (
		syncing sync.WaitGroup
		mu      sync.Mutex
		gateErr error
		paced   time.Duration
		sent    int
	)
	for i, u := range pending {
		roles := <-resolved[i]

		waited, err := d.gate.Wait(ctx)
		if err != nil {
			gateErr = fmt.Errorf("pacing interrupted: %w", err)
			break
		}
		paced += waited
		sent++
		d.logger.Debug("Dispatching user",
			zap.String("username", u.Username),
			zap.Strings("roles", roles),
			zap.Duration("paced", waited),
		)

		syncing.Add(1)
		go func() {
			defer syncing.Done()
			res := d.syncer.Sync(ctx, u.Username, roles)

			mu.Lock()
			defer mu.Unlock()
			summary.Users++
			summary.Outcomes += res.Outcomes
			summary.Failures += res.Failures
			if res.NoRoles {
				summary.NoRoles++
			}
		}()
	}

	syncing.Wait()
	<-launched
	if err := resolving.Wait(); err != nil && gateErr == nil {
		gateErr = fmt.Errorf("role resolution interrupted: %w", err)
	}

	d.logger.Info("Paced page dispatches",
		zap.Int("page", summary.Pages),
		zap.Int("dispatched", sent),
		zap.Duration("paced", paced),
		zap.Duration("interval", d.gate.Interval()),
	)
	return gateErr
}

func (d *Driver) enter(summary *Summary, s State) {
	summary.State = s
	d.logger.Debug("State transition", zap.String("state", string(s)), zap.Int("page", summary.Pages))
}
