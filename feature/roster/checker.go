package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"group-sync/core/batch"
	"group-sync/core/reconcile"
	"group-sync/core/report"
	"group-sync/feature/groupsync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UsernameColumn is the CSV column holding the user id.
const UsernameColumn = "username"

// ErrNoUsernameColumn is returned when the input lacks a username column.
var ErrNoUsernameColumn = errors.New("csv input has no username column")

// Result summarizes a check.
type Result struct {
	Batches   int `json:"batches"`
	Users     int `json:"users"`
	WithRoles int `json:"with_roles"`
	NoRoles   int `json:"no_roles"`
	Blank     int `json:"blank"`
}

// Checker resolves roster roles for users read from a CSV export, without
// touching the directory. Users are read in fixed-size chunks.
type Checker struct {
	resolver reconcile.RoleResolver
	recorder report.Recorder
	cfg      batch.Config
	logger   *zap.Logger
}

// NewChecker creates a checker recording one outcome per user.
func NewChecker(resolver reconcile.RoleResolver, recorder report.Recorder, cfg batch.Config, logger *zap.Logger) *Checker {
	return &Checker{resolver: resolver, recorder: recorder, cfg: cfg, logger: logger}
}

// Check reads users from r and records their resolved roles. Users without
// roles are recorded with groupsync.ErrNoRoles. Rows with an empty username
// are skipped.
func (c *Checker) Check(ctx context.Context, r io.Reader) (*Result, error) {
	src, err := batch.NewCSVSource(r)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(src.Header(), UsernameColumn) {
		return nil, ErrNoUsernameColumn
	}

	res := &Result{}
	p := batch.New(c.cfg, func(ctx context.Context, recs []batch.Record) error {
		return c.checkBatch(ctx, recs, res)
	}, c.logger)

	stats, err := p.Run(ctx, src)
	res.Batches = stats.Batches
	if err != nil {
		return res, fmt.Errorf("roster check stopped after %d users: %w", res.Users, err)
	}

	c.logger.Info("Roster check complete",
		zap.Int("batches", res.Batches),
		zap.Int("users", res.Users),
		zap.Int("with_roles", res.WithRoles),
		zap.Int("no_roles", res.NoRoles),
		zap.Int("blank", res.Blank),
	)
	return res, nil
}

func (c *Checker) checkBatch(ctx context.Context, recs []batch.Record, res *Result) error {
	users := make([]string, 0, len(recs))
	for _, rec := range recs {
		if name := rec[UsernameColumn]; name != "" {
			users = append(users, name)
			continue
		}
		res.Blank++
		c.logger.Warn("Skipping row without username")
	}

	roles := make([][]string, len(users))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range users {
		g.Go(func() error {
			roles[i] = c.resolver.Resolve(gctx, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, u := range users {
		res.Users++
		out := report.Outcome{Username: u, Roles: roles[i]}
		if len(roles[i]) == 0 {
			res.NoRoles++
			out.Err = groupsync.ErrNoRoles
		} else {
			res.WithRoles++
		}
		c.recorder.Append(out)
	}
	return nil
}
