package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"group-sync/core/config"
	"group-sync/core/directory"
	"group-sync/core/logger"
	"group-sync/core/pacing"
	"group-sync/core/reconcile"
	"group-sync/core/report"
	"group-sync/core/status"
	"group-sync/core/storage"
	"group-sync/feature/groupsync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncOpts syncFlags

// syncCmd runs one reconciliation over the whole directory.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Add every directory user to the groups of their roster roles",
	Long: `Pages through the directory, resolves each user's roles from the roster
database and adds the user to the group of every role.

Memberships are only added, never removed. A failure on one user or role is
recorded and the run continues; only a failed page fetch stops the run, and the
pagination token to resume from is logged.

Examples:
  # Full run against staging with a CSV report
  sync --environment staging --enable-csv-report

  # Resume an interrupted run at a slower pace
  sync --environment production --pagination-token <token> --ops-per-sec 5`,
	RunE: runSync,
}

func init() {
	registerSyncFlags(syncCmd.Flags(), &syncOpts)
	RootCmd.AddCommand(syncCmd)
}

// syncDeps are the external collaborators of a run.
type syncDeps struct {
	dir      directory.Directory
	resolver reconcile.RoleResolver
}

// syncSession is one sync run. Collaborators are built by bootstrap and the
// report is opened by openReport so both can be replaced in tests.
type syncSession struct {
	cfg        *config.Config
	runID      string
	csvReport  bool
	cursor     *string
	bootstrap  func(ctx context.Context) (*syncDeps, error)
	openReport func() (report.Recorder, error)
	out        io.Writer
	logger     *zap.Logger
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	applySyncFlags(cmd.Flags(), &syncOpts, cfg, l)

	runID := uuid.NewString()
	l = logger.WithRunID(l, runID)

	s := &syncSession{
		cfg:       cfg,
		runID:     runID,
		csvReport: syncOpts.enableCSVReport,
		cursor:    startCursor(syncOpts.paginationToken),
		bootstrap: func(ctx context.Context) (*syncDeps, error) {
			return bootstrapSync(ctx, cfg, l)
		},
		openReport: func() (report.Recorder, error) {
			return report.Open(cfg.Report, syncOpts.enableCSVReport)
		},
		out:    cmd.OutOrStdout(),
		logger: l,
	}
	return s.run(ctx)
}

// bootstrapSync resolves secrets, connects the roster and builds the directory.
func bootstrapSync(ctx context.Context, cfg *config.Config, l *zap.Logger) (*syncDeps, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg.AWS)
	if err != nil {
		return nil, err
	}
	bundle, err := fetchBundle(ctx, cfg, awsCfg, l)
	if err != nil {
		return nil, err
	}
	db, err := connectRoster(cfg.Database, bundle, l)
	if err != nil {
		return nil, err
	}
	dir, err := newDirectory(ctx, cfg, awsCfg, bundle)
	if err != nil {
		return nil, err
	}
	return &syncDeps{dir: dir, resolver: groupsync.NewResolver(db, l)}, nil
}

// run executes the session. The report is finalized on every return path,
// including startup failures before it was opened.
func (s *syncSession) run(ctx context.Context) (err error) {
	l := s.logger

	var rec report.Recorder
	defer func() {
		if ferr := report.Finalize(l, rec); ferr != nil {
			l.Error("Failed to finalize report", zap.Error(ferr))
			if err == nil {
				err = ferr
			}
			return
		}
		if rec != nil && s.csvReport {
			archiveReport(ctx, s.cfg, s.runID, l)
		}
	}()

	if err := s.cfg.Sync.Validate(); err != nil {
		return err
	}

	l.Info("Starting group sync",
		zap.String("environment", s.cfg.Sync.Environment),
		zap.String("directory", s.cfg.Sync.Directory),
		zap.Int("read_limit", s.cfg.Sync.ReadLimit),
		zap.Float64("ops_per_sec", s.cfg.Sync.OpsPerSec),
		zap.Bool("csv_report", s.csvReport),
	)

	deps, err := s.bootstrap(ctx)
	if err != nil {
		return err
	}

	rec, err = s.openReport()
	if err != nil {
		rec = nil
		return err
	}

	driver := reconcile.NewDriver(
		deps.dir,
		deps.resolver,
		groupsync.NewSynchronizer(deps.dir, rec, l),
		pacing.NewGate(s.cfg.Sync.OpsPerSec),
		reconcile.Options{
			RunID:       s.runID,
			Limit:       int32(s.cfg.Sync.ReadLimit),
			Concurrency: s.cfg.Sync.ResolveConcurrency,
			StartCursor: s.cursor,
			PageFloor:   time.Duration(s.cfg.Sync.PageIntervalMs) * time.Millisecond,
		},
		l,
	)

	if s.cfg.Status.Enabled() {
		tracker := status.NewTracker(s.runID)
		driver.SetObserver(tracker)
		srv := status.NewServer(s.cfg.Status, tracker, l)
		srv.Start(s.cfg.Status.Addr)
		defer func() { _ = srv.Shutdown() }()
	}

	summary, err := driver.Run(ctx)
	if err != nil {
		if summary != nil && summary.Cursor != "" {
			l.Error("Run aborted, resume with --pagination-token", zap.String("pagination_token", summary.Cursor))
		}
		return err
	}

	fmt.Fprintf(s.out,
		"run %s: %d pages, %d users, %d outcomes, %d failures, %d without roles in %s\n",
		summary.RunID, summary.Pages, summary.Users, summary.Outcomes, summary.Failures, summary.NoRoles,
		summary.Elapsed.Round(time.Millisecond))
	return nil
}

// archiveReport uploads the finished report when configured. Failures are
// logged only.
func archiveReport(ctx context.Context, cfg *config.Config, runID string, l *zap.Logger) {
	if !cfg.Report.Upload.Enabled {
		return
	}
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		l.Warn("Report upload skipped", zap.Error(err))
		return
	}
	object, err := report.NewUploader(client, cfg.Report.Upload).Upload(ctx, cfg.Report.Path, runID)
	if err != nil {
		l.Warn("Report upload failed", zap.Error(err))
		return
	}
	l.Info("Report uploaded",
		zap.String("bucket", cfg.Report.Upload.Bucket),
		zap.String("object", object),
	)
}
