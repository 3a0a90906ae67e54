package cmd

import (
	"group-sync/core/config"
	"group-sync/core/directory"
	"group-sync/core/pacing"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// syncFlags are the per-run options of the sync command.
type syncFlags struct {
	environment     string
	readLimit       int
	enableCSVReport bool
	paginationToken string
	opsPerSec       float64
	reportPath      string
	appendReport    bool
	directory       string
	secrets         string
	statusAddr      string
}

func registerSyncFlags(fs *pflag.FlagSet, f *syncFlags) {
	fs.StringVar(&f.environment, "environment", "", "Deployment environment (development, staging, production)")
	fs.IntVar(&f.readLimit, "read-limit", directory.MaxPageSize, "Users per directory page (1-60)")
	fs.BoolVar(&f.enableCSVReport, "enable-csv-report", false, "Write every outcome to the CSV report")
	fs.StringVar(&f.paginationToken, "pagination-token", "", "Resume listing at this pagination token")
	fs.Float64Var(&f.opsPerSec, "ops-per-sec", 20, "Maximum membership operations per second")
	fs.StringVar(&f.reportPath, "report-path", "", "CSV report path (defaults to report.path)")
	fs.BoolVar(&f.appendReport, "append-report", false, "Append to an existing report instead of rewriting it")
	fs.StringVar(&f.directory, "directory", "", "User directory backend (cognito, google)")
	fs.StringVar(&f.secrets, "secrets", "", "Secret provider (aws, ksm)")
	fs.StringVar(&f.statusAddr, "status-addr", "", "Serve run progress on this address (e.g. :8080)")
}

// applySyncFlags overrides cfg with the flags set on the command line.
// Out-of-range values fall back to defaults with an info log.
func applySyncFlags(fs *pflag.FlagSet, f *syncFlags, cfg *config.Config, l *zap.Logger) {
	if fs.Changed("environment") {
		cfg.Sync.Environment = f.environment
	}
	if fs.Changed("read-limit") {
		cfg.Sync.ReadLimit = f.readLimit
	}
	if fs.Changed("ops-per-sec") {
		cfg.Sync.OpsPerSec = f.opsPerSec
	}
	if fs.Changed("report-path") {
		cfg.Report.Path = f.reportPath
	}
	if fs.Changed("append-report") {
		cfg.Report.Append = f.appendReport
	}
	if fs.Changed("directory") {
		cfg.Sync.Directory = f.directory
	}
	if fs.Changed("secrets") {
		cfg.Secrets.Provider = f.secrets
	}
	if fs.Changed("status-addr") {
		cfg.Status.Addr = f.statusAddr
	}

	if limit := directory.ClampLimit(cfg.Sync.ReadLimit); int(limit) != cfg.Sync.ReadLimit {
		l.Info("Read limit out of range, using default",
			zap.Int("requested", cfg.Sync.ReadLimit),
			zap.Int32("limit", limit),
		)
		cfg.Sync.ReadLimit = int(limit)
	}
	if cfg.Sync.OpsPerSec > 0 && cfg.Sync.OpsPerSec < pacing.MinOpsPerSec {
		l.Info("Operations per second too small, using minimum",
			zap.Float64("requested", cfg.Sync.OpsPerSec),
			zap.Float64("ops_per_sec", pacing.MinOpsPerSec),
		)
		cfg.Sync.OpsPerSec = pacing.MinOpsPerSec
	}
	if cfg.Sync.OpsPerSec <= 0 {
		l.Info("Operations per second must be positive, using default",
			zap.Float64("requested", cfg.Sync.OpsPerSec),
			zap.Float64("ops_per_sec", defaultOpsPerSec),
		)
		cfg.Sync.OpsPerSec = defaultOpsPerSec
	}
}

const defaultOpsPerSec = 20

// startCursor converts the pagination token flag into a driver cursor.
func startCursor(token string) *string {
	if token == "" {
		return nil
	}
	return &token
}
