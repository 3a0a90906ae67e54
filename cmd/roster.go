package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"group-sync/core/config"
	"group-sync/core/logger"
	"group-sync/core/report"
	"group-sync/feature/groupsync"
	"group-sync/feature/roster"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	// Flags for roster check command
	rosterEnvironment string
	rosterInput       string
	rosterOutput      string
	rosterBatchSize   int
	rosterItemDelayMs int
)

// rosterCmd is the parent command for roster operations.
var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Inspect the roster database",
}

// rosterCheckCmd resolves roles for users listed in a CSV file.
var rosterCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Resolve roster roles for users listed in a CSV file",
	Long: `Reads a CSV file with a username column in fixed-size chunks and writes
each user's resolved roles in the sync report format. The directory is not
touched.

Examples:
  # Preview roles for an exported user list
  roster check --environment staging --input users.csv

  # Larger chunks, no per-row delay, written to a file
  roster check --environment staging --input users.csv --batch-size 50 --item-delay-ms 0 --output roles.csv`,
	RunE: runRosterCheck,
}

func init() {
	rosterCheckCmd.Flags().StringVar(&rosterEnvironment, "environment", "", "Deployment environment (development, staging, production)")
	rosterCheckCmd.Flags().StringVar(&rosterInput, "input", "", "CSV file with a username column")
	rosterCheckCmd.Flags().StringVar(&rosterOutput, "output", "", "Write results to this file instead of stdout")
	rosterCheckCmd.Flags().IntVar(&rosterBatchSize, "batch-size", 0, "Users per chunk (defaults to batch.size)")
	rosterCheckCmd.Flags().IntVar(&rosterItemDelayMs, "item-delay-ms", 0, "Minimum milliseconds per row (defaults to batch.item_delay_ms)")
	_ = rosterCheckCmd.MarkFlagRequired("input")

	rosterCmd.AddCommand(rosterCheckCmd)
	RootCmd.AddCommand(rosterCmd)
}

func runRosterCheck(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("environment") {
		cfg.Sync.Environment = rosterEnvironment
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.Batch.Size = rosterBatchSize
	}
	if cmd.Flags().Changed("item-delay-ms") {
		cfg.Batch.ItemDelayMs = rosterItemDelayMs
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()
	l = logger.WithRunID(l, uuid.NewString())

	var rec report.Recorder
	defer func() {
		if ferr := report.Finalize(l, rec); ferr != nil && err == nil {
			err = ferr
		}
	}()

	in, err := os.Open(rosterInput)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	awsCfg, err := loadAWSConfig(ctx, cfg.AWS)
	if err != nil {
		return err
	}
	bundle, err := fetchBundle(ctx, cfg, awsCfg, l)
	if err != nil {
		return err
	}
	db, err := connectRoster(cfg.Database, bundle, l)
	if err != nil {
		return err
	}

	rec, err = openRosterOutput(cmd.OutOrStdout())
	if err != nil {
		rec = nil
		return err
	}

	checker := roster.NewChecker(groupsync.NewResolver(db, l), rec, cfg.Batch, l)
	_, err = checker.Check(ctx, in)
	return err
}

// openRosterOutput returns the recorder for --output, or one on w.
func openRosterOutput(w io.Writer) (report.Recorder, error) {
	if rosterOutput != "" {
		return report.Open(report.Config{Path: rosterOutput}, true)
	}
	rec, err := report.NewCSVRecorder(w, nil, true)
	if err != nil {
		return nil, err
	}
	return rec, nil
}
