package cmd

import (
	"fmt"
	"os"

	"group-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "group-sync",
	Short: "Roster to directory group reconciliation",
	Long: `group-sync pages through the users of an identity directory (a Cognito
user pool by default), resolves each user's roles from the roster database and
adds the user to the directory group of every role, pacing mutating calls and
recording every outcome.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level gives ISO8601 timestamps for CLI users
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
