package cmd

import (
	"testing"

	"group-sync/core/config"
	"group-sync/core/pacing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func parseSyncFlags(t *testing.T, args ...string) (*pflag.FlagSet, *syncFlags) {
	t.Helper()
	f := &syncFlags{}
	fs := pflag.NewFlagSet("sync", pflag.ContinueOnError)
	registerSyncFlags(fs, f)
	require.NoError(t, fs.Parse(args))
	return fs, f
}

func defaultConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Sync = config.SyncConfig{Directory: config.DirectoryCognito, ReadLimit: 60, OpsPerSec: 20, PageIntervalMs: 1000}
	cfg.Secrets.Provider = config.SecretsAWS
	cfg.Report.Path = "cognito_groups_sync_report.csv"
	return cfg
}

func TestApplySyncFlags_Overrides(t *testing.T) {
	fs, f := parseSyncFlags(t,
		"--environment", "staging",
		"--read-limit", "25",
		"--ops-per-sec", "5",
		"--report-path", "/tmp/out.csv",
		"--append-report",
		"--directory", "google",
		"--secrets", "ksm",
		"--status-addr", ":9090",
	)
	cfg := defaultConfig()

	applySyncFlags(fs, f, cfg, zap.NewNop())

	assert.Equal(t, "staging", cfg.Sync.Environment)
	assert.Equal(t, 25, cfg.Sync.ReadLimit)
	assert.Equal(t, 5.0, cfg.Sync.OpsPerSec)
	assert.Equal(t, "/tmp/out.csv", cfg.Report.Path)
	assert.True(t, cfg.Report.Append)
	assert.Equal(t, config.DirectoryGoogle, cfg.Sync.Directory)
	assert.Equal(t, config.SecretsKeeper, cfg.Secrets.Provider)
	assert.Equal(t, ":9090", cfg.Status.Addr)
}

func TestApplySyncFlags_KeepsConfigWhenUnset(t *testing.T) {
	fs, f := parseSyncFlags(t)
	cfg := defaultConfig()
	cfg.Sync.OpsPerSec = 7

	applySyncFlags(fs, f, cfg, zap.NewNop())

	assert.Equal(t, 7.0, cfg.Sync.OpsPerSec)
	assert.Equal(t, 60, cfg.Sync.ReadLimit)
	assert.Equal(t, "cognito_groups_sync_report.csv", cfg.Report.Path)
	assert.False(t, cfg.Report.Append)
}

func TestApplySyncFlags_ReplacesOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantLimit int
		wantOps   float64
	}{
		{"LimitTooLarge", []string{"--read-limit", "100"}, 60, 20},
		{"LimitZero", []string{"--read-limit", "0"}, 60, 20},
		{"LimitNegative", []string{"--read-limit", "-3"}, 60, 20},
		{"OpsZero", []string{"--ops-per-sec", "0"}, 60, 20},
		{"OpsNegative", []string{"--ops-per-sec", "-1"}, 60, 20},
		{"OpsTiny", []string{"--ops-per-sec", "1e-12"}, 60, pacing.MinOpsPerSec},
		{"InRange", []string{"--read-limit", "1", "--ops-per-sec", "0.5"}, 1, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			fs, f := parseSyncFlags(t, tt.args...)
			cfg := defaultConfig()

			applySyncFlags(fs, f, cfg, zap.New(core))

			assert.Equal(t, tt.wantLimit, cfg.Sync.ReadLimit)
			assert.Equal(t, tt.wantOps, cfg.Sync.OpsPerSec)
			if tt.name == "InRange" {
				assert.Zero(t, logs.Len())
			} else {
				assert.Equal(t, 1, logs.Len())
			}
		})
	}
}

func TestStartCursor(t *testing.T) {
	assert.Nil(t, startCursor(""))
	c := startCursor("tok")
	require.NotNil(t, c)
	assert.Equal(t, "tok", *c)
}

func TestSyncCommandRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["sync"])
	assert.True(t, names["roster"])

	for _, flag := range []string{"environment", "read-limit", "enable-csv-report", "pagination-token", "ops-per-sec"} {
		assert.NotNil(t, syncCmd.Flags().Lookup(flag), flag)
	}
}
