package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"group-sync/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Sync.ReadLimit)
	assert.Equal(t, 20.0, cfg.Sync.OpsPerSec)
	assert.Equal(t, 1000, cfg.Sync.PageIntervalMs)
	assert.Equal(t, 20, cfg.Sync.ResolveConcurrency)
	assert.Equal(t, config.DirectoryCognito, cfg.Sync.Directory)
	assert.Equal(t, config.SecretsAWS, cfg.Secrets.Provider)
	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "cognito_groups_sync_report.csv", cfg.Report.Path)
	assert.False(t, cfg.Report.Upload.Enabled)
	assert.Equal(t, 5, cfg.Batch.Size)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Status.Addr)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SYNC_OPS_PER_SEC", "5")
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("REPORT_UPLOAD_BUCKET", "audit")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 5.0, cfg.Sync.OpsPerSec)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "audit", cfg.Report.Upload.Bucket)
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	// Registered so the value written by the .env file is restored afterwards.
	t.Setenv("SYNC_ENVIRONMENT", "")
	t.Setenv("SYNC_PAGE_INTERVAL_MS", "")

	dir := t.TempDir()
	env := "SYNC_ENVIRONMENT=staging\nSYNC_PAGE_INTERVAL_MS=250\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	cfg, err := config.LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, config.EnvStaging, cfg.Sync.Environment)
	assert.Equal(t, 250, cfg.Sync.PageIntervalMs)
}

func TestSecretID(t *testing.T) {
	tests := []struct {
		env     string
		want    string
		wantErr error
	}{
		{config.EnvDevelopment, "dev-dp-account-management-secrets", nil},
		{config.EnvStaging, "stage-dp-account-management-secrets", nil},
		{config.EnvProduction, "prod-dp-account-management-secrets", nil},
		{"", "", config.ErrMissingEnvironment},
		{"qa", "", config.ErrInvalidEnvironment},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			got, err := config.SecretID(tt.env)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSyncConfig_Validate(t *testing.T) {
	ok := config.SyncConfig{Environment: config.EnvProduction, Directory: config.DirectoryGoogle}
	assert.NoError(t, ok.Validate())

	bad := config.SyncConfig{Environment: config.EnvProduction, Directory: "ldap"}
	assert.Error(t, bad.Validate())

	noEnv := config.SyncConfig{Directory: config.DirectoryCognito}
	assert.ErrorIs(t, noEnv.Validate(), config.ErrMissingEnvironment)
}

func TestSecretsConfig_Validate(t *testing.T) {
	assert.NoError(t, config.SecretsConfig{Provider: config.SecretsAWS}.Validate())
	assert.Error(t, config.SecretsConfig{Provider: config.SecretsKeeper}.Validate())
	assert.NoError(t, config.SecretsConfig{Provider: config.SecretsKeeper, KeeperConfig: "e30="}.Validate())
	assert.Error(t, config.SecretsConfig{Provider: "vault"}.Validate())
}
