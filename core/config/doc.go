// Package config provides configuration management for group-sync.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// partial configuration, registered by reflection so that every key can be
// overridden through the environment (e.g. SYNC_OPS_PER_SEC, DATABASE_DRIVER,
// REPORT_UPLOAD_BUCKET).
//
// # Configuration Structure
//
//   - Log: logging level and format
//   - Database: roster connection (host, name and credentials come from the secret bundle)
//   - Storage: S3/MinIO settings for report archiving
//   - Report: CSV path, append mode and upload target
//   - AWS: region and profile for Cognito and Secrets Manager
//   - Sync: environment, directory backend, page size and pacing
//   - Secrets: secret provider (aws or ksm)
//   - Google, Batch, Status: optional backends and commands
//
// # Environments
//
// SecretID maps the deployment environment to the id of its secret bundle and
// fails with ErrMissingEnvironment or ErrInvalidEnvironment otherwise.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	id, err := config.SecretID(cfg.Sync.Environment)
package config
