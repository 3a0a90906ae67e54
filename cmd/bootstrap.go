package cmd

import (
	"context"
	"fmt"
	"os"

	"group-sync/core/config"
	"group-sync/core/database"
	"group-sync/core/directory"
	"group-sync/core/secrets"
	"group-sync/feature/groupsync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// loadAWSConfig builds the shared AWS SDK configuration.
func loadAWSConfig(ctx context.Context, cfg config.AWSConfig) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}
	return awsCfg, nil
}

// newSecretsProvider returns the configured secret backend.
func newSecretsProvider(cfg config.SecretsConfig, awsCfg aws.Config) (secrets.Provider, error) {
	switch cfg.Provider {
	case config.SecretsAWS:
		return secrets.NewAWSProvider(awsCfg), nil
	case config.SecretsKeeper:
		return secrets.NewKeeperProvider(cfg.KeeperConfig), nil
	default:
		return nil, fmt.Errorf("unsupported secrets provider %q", cfg.Provider)
	}
}

// fetchBundle resolves the secret bundle of the configured environment.
func fetchBundle(ctx context.Context, cfg *config.Config, awsCfg aws.Config, l *zap.Logger) (*secrets.Bundle, error) {
	secretID, err := config.SecretID(cfg.Sync.Environment)
	if err != nil {
		return nil, err
	}
	if err := cfg.Secrets.Validate(); err != nil {
		return nil, err
	}

	provider, err := newSecretsProvider(cfg.Secrets, awsCfg)
	if err != nil {
		return nil, err
	}

	l.Info("Fetching secrets",
		zap.String("provider", cfg.Secrets.Provider),
		zap.String("secret_id", secretID),
	)
	bundle, err := provider.Fetch(ctx, secretID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch secrets: %w", err)
	}
	return bundle, nil
}

// connectRoster opens the roster database with the bundle's credentials and
// verifies the role tables.
func connectRoster(cfg database.Config, bundle *secrets.Bundle, l *zap.Logger) (*gorm.DB, error) {
	cfg.Host = bundle.DBHost
	cfg.Name = bundle.DBName
	cfg.User = bundle.DBUser
	cfg.Password = bundle.DBPassword

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := groupsync.CheckSchema(db); err != nil {
		return nil, fmt.Errorf("roster schema check failed: %w", err)
	}
	l.Info("Connected to roster database",
		zap.String("driver", cfg.Driver),
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
	)
	return db, nil
}

// newDirectory creates the configured directory backend.
func newDirectory(ctx context.Context, cfg *config.Config, awsCfg aws.Config, bundle *secrets.Bundle) (directory.Directory, error) {
	switch cfg.Sync.Directory {
	case config.DirectoryCognito:
		return directory.NewCognito(awsCfg, bundle.UserPoolID), nil
	case config.DirectoryGoogle:
		creds, err := os.ReadFile(cfg.Google.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read google credentials: %w", err)
		}
		return directory.NewGoogle(ctx, creds, cfg.Google)
	default:
		return nil, fmt.Errorf("unsupported directory %q", cfg.Sync.Directory)
	}
}
