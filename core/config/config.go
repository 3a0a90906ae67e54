package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"group-sync/core/batch"
	"group-sync/core/database"
	"group-sync/core/directory"
	"group-sync/core/logger"
	"group-sync/core/report"
	"group-sync/core/status"
	"group-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the roster database connection.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the object storage receiving reports.
	Storage storage.Config `mapstructure:"storage"`
	// Report holds configuration for the outcome report.
	Report report.Config `mapstructure:"report"`
	// AWS holds configuration shared by the AWS clients.
	AWS AWSConfig `mapstructure:"aws"`
	// Sync holds the defaults of a reconciliation run.
	Sync SyncConfig `mapstructure:"sync"`
	// Secrets selects where the secret bundle is read from.
	Secrets SecretsConfig `mapstructure:"secrets"`
	// Google holds configuration for the Google Workspace directory.
	Google directory.GoogleConfig `mapstructure:"google"`
	// Batch holds configuration for chunked roster checks.
	Batch batch.Config `mapstructure:"batch"`
	// Status holds configuration for the progress endpoint.
	Status status.Config `mapstructure:"status"`
}

// AWSConfig holds settings for the AWS SDK.
type AWSConfig struct {
	// Region is the region of the user pool and the secret.
	Region string `mapstructure:"region" default:"us-east-1"`
	// Profile is an optional shared config profile.
	Profile string `mapstructure:"profile" default:""`
}

// SyncConfig holds the defaults of a run. CLI flags override them.
type SyncConfig struct {
	// Environment selects the secret bundle (development, staging, production).
	Environment string `mapstructure:"environment" default:""`
	// Directory is the user directory backend (cognito, google).
	Directory string `mapstructure:"directory" default:"cognito"`
	// ReadLimit is the directory page size, at most 60.
	ReadLimit int `mapstructure:"read_limit" default:"60"`
	// OpsPerSec caps the rate of membership dispatches.
	OpsPerSec float64 `mapstructure:"ops_per_sec" default:"20"`
	// ResolveConcurrency caps concurrent role lookups per page.
	// It should not exceed database.max_open_conns.
	ResolveConcurrency int `mapstructure:"resolve_concurrency" default:"20"`
	// PageIntervalMs is the minimum duration of one page in milliseconds.
	PageIntervalMs int `mapstructure:"page_interval_ms" default:"1000"`
}

// SecretsConfig holds settings for the secret provider.
type SecretsConfig struct {
	// Provider is the secret backend (aws, ksm).
	Provider string `mapstructure:"provider" default:"aws"`
	// KeeperConfig is the base64 Keeper Secrets Manager device config.
	KeeperConfig string `mapstructure:"keeper_config" default:""`
}

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"

	DirectoryCognito = "cognito"
	DirectoryGoogle  = "google"

	SecretsAWS    = "aws"
	SecretsKeeper = "ksm"
)

var (
	// ErrMissingEnvironment is returned when no environment was given.
	ErrMissingEnvironment = errors.New("environment is required")
	// ErrInvalidEnvironment is returned for an unknown environment name.
	ErrInvalidEnvironment = errors.New("invalid environment")
)

var secretIDs = map[string]string{
	EnvDevelopment: "dev-dp-account-management-secrets",
	EnvStaging:     "stage-dp-account-management-secrets",
	EnvProduction:  "prod-dp-account-management-secrets",
}

// SecretID returns the id of the secret bundle for an environment.
func SecretID(env string) (string, error) {
	if env == "" {
		return "", ErrMissingEnvironment
	}
	id, ok := secretIDs[env]
	if !ok {
		return "", fmt.Errorf("%w %q: expected one of %s, %s, %s",
			ErrInvalidEnvironment, env, EnvDevelopment, EnvStaging, EnvProduction)
	}
	return id, nil
}

// Validate checks the backend selections of a run.
func (c SyncConfig) Validate() error {
	switch c.Directory {
	case DirectoryCognito, DirectoryGoogle:
	default:
		return fmt.Errorf("unsupported directory %q", c.Directory)
	}
	_, err := SecretID(c.Environment)
	return err
}

// Validate checks the secret provider selection.
func (c SecretsConfig) Validate() error {
	switch c.Provider {
	case SecretsAWS:
		return nil
	case SecretsKeeper:
		if c.KeeperConfig == "" {
			return fmt.Errorf("keeper secrets provider requires secrets.keeper_config")
		}
		return nil
	default:
		return fmt.Errorf("unsupported secrets provider %q", c.Provider)
	}
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SYNC_READ_LIMIT -> sync.read_limit)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
