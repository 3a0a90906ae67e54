package cmd

import (
	"context"
	"testing"

	"group-sync/core/config"
	"group-sync/core/directory"
	"group-sync/core/secrets"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewSecretsProvider(t *testing.T) {
	p, err := newSecretsProvider(config.SecretsConfig{Provider: config.SecretsAWS}, aws.Config{Region: "us-east-1"})
	require.NoError(t, err)
	assert.IsType(t, &secrets.AWSProvider{}, p)

	_, err = newSecretsProvider(config.SecretsConfig{Provider: "vault"}, aws.Config{})
	assert.Error(t, err)
}

func TestFetchBundle_RejectsEnvironment(t *testing.T) {
	cfg := defaultConfig()

	_, err := fetchBundle(context.Background(), cfg, aws.Config{}, zap.NewNop())
	assert.ErrorIs(t, err, config.ErrMissingEnvironment)

	cfg.Sync.Environment = "qa"
	_, err = fetchBundle(context.Background(), cfg, aws.Config{}, zap.NewNop())
	assert.ErrorIs(t, err, config.ErrInvalidEnvironment)
}

func TestNewDirectory(t *testing.T) {
	cfg := defaultConfig()
	bundle := &secrets.Bundle{UserPoolID: "us-east-1_pool"}

	dir, err := newDirectory(context.Background(), cfg, aws.Config{Region: "us-east-1"}, bundle)
	require.NoError(t, err)
	assert.IsType(t, &directory.Cognito{}, dir)

	cfg.Sync.Directory = config.DirectoryGoogle
	cfg.Google.CredentialsFile = "/nonexistent/credentials.json"
	_, err = newDirectory(context.Background(), cfg, aws.Config{}, bundle)
	assert.Error(t, err)

	cfg.Sync.Directory = "ldap"
	_, err = newDirectory(context.Background(), cfg, aws.Config{}, bundle)
	assert.Error(t, err)
}
