package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPSCOPILOT_STACK_DIR", "OPSCOPILOT_DESCRIPTION",
		"OPSCOPILOT_ASSET_BUCKET", "OPSCOPILOT_ASSET_PREFIX", "OPSCOPILOT_FUNCTIONS_DIR",
		"OPSCOPILOT_RUNBOOKS_BUCKET", "OPSCOPILOT_RUNBOOKS_DIR",
		"AWS_REGION", "AWS_ENDPOINT_URL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "./infra/copilot", cfg.Stack.Dir)
	assert.Equal(t, "functions/", cfg.Assets.Prefix)
	assert.Equal(t, "lambda", cfg.Assets.FunctionsDir)
	assert.Equal(t, "runbooks", cfg.Assets.RunbooksDir)
	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Empty(t, cfg.Assets.Bucket)
	assert.Empty(t, cfg.AWS.Endpoint)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "OPSCOPILOT_ASSET_BUCKET=copilot-assets\nAWS_REGION=eu-west-1\nAWS_ENDPOINT_URL=http://localhost:4566\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "copilot-assets", cfg.Assets.Bucket)
	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, "http://localhost:4566", cfg.AWS.Endpoint)
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("AWS_REGION", "ap-southeast-2")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AWS_REGION=eu-west-1\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ap-southeast-2", cfg.AWS.Region)
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPSCOPILOT_STACK_DIR", "./stacks/...")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "./stacks/...", cfg.Stack.Dir)
}
