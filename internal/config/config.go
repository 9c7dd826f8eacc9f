// Package config reads CLI configuration from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded by Load when present.
const DefaultEnvFile = ".env"

// Config is the resolved configuration of the opscopilot command.
type Config struct {
	Stack  StackConfig
	Assets AssetsConfig
	AWS    AWSConfig
}

// StackConfig locates the declarations to synthesize.
type StackConfig struct {
	// Dir is the declaration package synthesized by default
	Dir         string
	Description string
}

// AssetsConfig names the buckets and local directories published to S3.
type AssetsConfig struct {
	Bucket         string
	Prefix         string
	FunctionsDir   string
	RunbooksBucket string
	RunbooksDir    string
}

// AWSConfig configures the S3 client.
type AWSConfig struct {
	Region string
	// Endpoint overrides the S3 endpoint (LocalStack, MinIO)
	Endpoint string
}

// Load reads envFile into the process environment without overriding
// variables that are already set, then builds a Config. A missing file
// is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	return Config{
		Stack: StackConfig{
			Dir:         getenv("OPSCOPILOT_STACK_DIR", "./infra/copilot"),
			Description: getenv("OPSCOPILOT_DESCRIPTION", "OpsCopilot core stack"),
		},
		Assets: AssetsConfig{
			Bucket:         os.Getenv("OPSCOPILOT_ASSET_BUCKET"),
			Prefix:         getenv("OPSCOPILOT_ASSET_PREFIX", "functions/"),
			FunctionsDir:   getenv("OPSCOPILOT_FUNCTIONS_DIR", "lambda"),
			RunbooksBucket: os.Getenv("OPSCOPILOT_RUNBOOKS_BUCKET"),
			RunbooksDir:    getenv("OPSCOPILOT_RUNBOOKS_DIR", "runbooks"),
		},
		AWS: AWSConfig{
			Region:   getenv("AWS_REGION", "us-east-1"),
			Endpoint: os.Getenv("AWS_ENDPOINT_URL"),
		},
	}, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
