// Package main implements the migration-runner binary: the isolated
// execution unit that handles schema-migration lifecycle events from the
// deploy orchestrator and drives the migration tool against the target
// database.
package main

import (
	"fmt"
	"os"
)

// Environment variable names.
const (
	envVersionTag      = "HS_VERSION_TAG"
	envSecretReference = "HS_SECRET_REFERENCE"
	envAssetRoot       = "HS_MIGRATION_ASSET_ROOT"
	envToolPath        = "HS_MIGRATION_TOOL"
	envLogGroup        = "HS_MIGRATION_LOG_GROUP"
	envAWSRegion       = "AWS_REGION"
)

// defaultAssetRoot is where the runner image bakes migration scripts.
const defaultAssetRoot = "/opt/migrations"

// runnerConfig holds all configuration parsed from environment variables.
type runnerConfig struct {
	// VersionTag and SecretReference are defaults for lifecycle events
	// that do not carry them as resource properties.
	VersionTag      string
	SecretReference string
	AssetRoot       string
	ToolPath        string
	// LogGroup, when set, mirrors tool output to CloudWatch Logs.
	LogGroup string
	Region   string
}

// loadConfig reads configuration from environment variables. The version
// tag and secret reference must be present (here or on the lifecycle
// event); the region is required for secret resolution.
func loadConfig() (*runnerConfig, error) {
	cfg := &runnerConfig{
		VersionTag:      os.Getenv(envVersionTag),
		SecretReference: os.Getenv(envSecretReference),
		AssetRoot:       os.Getenv(envAssetRoot),
		ToolPath:        os.Getenv(envToolPath),
		LogGroup:        os.Getenv(envLogGroup),
		Region:          os.Getenv(envAWSRegion),
	}
	if cfg.AssetRoot == "" {
		cfg.AssetRoot = defaultAssetRoot
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("%s is required", envAWSRegion)
	}
	return cfg, nil
}
