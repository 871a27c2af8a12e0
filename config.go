package main

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/AshantiAI/hyperswitch-cdk/internal/param"
)

// regionPattern matches AWS region identifiers.
const regionPattern = `^[a-z]{2}-[a-z]+-\d+$`

var regionRe = regexp.MustCompile(regionPattern)

// accountPattern matches 12-digit AWS account ids.
const accountPattern = `^\d{12}$`

var accountRe = regexp.MustCompile(accountPattern)

// Config is the deployment configuration consumed by the orchestrator.
type Config struct {
	// Namespace is the fixed root namespace for all registry paths of this
	// deployment environment.
	Namespace string `json:"namespace"`
	// Region is the AWS region the stacks deploy into.
	Region string `json:"region"`
	// AccountID, when set, is checked against the caller identity before
	// anything else runs.
	AccountID string `json:"account_id,omitempty"`
	// AZCount is the number of availability zones subnet tiers span.
	AZCount int `json:"az_count"`
	// VersionTag selects the schema migration generation.
	VersionTag string `json:"version_tag"`
	// SecretReference locates the database credentials for the migration
	// trigger.
	SecretReference string `json:"secret_reference"`
}

// loadConfigFile reads and validates a deployment config.
func loadConfigFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return parseConfig(raw)
}

// parseConfig decodes and validates raw JSON config.
func parseConfig(raw []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if errs := cfg.validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return &cfg, nil
}

// validate returns all config problems, not just the first.
func (c *Config) validate() []string {
	var errs []string
	if err := param.ValidateSegment(c.Namespace); err != nil {
		errs = append(errs, fmt.Sprintf("namespace: %v", err))
	}
	if !regionRe.MatchString(c.Region) {
		errs = append(errs, fmt.Sprintf("region %q is invalid: must match %s", c.Region, regionPattern))
	}
	if c.AccountID != "" && !accountRe.MatchString(c.AccountID) {
		errs = append(errs, fmt.Sprintf("account_id %q is invalid: must match %s", c.AccountID, accountPattern))
	}
	if c.AZCount < 1 || c.AZCount > 6 {
		errs = append(errs, fmt.Sprintf("az_count %d is invalid: must be 1..6", c.AZCount))
	}
	if c.VersionTag == "" {
		errs = append(errs, "version_tag is required")
	}
	if c.SecretReference == "" {
		errs = append(errs, "secret_reference is required")
	}
	return errs
}
