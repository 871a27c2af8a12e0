// Package main implements the hyperswitch deploy orchestrator: it owns the
// stack dependency graph, validates cross-stack parameter flow, and runs
// pre-deployment checks. Resource provisioning itself is delegated to the
// externally-owned stack templates.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
)

const usage = `usage: hyperswitch-deploy <command> [-config path]

commands:
  plan     validate the stack graph and print the application order
  check    run pre-deployment checks (caller identity, graph validation)
  version  print build information
`

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	if err := run(os.Args[1:], log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(args []string, log *slog.Logger) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("no command given")
	}
	command, rest := args[0], args[1:]

	switch command {
	case "version":
		fmt.Printf("hyperswitch-deploy %s (commit %s, built %s)\n", Version, Commit, Date)
		return nil
	case "plan":
		cfg, err := loadCommandConfig(rest)
		if err != nil {
			return err
		}
		return writePlan(os.Stdout, cfg)
	case "check":
		cfg, err := loadCommandConfig(rest)
		if err != nil {
			return err
		}
		return check(context.Background(), cfg, log)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// loadCommandConfig parses the -config flag shared by plan and check.
func loadCommandConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("hyperswitch-deploy", flag.ContinueOnError)
	path := fs.String("config", "deploy.json", "deployment config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return loadConfigFile(*path)
}

// check runs every pre-deployment validation: caller identity against the
// configured account, then static graph validation.
func check(ctx context.Context, cfg *Config, log *slog.Logger) error {
	client, err := newSTSClient(ctx, cfg.Region)
	if err != nil {
		return err
	}
	if err := preflight(ctx, client, cfg); err != nil {
		return err
	}
	log.Info("caller identity verified", "account", cfg.AccountID)

	g, err := deploymentGraph(cfg)
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("dependency graph: %w", err)
	}
	order, err := g.Order()
	if err != nil {
		return fmt.Errorf("dependency graph: %w", err)
	}
	log.Info("dependency graph validated", "stacks", len(order))
	return nil
}
