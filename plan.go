package main

import (
	"fmt"
	"io"
)

// writePlan validates the deployment graph and writes the serialized stack
// application order. The order is deterministic, so the plan doubles as a
// fixture for change review.
func writePlan(w io.Writer, cfg *Config) error {
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

	fmt.Fprintf(w, "Deployment plan for namespace %q (%s), version %s\n",
		cfg.Namespace, cfg.Region, cfg.VersionTag)
	for i, name := range order {
		fmt.Fprintf(w, "  %d. %s\n", i+1, name)
	}
	return nil
}
