package stackdep

import (
	"context"
	"fmt"
)

// ProgressFunc receives apply progress: the stack being applied and its
// position in the total order.
type ProgressFunc func(stack string, index, total int)

// Apply validates the graph and applies every stack in topological order.
// Application stops at the first failure: a failed producer must block its
// consumers from building against missing or stale attributes.
func (g *Graph) Apply(ctx context.Context, progress ProgressFunc) error {
	if err := g.Validate(); err != nil {
		return err
	}
	order, err := g.Order()
	if err != nil {
		return err
	}

	for i, name := range order {
		if progress != nil {
			progress(name, i+1, len(order))
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("apply cancelled before stack %q: %w", name, err)
		}
		s := g.stacks[name]
		if s.Build == nil {
			continue
		}
		if err := s.Build(ctx); err != nil {
			return fmt.Errorf("stack %q failed: %w", name, err)
		}
	}
	return nil
}
