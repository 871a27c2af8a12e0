// Package stackdep models the stack dependency graph: which stack produces
// which registry paths, which stack consumes them, and the topological
// order that makes every resolve target an already-published path.
//
// Production execution ordering is ultimately the deploy orchestrator's
// guarantee; this package makes the declared graph explicit so that a
// consumer requesting a path no declared dependency produces is caught
// statically, before anything runs.
package stackdep

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// BuildFunc applies one stack. It may resolve only paths whose producer is
// a declared upstream dependency.
type BuildFunc func(ctx context.Context) error

// Stack is one node of the deployment graph.
type Stack struct {
	// Name identifies the stack and is used in DependsOn references.
	Name string
	// DependsOn lists upstream stack names that must be applied first.
	DependsOn []string
	// Provides lists registry path prefixes this stack publishes under.
	Provides []string
	// Requires lists registry paths (or prefixes) this stack resolves.
	Requires []string
	// Build applies the stack.
	Build BuildFunc
}

// Graph is a directed acyclic collection of stacks.
type Graph struct {
	stacks map[string]*Stack
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{stacks: make(map[string]*Stack)}
}

// Add registers a stack. Duplicate names are a configuration error.
func (g *Graph) Add(s *Stack) error {
	if s.Name == "" {
		return fmt.Errorf("stack has no name")
	}
	if _, ok := g.stacks[s.Name]; ok {
		return fmt.Errorf("stack %q is already registered", s.Name)
	}
	g.stacks[s.Name] = s
	return nil
}

// Validate checks the declared graph:
//   - every DependsOn reference names a registered stack;
//   - every Required path is covered by a Provides declaration of a
//     (transitively) upstream dependency.
//
// A violation of the second rule is the static form of the runtime
// UnresolvedParameterError: the consumer would resolve a path nothing it
// waits for has published.
func (g *Graph) Validate() error {
	for _, name := range g.names() {
		s := g.stacks[name]
		for _, dep := range s.DependsOn {
			if _, ok := g.stacks[dep]; !ok {
				return fmt.Errorf("stack %q depends on unknown stack %q", s.Name, dep)
			}
		}
	}

	for _, name := range g.names() {
		s := g.stacks[name]
		upstream := g.transitiveDeps(s.Name)
		for _, required := range s.Requires {
			if !coveredBy(required, upstream, g.stacks) {
				return fmt.Errorf(
					"stack %q requires path %q, but no declared dependency provides it",
					s.Name, required,
				)
			}
		}
	}
	return nil
}

// Order returns a deterministic topological order: Kahn's algorithm with a
// sorted ready set, so equal graphs always order identically. A cycle is a
// configuration error.
func (g *Graph) Order() ([]string, error) {
	inDegree := make(map[string]int, len(g.stacks))
	dependents := make(map[string][]string, len(g.stacks))
	for name := range g.stacks {
		inDegree[name] = 0
	}
	for _, name := range g.names() {
		s := g.stacks[name]
		for _, dep := range s.DependsOn {
			if _, ok := g.stacks[dep]; !ok {
				return nil, fmt.Errorf("stack %q depends on unknown stack %q", s.Name, dep)
			}
			inDegree[s.Name]++
			dependents[dep] = append(dependents[dep], s.Name)
		}
	}
	for dep := range dependents {
		sort.Strings(dependents[dep])
	}

	var ready []string
	for name, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.stacks))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		changed := false
		for _, dependent := range dependents[name] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
				changed = true
			}
		}
		if changed {
			sort.Strings(ready)
		}
	}

	if len(order) != len(g.stacks) {
		var stuck []string
		for name, deg := range inDegree {
			if deg > 0 {
				stuck = append(stuck, name)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("dependency cycle among stacks: %s", strings.Join(stuck, ", "))
	}
	return order, nil
}

// names returns registered stack names in sorted order for deterministic
// iteration.
func (g *Graph) names() []string {
	names := make([]string, 0, len(g.stacks))
	for name := range g.stacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// transitiveDeps returns every stack reachable through DependsOn edges.
func (g *Graph) transitiveDeps(name string) map[string]bool {
	seen := make(map[string]bool)
	var walk func(string)
	walk = func(n string) {
		s, ok := g.stacks[n]
		if !ok {
			return
		}
		for _, dep := range s.DependsOn {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			walk(dep)
		}
	}
	walk(name)
	return seen
}

// coveredBy reports whether required is matched by a Provides entry of any
// upstream stack. Provides entries are prefixes: providing
// /ns/rds/main covers /ns/rds/main/host.
func coveredBy(required string, upstream map[string]bool, stacks map[string]*Stack) bool {
	for dep := range upstream {
		for _, provided := range stacks[dep].Provides {
			if required == provided || strings.HasPrefix(required, provided+"/") {
				return true
			}
		}
	}
	return false
}
