package stackdep

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func buildGraph(t *testing.T, stacks ...*Stack) *Graph {
	t.Helper()
	g := NewGraph()
	for _, s := range stacks {
		if err := g.Add(s); err != nil {
			t.Fatalf("Add(%s): %v", s.Name, err)
		}
	}
	return g
}

func TestGraph_OrderRespectsDependencies(t *testing.T) {
	g := buildGraph(t,
		&Stack{Name: "compute", DependsOn: []string{"db", "cache"}},
		&Stack{Name: "db", DependsOn: []string{"network"}},
		&Stack{Name: "cache", DependsOn: []string{"network"}},
		&Stack{Name: "network"},
	)

	order, err := g.Order()
	if err != nil {
		t.Fatalf("Order: %v", err)
	}

	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}
	deps := map[string][]string{
		"db":      {"network"},
		"cache":   {"network"},
		"compute": {"db", "cache"},
	}
	for consumer, producers := range deps {
		for _, producer := range producers {
			if pos[producer] > pos[consumer] {
				t.Errorf("order %v: %s must come before %s", order, producer, consumer)
			}
		}
	}
}

func TestGraph_OrderDeterministic(t *testing.T) {
	build := func() *Graph {
		return buildGraph(t,
			&Stack{Name: "b"},
			&Stack{Name: "a"},
			&Stack{Name: "c", DependsOn: []string{"a", "b"}},
		)
	}

	first, err := build().Order()
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	for i := 0; i < 10; i++ {
		got, err := build().Order()
		if err != nil {
			t.Fatalf("Order: %v", err)
		}
		if strings.Join(got, ",") != strings.Join(first, ",") {
			t.Fatalf("non-deterministic order: %v vs %v", got, first)
		}
	}
	// Independent roots come out sorted.
	if first[0] != "a" || first[1] != "b" {
		t.Errorf("order = %v, want sorted ready set [a b ...]", first)
	}
}

func TestGraph_OrderDetectsCycle(t *testing.T) {
	g := buildGraph(t,
		&Stack{Name: "a", DependsOn: []string{"b"}},
		&Stack{Name: "b", DependsOn: []string{"a"}},
	)

	if _, err := g.Order(); err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Errorf("Order error = %v, want cycle error", err)
	}
}

func TestGraph_ValidateRequiredPathCoverage(t *testing.T) {
	tests := []struct {
		name    string
		stacks  []*Stack
		wantErr string
	}{
		{
			name: "covered by direct dependency",
			stacks: []*Stack{
				{Name: "db", Provides: []string{"/hyperswitch/rds/main"}},
				{
					Name:      "compute",
					DependsOn: []string{"db"},
					Requires:  []string{"/hyperswitch/rds/main/host"},
				},
			},
		},
		{
			name: "covered by transitive dependency",
			stacks: []*Stack{
				{Name: "network", Provides: []string{"/hyperswitch/vpc/main"}},
				{Name: "db", DependsOn: []string{"network"}},
				{
					Name:      "compute",
					DependsOn: []string{"db"},
					Requires:  []string{"/hyperswitch/vpc/main/vpc-id"},
				},
			},
		},
		{
			name: "required path has no producer",
			stacks: []*Stack{
				{Name: "db", Provides: []string{"/hyperswitch/rds/main"}},
				{
					Name:      "compute",
					DependsOn: []string{"db"},
					Requires:  []string{"/hyperswitch/elasticache/main/host"},
				},
			},
			wantErr: "no declared dependency provides",
		},
		{
			name: "producer exists but is not a declared dependency",
			stacks: []*Stack{
				{Name: "db", Provides: []string{"/hyperswitch/rds/main"}},
				{Name: "compute", Requires: []string{"/hyperswitch/rds/main/host"}},
			},
			wantErr: "no declared dependency provides",
		},
		{
			name: "prefix must match on segment boundary",
			stacks: []*Stack{
				{Name: "db", Provides: []string{"/hyperswitch/rds/main"}},
				{
					Name:      "compute",
					DependsOn: []string{"db"},
					Requires:  []string{"/hyperswitch/rds/main-replica/host"},
				},
			},
			wantErr: "no declared dependency provides",
		},
		{
			name: "unknown dependency name",
			stacks: []*Stack{
				{Name: "compute", DependsOn: []string{"ghost"}},
			},
			wantErr: "unknown stack",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.stacks...)
			err := g.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGraph_AddDuplicate(t *testing.T) {
	g := NewGraph()
	if err := g.Add(&Stack{Name: "db"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.Add(&Stack{Name: "db"}); err == nil {
		t.Error("expected error for duplicate stack name")
	}
}

func TestGraph_ApplyRunsInOrderAndStopsOnFailure(t *testing.T) {
	var applied []string
	record := func(name string) BuildFunc {
		return func(context.Context) error {
			applied = append(applied, name)
			return nil
		}
	}
	boom := errors.New("db provisioning failed")

	g := buildGraph(t,
		&Stack{Name: "network", Build: record("network")},
		&Stack{
			Name: "db", DependsOn: []string{"network"},
			Build: func(context.Context) error { return boom },
		},
		&Stack{Name: "compute", DependsOn: []string{"db"}, Build: record("compute")},
	)

	err := g.Apply(context.Background(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Apply error = %v, want wrapped db failure", err)
	}
	if len(applied) != 1 || applied[0] != "network" {
		t.Errorf("applied = %v, want [network]: a failed producer must block its consumers", applied)
	}
}

func TestGraph_ApplyReportsProgress(t *testing.T) {
	g := buildGraph(t,
		&Stack{Name: "network"},
		&Stack{Name: "db", DependsOn: []string{"network"}},
	)

	var seen []string
	err := g.Apply(context.Background(), func(stack string, index, total int) {
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
		seen = append(seen, stack)
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(seen) != 2 || seen[0] != "network" || seen[1] != "db" {
		t.Errorf("progress = %v, want [network db]", seen)
	}
}
