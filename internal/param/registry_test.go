package param

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRegistry_RoundTrip(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	// Scenario A: publish then resolve returns the published value.
	if err := reg.Publish(ctx, "/ns/db/host", "network", "10.0.0.5"); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	got, err := reg.Resolve(ctx, "/ns/db/host")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "10.0.0.5" {
		t.Errorf("Resolve = %q, want %q", got, "10.0.0.5")
	}
}

func TestMemoryRegistry_UnresolvedParameter(t *testing.T) {
	// Scenario B: resolving against an empty registry is a hard failure.
	reg := NewMemoryRegistry()

	_, err := reg.Resolve(context.Background(), "/ns/db/host")
	var unresolved *UnresolvedParameterError
	if !errors.As(err, &unresolved) {
		t.Fatalf("Resolve error = %v, want *UnresolvedParameterError", err)
	}
	if unresolved.Path != "/ns/db/host" {
		t.Errorf("Path = %q, want /ns/db/host", unresolved.Path)
	}
}

func TestMemoryRegistry_OwnerConflict(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	if err := reg.Publish(ctx, "/ns/db/host", "db-stack", "a"); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	// Same owner overwrites idempotently.
	if err := reg.Publish(ctx, "/ns/db/host", "db-stack", "b"); err != nil {
		t.Fatalf("same-owner republish: %v", err)
	}
	got, _ := reg.Resolve(ctx, "/ns/db/host")
	if got != "b" {
		t.Errorf("after republish = %q, want b", got)
	}

	// Different owner is rejected.
	err := reg.Publish(ctx, "/ns/db/host", "other-stack", "c")
	var conflict *RegistryWriteError
	if !errors.As(err, &conflict) {
		t.Fatalf("conflicting publish error = %v, want *RegistryWriteError", err)
	}
	if conflict.CurrentOwner != "db-stack" || conflict.Owner != "other-stack" {
		t.Errorf("conflict = %+v, want current db-stack, attempted other-stack", conflict)
	}
}

func TestMemoryRegistry_ResolveList(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	subnets := []string{"subnet-a", "subnet-b", "subnet-c"}
	if err := reg.PublishList(ctx, "/ns/vpc/subnets", "network", subnets); err != nil {
		t.Fatalf("PublishList: %v", err)
	}

	tests := []struct {
		name    string
		count   int
		want    []string
		wantErr bool
	}{
		{name: "exact count", count: 3, want: subnets},
		{name: "prefix by stable index", count: 2, want: subnets[:2]},
		{name: "too many requested", count: 4, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.ResolveList(ctx, "/ns/vpc/subnets", tt.count)
			if tt.wantErr {
				var unresolved *UnresolvedParameterError
				if !errors.As(err, &unresolved) {
					t.Fatalf("error = %v, want *UnresolvedParameterError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveList: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("element %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMemoryRegistry_InjectedFailure(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	boom := errors.New("registry unavailable")
	reg.FailWith("/ns/db/host", boom)

	if _, err := reg.Resolve(ctx, "/ns/db/host"); !errors.Is(err, boom) {
		t.Errorf("Resolve error = %v, want injected failure", err)
	}
	if err := reg.Publish(ctx, "/ns/db/host", "x", "y"); !errors.Is(err, boom) {
		t.Errorf("Publish error = %v, want injected failure", err)
	}
}
