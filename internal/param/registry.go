package param

import (
	"context"
	"fmt"
	"strings"
)

// listSeparator joins list-valued parameters into a single stored string.
// It mirrors the SSM StringList convention; list element values therefore
// must not contain commas.
const listSeparator = ","

// Registry is the external key-value store parameters are exchanged
// through. Producer stacks publish, consumer stacks resolve. Writes are
// durable until explicitly deleted or the publishing stack is torn down.
//
// Implementations provide no synchronization between producers and
// consumers: visibility of a producer's writes to a consumer relies on the
// deploy orchestrator serializing stack application in dependency order.
type Registry interface {
	// Publish writes a scalar value under path on behalf of owner. A path
	// already owned by a different stack fails with *RegistryWriteError;
	// a republish by the same owner is an idempotent overwrite.
	Publish(ctx context.Context, path, owner, value string) error

	// PublishList writes an ordered list value under path. Ownership rules
	// match Publish.
	PublishList(ctx context.Context, path, owner string, values []string) error

	// Resolve reads the scalar value at path. A missing path fails with
	// *UnresolvedParameterError.
	Resolve(ctx context.Context, path string) (string, error)

	// ResolveList reads a list value and returns exactly count elements,
	// by stable positional index 0..count-1. A missing path, or a stored
	// list with fewer than count elements, fails with
	// *UnresolvedParameterError.
	ResolveList(ctx context.Context, path string, count int) ([]string, error)
}

// joinList encodes an ordered list value for storage.
func joinList(values []string) string {
	return strings.Join(values, listSeparator)
}

// splitList decodes a stored list value.
func splitList(stored string) []string {
	if stored == "" {
		return nil
	}
	return strings.Split(stored, listSeparator)
}

// takeList selects the first count elements of a decoded list, or reports
// how short the list fell.
func takeList(path, stored string, count int) ([]string, error) {
	values := splitList(stored)
	if len(values) < count {
		return nil, &UnresolvedParameterError{
			Path:   path,
			Reason: fmt.Sprintf("list has %d elements, need %d", len(values), count),
		}
	}
	return values[:count], nil
}
