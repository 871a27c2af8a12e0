package param

import (
	"context"
	"sync"
)

// MemoryRegistry is an in-memory Registry used for unit tests and
// plan-only runs. It supports injectable per-path failures and counts
// resolves so tests can assert that selective imports touch only the paths
// they were asked for.
type MemoryRegistry struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// failures maps a path to an error returned by any operation on it.
	failures map[string]error

	resolveCount int
}

type memoryEntry struct {
	owner string
	value string
}

// NewMemoryRegistry creates an empty MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		entries:  make(map[string]memoryEntry),
		failures: make(map[string]error),
	}
}

// FailWith injects an error for all subsequent operations on path.
func (r *MemoryRegistry) FailWith(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[path] = err
}

// ResolveCount reports how many Resolve/ResolveList calls have been made.
func (r *MemoryRegistry) ResolveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveCount
}

// Publish implements Registry.
func (r *MemoryRegistry) Publish(_ context.Context, path, owner, value string) error {
	return r.put(path, owner, value)
}

// PublishList implements Registry.
func (r *MemoryRegistry) PublishList(_ context.Context, path, owner string, values []string) error {
	return r.put(path, owner, joinList(values))
}

func (r *MemoryRegistry) put(path, owner, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failures[path]; ok {
		return err
	}
	if cur, ok := r.entries[path]; ok && cur.owner != owner {
		return &RegistryWriteError{Path: path, Owner: owner, CurrentOwner: cur.owner}
	}
	r.entries[path] = memoryEntry{owner: owner, value: value}
	return nil
}

// Resolve implements Registry.
func (r *MemoryRegistry) Resolve(_ context.Context, path string) (string, error) {
	return r.get(path)
}

// ResolveList implements Registry.
func (r *MemoryRegistry) ResolveList(_ context.Context, path string, count int) ([]string, error) {
	stored, err := r.get(path)
	if err != nil {
		return nil, err
	}
	return takeList(path, stored, count)
}

func (r *MemoryRegistry) get(path string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolveCount++
	if err, ok := r.failures[path]; ok {
		return "", err
	}
	entry, ok := r.entries[path]
	if !ok {
		return "", &UnresolvedParameterError{Path: path}
	}
	return entry.value, nil
}
