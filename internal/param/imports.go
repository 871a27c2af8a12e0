package param

import (
	"context"
	"fmt"
	"sort"
)

// Bag holds the resolved values of a selective import. Attributes that were
// not requested are absent, not empty: reading one is a programming error
// surfaced by Get/GetList.
type Bag struct {
	kind    Kind
	name    string
	scalars map[string]string
	lists   map[string][]string
}

// Get returns the scalar value of an imported attribute.
func (b *Bag) Get(key string) (string, error) {
	if v, ok := b.scalars[key]; ok {
		return v, nil
	}
	if _, ok := b.lists[key]; ok {
		return "", fmt.Errorf("attribute %q of %s %q is a list, use GetList", key, b.kind, b.name)
	}
	return "", &AttributeNotImportedError{Kind: b.kind, Name: b.name, Key: key}
}

// GetList returns the ordered list value of an imported attribute, one
// element per availability zone.
func (b *Bag) GetList(key string) ([]string, error) {
	if v, ok := b.lists[key]; ok {
		return v, nil
	}
	if _, ok := b.scalars[key]; ok {
		return nil, fmt.Errorf("attribute %q of %s %q is a scalar, use Get", key, b.kind, b.name)
	}
	return nil, &AttributeNotImportedError{Kind: b.kind, Name: b.name, Key: key}
}

// Len reports how many attributes were imported.
func (b *Bag) Len() int {
	return len(b.scalars) + len(b.lists)
}

// Importer resolves selected attributes of exported sets for a consumer
// stack. Only requested keys are ever resolved; attributes belonging to
// tiers the consumer does not use cost nothing and may safely not exist.
type Importer struct {
	Registry  Registry
	Namespace string
	// AZCount is the number of elements taken from list-valued attributes
	// (one per availability zone).
	AZCount int
}

// ImportSubset resolves the requested attribute keys of one resource
// instance. Every key is validated against the kind's schema before any
// registry read, so an undefined key always fails with
// *UnknownAttributeError, never *UnresolvedParameterError. An empty key set
// returns an empty bag and performs zero registry reads.
func (im *Importer) ImportSubset(ctx context.Context, kind Kind, name string, keys ...string) (*Bag, error) {
	bag := &Bag{
		kind:    kind,
		name:    name,
		scalars: make(map[string]string),
		lists:   make(map[string][]string),
	}
	if len(keys) == 0 {
		return bag, nil
	}

	// Validate the whole request up front: this is the build-time check
	// that separates consumer programming errors from environment state.
	specs := make([]attrSpec, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true
		spec, err := findAttr(kind, key)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].key < specs[j].key })

	exporter := Exporter{Namespace: im.Namespace}
	for _, spec := range specs {
		path := exporter.AttributePath(kind, name, spec.key)
		if spec.list {
			values, err := im.Registry.ResolveList(ctx, path, im.AZCount)
			if err != nil {
				return nil, fmt.Errorf("import %s %q attribute %q: %w", kind, name, spec.key, err)
			}
			bag.lists[spec.key] = values
			continue
		}
		value, err := im.Registry.Resolve(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("import %s %q attribute %q: %w", kind, name, spec.key, err)
		}
		bag.scalars[spec.key] = value
	}
	return bag, nil
}
