// Package param implements the cross-stack attribute exchange protocol:
// hierarchical parameter paths, a pluggable registry for publishing and
// resolving them, and per-resource-kind export/import façades.
//
// Producer stacks publish resource attributes (endpoints, ARNs, security
// group ids) under deterministic paths; consumer stacks resolve only the
// attributes they declare a need for. Ordering between producers and
// consumers is the deploy orchestrator's responsibility, not this package's.
package param

import (
	"fmt"
	"regexp"
	"strings"
)

// Separator joins path segments. Segments are validated to lowercase-kebab,
// which cannot contain the separator, so path construction is injective:
// distinct segment sequences never collapse to the same path.
const Separator = "/"

// segmentPattern is the allowed shape of a single path segment.
const segmentPattern = `^[a-z0-9]+(-[a-z0-9]+)*$`

var segmentRe = regexp.MustCompile(segmentPattern)

// Path builds a hierarchical parameter path from a namespace and name
// segments: /<namespace>/<segment-1>/.../<segment-n>. Empty segments are
// filtered out before joining.
func Path(namespace string, segments ...string) string {
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, namespace)
	for _, s := range segments {
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return Separator + strings.Join(parts, Separator)
}

// ValidateSegment checks that a single segment is lowercase-kebab. The
// registry path format requires it, and rejecting anything else is what
// keeps Path injective without an escape scheme.
func ValidateSegment(s string) error {
	if s == "" {
		return fmt.Errorf("path segment is empty")
	}
	if !segmentRe.MatchString(s) {
		return fmt.Errorf("path segment %q is invalid: must match %s", s, segmentPattern)
	}
	return nil
}

// ValidatePath checks every segment of an already-built path.
func ValidatePath(path string) error {
	if !strings.HasPrefix(path, Separator) {
		return fmt.Errorf("path %q must start with %q", path, Separator)
	}
	for _, seg := range strings.Split(strings.TrimPrefix(path, Separator), Separator) {
		if err := ValidateSegment(seg); err != nil {
			return fmt.Errorf("path %q: %w", path, err)
		}
	}
	return nil
}
