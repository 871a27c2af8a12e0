package param

import "fmt"

// UnresolvedParameterError indicates a resolve against a path that does not
// exist (or holds fewer list elements than requested). It means the stack
// dependency graph was violated: a consumer ran before its producer
// published. It always aborts the consuming stack's build.
type UnresolvedParameterError struct {
	// Path is the registry path that failed to resolve.
	Path string
	// Reason gives additional detail, e.g. a short list.
	Reason string
}

func (e *UnresolvedParameterError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("parameter %s is unresolved: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("parameter %s is unresolved", e.Path)
}

// RegistryWriteError indicates a publish against a path already owned by a
// different stack. Each path has exactly one legitimate producer; a
// conflicting publish is a configuration defect, never retried.
type RegistryWriteError struct {
	Path string
	// Owner is the stack attempting the write.
	Owner string
	// CurrentOwner is the stack that already owns the path.
	CurrentOwner string
}

func (e *RegistryWriteError) Error() string {
	return fmt.Sprintf("parameter %s is owned by %q, refusing write by %q",
		e.Path, e.CurrentOwner, e.Owner)
}

// UnknownAttributeError indicates a consumer requested an attribute key that
// is not defined for the resource kind. This is a programming error in the
// consumer stack, distinct from UnresolvedParameterError: it is raised
// before any registry read regardless of registry state.
type UnknownAttributeError struct {
	Kind Kind
	Key  string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("attribute %q is not defined for resource kind %q", e.Key, e.Kind)
}

// AttributeNotImportedError indicates a bag lookup for an attribute that was
// never requested in the import. Optional attributes not requested are
// absent from the bag, not null; reading one is a consumer programming
// error.
type AttributeNotImportedError struct {
	Kind Kind
	Name string
	Key  string
}

func (e *AttributeNotImportedError) Error() string {
	return fmt.Sprintf("attribute %q of %s %q was not imported", e.Key, e.Kind, e.Name)
}
