package migration

import "fmt"

// CredentialResolutionError indicates the database secret is missing or
// malformed. The migration is aborted; nothing was executed against the
// database.
type CredentialResolutionError struct {
	// Reference is the secret reference that failed to resolve.
	Reference string
	// Reason describes what was wrong (missing, not JSON, missing fields).
	Reason string
	// Cause is the underlying error, if any.
	Cause error
}

func (e *CredentialResolutionError) Error() string {
	msg := fmt.Sprintf("resolve database credentials %q: %s", e.Reference, e.Reason)
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *CredentialResolutionError) Unwrap() error { return e.Cause }

// AssetsMissingError indicates the migration script directory for the
// requested version tag is absent from the runner's environment: the
// execution image was not built for that version.
type AssetsMissingError struct {
	VersionTag string
	// Dir is the directory that was expected to exist.
	Dir string
}

func (e *AssetsMissingError) Error() string {
	return fmt.Sprintf("migration assets for version %q missing: %s does not exist"+
		" (runner image was not built for this version)", e.VersionTag, e.Dir)
}

// ToolFailureError indicates the migration tool exited non-zero. The full
// tool output is carried verbatim so the orchestrator's failure channel
// shows the operator exactly what the tool reported.
type ToolFailureError struct {
	VersionTag string
	ExitCode   int
	Output     string
}

func (e *ToolFailureError) Error() string {
	return fmt.Sprintf("migration tool failed for version %q (exit %d): %s",
		e.VersionTag, e.ExitCode, e.Output)
}

// TimeoutError indicates the Invoked→terminal transition exceeded the
// Trigger's wall-clock budget. It is surfaced on the same path as a
// tool-reported failure.
type TimeoutError struct {
	VersionTag string
	Budget     string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("migration for version %q did not complete within %s",
		e.VersionTag, e.Budget)
}
