// Package migration implements the migration-trigger lifecycle: an
// idempotent, event-driven procedure that applies database schema changes
// exactly once per deployment generation.
//
// The Trigger is the lifecycle state machine driven by Create/Update/Delete
// events from the deploy orchestrator; the Runner is the isolated execution
// unit that resolves credentials, invokes the external migration tool, and
// classifies its outcome. Idempotency is owned by the tool's own tracking
// table in the target database, not by anything in this package.
package migration

import "fmt"

// Event is the lifecycle event driving the Trigger. Modeling it as a typed
// three-way variant keeps dispatch exhaustiveness-checkable instead of
// branching on raw strings.
type Event int

const (
	// EventCreate is the first deployment of the migration resource.
	EventCreate Event = iota
	// EventUpdate is a redeployment, typically with a new version tag.
	EventUpdate
	// EventDelete is stack teardown. Schema changes are never reverted.
	EventDelete
)

// String returns the orchestrator wire name of the event.
func (e Event) String() string {
	switch e {
	case EventCreate:
		return "Create"
	case EventUpdate:
		return "Update"
	case EventDelete:
		return "Delete"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// ParseEvent maps an orchestrator RequestType string to an Event.
func ParseEvent(s string) (Event, error) {
	switch s {
	case "Create":
		return EventCreate, nil
	case "Update":
		return EventUpdate, nil
	case "Delete":
		return EventDelete, nil
	default:
		return 0, fmt.Errorf("unknown lifecycle event %q", s)
	}
}

// Request is one lifecycle invocation of the Trigger. Immutable once
// constructed; one Request produces exactly one Result.
type Request struct {
	// Event is the lifecycle event.
	Event Event
	// VersionTag selects the migration script generation to apply.
	VersionTag string
	// SecretReference locates the database credentials in the secret store.
	SecretReference string
	// RequestID is the orchestrator's identifier for this invocation.
	RequestID string
	// PhysicalResourceID is the prior resource identity, present on Update
	// and Delete.
	PhysicalResourceID string
}

// Result is the classified outcome of one Runner invocation.
type Result struct {
	// Success is true iff the migration tool exited zero.
	Success bool
	// Output is the combined stdout/stderr of the tool, surfaced verbatim
	// for operator diagnosis.
	Output string
	// AppliedMigrationCount is the number of version-identified migration
	// directories discovered for the version tag. This mirrors the count
	// reported by the source system: it reflects what the runner image
	// ships, not how many migrations were newly applied (the tracking
	// table in the target database remains the source of truth).
	AppliedMigrationCount int
	// ExitCode is the tool's process exit status.
	ExitCode int
}

// Response is the terminal output of the Trigger back to the orchestrator.
type Response struct {
	// PhysicalResourceID is the stable identity of the migration resource:
	// minted on Create, reused across Update and Delete.
	PhysicalResourceID string
	// Data is the structured payload for downstream consumers.
	Data ResponseData
}

// ResponseData is the Data payload of a successful lifecycle response.
type ResponseData struct {
	Message               string `json:"message"`
	Version               string `json:"version"`
	Output                string `json:"output"`
	AppliedMigrationCount int    `json:"appliedMigrationCount"`
}
