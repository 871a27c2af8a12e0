package migration

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds the Invoked→terminal transition. Exceeding it is a
// failure surfaced on the same path as a tool-reported one.
const DefaultTimeout = 15 * time.Minute

// State is the Trigger's lifecycle state.
type State int

const (
	// StateIdle is the initial state before any event is handled.
	StateIdle State = iota
	// StateInvoked means the Runner is executing.
	StateInvoked
	// StateSucceeded is terminal success.
	StateSucceeded
	// StateFailed is terminal failure.
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateInvoked:
		return "Invoked"
	case StateSucceeded:
		return "Succeeded"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// RunnerAPI is the Runner as seen by the Trigger.
type RunnerAPI interface {
	Run(ctx context.Context, secretReference, versionTag string) (*Result, error)
}

// Trigger is the lifecycle state machine coordinating one schema-migration
// side effect per deployment. A Trigger handles exactly one Request;
// idempotency across repeated deployments of the same version tag is
// delegated to the migration tool's tracking table.
type Trigger struct {
	// Runner executes the migration.
	Runner RunnerAPI
	// Timeout is the wall-clock budget for Create/Update handling.
	// Defaults to DefaultTimeout.
	Timeout time.Duration

	state State
}

// NewTrigger builds a Trigger in StateIdle with the default budget.
func NewTrigger(runner RunnerAPI) *Trigger {
	return &Trigger{Runner: runner, Timeout: DefaultTimeout}
}

// State reports the current lifecycle state.
func (t *Trigger) State() State {
	return t.state
}

// Handle dispatches one lifecycle event and returns the terminal response.
// Create and Update invoke the Runner synchronously; a failure (including
// budget exhaustion) propagates as a hard error so the orchestrator aborts
// the deployment step; migrations are never silently skipped. Delete is an
// unconditional no-op success: applied schema changes are forward-only and
// never reverted.
func (t *Trigger) Handle(ctx context.Context, req *Request) (*Response, error) {
	switch req.Event {
	case EventCreate, EventUpdate:
		return t.invoke(ctx, req)
	case EventDelete:
		t.state = StateSucceeded
		return &Response{
			PhysicalResourceID: physicalResourceID(req),
			Data: ResponseData{
				Message: "no action",
				Version: req.VersionTag,
			},
		}, nil
	default:
		t.state = StateFailed
		return nil, fmt.Errorf("unhandled lifecycle event %v", req.Event)
	}
}

// invoke runs the migration under the Trigger's budget.
func (t *Trigger) invoke(ctx context.Context, req *Request) (*Response, error) {
	t.state = StateInvoked

	budget := t.Timeout
	if budget <= 0 {
		budget = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	result, err := t.Runner.Run(runCtx, req.SecretReference, req.VersionTag)
	if err != nil {
		t.state = StateFailed
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{VersionTag: req.VersionTag, Budget: budget.String()}
		}
		return nil, err
	}
	if !result.Success {
		t.state = StateFailed
		return nil, &ToolFailureError{
			VersionTag: req.VersionTag,
			ExitCode:   result.ExitCode,
			Output:     result.Output,
		}
	}

	t.state = StateSucceeded
	return &Response{
		PhysicalResourceID: physicalResourceID(req),
		Data: ResponseData{
			Message:               "migrations applied",
			Version:               req.VersionTag,
			Output:                result.Output,
			AppliedMigrationCount: result.AppliedMigrationCount,
		},
	}, nil
}

// physicalResourceID mints a stable resource identity on Create and reuses
// the prior identity on Update and Delete, so the orchestrator never sees
// an unintended replacement.
func physicalResourceID(req *Request) string {
	if req.Event != EventCreate && req.PhysicalResourceID != "" {
		return req.PhysicalResourceID
	}
	return "schema-migration-" + req.RequestID
}
