package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/cfn"

	"github.com/AshantiAI/hyperswitch-cdk/internal/migration"
)

// scriptedRunner plays back a fixed migration result.
type scriptedRunner struct {
	result *migration.Result
	err    error
	calls  int
}

func (r *scriptedRunner) Run(context.Context, string, string) (*migration.Result, error) {
	r.calls++
	return r.result, r.err
}

// memorySink records published output.
type memorySink struct {
	requestID string
	output    string
	err       error
	calls     int
}

func (s *memorySink) Publish(_ context.Context, requestID, output string) error {
	s.calls++
	s.requestID = requestID
	s.output = output
	return s.err
}

func testHandler(runner migration.RunnerAPI, sink outputSink) *handler {
	return &handler{
		cfg:        &runnerConfig{Region: "us-east-1"},
		newTrigger: func() *migration.Trigger { return migration.NewTrigger(runner) },
		sink:       sink,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func createEvent() cfn.Event {
	return cfn.Event{
		RequestType: cfn.RequestCreate,
		RequestID:   "req-1",
		ResourceProperties: map[string]interface{}{
			"VersionTag":      "v1.2.0",
			"SecretReference": "hs-db-secret",
		},
	}
}

func TestHandler_CreateSuccess(t *testing.T) {
	runner := &scriptedRunner{
		result: &migration.Result{Success: true, Output: "ok", AppliedMigrationCount: 3},
	}
	sink := &memorySink{}
	h := testHandler(runner, sink)

	physicalID, data, err := h.handle(context.Background(), createEvent())
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if physicalID == "" {
		t.Error("physical resource id is empty")
	}
	if data["version"] != "v1.2.0" {
		t.Errorf("data version = %v", data["version"])
	}
	if data["appliedMigrationCount"] != 3 {
		t.Errorf("data appliedMigrationCount = %v", data["appliedMigrationCount"])
	}
	if sink.calls != 1 || sink.output != "ok" {
		t.Errorf("sink received (%d calls, %q), want tool output once", sink.calls, sink.output)
	}
	if sink.requestID != "req-1" {
		t.Errorf("sink requestID = %q", sink.requestID)
	}
}

func TestHandler_DeleteNeverRunsMigrations(t *testing.T) {
	runner := &scriptedRunner{result: &migration.Result{Success: true}}
	h := testHandler(runner, nil)

	event := cfn.Event{
		RequestType:        cfn.RequestDelete,
		RequestID:          "req-2",
		PhysicalResourceID: "schema-migration-req-1",
	}
	physicalID, data, err := h.handle(context.Background(), event)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if runner.calls != 0 {
		t.Errorf("runner calls = %d, want 0 on Delete", runner.calls)
	}
	if physicalID != "schema-migration-req-1" {
		t.Errorf("physical id = %q, want prior identity", physicalID)
	}
	if data["message"] != "no action" {
		t.Errorf("message = %v, want \"no action\"", data["message"])
	}
}

func TestHandler_FailurePropagatesToOrchestrator(t *testing.T) {
	runner := &scriptedRunner{
		result: &migration.Result{Success: false, ExitCode: 1, Output: "ERROR: relation already exists"},
	}
	sink := &memorySink{}
	h := testHandler(runner, sink)

	_, _, err := h.handle(context.Background(), createEvent())
	if err == nil {
		t.Fatal("expected error for failed migration")
	}
	if !strings.Contains(err.Error(), "relation already exists") {
		t.Errorf("error %q does not surface tool output", err)
	}
	// The failure diagnosis still reaches the operator sink.
	if sink.calls != 1 {
		t.Errorf("sink calls = %d, want 1", sink.calls)
	}
}

func TestHandler_SinkFailureDoesNotMaskOutcome(t *testing.T) {
	runner := &scriptedRunner{result: &migration.Result{Success: true, Output: "ok"}}
	sink := &memorySink{err: context.DeadlineExceeded}
	h := testHandler(runner, sink)

	if _, _, err := h.handle(context.Background(), createEvent()); err != nil {
		t.Fatalf("handle: %v (sink errors must be best-effort)", err)
	}
}

func TestHandler_MissingInputsAreFatal(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]interface{}
		want  string
	}{
		{
			name:  "missing version tag",
			props: map[string]interface{}{"SecretReference": "hs-db-secret"},
			want:  "version tag missing",
		},
		{
			name:  "missing secret reference",
			props: map[string]interface{}{"VersionTag": "v1.2.0"},
			want:  "secret reference missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &scriptedRunner{result: &migration.Result{Success: true}}
			h := testHandler(runner, nil)

			event := cfn.Event{RequestType: cfn.RequestCreate, RequestID: "req-3", ResourceProperties: tt.props}
			_, _, err := h.handle(context.Background(), event)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
			if runner.calls != 0 {
				t.Errorf("runner calls = %d, want 0 on config error", runner.calls)
			}
		})
	}
}

func TestHandler_EnvironmentFallback(t *testing.T) {
	runner := &scriptedRunner{result: &migration.Result{Success: true}}
	h := testHandler(runner, nil)
	h.cfg.VersionTag = "v1.2.0"
	h.cfg.SecretReference = "hs-db-secret"

	event := cfn.Event{RequestType: cfn.RequestCreate, RequestID: "req-4"}
	_, data, err := h.handle(context.Background(), event)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if data["version"] != "v1.2.0" {
		t.Errorf("version = %v, want env fallback", data["version"])
	}
}
