package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/cfn"

	"github.com/AshantiAI/hyperswitch-cdk/internal/migration"
)

// Resource property keys on the lifecycle event payload.
const (
	propVersionTag      = "VersionTag"
	propSecretReference = "SecretReference"
)

// triggerFactory builds a fresh Trigger per lifecycle event: the state
// machine is single-shot by contract.
type triggerFactory func() *migration.Trigger

// handler adapts orchestrator lifecycle events to the migration Trigger.
type handler struct {
	cfg        *runnerConfig
	newTrigger triggerFactory
	sink       outputSink
	log        *slog.Logger
}

// handle processes one CloudFormation custom-resource lifecycle event.
// Failures are returned to the orchestrator verbatim; it propagates them
// into the overall deployment outcome and blocks dependent stacks.
func (h *handler) handle(ctx context.Context, event cfn.Event) (string, map[string]interface{}, error) {
	req, err := h.buildRequest(event)
	if err != nil {
		return event.PhysicalResourceID, nil, err
	}

	h.log.Info("lifecycle event",
		"event", req.Event.String(),
		"version", req.VersionTag,
		"request_id", req.RequestID,
	)

	resp, err := h.newTrigger().Handle(ctx, req)
	if err != nil {
		h.log.Error("migration failed", "version", req.VersionTag, "error", err)
		h.publishOutput(ctx, req.RequestID, err.Error())
		return event.PhysicalResourceID, nil, err
	}

	h.log.Info("migration lifecycle complete",
		"version", resp.Data.Version,
		"message", resp.Data.Message,
		"applied_migration_count", resp.Data.AppliedMigrationCount,
	)
	h.publishOutput(ctx, req.RequestID, resp.Data.Output)

	data := map[string]interface{}{
		"message":               resp.Data.Message,
		"version":               resp.Data.Version,
		"output":                resp.Data.Output,
		"appliedMigrationCount": resp.Data.AppliedMigrationCount,
	}
	return resp.PhysicalResourceID, data, nil
}

// buildRequest maps the wire event to an immutable migration.Request.
// Version tag and secret reference come from the event's resource
// properties, falling back to the runner's environment; both absent is a
// fatal configuration error.
func (h *handler) buildRequest(event cfn.Event) (*migration.Request, error) {
	lifecycle, err := migration.ParseEvent(string(event.RequestType))
	if err != nil {
		return nil, err
	}

	versionTag := stringProp(event.ResourceProperties, propVersionTag, h.cfg.VersionTag)
	secretRef := stringProp(event.ResourceProperties, propSecretReference, h.cfg.SecretReference)
	if lifecycle != migration.EventDelete {
		if versionTag == "" {
			return nil, fmt.Errorf("version tag missing: set %s property or %s", propVersionTag, envVersionTag)
		}
		if secretRef == "" {
			return nil, fmt.Errorf("secret reference missing: set %s property or %s", propSecretReference, envSecretReference)
		}
	}

	return &migration.Request{
		Event:              lifecycle,
		VersionTag:         versionTag,
		SecretReference:    secretRef,
		RequestID:          event.RequestID,
		PhysicalResourceID: event.PhysicalResourceID,
	}, nil
}

// publishOutput mirrors tool output to the operator log sink, best effort:
// a sink failure must never mask the migration outcome.
func (h *handler) publishOutput(ctx context.Context, requestID, output string) {
	if h.sink == nil || output == "" {
		return
	}
	if err := h.sink.Publish(ctx, requestID, output); err != nil {
		h.log.Warn("publish migration output", "error", err)
	}
}

// stringProp reads a string resource property with a fallback.
func stringProp(props map[string]interface{}, key, fallback string) string {
	if v, ok := props[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
