package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mcpeval/pkg/logging"
)

// defaultProbes returns the fixed probe battery in execution order.
func defaultProbes() []Probe {
	return []Probe{
		serverStartupProbe{},
		toolsListProbe{},
		toolSchemasProbe{},
		resourcesListProbe{},
	}
}

// toolEntry mirrors one element of a tools/list response. InputSchema
// stays raw so an absent schema is distinguishable from an empty one.
type toolEntry struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type toolsPayload struct {
	// A pointer slice distinguishes a missing tools field from an
	// empty tools list.
	Tools *[]toolEntry `json:"tools"`
}

type resourcesPayload struct {
	Resources []json.RawMessage `json:"resources"`
}

// serverStartupProbe verifies the server starts, accepts the initialize
// request, and terminates cleanly once its input is closed. The probe
// deliberately waits for full process exit rather than just the
// initialize response: a server that lingers after end-of-input would
// hang every client that spawns it.
type serverStartupProbe struct{}

func (serverStartupProbe) Name() string { return "Server Startup" }

func (p serverStartupProbe) Run(ctx context.Context, target *Target) []Result {
	s, err := openSession(ctx, target.Command)
	if err != nil {
		return []Result{{
			Name:     p.Name(),
			Passed:   false,
			Message:  fmt.Sprintf("Error starting server: %v", err),
			Severity: SeverityError,
		}}
	}

	payload, err := encodeRequests(newInitializeRequest(target.ProtocolVersion))
	if err != nil {
		s.abandon()
		return []Result{{
			Name:     p.Name(),
			Passed:   false,
			Message:  fmt.Sprintf("Error starting server: %v", err),
			Severity: SeverityError,
		}}
	}

	if err := s.sendAndClose(payload); err != nil {
		logging.Debug("probe", "initialize write failed (server may have exited early): %v", err)
	}

	stdout, stderr, timedOut := s.wait(target.Timeout)
	if timedOut {
		return []Result{{
			Name:     p.Name(),
			Passed:   false,
			Message:  "Server startup timed out",
			Severity: SeverityError,
		}}
	}

	// Lenient heuristic: any stdout counts as evidence the server is
	// alive even when the exit code is nonzero.
	if s.exitCode() == 0 || len(stdout) > 0 {
		return []Result{{
			Name:     p.Name(),
			Passed:   true,
			Message:  "Server starts successfully",
			Severity: SeverityInfo,
		}}
	}

	return []Result{{
		Name:     p.Name(),
		Passed:   false,
		Message:  fmt.Sprintf("Server failed to start: %s", strings.TrimSpace(string(stderr))),
		Severity: SeverityError,
	}}
}

// toolsListProbe verifies tools/list returns a structurally valid
// response, and flags servers that define no tools at all.
type toolsListProbe struct{}

func (toolsListProbe) Name() string { return "Tools List" }

func (p toolsListProbe) Run(ctx context.Context, target *Target) []Result {
	tools, ok, err := listTools(ctx, target)
	if err != nil {
		return []Result{{
			Name:     p.Name(),
			Passed:   false,
			Message:  fmt.Sprintf("Error listing tools: %v", err),
			Severity: SeverityError,
		}}
	}
	if !ok {
		return []Result{{
			Name:     p.Name(),
			Passed:   false,
			Message:  "Invalid tools/list response",
			Severity: SeverityError,
		}}
	}

	results := []Result{{
		Name:     p.Name(),
		Passed:   true,
		Message:  fmt.Sprintf("Found %d tool(s)", len(tools)),
		Severity: SeverityInfo,
	}}

	if len(tools) == 0 {
		results = append(results, Result{
			Name:     "Tools Count",
			Passed:   false,
			Message:  "Server has no tools defined",
			Severity: SeverityWarning,
		})
	}

	return results
}

// toolSchemasProbe validates the structure of each advertised tool: a
// usable name, a non-empty description, and an object-typed input
// schema. Schema absence is valid (a tool may take no input).
type toolSchemasProbe struct{}

func (toolSchemasProbe) Name() string { return "Tool Schemas" }

func (p toolSchemasProbe) Run(ctx context.Context, target *Target) []Result {
	tools, ok, err := listTools(ctx, target)
	if err != nil {
		return []Result{{
			Name:     p.Name(),
			Passed:   false,
			Message:  fmt.Sprintf("Error checking schemas: %v", err),
			Severity: SeverityError,
		}}
	}
	if !ok {
		// The tools list probe already reported the invalid response.
		return nil
	}

	var results []Result
	for _, tool := range tools {
		if tool.Name == "" {
			results = append(results, Result{
				Name:     "Tool Schema",
				Passed:   false,
				Message:  "Tool missing 'name' field",
				Severity: SeverityError,
			})
			continue
		}

		if tool.Description == "" {
			results = append(results, Result{
				Name:     fmt.Sprintf("Tool '%s' Description", tool.Name),
				Passed:   false,
				Message:  "Tool missing description",
				Severity: SeverityWarning,
			})
		}

		if schemaAbsent(tool.InputSchema) {
			results = append(results, Result{
				Name:     fmt.Sprintf("Tool '%s' Schema", tool.Name),
				Passed:   true,
				Message:  "Tool has valid schema (no input required)",
				Severity: SeverityInfo,
			})
			continue
		}

		var schema struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(tool.InputSchema, &schema); err != nil || schema.Type != "object" {
			results = append(results, Result{
				Name:     fmt.Sprintf("Tool '%s' Schema", tool.Name),
				Passed:   false,
				Message:  "inputSchema type should be 'object'",
				Severity: SeverityWarning,
			})
		}
	}

	return results
}

// resourcesListProbe consults resources/list. Resource support is
// optional in MCP, so no outcome of this probe can fail the run: a
// missing capability, a JSON-RPC error, or a timeout all downgrade to
// an informational result.
type resourcesListProbe struct{}

func (resourcesListProbe) Name() string { return "Resources List" }

func (p resourcesListProbe) Run(ctx context.Context, target *Target) []Result {
	notImplemented := Result{
		Name:     p.Name(),
		Passed:   true,
		Message:  "Resources not implemented (optional)",
		Severity: SeverityInfo,
	}

	resp, err := target.exchange(ctx, "resources/list")
	if err != nil || resp == nil || resp.Result == nil {
		if err != nil {
			logging.Debug("probe", "resources/list failed: %v", err)
		}
		return []Result{notImplemented}
	}

	// A result without a resources key defaults to an empty list.
	var payload resourcesPayload
	if err := json.Unmarshal(resp.Result, &payload); err != nil {
		return []Result{notImplemented}
	}

	return []Result{{
		Name:     p.Name(),
		Passed:   true,
		Message:  fmt.Sprintf("Found %d resource(s)", len(payload.Resources)),
		Severity: SeverityInfo,
	}}
}

// listTools performs one tools/list exchange against a fresh server
// instance. ok reports whether the response carried a tools field.
func listTools(ctx context.Context, target *Target) (tools []toolEntry, ok bool, err error) {
	resp, err := target.exchange(ctx, "tools/list")
	if err != nil {
		return nil, false, err
	}
	if resp == nil || resp.Result == nil {
		return nil, false, nil
	}

	var payload toolsPayload
	if err := json.Unmarshal(resp.Result, &payload); err != nil {
		return nil, false, fmt.Errorf("malformed tools/list result: %w", err)
	}
	if payload.Tools == nil {
		return nil, false, nil
	}
	return *payload.Tools, true, nil
}

// schemaAbsent reports whether an inputSchema field was omitted (or
// explicitly null), which the evaluation treats as "no input required".
func schemaAbsent(schema json.RawMessage) bool {
	return len(schema) == 0 || string(schema) == "null"
}
