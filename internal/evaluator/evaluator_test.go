package evaluator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// healthyServer answers initialize and both list methods with fixed
// payloads, exiting cleanly on end-of-input.
const healthyServer = `cat >/dev/null
printf '%s\n' '{"jsonrpc":"2.0","id":1,"result":{"protocolVersion":"2024-11-05","serverInfo":{"name":"fixture","version":"0.1.0"}}}'
printf '%s\n' '{"jsonrpc":"2.0","id":2,"result":{"tools":[{"name":"echo","description":"Echo input","inputSchema":{"type":"object"}}],"resources":[]}}'`

func TestNewRequiresCommand(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]string{})
	assert.Error(t, err)
}

func TestNewAppliesOptions(t *testing.T) {
	e, err := New([]string{"server"},
		WithTimeout(3*time.Second),
		WithProtocolVersion("2025-03-26"),
	)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, e.target.Timeout)
	assert.Equal(t, "2025-03-26", e.target.ProtocolVersion)
}

func TestEvaluateHealthyServer(t *testing.T) {
	requirePOSIX(t)

	e, err := New(shCommand(healthyServer), WithTimeout(5*time.Second))
	require.NoError(t, err)

	report := e.Evaluate(context.Background())

	require.NotNil(t, report)
	assert.True(t, report.Success())
	assert.Empty(t, report.Errors())
	assert.Empty(t, report.Warnings())

	// Result order equals probe execution order.
	names := make([]string, 0, len(report.Results))
	for _, res := range report.Results {
		names = append(names, res.Name)
	}
	assert.Equal(t, []string{"Server Startup", "Tools List", "Resources List"}, names)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	requirePOSIX(t)

	e, err := New(shCommand(healthyServer), WithTimeout(5*time.Second))
	require.NoError(t, err)

	first := e.Evaluate(context.Background())
	second := e.Evaluate(context.Background())

	// Two runs against a deterministic server produce identical result
	// sequences; each run owns a fresh report.
	assert.Equal(t, first.Results, second.Results)
}

func TestEvaluateZeroToolsWarnsButSucceeds(t *testing.T) {
	requirePOSIX(t)

	server := `cat >/dev/null
printf '%s\n' '{"jsonrpc":"2.0","id":1,"result":{}}'
printf '%s\n' '{"jsonrpc":"2.0","id":2,"result":{"tools":[]}}'`

	e, err := New(shCommand(server), WithTimeout(5*time.Second))
	require.NoError(t, err)

	report := e.Evaluate(context.Background())

	assert.True(t, report.Success())
	require.Len(t, report.Warnings(), 1)
	assert.Equal(t, "Tools Count", report.Warnings()[0].Name)

	// The Tools List result itself passed and precedes the warning.
	var listIdx, countIdx int
	for i, res := range report.Results {
		switch res.Name {
		case "Tools List":
			listIdx = i
			assert.True(t, res.Passed)
			assert.Equal(t, "Found 0 tool(s)", res.Message)
		case "Tools Count":
			countIdx = i
		}
	}
	assert.Less(t, listIdx, countIdx)
}

func TestEvaluateBrokenServerContainsFailures(t *testing.T) {
	requirePOSIX(t)

	// The server produces no protocol output at all; startup still
	// passes (clean exit) but tools checks fail. The run must complete
	// all probes regardless.
	e, err := New(shCommand("cat >/dev/null"), WithTimeout(5*time.Second))
	require.NoError(t, err)

	report := e.Evaluate(context.Background())

	assert.False(t, report.Success())
	require.NotEmpty(t, report.Errors())

	// The optional resources probe still reports pass/info.
	last := report.Results[len(report.Results)-1]
	assert.Equal(t, "Resources List", last.Name)
	assert.True(t, last.Passed)
}

func TestEvaluateUnlaunchableServer(t *testing.T) {
	e, err := New([]string{"/nonexistent/mcp-server-binary"}, WithTimeout(time.Second))
	require.NoError(t, err)

	report := e.Evaluate(context.Background())

	assert.False(t, report.Success())
	// Startup, tools list, and tool schemas each report the launch
	// failure; resources stays lenient.
	assert.Len(t, report.Errors(), 3)
	last := report.Results[len(report.Results)-1]
	assert.Equal(t, "Resources List", last.Name)
	assert.True(t, last.Passed)
}

func TestEvaluateRecordsTiming(t *testing.T) {
	requirePOSIX(t)

	e, err := New(shCommand(healthyServer), WithTimeout(5*time.Second))
	require.NoError(t, err)

	report := e.Evaluate(context.Background())

	assert.False(t, report.StartTime.IsZero())
	assert.False(t, report.EndTime.IsZero())
	assert.Equal(t, report.EndTime.Sub(report.StartTime), report.Duration)
}
