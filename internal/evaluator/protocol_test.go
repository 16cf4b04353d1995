package evaluator

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitializeRequest(t *testing.T) {
	req := newInitializeRequest(DefaultProtocolVersion)

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "2.0", decoded["jsonrpc"])
	assert.Equal(t, float64(1), decoded["id"])
	assert.Equal(t, "initialize", decoded["method"])

	params, ok := decoded["params"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2024-11-05", params["protocolVersion"])
	assert.Equal(t, map[string]interface{}{}, params["capabilities"])

	info, ok := params["clientInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "mcp-evaluator", info["name"])
	assert.Equal(t, "1.0.0", info["version"])
}

func TestEncodeRequests(t *testing.T) {
	payload, err := encodeRequests(
		newInitializeRequest(DefaultProtocolVersion),
		request{JSONRPC: jsonRPCVersion, ID: probeRequestID, Method: "tools/list", Params: struct{}{}},
	)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(payload), "\n"), "\n")
	require.Len(t, lines, 2)

	// Each line must be a standalone JSON object; the framing is one
	// message per line.
	for _, line := range lines {
		var obj map[string]interface{}
		assert.NoError(t, json.Unmarshal([]byte(line), &obj))
		assert.NotContains(t, line, "\n")
	}

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, float64(2), second["id"])
	assert.Equal(t, "tools/list", second["method"])
}
