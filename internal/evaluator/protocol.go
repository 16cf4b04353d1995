package evaluator

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	jsonRPCVersion = "2.0"

	// DefaultProtocolVersion is the MCP protocol revision sent in the
	// initialize handshake unless overridden.
	DefaultProtocolVersion = "2024-11-05"

	clientName    = "mcp-evaluator"
	clientVersion = "1.0.0"

	// Request ids are fixed: the handshake is always id 1 and the probe
	// request, when present, is always id 2.
	initializeID   = 1
	probeRequestID = 2
)

// request is the JSON-RPC envelope written to the server's stdin, one
// object per line.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// response is the JSON-RPC envelope read back from the server's stdout.
// Result stays raw so probes can distinguish absent fields from empty
// ones.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *responseError  `json:"error"`
}

type responseError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type initializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ClientInfo      clientInfo     `json:"clientInfo"`
}

type clientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// newInitializeRequest builds the id-1 initialize request that opens
// every exchange.
func newInitializeRequest(protocolVersion string) request {
	return request{
		JSONRPC: jsonRPCVersion,
		ID:      initializeID,
		Method:  "initialize",
		Params: initializeParams{
			ProtocolVersion: protocolVersion,
			Capabilities:    map[string]any{},
			ClientInfo: clientInfo{
				Name:    clientName,
				Version: clientVersion,
			},
		},
	}
}

// encodeRequests serializes requests as newline-delimited JSON, the
// framing MCP stdio servers expect.
func encodeRequests(requests ...request) ([]byte, error) {
	var buf bytes.Buffer
	for _, req := range requests {
		data, err := json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", req.Method, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
