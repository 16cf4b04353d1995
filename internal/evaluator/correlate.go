package evaluator

import (
	"bufio"
	"bytes"
	"encoding/json"
)

// extractResponse scans newline-delimited JSON output for the response
// whose id equals the target id. Blank lines and lines that fail to
// parse (logging noise, partial writes) are skipped. If several lines
// carry the same id, the first occurrence in stream order wins.
func extractResponse(output []byte, id int64) (*response, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	// Tool list payloads can exceed bufio's default line limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.ID != nil && *resp.ID == id {
			return &resp, true
		}
	}

	return nil, false
}
