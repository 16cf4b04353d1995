// Package evaluator implements the MCP server evaluation engine.
//
// The engine spawns a candidate MCP server as a child process, exchanges
// line-delimited JSON-RPC messages over its standard input/output, runs a
// fixed battery of conformance probes, and aggregates the outcome into a
// severity-classified report.
//
// ## Architecture Components
//
// ### Session (session.go)
// - Owns exactly one child process for one protocol exchange
// - Writes the request lines, closes stdin, collects stdout/stderr
// - Enforces a wall-clock timeout and kills the child on expiry
//
// ### Correlator (correlate.go)
// - Scans newline-delimited JSON output for the response matching a
//   request id, skipping blank lines and protocol noise
//
// ### Probes (probes.go)
// - Server Startup: the process starts, answers initialize, and exits
//   cleanly on end-of-input
// - Tools List: tools/list returns a structurally valid response
// - Tool Schemas: each advertised tool carries a name, a description,
//   and an object-typed input schema
// - Resources List: resources/list is consulted but treated as an
//   optional capability
//
// Every probe launches its own server instance, so no state leaks
// between checks. A failure inside one probe is converted into an
// error-severity result and never aborts the run.
//
// ### Report (report.go)
// - Buckets results into passed, warnings, and errors
// - Renders the console report and the JSON form
// - Overall success means the errors bucket is empty; warnings never
//   affect the exit status
//
// ## Usage
//
// The engine is invoked through the `mcpeval evaluate` command:
//
//	```bash
//	mcpeval evaluate -- python my_server.py
//	mcpeval evaluate --timeout 30s -- node server.js
//	```
package evaluator
