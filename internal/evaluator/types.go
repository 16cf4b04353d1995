package evaluator

import (
	"context"
	"time"
)

// Severity classifies an evaluation result.
type Severity string

const (
	// SeverityInfo marks an informational result.
	SeverityInfo Severity = "info"
	// SeverityWarning marks a quality deficiency that does not affect
	// the overall outcome.
	SeverityWarning Severity = "warning"
	// SeverityError marks a conformance failure.
	SeverityError Severity = "error"
)

// Result is the outcome of a single evaluation check. Results are
// created inside probes during one evaluation run and never mutated
// afterwards. Names are not globally unique; related sub-checks may
// share one.
type Result struct {
	// Name is a short human label identifying the check
	Name string `json:"name"`
	// Passed is the boolean outcome of this specific result
	Passed bool `json:"passed"`
	// Message is a human-readable explanation, always present
	Message string `json:"message"`
	// Severity classifies the result; only (error, !passed) results
	// count against the overall outcome
	Severity Severity `json:"severity"`
}

// Target describes the server under evaluation and how to talk to it.
// The command is immutable for the duration of a run.
type Target struct {
	// Command is the executable plus arguments used to launch the server
	Command []string
	// Timeout bounds each process-wait operation
	Timeout time.Duration
	// ProtocolVersion is sent in the initialize handshake
	ProtocolVersion string
}

// Probe is one self-contained check. A probe drives one or more fresh
// sessions against the target and emits zero or more results. Probes
// contain their own failures; Run never panics and never returns an
// error to the caller.
type Probe interface {
	// Name identifies the probe in logs
	Name() string
	// Run executes the check and returns its results in emission order
	Run(ctx context.Context, target *Target) []Result
}
