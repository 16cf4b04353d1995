package evaluator

import (
	"context"
	"fmt"
	"time"

	"mcpeval/pkg/logging"
)

// DefaultTimeout bounds each process-wait operation unless overridden.
const DefaultTimeout = 10 * time.Second

// Evaluator runs the fixed probe battery against one server command.
// Each Evaluator owns its target; each call to Evaluate produces a
// fresh, independent report, so evaluators are safe to reuse across
// runs and test cases.
type Evaluator struct {
	target Target
	probes []Probe
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTimeout overrides the per-exchange process timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Evaluator) {
		e.target.Timeout = timeout
	}
}

// WithProtocolVersion overrides the protocol revision sent in the
// initialize handshake.
func WithProtocolVersion(version string) Option {
	return func(e *Evaluator) {
		e.target.ProtocolVersion = version
	}
}

// New creates an evaluator for the given server command (executable
// plus arguments).
func New(command []string, opts ...Option) (*Evaluator, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("server command must not be empty")
	}

	e := &Evaluator{
		target: Target{
			Command:         command,
			Timeout:         DefaultTimeout,
			ProtocolVersion: DefaultProtocolVersion,
		},
		probes: defaultProbes(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Evaluate executes all probes strictly in order, sequentially, and
// aggregates their results. Result order equals probe execution order;
// within a probe, results appear in the order the checks ran. Probe
// failures are contained as error-severity results and never abort the
// run.
func (e *Evaluator) Evaluate(ctx context.Context) *Report {
	report := &Report{
		Command:   e.target.Command,
		StartTime: time.Now(),
	}

	for _, probe := range e.probes {
		logging.Debug("evaluator", "running probe: %s", probe.Name())
		results := probe.Run(ctx, &e.target)
		report.Results = append(report.Results, results...)
	}

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	return report
}
