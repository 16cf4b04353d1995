package evaluator

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Report aggregates the results of one evaluation run.
type Report struct {
	// Command is the server command that was evaluated
	Command []string `json:"command"`
	// StartTime when the evaluation began
	StartTime time.Time `json:"start_time"`
	// EndTime when the evaluation completed
	EndTime time.Time `json:"end_time"`
	// Duration of the evaluation
	Duration time.Duration `json:"duration"`
	// Results in probe execution order
	Results []Result `json:"results"`
}

// Passed returns every passed result, regardless of severity.
func (r *Report) Passed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Warnings returns failed warning-severity results.
func (r *Report) Warnings() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Severity == SeverityWarning && !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Errors returns failed error-severity results.
func (r *Report) Errors() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Severity == SeverityError && !res.Passed {
			out = append(out, res)
		}
	}
	return out
}

// Success reports the overall outcome: true iff the errors bucket is
// empty. Warnings never affect success.
func (r *Report) Success() bool {
	return len(r.Errors()) == 0
}

// Render writes the human-readable evaluation report.
func (r *Report) Render(w io.Writer) {
	divider := strings.Repeat("=", 60)

	fmt.Fprintf(w, "\n%s\n", divider)
	fmt.Fprintln(w, "MCP SERVER EVALUATION REPORT")
	fmt.Fprintf(w, "%s\n\n", divider)

	passed := r.Passed()
	warnings := r.Warnings()
	errors := r.Errors()

	if len(passed) > 0 {
		fmt.Fprintln(w, "✅ PASSED:")
		for _, res := range passed {
			fmt.Fprintf(w, "   • %s: %s\n", res.Name, res.Message)
		}
		fmt.Fprintln(w)
	}

	if len(warnings) > 0 {
		fmt.Fprintln(w, "⚠️  WARNINGS:")
		for _, res := range warnings {
			fmt.Fprintf(w, "   • %s: %s\n", res.Name, res.Message)
		}
		fmt.Fprintln(w)
	}

	if len(errors) > 0 {
		fmt.Fprintln(w, "❌ ERRORS:")
		for _, res := range errors {
			fmt.Fprintf(w, "   • %s: %s\n", res.Name, res.Message)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Total: %d passed, %d warnings, %d errors\n", len(passed), len(warnings), len(errors))
	fmt.Fprintln(w, divider)
}

// RenderJSON writes the complete report as indented JSON for machine
// consumption.
func (r *Report) RenderJSON(w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// RenderQuiet prints only failures and a one-line summary, for CI logs.
func (r *Report) RenderQuiet(w io.Writer) {
	for _, res := range r.Errors() {
		fmt.Fprintf(w, "❌ %s: %s\n", res.Name, res.Message)
	}
	for _, res := range r.Warnings() {
		fmt.Fprintf(w, "⚠️  %s: %s\n", res.Name, res.Message)
	}

	if r.Success() {
		fmt.Fprintf(w, "✅ %d check(s) passed, %d warning(s)\n", len(r.Passed()), len(r.Warnings()))
	} else {
		fmt.Fprintf(w, "❌ %d error(s), %d warning(s), %d passed\n", len(r.Errors()), len(r.Warnings()), len(r.Passed()))
	}
}

// Save writes a timestamped JSON report file into dir and returns the
// path written.
func (r *Report) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	filename := fmt.Sprintf("mcpeval-report-%s.json", time.Now().Format("20060102-150405"))
	fullPath := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return fullPath, nil
}
