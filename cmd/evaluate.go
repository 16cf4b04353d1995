package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mcpeval/internal/evaluator"
	"mcpeval/pkg/logging"
)

var (
	evalTimeout         time.Duration
	evalProtocolVersion string
	evalOutput          string
	evalReportPath      string
	evalVerbose         bool
	evalDebug           bool
)

// completeOutputFlag provides shell completion for the output flag
func completeOutputFlag(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"text", "json", "quiet"}, cobra.ShellCompDirectiveDefault
}

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <server-command> [server-args...]",
	Short: "Run the conformance check battery against an MCP server",
	Long: `The evaluate command spawns the given MCP server command as a child
process and runs a fixed battery of checks against it:

- Server Startup: the server starts, accepts an initialize request,
  and exits cleanly when its input is closed
- Tools List: tools/list returns a structurally valid response
- Tool Schemas: every advertised tool has a name, a description, and
  an object-typed input schema
- Resources List: resources/list is consulted, but resource support
  is optional and never fails the evaluation

Each check launches its own fresh server instance, so no state leaks
between checks. Findings are classified as passed, warnings, or
errors; only errors affect the exit code.

Example usage:
  mcpeval evaluate -- python my_server.py
  mcpeval evaluate --timeout 30s -- node server.js
  mcpeval evaluate --output json -- ./my-server --flag
  mcpeval evaluate --report ./reports -- python my_server.py

The exit code is 0 when no errors were found and 1 otherwise, so the
command slots directly into CI pipelines.`,
	Args: evaluateArgs,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().DurationVar(&evalTimeout, "timeout", evaluator.DefaultTimeout, "Timeout for each server exchange")
	evaluateCmd.Flags().StringVar(&evalProtocolVersion, "protocol-version", evaluator.DefaultProtocolVersion, "MCP protocol version sent in the initialize handshake")
	evaluateCmd.Flags().StringVar(&evalOutput, "output", "text", "Report format (text, json, quiet)")
	evaluateCmd.Flags().StringVar(&evalReportPath, "report", "", "Directory to save a timestamped JSON report (default: stdout only)")
	evaluateCmd.Flags().BoolVar(&evalVerbose, "verbose", false, "Enable verbose logging")
	evaluateCmd.Flags().BoolVar(&evalDebug, "debug", false, "Enable debug logging and protocol tracing")

	_ = evaluateCmd.RegisterFlagCompletionFunc("output", completeOutputFlag)

	evaluateCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		switch evalOutput {
		case "text", "json", "quiet":
		default:
			return fmt.Errorf("invalid output format %q, must be 'text', 'json' or 'quiet'", evalOutput)
		}
		if evalTimeout <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", evalTimeout)
		}
		return nil
	}
}

// evaluateArgs requires a server command. Usage is printed here because
// SilenceUsage suppresses it on the normal error path, and a missing
// argument is exactly the case where the usage line helps.
func evaluateArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
		return err
	}
	return nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	logging.InitForCLI(logLevel(), os.Stderr)

	// Handle interrupts gracefully; cancellation kills any running
	// server process.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, stopping evaluation...")
		cancel()
	}()

	eval, err := evaluator.New(args,
		evaluator.WithTimeout(evalTimeout),
		evaluator.WithProtocolVersion(evalProtocolVersion),
	)
	if err != nil {
		return fmt.Errorf("failed to create evaluator: %w", err)
	}

	report := eval.Evaluate(ctx)

	switch evalOutput {
	case "json":
		if err := report.RenderJSON(os.Stdout); err != nil {
			return err
		}
	case "quiet":
		report.RenderQuiet(os.Stdout)
	default:
		report.Render(os.Stdout)
	}

	if evalReportPath != "" {
		path, err := report.Save(evalReportPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to save report: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "📄 Report saved to: %s\n", path)
		}
	}

	// Exit code law: 0 iff no unresolved errors.
	if !report.Success() {
		os.Exit(1)
	}

	return nil
}

func logLevel() logging.LogLevel {
	switch {
	case evalDebug:
		return logging.LevelDebug
	case evalVerbose:
		return logging.LevelInfo
	default:
		return logging.LevelWarn
	}
}
