package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mcpeval/internal/mockserver"
	"mcpeval/pkg/logging"
)

var (
	mockConfigPath string
	mockDebug      bool
)

// mockCmd represents the mock command
var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a configurable mock MCP server (stdio transport)",
	Long: `The mock command runs a mock MCP server whose tools and resources are
declared in a YAML configuration file. It speaks the MCP stdio
transport, which makes it a drop-in target for the evaluate command:

  mcpeval evaluate -- mcpeval mock --config mock.yaml

Configuration example:

  name: demo-server
  version: 1.0.0
  tools:
    - name: echo
      description: Echo the input back
      inputSchema:
        type: object
        properties:
          text:
            type: string
      response: "echoed"
    - name: undocumented
      response: "ok"
  resources:
    - uri: file:///notes.txt
      name: notes
      mimeType: text/plain
      text: "hello"

Deficient declarations (missing descriptions, non-object schemas,
delayed responses) are allowed on purpose, so evaluator behavior for
low-quality servers can be exercised.`,
	RunE: runMock,
}

func init() {
	rootCmd.AddCommand(mockCmd)

	mockCmd.Flags().StringVar(&mockConfigPath, "config", "", "Path to the mock server YAML configuration (required)")
	mockCmd.Flags().BoolVar(&mockDebug, "debug", false, "Enable debug logging")
	_ = mockCmd.MarkFlagRequired("config")
}

func runMock(cmd *cobra.Command, args []string) error {
	level := logging.LevelWarn
	if mockDebug {
		level = logging.LevelDebug
	}
	// The stdio transport owns stdout, so logs go to stderr.
	logging.InitForCLI(level, os.Stderr)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	server, err := mockserver.NewFromFile(mockConfigPath)
	if err != nil {
		return fmt.Errorf("failed to create mock server: %w", err)
	}

	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mock server error: %w", err)
	}
	return nil
}
