// Package mockserver implements a configurable mock MCP server speaking
// the stdio transport. It exists to exercise the evaluator end to end:
// a YAML file declares the tools and resources the server should
// advertise, including deliberately deficient ones (missing
// descriptions, non-object schemas, slow responses).
package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mcpeval/pkg/logging"
)

// Server is a mock MCP server built from a Config.
type Server struct {
	config *Config
	mcp    *server.MCPServer
}

// New builds a mock server from the given configuration.
func New(config *Config) (*Server, error) {
	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
	}
	if len(config.Resources) > 0 {
		opts = append(opts, server.WithResourceCapabilities(false, true))
	}

	mcpServer := server.NewMCPServer(config.Name, config.Version, opts...)

	for _, toolConfig := range config.Tools {
		tool, err := buildTool(toolConfig)
		if err != nil {
			return nil, err
		}
		mcpServer.AddTool(tool, toolHandler(toolConfig))
	}

	for _, resourceConfig := range config.Resources {
		mcpServer.AddResource(buildResource(resourceConfig), resourceHandler(resourceConfig))
	}

	return &Server{config: config, mcp: mcpServer}, nil
}

// NewFromFile builds a mock server from a YAML configuration file.
func NewFromFile(path string) (*Server, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return New(config)
}

// Start serves the MCP protocol on the process's own stdio until the
// context is cancelled or stdin reaches end-of-input.
func (s *Server) Start(ctx context.Context) error {
	logging.Info("mockserver", "starting mock MCP server %q with %d tool(s), %d resource(s)",
		s.config.Name, len(s.config.Tools), len(s.config.Resources))
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve is Start with explicit streams, usable from tests.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

func buildTool(config ToolConfig) (mcp.Tool, error) {
	tool := mcp.Tool{
		Name:        config.Name,
		Description: config.Description,
	}

	if config.InputSchema != nil {
		raw, err := json.Marshal(config.InputSchema)
		if err != nil {
			return mcp.Tool{}, fmt.Errorf("failed to encode inputSchema for tool %q: %w", config.Name, err)
		}
		tool.RawInputSchema = raw
	} else {
		tool.InputSchema = mcp.ToolInputSchema{Type: "object"}
	}

	return tool, nil
}

func toolHandler(config ToolConfig) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if config.Delay != "" {
			delay, err := time.ParseDuration(config.Delay)
			if err != nil {
				logging.Warn("mockserver", "invalid delay %q for tool %q, ignoring", config.Delay, config.Name)
			} else {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
		}

		if config.Error != "" {
			return mcp.NewToolResultError(config.Error), nil
		}
		return mcp.NewToolResultText(config.Response), nil
	}
}

func buildResource(config ResourceConfig) mcp.Resource {
	var opts []mcp.ResourceOption
	if config.Description != "" {
		opts = append(opts, mcp.WithResourceDescription(config.Description))
	}
	if config.MIMEType != "" {
		opts = append(opts, mcp.WithMIMEType(config.MIMEType))
	}
	return mcp.NewResource(config.URI, config.Name, opts...)
}

func resourceHandler(config ResourceConfig) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      config.URI,
				MIMEType: config.MIMEType,
				Text:     config.Text,
			},
		}, nil
	}
}
