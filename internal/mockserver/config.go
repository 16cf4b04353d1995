package mockserver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultServerName    = "mcpeval-mock"
	defaultServerVersion = "1.0.0"
)

// Config declares the shape of a mock MCP server: its identity and the
// tools and resources it advertises.
type Config struct {
	// Name reported in the initialize handshake
	Name string `yaml:"name"`
	// Version reported in the initialize handshake
	Version string `yaml:"version"`
	// Tools advertised via tools/list
	Tools []ToolConfig `yaml:"tools"`
	// Resources advertised via resources/list
	Resources []ResourceConfig `yaml:"resources,omitempty"`
}

// ToolConfig declares one mock tool and its canned behavior.
type ToolConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// InputSchema is a JSON schema fragment; omit it for tools that
	// take no input
	InputSchema map[string]interface{} `yaml:"inputSchema,omitempty"`
	// Response is the text returned for every call
	Response string `yaml:"response,omitempty"`
	// Error, when set, makes every call return a tool error instead
	Error string `yaml:"error,omitempty"`
	// Delay postpones the response, e.g. "500ms"
	Delay string `yaml:"delay,omitempty"`
}

// ResourceConfig declares one mock resource with static contents.
type ResourceConfig struct {
	URI         string `yaml:"uri"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	MIMEType    string `yaml:"mimeType,omitempty"`
	Text        string `yaml:"text,omitempty"`
}

// LoadConfig reads and validates a mock server configuration file.
func LoadConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mock server config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(content, &config); err != nil {
		return nil, fmt.Errorf("failed to parse mock server config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid mock server config %s: %w", path, err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.Tools))
	for i, tool := range c.Tools {
		if tool.Name == "" {
			return fmt.Errorf("tool at index %d has no name", i)
		}
		if seen[tool.Name] {
			return fmt.Errorf("duplicate tool name %q", tool.Name)
		}
		seen[tool.Name] = true
	}

	for i, resource := range c.Resources {
		if resource.URI == "" {
			return fmt.Errorf("resource at index %d has no uri", i)
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = defaultServerName
	}
	if c.Version == "" {
		c.Version = defaultServerVersion
	}
}
