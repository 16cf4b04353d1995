package mockserver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
name: demo-server
version: 2.0.0
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
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "demo-server", config.Name)
	assert.Equal(t, "2.0.0", config.Version)
	require.Len(t, config.Tools, 2)
	assert.Equal(t, "echo", config.Tools[0].Name)
	assert.Equal(t, "object", config.Tools[0].InputSchema["type"])
	assert.Nil(t, config.Tools[1].InputSchema)
	require.Len(t, config.Resources, 1)
	assert.Equal(t, "file:///notes.txt", config.Resources[0].URI)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
tools:
  - name: probe
    response: "ok"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, defaultServerName, config.Name)
	assert.Equal(t, defaultServerVersion, config.Version)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "tool without name",
			content: `
tools:
  - description: nameless
`,
			wantErr: "has no name",
		},
		{
			name: "duplicate tool names",
			content: `
tools:
  - name: echo
  - name: echo
`,
			wantErr: "duplicate tool name",
		},
		{
			name: "resource without uri",
			content: `
tools:
  - name: echo
resources:
  - name: orphan
`,
			wantErr: "has no uri",
		},
		{
			name:    "unparseable yaml",
			content: "tools: [\n",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
