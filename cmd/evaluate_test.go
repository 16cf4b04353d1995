package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestEvaluateArgsMissingCommand(t *testing.T) {
	var buf bytes.Buffer
	evaluateCmd.SetErr(&buf)
	defer evaluateCmd.SetErr(nil)

	err := evaluateArgs(evaluateCmd, []string{})
	if err == nil {
		t.Fatal("Expected an error when no server command is given")
	}

	// The usage line must be shown despite SilenceUsage.
	output := buf.String()
	if !strings.Contains(output, "evaluate <server-command>") {
		t.Errorf("Expected usage output to be printed, got: %q", output)
	}
}

func TestEvaluateArgsWithCommand(t *testing.T) {
	var buf bytes.Buffer
	evaluateCmd.SetErr(&buf)
	defer evaluateCmd.SetErr(nil)

	err := evaluateArgs(evaluateCmd, []string{"python", "server.py"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if buf.Len() != 0 {
		t.Errorf("Expected no usage output, got: %q", buf.String())
	}
}
