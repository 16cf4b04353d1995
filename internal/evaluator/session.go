package evaluator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"mcpeval/pkg/logging"
)

// pipeGrace bounds how long Wait may keep waiting on the child's stdio
// pipes after the child itself has exited. A server that forks a
// grandchild leaves the pipes held open by a process we never started;
// without this bound, Wait would block until the grandchild exits.
const pipeGrace = time.Second

// session owns exactly one child process for one protocol exchange.
// Sessions are never shared between probes; every probe that needs the
// server launches a fresh one, so nothing leaks between checks.
type session struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// openSession launches the server process with redirected stdio. A
// launch failure (binary not found, permission denied) is returned as
// an error for the probe to surface as an error-severity result.
func openSession(ctx context.Context, command []string) (*session, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("server command is empty")
	}

	s := &session{
		cmd: exec.CommandContext(ctx, command[0], command[1:]...),
	}
	s.cmd.Stdout = &s.stdout
	s.cmd.Stderr = &s.stderr
	s.cmd.WaitDelay = pipeGrace

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	s.stdin = stdin

	if err := s.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start server process: %w", err)
	}

	logging.Debug("session", "started server process (pid %d): %v", s.cmd.Process.Pid, command)
	return s, nil
}

// sendAndClose writes the request bytes to the server's stdin and
// closes it, signalling end-of-input. A write error is not fatal to the
// exchange: a server that exits before reading its input breaks the
// pipe, yet its output may still carry a usable response.
func (s *session) sendAndClose(data []byte) error {
	_, writeErr := s.stdin.Write(data)
	closeErr := s.stdin.Close()
	if writeErr != nil {
		return fmt.Errorf("failed to write request: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close stdin: %w", closeErr)
	}
	return nil
}

// wait blocks until the process exits or the timeout elapses, then
// returns everything written to stdout and stderr. On timeout the child
// is killed before returning; an orphaned server process is a resource
// leak, not an acceptable side effect.
func (s *session) wait(timeout time.Duration) (stdout, stderr []byte, timedOut bool) {
	done := make(chan error, 1)
	go func() {
		done <- s.cmd.Wait()
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		timedOut = true
		logging.Warn("session", "server process (pid %d) exceeded %s timeout, killing", s.cmd.Process.Pid, timeout)
		_ = s.cmd.Process.Kill()
		// Wait must still complete so the process is reaped and the
		// output buffers are quiescent before we read them.
		<-done
	}

	return s.stdout.Bytes(), s.stderr.Bytes(), timedOut
}

// abandon kills the child and reaps it. Used when an exchange is given
// up before wait.
func (s *session) abandon() {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_, _, _ = s.wait(time.Second)
}

// exitCode returns the process exit code after wait, or -1 if the
// process has not exited.
func (s *session) exitCode() int {
	if s.cmd.ProcessState == nil {
		return -1
	}
	return s.cmd.ProcessState.ExitCode()
}

// exchange launches a fresh server process, performs the initialize
// handshake followed by one probe request, waits for the process to
// exit, and returns the response correlated to the probe request id.
// A nil response with a nil error means the server exited without
// answering, which probes treat per their own leniency rules.
func (t *Target) exchange(ctx context.Context, method string) (*response, error) {
	s, err := openSession(ctx, t.Command)
	if err != nil {
		return nil, err
	}

	payload, err := encodeRequests(
		newInitializeRequest(t.ProtocolVersion),
		request{JSONRPC: jsonRPCVersion, ID: probeRequestID, Method: method, Params: struct{}{}},
	)
	if err != nil {
		s.abandon()
		return nil, err
	}

	if err := s.sendAndClose(payload); err != nil {
		logging.Debug("session", "write to server stdin failed (server may have exited early): %v", err)
	}

	stdout, _, timedOut := s.wait(t.Timeout)
	if timedOut {
		return nil, fmt.Errorf("%s request timed out after %s", method, t.Timeout)
	}

	resp, ok := extractResponse(stdout, probeRequestID)
	if !ok {
		return nil, nil
	}
	return resp, nil
}
