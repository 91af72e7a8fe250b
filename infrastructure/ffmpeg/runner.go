package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	// Run executes a command to completion. A non-zero exit is returned as *ExitError.
	// When ctx ends first the whole process tree is killed and ctx's error is returned wrapped.
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExitError reports a process that ran and exited non-zero
type ExitError struct {
	Name   string
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Name, e.Code, stderr)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExecCommandRunner is the production implementation using os/exec.
// Each command runs in its own process group so a timeout kills everything it spawned.
type ExecCommandRunner struct {
	// Progress receives a live copy of stderr when set
	Progress io.Writer

	// WaitDelay bounds how long Wait blocks on I/O after the process is killed
	WaitDelay time.Duration
}

// Run executes a command and returns any error
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := r.command(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if r.Progress != nil {
		cmd.Stderr = io.MultiWriter(&stderr, r.Progress)
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	err := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s terminated: %w", name, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Name: name, Code: exitErr.ExitCode(), Stderr: stderr.String(), Err: err}
		}
		return err
	}
	return nil
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := r.command(ctx, name, args...)
	out, err := cmd.Output()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, fmt.Errorf("%s terminated: %w", name, ctxErr)
	}
	return out, err
}

func (r *ExecCommandRunner) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	configureProcessTree(cmd)

	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 5 * time.Second
	}
	return cmd
}
