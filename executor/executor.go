// Package executor runs scheduler CLI commands as local processes.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Result captures the outcome of a single command invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Local executes argv vectors against the local host.
//
// Arguments are passed literally, never through a shell. The environment
// passed to Execute is merged over the current process environment.
type Local struct {
	// Timeout bounds each invocation. Zero means no bound beyond the
	// caller's context.
	Timeout time.Duration
}

// NewLocal returns a Local executor with the given per-call timeout.
func NewLocal(timeout time.Duration) *Local {
	return &Local{Timeout: timeout}
}

// Execute runs argv and returns its captured output and exit code.
//
// A nonzero exit code is reported through Result, not through the error
// return. The error return is reserved for executor-level failures: command
// not found, context cancellation, timeout expiry.
func (l *Local) Execute(ctx context.Context, argv []string, env map[string]string) (Result, error) {
	if len(argv) == 0 {
		return Result{}, errors.New("executor: empty argv")
	}

	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)

	c.Env = os.Environ()
	for k, v := range env {
		c.Env = append(c.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		// A killed-on-deadline process surfaces as an ExitError too, so the
		// context must be consulted first.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("executor: %s: %w", argv[0], ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The command ran and failed; that belongs to the caller.
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("executor: %s: %w", argv[0], err)
	}

	return res, nil
}
