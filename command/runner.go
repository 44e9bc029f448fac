package command

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	statlineerrors "github.com/grovetools/statline/errors"
)

const (
	// DefaultTimeout bounds any subprocess this package runs.
	DefaultTimeout = 1 * time.Second

	// MaxTimeout is the maximum allowed timeout.
	MaxTimeout = 30 * time.Second
)

// Runner executes commands with an enforced timeout through an Executor.
type Runner struct {
	executor Executor
	timeout  time.Duration
}

// NewRunner creates a Runner backed by the real executor.
func NewRunner(timeout time.Duration) *Runner {
	return NewRunnerWithExecutor(&RealExecutor{}, timeout)
}

// NewRunnerWithExecutor creates a Runner with a custom Executor.
func NewRunnerWithExecutor(executor Executor, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	return &Runner{executor: executor, timeout: timeout}
}

// Output runs the command in dir and returns its trimmed stdout. The process
// is killed once the timeout elapses; the caller's context can cancel
// earlier. Non-zero exit and timeout both come back as structured errors.
func (r *Runner) Output(ctx context.Context, dir, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := r.executor.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		display := name + " " + strings.Join(args, " ")
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", statlineerrors.CommandTimeout(display, r.timeout.String())
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", statlineerrors.Wrap(err, statlineerrors.ErrCodeCommandNotFound, "executable not found: "+name)
		}
		return "", statlineerrors.CommandFailed(display, err)
	}

	return strings.TrimSpace(string(out)), nil
}
