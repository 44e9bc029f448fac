package errors

import (
	"fmt"
	"os/exec"
)

// New creates a new StatlineError.
func New(code ErrorCode, message string) *StatlineError {
	return &StatlineError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a StatlineError.
func Wrap(err error, code ErrorCode, message string) *StatlineError {
	return &StatlineError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// ConfigNotFound creates a configuration not found error.
func ConfigNotFound(path string) *StatlineError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error.
func ConfigInvalid(reason string) *StatlineError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// HostRPC creates a host RPC failure error.
func HostRPC(call string, err error) *StatlineError {
	return Wrap(err, ErrCodeHostRPC, fmt.Sprintf("host call failed: %s", call)).
		WithDetail("call", call)
}

// CommandTimeout creates a subprocess timeout error.
func CommandTimeout(cmd string, timeout string) *StatlineError {
	return New(ErrCodeCommandTimeout,
		fmt.Sprintf("command '%s' did not finish within %s", cmd, timeout)).
		WithDetail("command", cmd).
		WithDetail("timeout", timeout)
}

// CommandFailed creates a command execution failure error.
func CommandFailed(cmd string, err error) *StatlineError {
	statErr := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	if exitErr, ok := err.(*exec.ExitError); ok {
		statErr = statErr.WithDetail("exitCode", exitErr.ExitCode())
	}

	return statErr
}
