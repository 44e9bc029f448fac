// Package errors defines structured errors for the statline boundaries that
// talk to the outside world: host RPC calls, subprocess execution, and
// configuration loading. Field-source failures never cross these boundaries
// as errors; they degrade to stale values per the containment policy.
package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition.
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Host editor errors
	ErrCodeHostRPC      ErrorCode = "HOST_RPC"
	ErrCodeHostDetached ErrorCode = "HOST_DETACHED"

	// Subprocess errors
	ErrCodeCommandTimeout  ErrorCode = "COMMAND_TIMEOUT"
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// StatlineError represents a structured error with context.
type StatlineError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Cause   error
}

// Error implements the error interface.
func (e *StatlineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface.
func (e *StatlineError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error.
func (e *StatlineError) WithDetail(key string, value interface{}) *StatlineError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON returns a JSON representation of the error for verbose output.
func (e *StatlineError) ToJSON() string {
	payload := map[string]interface{}{
		"code":    e.Code,
		"message": e.Message,
	}
	if len(e.Details) > 0 {
		payload["details"] = e.Details
	}
	if e.Cause != nil {
		payload["cause"] = e.Cause.Error()
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return e.Error()
	}
	return string(data)
}

// GetCode extracts the code from an error chain, or ErrCodeInternal when no
// StatlineError is present.
func GetCode(err error) ErrorCode {
	for err != nil {
		if se, ok := err.(*StatlineError); ok {
			return se.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ErrCodeInternal
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		if se, ok := err.(*StatlineError); ok && se.Code == code {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
