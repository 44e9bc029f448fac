package cli

import (
	"fmt"
	"os"

	"github.com/grovetools/statline/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
	}
}

// Handle provides user-friendly error messages based on error type
func (h *ErrorHandler) Handle(err error) error {
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		if statErr, ok := err.(*errors.StatlineError); ok {
			fmt.Fprintf(os.Stderr, "❌ Configuration file not found: %s\n", statErr.Details["path"])
		} else {
			fmt.Fprintf(os.Stderr, "❌ Configuration file not found.\n")
		}
		return err

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		fmt.Fprintf(os.Stderr, "Check statline.yml for unknown keys or out-of-range values.\n")
		return err

	case errors.ErrCodeHostDetached:
		fmt.Fprintf(os.Stderr, "❌ Lost connection to the editor.\n")
		return err

	case errors.ErrCodeCommandNotFound:
		fmt.Fprintf(os.Stderr, "❌ Required command not found. Make sure git is installed and on PATH.\n")
		return err

	default:
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)

		if h.Verbose {
			if statErr, ok := err.(*errors.StatlineError); ok {
				fmt.Fprintf(os.Stderr, "\nError details:\n%s\n", statErr.ToJSON())
			}
		}
		return err
	}
}
