package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for fmtlift.
const (
	// ExitSuccess indicates successful execution with nothing to rewrite.
	ExitSuccess = 0

	// ExitChangesNeeded indicates check mode found files needing
	// normalization.
	ExitChangesNeeded = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrChangesNeeded carries the check-mode outcome from a command to main
// without logging it as a failure.
var ErrChangesNeeded = errors.New("changes needed")

// ErrUsage marks errors caused by invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// ErrConfig marks errors caused by unloadable or invalid configuration.
var ErrConfig = errors.New("configuration error")

// ExitCodeForError maps a command error to a process exit code.
func ExitCodeForError(err error) int {
	var pathErr *os.PathError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrChangesNeeded):
		return ExitChangesNeeded
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.As(err, &pathErr):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// usageArgs wraps a positional-args validator so its failures map to the
// usage exit code.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %s", ErrUsage, err)
		}
		return nil
	}
}
