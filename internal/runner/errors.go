package runner

import (
	"errors"
	"fmt"
	"time"
)

// CommandError represents a command that failed to start or exited with a
// non-zero status.
type CommandError struct {
	// Command is the name of the executable
	Command string
	// ExitCode is the process exit code, or -1 if it never ran or was
	// terminated by a signal
	ExitCode int
	// Started is true when the process was started
	Started bool
	// Stderr is the captured stderr output (may be truncated)
	Stderr string
	// Underlying error if any
	Err error
}

func (e *CommandError) Error() string {
	if !e.Started {
		return fmt.Sprintf("command %q could not be run: %v", e.Command, e.Err)
	}
	if e.Stderr != "" {
		return fmt.Sprintf("command %q exited with code %d: %s", e.Command, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("command %q exited with code %d", e.Command, e.ExitCode)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// TimeoutError represents a command that did not finish within the
// configured timeout. The process is killed before this error is returned.
type TimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", e.Command, e.Timeout)
}

// IsTimeout reports whether err is or wraps a *TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsNotStarted reports whether err is a *CommandError for a process that
// was never started (missing binary, permission denied).
func IsNotStarted(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce) && !ce.Started
}
