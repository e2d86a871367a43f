package factorydata

import (
	"errors"
	"fmt"
)

// Kind represents the category of a factory-data failure.
type Kind int

const (
	// KindInvalidArgument indicates an empty identifier, an empty value, or a
	// value rejected by the board tool
	KindInvalidArgument Kind = iota
	// KindNotFound indicates the identifier is unknown or not backed by storage
	KindNotFound
	// KindPermissionDenied indicates a write to a read-only field
	KindPermissionDenied
	// KindOutOfMemory indicates the value does not fit the command limit
	KindOutOfMemory
	// KindInvalidResult indicates the board tool produced no usable output
	KindInvalidResult
	// KindTimeout indicates the board tool did not finish in time
	KindTimeout
	// KindUnavailable indicates a write could not reach the board tool
	// because it could not be started
	KindUnavailable
	// KindUnknown indicates an error that did not come from this package
	KindUnknown
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "Invalid Argument"
	case KindNotFound:
		return "Not Found"
	case KindPermissionDenied:
		return "Permission Denied"
	case KindOutOfMemory:
		return "Out Of Memory"
	case KindInvalidResult:
		return "Invalid Result"
	case KindTimeout:
		return "Timeout"
	case KindUnavailable:
		return "Unavailable"
	case KindUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Sentinels for use with errors.Is. Any *Error of the same kind matches.
var (
	ErrInvalidArgument  = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "identifier not found"}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied, Message: "identifier is read-only"}
	ErrOutOfMemory      = &Error{Kind: KindOutOfMemory, Message: "value too large"}
	ErrInvalidResult    = &Error{Kind: KindInvalidResult, Message: "no usable output"}
	ErrTimeout          = &Error{Kind: KindTimeout, Message: "board tool timed out"}
	ErrUnavailable      = &Error{Kind: KindUnavailable, Message: "board tool could not be run"}
)

// Error is returned by every Accessor operation.
type Error struct {
	Kind    Kind   // Category of error
	ID      string // Identifier the call was made with
	Message string // Human-readable error message
	Output  string // First line printed by the board tool, if relevant
	Err     error  // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.ID != "" {
		msg = fmt.Sprintf("factory data %q: %s", e.ID, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the Err* sentinels work with
// errors.Is regardless of ID and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(kind Kind, id, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		ID:      id,
		Message: message,
		Err:     err,
	}
}

// KindOf returns the kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var fdErr *Error
	if errors.As(err, &fdErr) {
		return fdErr.Kind
	}
	return KindUnknown
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return err != nil && KindOf(err) == KindInvalidArgument
}

// IsNotFound checks if an error is a not-found error
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// IsPermissionDenied checks if an error is a permission error
func IsPermissionDenied(err error) bool {
	return err != nil && KindOf(err) == KindPermissionDenied
}

// IsOutOfMemory checks if an error is an out-of-memory error
func IsOutOfMemory(err error) bool {
	return err != nil && KindOf(err) == KindOutOfMemory
}

// IsInvalidResult checks if an error is an invalid result error
func IsInvalidResult(err error) bool {
	return err != nil && KindOf(err) == KindInvalidResult
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return err != nil && KindOf(err) == KindTimeout
}

// IsUnavailable checks if an error reports a board tool that could not be run
func IsUnavailable(err error) bool {
	return err != nil && KindOf(err) == KindUnavailable
}

// Process exit codes for command-line front ends.
const (
	ExitSuccess          = 0
	ExitInvalidArgument  = 1
	ExitNotFound         = 2
	ExitPermissionDenied = 3
	ExitOutOfMemory      = 4
	ExitInvalidResult    = 5
	ExitTimeout          = 6
	ExitUnavailable      = 7
	ExitFailure          = 8
)

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch KindOf(err) {
	case KindInvalidArgument:
		return ExitInvalidArgument
	case KindNotFound:
		return ExitNotFound
	case KindPermissionDenied:
		return ExitPermissionDenied
	case KindOutOfMemory:
		return ExitOutOfMemory
	case KindInvalidResult:
		return ExitInvalidResult
	case KindTimeout:
		return ExitTimeout
	case KindUnavailable:
		return ExitUnavailable
	default:
		return ExitFailure
	}
}

// TroubleshootingHints returns user-facing advice for err.
func TroubleshootingHints(err error) []string {
	switch KindOf(err) {
	case KindInvalidArgument:
		return []string{
			"Identifiers and values must not be empty",
			"The board tool may reject characters it cannot store",
			"Check the tool's message for the reason",
		}
	case KindNotFound:
		return []string{
			"Run 'fdctl list' to see the known identifiers",
			"Reserved identifiers are listed but cannot be read or written",
		}
	case KindPermissionDenied:
		return []string{
			"This field is provisioned at the factory and is read-only",
			"Run 'fdctl list' to see which fields are writable",
		}
	case KindOutOfMemory:
		return []string{
			fmt.Sprintf("The rendered command must fit in %d bytes", MaxCommandLength),
			"Use a shorter value",
		}
	case KindInvalidResult:
		return []string{
			"The field may not be provisioned on this board",
			"Run 'fdctl check' to verify the board tool is installed",
			"Set FACTORYDATA_LOG_LEVEL=debug to see the tool invocation",
		}
	case KindTimeout:
		return []string{
			"The board tool did not respond in time",
			"Increase --timeout or the timeout setting in the config file",
		}
	case KindUnavailable:
		return []string{
			"Run 'fdctl check' to verify the board tool is installed",
			"Pass --tool or run 'fdctl config set tool <path>' if it lives outside PATH",
		}
	default:
		return nil
	}
}
