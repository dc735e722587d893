package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/daystreak/internal/logger"
)

// Error taxonomy shared by the engine and the stores.
var (
	// ErrNotFound is returned when a habit (or other record) does not exist or is inactive
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned for malformed day keys, timezones and requests
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidTimezone is an ErrInvalidInput for unrecognized IANA identifiers
	ErrInvalidTimezone = fmt.Errorf("%w: unrecognized timezone", ErrInvalidInput)
	// ErrConflict is returned when a uniqueness constraint rejects a write
	ErrConflict = errors.New("conflict")
	// ErrInternal marks storage failures
	ErrInternal = errors.New("internal error")
)

// Kind classifies an error into the taxonomy above.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidInput
	KindConflict
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// KindOf returns the taxonomy kind of err, or KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInternal):
		return KindInternal
	default:
		return KindUnknown
	}
}

// NotFound returns an error wrapping ErrNotFound
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidInput returns an error wrapping ErrInvalidInput
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Conflict returns an error wrapping ErrConflict
func Conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Internal wraps a storage failure for operation op. Errors that are already
// classified keep their kind; anything else becomes ErrInternal while still
// unwrapping to the original cause.
func Internal(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindUnknown {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrInternal, err)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err, "kind", KindOf(err))
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
