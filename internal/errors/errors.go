package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors that can be used with errors.Is() for error type checking.
// Each one corresponds to exactly one outcome of a lock operation; no
// failure leaves this taxonomy.
var (
	// ErrTempCreate indicates the exclusive temporary lock file could not be created
	ErrTempCreate = errors.New("failed to create temporary lock file")

	// ErrTempWrite indicates the temporary lock file was created but the
	// owner pid payload could not be written to it
	ErrTempWrite = errors.New("failed to write temporary lock file")

	// ErrMaxRetries indicates the retry budget was exhausted without
	// acquiring the lock; callers should treat this as "try again later"
	ErrMaxRetries = errors.New("lock not acquired within retry budget")

	// ErrStaleRemoval indicates a stale lock was detected but could not be
	// removed, so no progress is possible
	ErrStaleRemoval = errors.New("failed to remove stale lock file")

	// ErrInvalidArgument indicates the caller passed an unusable lock path,
	// owner pid or retry count
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLockFailed indicates an internal failure that fits no other kind
	ErrLockFailed = errors.New("lock operation failed")

	// ErrInvalidConfiguration indicates an invalid or conflicting user configuration
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Exit codes matching liblockfile's historical table, so dotlock can be
// dropped into scripts written against dotlockfile(1). Code 7 (orphaned)
// is reserved there and never produced here.
const (
	ExitOK          = 0
	ExitTempCreate  = 2
	ExitTempWrite   = 3
	ExitMaxRetries  = 4
	ExitGeneric     = 5
	ExitStaleRemove = 8
)

// ExitCode maps an error from a lock operation to its process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrTempCreate):
		return ExitTempCreate
	case errors.Is(err, ErrTempWrite):
		return ExitTempWrite
	case errors.Is(err, ErrMaxRetries):
		return ExitMaxRetries
	case errors.Is(err, ErrStaleRemoval):
		return ExitStaleRemove
	default:
		return ExitGeneric
	}
}

// New creates a new error with the given message.
// This is a convenience function that wraps errors.New.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with a message for better context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message for better context.
func Wrapf(err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether target is in err's chain.
// This is a convenience function that wraps errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience function that wraps errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// LockError represents an error that occurred when interacting with a lock
// file. It includes the lock file path, the owner process ID if one is
// known, and the underlying error.
type LockError struct {
	LockFile string
	PID      int
	Err      error
}

// Error implements the error interface with details about the lock file and process.
func (e *LockError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("lock error with file %s (PID: %d): %v", e.LockFile, e.PID, e.Err)
	}
	return fmt.Sprintf("lock error with file %s: %v", e.LockFile, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *LockError) Unwrap() error {
	return e.Err
}

// NewLockError creates a new LockError with the given parameters.
func NewLockError(lockFile string, pid int, err error) *LockError {
	return &LockError{
		LockFile: lockFile,
		PID:      pid,
		Err:      err,
	}
}

// ConfigError represents an error in the application configuration.
// It includes the parameter name, its value if available, and the underlying error.
type ConfigError struct {
	Parameter string
	Value     interface{}
	Err       error
}

// Error implements the error interface with details about the invalid configuration.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("configuration error for %s = %v: %v", e.Parameter, e.Value, e.Err)
	}
	return fmt.Sprintf("configuration error for %s: %v", e.Parameter, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError with the given parameters.
func NewConfigError(parameter string, value interface{}, err error) *ConfigError {
	return &ConfigError{
		Parameter: parameter,
		Value:     value,
		Err:       err,
	}
}
