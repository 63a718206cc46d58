// Package errors provides error types and helpers for dotlock.
//
// It defines the complete error taxonomy of the locking protocol as
// sentinel errors, structured error types that carry context about the
// failed operation, and the mapping from errors to liblockfile-compatible
// process exit codes.
//
// Sentinel errors support errors.Is checks:
//
//	if errors.Is(err, errors.ErrMaxRetries) {
//	    // contention; back off and try again later
//	}
//
// Structured types support errors.As:
//
//	var lockErr *errors.LockError
//	if errors.As(err, &lockErr) {
//	    fmt.Printf("lock %s held by pid %d\n", lockErr.LockFile, lockErr.PID)
//	}
//
// No panics cross the package boundary anywhere in dotlock; every failure
// is representable as one of the kinds defined here.
package errors
