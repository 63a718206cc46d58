// Package dotlock is a cooperative, advisory file-locking tool
//
// dotlock coordinates exclusive access to a shared resource between
// independent processes by creating and checking a well-known lock file.
// It implements the classic liblockfile dot-locking protocol: a uniquely
// named temporary file is hard-linked onto the lock path, ownership is
// confirmed by comparing device and inode numbers, and stale locks left
// behind by dead owners are detected and reclaimed.
//
// The protocol needs no lock manager and works on shared filesystems,
// including NFS mounts where the return code of link(2) cannot be
// trusted.
//
// # Quick Start
//
//	# Take the lock, retrying up to 5 times
//	dotlock lock /var/lock/myapp.lock
//
//	# ... work on the protected resource ...
//
//	# Give it back
//	dotlock unlock /var/lock/myapp.lock
//
// # Key Features
//
//   - Atomic claim via hard link with device+inode ownership confirmation
//   - Stale lock reclamation by pid liveness probe and age heuristic
//   - Bounded linear backoff under contention
//   - liblockfile-compatible exit codes
//
// # Module Structure
//
// The module is organized into these packages:
//
//   - cmd/dotlock: Command-line interface
//   - internal/lockfile: The locking protocol itself
//   - internal/config: Configuration and environment handling
//   - internal/logger: Logging facilities
//   - internal/errors: Error handling utilities
//
// # Common Configuration Options
//
//	# Retry more aggressively
//	dotlock lock -r 20 /var/lock/myapp.lock
//
//	# Record a different owner pid (e.g. a supervised child)
//	dotlock lock -p 4321 /var/lock/myapp.lock
//
//	# Is somebody holding it right now?
//	dotlock check /var/lock/myapp.lock && echo held
package dotlock
