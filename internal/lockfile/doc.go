// Package lockfile implements the dot-locking protocol used by dotlock.
//
// The protocol coordinates exclusive access to a resource across
// unrelated processes sharing a filesystem. A caller claims the lock by
// writing its pid to a uniquely named temporary file next to the lock
// path and hard-linking the temporary file onto the lock path. Because
// link(2) may misreport its result on network filesystems, success is
// never taken from the link call itself: the caller confirms ownership
// by comparing the device and inode numbers of the temporary file and
// the lock path afterwards.
//
// # Core Components
//
//   - Locker: runs the acquire/release protocol; clock, sleep and the
//     process liveness probe are injectable for testing
//   - ProcessProber: capability interface answering "is pid alive?"
//     with Alive, Dead or Unknown
//
// # Stale Locks
//
// A lock file whose recorded owner is provably dead, or that carries no
// usable pid and has not been modified for five minutes, is considered
// stale and is removed and reclaimed during acquisition. Holders that
// keep a lock for long stretches without rewriting it should call Touch
// periodically so the age heuristic keeps counting them as live.
//
// # Usage
//
//	if err := lockfile.Create("/var/lock/app.lock", 5); err != nil {
//	    // somebody else holds it
//	}
//	defer func() { _ = lockfile.Remove("/var/lock/app.lock") }()
//
// # Concurrency
//
// A Locker keeps no per-call state, so a single instance is safe for use
// from multiple goroutines; the real coordination happens between
// processes through filesystem-atomic operations (exclusive create,
// link, unlink). Each acquisition attempt owns its temporary file
// exclusively and removes it before returning.
package lockfile
