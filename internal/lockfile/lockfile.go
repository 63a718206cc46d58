package lockfile

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/sys/unix"

	dotlockErrors "github.com/dotlock/dotlock/internal/errors"
)

const (
	// staleAge is how long a lock file without a live owner pid stays
	// valid after its last modification.
	staleAge = 300 * time.Second

	// backoffStep and backoffMax bound the linear backoff between
	// contended acquisition attempts.
	backoffStep = 5 * time.Second
	backoffMax  = 60 * time.Second

	// maxStatFailures is how many consecutive lstat failures on the lock
	// path we tolerate before giving up. Normally either we or another
	// process hold the lock, so repeated failures mean something is
	// seriously wrong with the filesystem.
	maxStatFailures = 5
)

// Locker runs the dot-locking protocol. The zero value is not usable;
// construct one with New. Clock, sleep and the process liveness probe
// are injectable so the protocol itself stays deterministic under test.
type Locker struct {
	clock  func() time.Time
	sleep  func(time.Duration)
	prober ProcessProber
}

// Option customizes a Locker.
type Option func(*Locker)

// WithClock replaces the wall clock.
func WithClock(clock func() time.Time) Option {
	return func(l *Locker) { l.clock = clock }
}

// WithSleep replaces the backoff sleep.
func WithSleep(sleep func(time.Duration)) Option {
	return func(l *Locker) { l.sleep = sleep }
}

// WithProber replaces the process liveness probe.
func WithProber(p ProcessProber) Option {
	return func(l *Locker) { l.prober = p }
}

// New creates a Locker backed by the real clock, time.Sleep and the
// kill(0) liveness probe.
func New(opts ...Option) *Locker {
	l := &Locker{
		clock:  time.Now,
		sleep:  time.Sleep,
		prober: kernelProber{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire claims lockPath on behalf of ownerPid, retrying up to retries
// times under contention. On success the lock path holds a single line
// with the owner pid and the caller is responsible for releasing it.
//
// Failures are reported through the error taxonomy in internal/errors:
// ErrTempCreate, ErrTempWrite, ErrMaxRetries, ErrStaleRemoval,
// ErrInvalidArgument and ErrLockFailed, each wrapped in a LockError.
// ErrMaxRetries is the expected outcome under heavy contention and means
// "try again later"; the others are not retried here.
func (l *Locker) Acquire(lockPath string, ownerPid, retries int) error {
	if lockPath == "" {
		return dotlockErrors.NewLockError(lockPath, ownerPid,
			dotlockErrors.Wrap(dotlockErrors.ErrInvalidArgument, "empty lock path"))
	}
	if ownerPid <= 0 {
		return dotlockErrors.NewLockError(lockPath, ownerPid,
			dotlockErrors.Wrapf(dotlockErrors.ErrInvalidArgument, "owner pid %d is not a valid process id", ownerPid))
	}
	if retries < 1 {
		return dotlockErrors.NewLockError(lockPath, ownerPid,
			dotlockErrors.Wrap(dotlockErrors.ErrInvalidArgument, "at least one try is required"))
	}

	payload := []byte(strconv.Itoa(ownerPid) + "\n")

	tmpPath, err := tempName(lockPath, ownerPid, l.clock())
	if err != nil {
		return dotlockErrors.NewLockError(lockPath, ownerPid, err)
	}

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return dotlockErrors.NewLockError(lockPath, ownerPid,
			dotlockErrors.Wrapf(dotlockErrors.ErrTempCreate, "%v", err))
	}
	n, writeErr := f.Write(payload)
	closeErr := f.Close()
	if writeErr != nil || closeErr != nil || n != len(payload) {
		_ = os.Remove(tmpPath)
		if writeErr == nil {
			writeErr = closeErr
		}
		return dotlockErrors.NewLockError(lockPath, ownerPid,
			dotlockErrors.Wrapf(dotlockErrors.ErrTempWrite, "%v", writeErr))
	}

	var (
		sleeptime  time.Duration
		statFailed int
		dontSleep  = true
	)

	// remaining is deliberately mutable: reclaiming a stale lock on the
	// final iteration grants one extra try, since the attempt spent
	// against the stale lock was not a genuine contention round.
	for remaining := retries; remaining > 0; remaining-- {
		if !dontSleep {
			sleeptime += backoffStep
			if sleeptime > backoffMax {
				sleeptime = backoffMax
			}
			l.sleep(sleeptime)
		}
		dontSleep = false

		// Claim by linking the temp file onto the lock path. The return
		// value of link(2) cannot be trusted over NFS, and neither can
		// the nlink count; ownership is confirmed below instead.
		_ = os.Link(tmpPath, lockPath)

		var tmpSt unix.Stat_t
		if err := unix.Lstat(tmpPath, &tmpSt); err != nil {
			// Our exclusively-owned temp file vanished. Somebody is
			// interfering with the protocol; retrying won't help.
			return dotlockErrors.NewLockError(lockPath, ownerPid,
				dotlockErrors.Wrapf(dotlockErrors.ErrLockFailed, "temporary lock file disappeared: %v", err))
		}

		var lockSt unix.Stat_t
		if err := unix.Lstat(lockPath, &lockSt); err != nil {
			statFailed++
			if statFailed > maxStatFailures {
				_ = os.Remove(tmpPath)
				return dotlockErrors.NewLockError(lockPath, ownerPid,
					dotlockErrors.Wrapf(dotlockErrors.ErrMaxRetries, "lock path repeatedly unstattable: %v", err))
			}
			continue
		}

		if lockSt.Dev == tmpSt.Dev && lockSt.Ino == tmpSt.Ino {
			// The link stuck: the lock path is our temp file.
			_ = os.Remove(tmpPath)
			return nil
		}
		statFailed = 0

		// Somebody else's lock file is in place. If it is stale, remove
		// it and retry immediately.
		if !l.Valid(lockPath) {
			if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
				_ = os.Remove(tmpPath)
				return dotlockErrors.NewLockError(lockPath, ownerPid,
					dotlockErrors.Wrapf(dotlockErrors.ErrStaleRemoval, "%v", err))
			}
			dontSleep = true
			if remaining == 1 {
				remaining++
			}
		}
	}

	_ = os.Remove(tmpPath)
	return dotlockErrors.NewLockError(lockPath, ownerPid, dotlockErrors.ErrMaxRetries)
}

// Release removes lockPath. A lock that is already gone counts as
// released, so Release is idempotent.
func (l *Locker) Release(lockPath string) error {
	if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
		return dotlockErrors.NewLockError(lockPath, 0,
			dotlockErrors.Wrapf(dotlockErrors.ErrLockFailed, "failed to remove lock file: %v", err))
	}
	return nil
}

// Touch refreshes the modification time of an owned lock so the age
// heuristic keeps treating it as held. Long-running holders should call
// this at least once every five minutes.
func (l *Locker) Touch(lockPath string) error {
	now := l.clock()
	if err := os.Chtimes(lockPath, now, now); err != nil {
		return dotlockErrors.NewLockError(lockPath, 0,
			dotlockErrors.Wrapf(dotlockErrors.ErrLockFailed, "failed to touch lock file: %v", err))
	}
	return nil
}

// std is the Locker behind the package-level convenience functions.
var std = New()

// Create acquires lockPath for the calling process, like liblockfile's
// lockfile_create().
func Create(lockPath string, retries int) error {
	return std.Acquire(lockPath, os.Getpid(), retries)
}

// Remove releases lockPath, like lockfile_remove().
func Remove(lockPath string) error {
	return std.Release(lockPath)
}

// Check reports whether a valid lock is present at lockPath, like
// lockfile_check().
func Check(lockPath string) bool {
	return std.Valid(lockPath)
}

// Touch refreshes lockPath's modification time, like lockfile_touch().
func Touch(lockPath string) error {
	return std.Touch(lockPath)
}
