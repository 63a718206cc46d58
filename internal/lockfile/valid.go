package lockfile

import (
	"io"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// pidBufSize is enough for a decimal pid and a trailing newline.
const pidBufSize = 16

// Valid reports whether lockPath holds a live, legitimate lock. A path
// that does not exist or cannot be stat'ed is not valid.
//
// The strongest signal is a live owner: if the file carries a pid whose
// process answers the liveness probe, the lock is valid; if the process
// is provably dead, it is stale. When no usable pid is present, or the
// probe cannot decide, the lock is valid only if it was modified within
// the last five minutes.
func (l *Locker) Valid(lockPath string) bool {
	var st unix.Stat_t
	if lockPath == "" || unix.Stat(lockPath, &st) != nil {
		return false
	}

	now := l.clock()
	pid := 0
	if f, err := os.Open(lockPath); err == nil {
		// Prefer 'atime after read' as now: that is the filesystem's own
		// clock, immune to skew between hosts sharing the mount. Comparing
		// atime before and after the read guards against noatime mounts
		// silently handing back a stale timestamp.
		buf := make([]byte, pidBufSize)
		n := 0
		var pre, post unix.Stat_t
		if unix.Fstat(int(f.Fd()), &pre) == nil {
			if m, rerr := f.Read(buf); rerr == nil || rerr == io.EOF {
				n = m
				if unix.Fstat(int(f.Fd()), &post) == nil && !statAtime(&post).Equal(statAtime(&pre)) {
					now = statAtime(&post)
				}
			}
			st = pre
		}
		_ = f.Close()
		if n > 0 {
			pid = leadingPid(buf[:n])
		}
	}

	if pid > 0 {
		switch l.prober.Probe(pid) {
		case Alive:
			return true
		case Dead:
			return false
		}
		// Unknown: fall through to the age heuristic.
	}

	return now.Before(statMtime(&st).Add(staleAge))
}

// leadingPid parses a leading decimal integer out of a lock file's
// content, tolerating leading whitespace and trailing garbage. Returns 0
// when no usable pid is present.
func leadingPid(buf []byte) int {
	i := 0
	for i < len(buf) && (buf[i] == ' ' || buf[i] == '\t' || buf[i] == '\n' || buf[i] == '\r') {
		i++
	}
	j := i
	for j < len(buf) && buf[j] >= '0' && buf[j] <= '9' {
		j++
	}
	if j == i {
		return 0
	}
	pid, err := strconv.Atoi(string(buf[i:j]))
	if err != nil {
		return 0
	}
	return pid
}
