package lockfile

import (
	"fmt"
	"time"

	dotlockErrors "github.com/dotlock/dotlock/internal/errors"
)

const (
	// tmplockExt is appended to the lock path to form the temporary name.
	tmplockExt = ".lk"

	// tmplockPidWidth is the zero-padded width of the pid component.
	tmplockPidWidth = 5
)

// tempName derives the temporary lock path for one acquisition attempt:
// the lock path, the ".lk" extension, the owner pid zero-padded to five
// digits, and one hex digit of the current time. The pid makes the name
// unique among processes racing on the same lock path; the time digit
// adds entropy against a recycled pid re-running the protocol.
func tempName(lockPath string, pid int, now time.Time) (string, error) {
	if lockPath == "" {
		return "", dotlockErrors.Wrap(dotlockErrors.ErrInvalidArgument, "empty lock path")
	}
	return fmt.Sprintf("%s%s%0*d%x", lockPath, tmplockExt, tmplockPidWidth, pid, now.Unix()&15), nil
}
