//go:build unix

package lockfile

import (
	"errors"

	"golang.org/x/sys/unix"
)

// kernelProber probes with a zero-effect signal. Delivery or a
// permission denial both prove the process exists; ESRCH proves it does
// not; anything else is undecidable.
type kernelProber struct{}

func (kernelProber) Probe(pid int) Liveness {
	err := unix.Kill(pid, 0)
	switch {
	case err == nil, errors.Is(err, unix.EPERM):
		return Alive
	case errors.Is(err, unix.ESRCH):
		return Dead
	default:
		return Unknown
	}
}
