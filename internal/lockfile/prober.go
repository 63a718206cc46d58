package lockfile

// Liveness is the answer of a process liveness probe.
type Liveness int

const (
	// Unknown means the probe could not decide either way.
	Unknown Liveness = iota
	// Alive means the process exists (even if owned by somebody else).
	Alive
	// Dead means no such process exists.
	Dead
)

// ProcessProber answers whether a process id belongs to a live process.
// The default implementation asks the kernel; tests substitute fakes so
// the validity logic can exercise all three branches.
type ProcessProber interface {
	Probe(pid int) Liveness
}
