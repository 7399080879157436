// Package merge implements the per-entry three-way merge dispatcher, its
// content-merge worker, and the index-wide walker that drives both over a
// whole index (spec.md §4.D, §4.E, §4.F).
package merge

import "github.com/gitops-tools/vcshook/internal/objstore"

// Side is one of the three sides of a merge triple.
type Side struct {
	OID  objstore.OID
	Mode objstore.Mode
}

// Present reports whether this side existed in its tree.
func (s Side) Present() bool { return !s.OID.Empty() }

// Triple is a MergeTriple: one path plus its orig/ours/theirs sides, per
// spec.md §3. An absent side has a zero Side value.
type Triple struct {
	Path   string
	Orig   Side
	Ours   Side
	Theirs Side
}

// Outcome is the per-path result of dispatching (D) or working (E) a
// Triple, mirroring spec.md §3's MergeOutcome.
type Outcome int

const (
	// Resolved means a clean result was written.
	Resolved Outcome = iota
	// ConflictKept means a content-conflicted result was written;
	// non-fatal, the caller should surface a non-zero aggregate exit.
	ConflictKept
	// Fatal means the operation must stop; no further paths in the same
	// sweep should be processed unless running in oneshot mode.
	Fatal
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case ConflictKept:
		return "conflict"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error wraps a per-path merge failure with the path it occurred on and
// whether it is fatal (stops a sweep) or just a reported conflict.
type Error struct {
	Path    string
	Outcome Outcome
	Message string
}

func (e *Error) Error() string {
	return e.Path + ": " + e.Message
}
