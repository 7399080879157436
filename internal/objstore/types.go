// Package objstore adapts the external "object store / index state"
// collaborator described in spec.md §1: blob reading, staging, checkout,
// tree/commit resolution, and write-tree. Like internal/gitconfig, it
// never reimplements git's on-disk formats — every operation shells to
// the real git plumbing, mirroring the teacher repo's exec.Command-first
// style throughout cmd/bd/hook.go and internal/git.
package objstore

import (
	"fmt"
	"strconv"
)

// OID is a 40-hex git object id. The zero value represents "absent" —
// spec.md §3 encodes a missing side of a MergeTriple this way.
type OID string

// Empty reports whether this OID represents "file did not exist in that
// tree" per spec.md §3.
func (o OID) Empty() bool { return o == "" }

func (o OID) String() string {
	if o.Empty() {
		return ""
	}
	return string(o)
}

// Mode is a POSIX-style git file mode, per spec.md §3: regular (0100644),
// executable (0100755), symlink (0120000), gitlink/submodule (0160000),
// or tree (040000).
type Mode uint32

const (
	ModeNone      Mode = 0
	ModeRegular   Mode = 0o100644
	ModeExecutable Mode = 0o100755
	ModeSymlink   Mode = 0o120000
	ModeGitlink   Mode = 0o160000
	ModeTree      Mode = 0o040000
)

// IsRegular reports whether m is a regular (non-executable or executable)
// file mode, i.e. content that can be three-way merged.
func (m Mode) IsRegular() bool {
	return m == ModeRegular || m == ModeExecutable
}

func (m Mode) IsSymlink() bool { return m == ModeSymlink }
func (m Mode) IsGitlink() bool { return m == ModeGitlink }

// String renders the mode the way git's plumbing does: six octal digits,
// or empty when the mode is absent (mirrors builtin/merge-one-file.c's
// xsnprintf(modes[i], "%06o", mode) and the empty-mode convention for a
// missing side of the triple).
func (m Mode) String() string {
	if m == ModeNone {
		return ""
	}
	return fmt.Sprintf("%06o", uint32(m))
}

// ParseMode parses an octal mode string as produced by git, or the empty
// string (meaning ModeNone / absent).
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeNone, nil
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return ModeNone, fmt.Errorf("invalid mode %q: %w", s, err)
	}
	return Mode(v), nil
}
