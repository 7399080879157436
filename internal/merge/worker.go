package merge

import (
	"fmt"

	"github.com/gitops-tools/vcshook/internal/objstore"
	"github.com/gitops-tools/vcshook/internal/xdlmerge"
)

// MergeWorker is the content merge worker of spec.md §4.E. It is exported
// so internal/strategy and internal/unpack callers that already know a
// path needs content merging (rather than going through Dispatch) can
// invoke it directly.
func MergeWorker(repo *objstore.Repository, t Triple) (Outcome, error) {
	orig, err := repo.ReadBlob(t.Orig.OID)
	if err != nil {
		return Fatal, &Error{t.Path, Fatal, fmt.Sprintf("reading base: %v", err)}
	}
	ours, err := repo.ReadBlob(t.Ours.OID)
	if err != nil {
		return Fatal, &Error{t.Path, Fatal, fmt.Sprintf("reading ours: %v", err)}
	}
	theirs, err := repo.ReadBlob(t.Theirs.OID)
	if err != nil {
		return Fatal, &Error{t.Path, Fatal, fmt.Sprintf("reading theirs: %v", err)}
	}

	result, err := xdlmerge.Merge(ours, orig, theirs, xdlmerge.Labels{
		Ours:   "ours",
		Orig:   "base",
		Theirs: "theirs",
	})
	if err != nil {
		return Fatal, &Error{t.Path, Fatal, "failed to execute internal merge"}
	}

	// Sticky conflict flag: content conflict, add/add (no base), or a
	// mode mismatch between ours and theirs all count, per step 6.
	conflicted := result.Conflicted || !t.Orig.Present() || t.Ours.Mode != t.Theirs.Mode

	if err := repo.RemoveWorkingFile(t.Path); err != nil {
		return Fatal, &Error{t.Path, Fatal, fmt.Sprintf("removing working file: %v", err)}
	}
	resultMode := t.Ours.Mode
	if resultMode == objstore.ModeNone {
		resultMode = objstore.ModeRegular
	}
	if err := writeWorkingFile(repo, t.Path, resultMode, result.Content); err != nil {
		return Fatal, &Error{t.Path, Fatal, fmt.Sprintf("writing merged content: %v", err)}
	}

	oid, err := repo.HashObject(result.Content)
	if err != nil {
		return Fatal, &Error{t.Path, Fatal, fmt.Sprintf("hashing merged content: %v", err)}
	}
	if err := repo.StageBlob(t.Path, resultMode, oid); err != nil {
		return Fatal, &Error{t.Path, Fatal, fmt.Sprintf("staging merged content: %v", err)}
	}

	if conflicted {
		msg := "permissions conflict"
		if result.Conflicted {
			msg = "content conflict"
		}
		return ConflictKept, &Error{t.Path, ConflictKept, msg}
	}
	return Resolved, nil
}

// writeWorkingFile writes content to path with the given mode's
// executable bit, creating parent directories as needed. The freshly
// merged buffer is not yet an object, so it is first written to the
// object database and then checked out through CheckoutBlob.
func writeWorkingFile(repo *objstore.Repository, path string, mode objstore.Mode, content []byte) error {
	tmpOID, err := repo.HashObject(content)
	if err != nil {
		return err
	}
	return repo.CheckoutBlob(path, mode, tmpOID)
}
