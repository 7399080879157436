package merge

import (
	"fmt"

	"github.com/gitops-tools/vcshook/internal/objstore"
)

// Dispatch is merge_three_way: a total function over the presence bitmap
// of (orig, ours, theirs), per spec.md §4.D. It updates the index and
// working tree as a side effect and returns the outcome for path t.Path.
func Dispatch(repo *objstore.Repository, t Triple) (Outcome, error) {
	orig, ours, theirs := t.Orig.Present(), t.Ours.Present(), t.Theirs.Present()

	switch {
	case orig && !ours && !theirs:
		// Both sides deleted; just unstage path.
		if err := repo.Unstage(t.Path); err != nil {
			return Fatal, &Error{t.Path, Fatal, err.Error()}
		}
		return Resolved, nil

	case orig && ours && !theirs:
		return deletedOnOneSide(repo, t, t.Orig, t.Ours)

	case orig && !ours && theirs:
		return deletedOnOneSide(repo, t, t.Orig, t.Theirs)

	case !orig && ours && !theirs:
		// Added in ours only; stage (no checkout).
		if err := repo.StageBlob(t.Path, t.Ours.Mode, t.Ours.OID); err != nil {
			return Fatal, &Error{t.Path, Fatal, err.Error()}
		}
		return Resolved, nil

	case !orig && !ours && theirs:
		// Added in theirs only.
		if repo.WorkingFileExists(t.Path) {
			return Fatal, &Error{t.Path, Fatal, "untracked working tree file would be overwritten"}
		}
		if err := repo.StageBlob(t.Path, t.Theirs.Mode, t.Theirs.OID); err != nil {
			return Fatal, &Error{t.Path, Fatal, err.Error()}
		}
		if err := repo.CheckoutBlob(t.Path, t.Theirs.Mode, t.Theirs.OID); err != nil {
			return Fatal, &Error{t.Path, Fatal, err.Error()}
		}
		return Resolved, nil

	case !orig && ours && theirs && t.Ours.OID == t.Theirs.OID:
		// Added identically in both.
		if t.Ours.Mode != t.Theirs.Mode {
			return Fatal, &Error{t.Path, Fatal, "permissions conflict"}
		}
		if err := repo.StageBlob(t.Path, t.Ours.Mode, t.Ours.OID); err != nil {
			return Fatal, &Error{t.Path, Fatal, err.Error()}
		}
		if err := repo.CheckoutBlob(t.Path, t.Ours.Mode, t.Ours.OID); err != nil {
			return Fatal, &Error{t.Path, Fatal, err.Error()}
		}
		return Resolved, nil

	case orig && ours && theirs:
		return mergeContent(repo, t)

	case !orig && ours && theirs:
		// Added differently in both: content merge with an empty base.
		t.Orig = Side{}
		return mergeContent(repo, t)

	default:
		return Fatal, &Error{t.Path, Fatal, fmt.Sprintf(
			"not handling case %s -> %s -> %s", hex(t.Orig.OID), hex(t.Ours.OID), hex(t.Theirs.OID))}
	}
}

// deletedOnOneSide handles the two symmetric "deleted in one branch" cases:
// orig+ours present with theirs absent, or orig+theirs present with ours
// absent. present is whichever of ours/theirs survived.
func deletedOnOneSide(repo *objstore.Repository, t Triple, orig, present Side) (Outcome, error) {
	if orig.OID == present.OID && orig.Mode == present.Mode {
		if err := repo.Unstage(t.Path); err != nil {
			return Fatal, &Error{t.Path, Fatal, err.Error()}
		}
		if err := repo.RemoveWorkingFile(t.Path); err != nil {
			return Fatal, &Error{t.Path, Fatal, err.Error()}
		}
		return Resolved, nil
	}
	return Fatal, &Error{t.Path, Fatal, "deleted on one branch but had its permissions changed"}
}

func mergeContent(repo *objstore.Repository, t Triple) (Outcome, error) {
	if t.Ours.Mode.IsSymlink() || t.Theirs.Mode.IsSymlink() || t.Orig.Mode.IsSymlink() {
		return Fatal, &Error{t.Path, Fatal, "refusing to content-merge a symlink"}
	}
	if t.Ours.Mode.IsGitlink() || t.Theirs.Mode.IsGitlink() || t.Orig.Mode.IsGitlink() {
		return Fatal, &Error{t.Path, Fatal, "refusing to content-merge a gitlink"}
	}
	return MergeWorker(repo, t)
}

func hex(oid objstore.OID) string {
	if oid.Empty() {
		return "(absent)"
	}
	return string(oid)
}
