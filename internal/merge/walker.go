package merge

import (
	"fmt"

	"github.com/gitops-tools/vcshook/internal/objstore"
)

// MergeFunc is the pluggable per-path merge function the walker invokes,
// normally Dispatch.
type MergeFunc func(repo *objstore.Repository, t Triple) (Outcome, error)

// Walker drives MergeFunc over an index, implementing spec.md §4.F's
// merge_index_path / merge_all_index entry points.
type Walker struct {
	Repo    *objstore.Repository
	Merge   MergeFunc
	Quiet   bool
	Oneshot bool
}

// Path implements merge_index_path: merge a single path, a no-op if it is
// already at stage 0.
func (w *Walker) Path(path string) (Outcome, error) {
	entries, err := w.Repo.UnmergedEntries()
	if err != nil {
		return Fatal, err
	}
	var t Triple
	t.Path = path
	found := false
	for _, e := range entries {
		if e.Path != path {
			continue
		}
		found = true
		assignStage(&t, e)
	}
	if !found {
		return Resolved, nil
	}
	return w.mergeOne(t)
}

// All implements merge_all_index: sweep every unmerged path exactly
// once. Because Merge may shrink the index (collapsing three stage
// entries into one stage-0 entry), the walker groups the pre-fetched
// entry list by path up front rather than re-querying mid-sweep, which
// gives index-shrink safety without needing a live cursor adjustment
// against a mutating list.
func (w *Walker) All() error {
	entries, err := w.Repo.UnmergedEntries()
	if err != nil {
		return err
	}

	// Group consecutive-by-path runs, preserving first-seen order.
	var order []string
	triples := map[string]*Triple{}
	for _, e := range entries {
		t, ok := triples[e.Path]
		if !ok {
			t = &Triple{Path: e.Path}
			triples[e.Path] = t
			order = append(order, e.Path)
		}
		assignStage(t, e)
	}

	var aggErr error
	for _, path := range order {
		outcome, err := w.mergeOne(*triples[path])
		if err == nil {
			continue
		}
		if !w.Quiet {
			fmt.Printf("merge program failed for %s: %v\n", path, err)
		}
		if outcome == Fatal && !w.Oneshot {
			return err
		}
		aggErr = err
	}
	return aggErr
}

func (w *Walker) mergeOne(t Triple) (Outcome, error) {
	if w.Merge == nil {
		return Dispatch(w.Repo, t)
	}
	return w.Merge(w.Repo, t)
}

func assignStage(t *Triple, e objstore.StageEntry) {
	side := Side{OID: e.OID, Mode: e.Mode}
	switch e.Stage {
	case 1:
		t.Orig = side
	case 2:
		t.Ours = side
	case 3:
		t.Theirs = side
	}
}
