// Package strategy implements the two merge strategies built on top of
// internal/unpack and internal/merge: Resolve (spec.md §4.H) and Octopus
// (spec.md §4.I).
package strategy

import (
	"context"
	"fmt"
	"os"

	"github.com/gitops-tools/vcshook/internal/merge"
	"github.com/gitops-tools/vcshook/internal/objstore"
	"github.com/gitops-tools/vcshook/internal/uiout"
	"github.com/gitops-tools/vcshook/internal/unpack"
)

// Exit codes shared by both strategies, per spec.md §6.
const (
	ExitClean    = 0
	ExitConflict = 1
	ExitRefused  = 2
)

// Resolve implements component H: a classic two-way merge with at most
// one remote, falling back from a simple tree unpack to a full content
// merge sweep when the simple unpack leaves the index unmerged.
func Resolve(ctx context.Context, repo *objstore.Repository, bases []string, headArg string, remote string) int {
	if remote == "" {
		uiout.Fatal(os.Stderr, "merge-resolve: exactly one remote commit required")
		return ExitRefused
	}

	headTree, err := repo.ResolveTree(headArg)
	if err != nil {
		uiout.Fatal(os.Stderr, "%v", err)
		return ExitRefused
	}

	fmt.Println("Trying simple merge.")

	var trees []objstore.OID
	for _, b := range bases {
		t, err := repo.ResolveTree(b)
		if err != nil {
			uiout.Fatal(os.Stderr, "%v", err)
			return ExitRefused
		}
		trees = append(trees, t)
	}
	trees = append(trees, headTree)

	remoteTree, err := repo.ResolveTree(remote)
	if err != nil {
		uiout.Fatal(os.Stderr, "%v", err)
		return ExitRefused
	}
	trees = append(trees, remoteTree)

	if err := unpack.Apply(ctx, repo, trees, unpack.Options{Aggressive: true}); err != nil {
		uiout.Fatal(os.Stderr, "%v", err)
		return ExitRefused
	}

	if _, err := repo.WriteTree(); err == nil {
		return ExitClean
	}

	fmt.Println("Simple merge failed, trying Automatic merge.")
	lock, err := repo.LockIndex(ctx)
	if err != nil {
		uiout.Fatal(os.Stderr, "%v", err)
		return ExitRefused
	}

	w := &merge.Walker{Repo: repo, Oneshot: true}
	sweepErr := w.All()
	if err := lock.Commit(); err != nil {
		uiout.Fatal(os.Stderr, "%v", err)
		return ExitRefused
	}

	if sweepErr != nil {
		return ExitConflict
	}
	return ExitClean
}
