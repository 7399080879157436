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

// Octopus implements component I: an N-way merge (N >= 2 remotes) that
// fast-forwards where possible and otherwise falls back to a full
// content-merge sweep, with the rule that only the final remote may
// legally leave conflicts behind.
func Octopus(ctx context.Context, repo *objstore.Repository, bases []string, headArg string, remotes []string) int {
	if len(remotes) < 2 {
		uiout.Fatal(os.Stderr, "octopus merge requires at least two remote commits")
		return ExitRefused
	}

	headCommit, err := repo.ResolveCommit(headArg)
	if err != nil {
		uiout.Fatal(os.Stderr, "%v", err)
		return ExitRefused
	}
	headTree, err := repo.ResolveTree(headArg)
	if err != nil {
		uiout.Fatal(os.Stderr, "%v", err)
		return ExitRefused
	}

	dirty, err := repo.DirtyPaths(headTree)
	if err != nil {
		uiout.Fatal(os.Stderr, "%v", err)
		return ExitRefused
	}
	if len(dirty) > 0 {
		uiout.Warn(os.Stderr, "Your local changes to the following files would be overwritten by merge:")
		for _, p := range dirty {
			uiout.Warn(os.Stderr, " %s", p)
		}
		return ExitRefused
	}

	references := []string{string(headCommit)}
	referenceTree := headTree
	ffMerge := true

	var baseTrees []objstore.OID
	for _, b := range bases {
		t, err := repo.ResolveTree(b)
		if err != nil {
			uiout.Fatal(os.Stderr, "%v", err)
			return ExitRefused
		}
		baseTrees = append(baseTrees, t)
	}

	for i, remote := range remotes {
		remoteCommit, err := repo.ResolveCommit(remote)
		if err != nil {
			uiout.Fatal(os.Stderr, "%v", err)
			return ExitRefused
		}
		remoteTree, err := repo.ResolveTree(remote)
		if err != nil {
			uiout.Fatal(os.Stderr, "%v", err)
			return ExitRefused
		}

		mergeBaseArgs := append([]string{string(remoteCommit)}, references...)
		mergeBases, err := repo.MergeBases(mergeBaseArgs...)
		if err != nil {
			uiout.Fatal(os.Stderr, "octopus: no common ancestor with %s", repo.PrettyName(remote))
			return ExitRefused
		}

		upToDate := false
		for _, base := range mergeBases {
			if base == remoteCommit {
				upToDate = true
			}
		}
		if upToDate {
			fmt.Printf("Already up to date with %s\n", repo.PrettyName(remote))
			continue
		}

		lastReference := references[len(references)-1]
		for _, base := range mergeBases {
			if string(base) != lastReference {
				ffMerge = false
			}
		}

		var ret int
		if ffMerge {
			trees := []objstore.OID{referenceTree, remoteTree}
			if err := unpack.Apply(ctx, repo, trees, unpack.Options{}); err != nil {
				uiout.Fatal(os.Stderr, "%v", err)
				return ExitRefused
			}
			newTree, err := repo.WriteTree()
			if err != nil {
				uiout.Fatal(os.Stderr, "%v", err)
				return ExitRefused
			}
			referenceTree = newTree
			references = nil
			ret = ExitClean
		} else {
			var trees []objstore.OID
			for _, base := range mergeBases {
				baseTree, err := repo.ResolveTree(string(base))
				if err != nil {
					uiout.Fatal(os.Stderr, "%v", err)
					return ExitRefused
				}
				trees = append(trees, baseTree)
			}
			trees = append(trees, referenceTree, remoteTree)
			if err := unpack.Apply(ctx, repo, trees, unpack.Options{}); err != nil {
				lock, lockErr := repo.LockIndex(ctx)
				if lockErr != nil {
					uiout.Fatal(os.Stderr, "%v", lockErr)
					return ExitRefused
				}
				w := &merge.Walker{Repo: repo, Oneshot: true}
				sweepErr := w.All()
				if commitErr := lock.Commit(); commitErr != nil {
					uiout.Fatal(os.Stderr, "%v", commitErr)
					return ExitRefused
				}
				if sweepErr != nil {
					ret = ExitConflict
				} else {
					ret = ExitClean
				}
			} else {
				ret = ExitClean
			}
			if newTree, err := repo.WriteTree(); err == nil {
				referenceTree = newTree
			}
		}

		if ret != ExitClean && i != len(remotes)-1 {
			uiout.Fatal(os.Stderr, "Automated merge did not work.")
			uiout.Fatal(os.Stderr, "Should not be doing an octopus.")
			return ExitRefused
		}

		references = append(references, string(remoteCommit))
		if ret == ExitConflict && i == len(remotes)-1 {
			return ExitConflict
		}
	}

	return ExitClean
}
