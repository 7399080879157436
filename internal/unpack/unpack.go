// Package unpack wraps the external unpack-trees engine described in
// spec.md §4.G: applying one or more (up to MaxUnpackTrees) tree
// descriptors to an index under lock, the primitive both merge strategies build on. Like
// internal/objstore, it never reimplements unpack-trees — it shells to
// `git read-tree`, which is unpack-trees' own command-line entry point.
package unpack

import (
	"context"
	"fmt"

	"github.com/gitops-tools/vcshook/internal/objstore"
)

// MaxUnpackTrees mirrors unpack-trees.h's MAX_UNPACK_TREES: the most tree
// descriptors a single read-tree invocation may combine.
const MaxUnpackTrees = 8

// Options controls how the trees are applied.
type Options struct {
	// Aggressive requests conflict auto-resolution where trivially safe
	// (git read-tree -m --aggressive), used by the Resolve strategy.
	Aggressive bool

	// InitialCheckout marks a two-way unpack against an unborn index
	// (git read-tree -m -u --reset equivalent via --exclude-per-directory
	// is not needed here; this just selects the initial-checkout flag
	// path read-tree itself uses when HEAD has no prior tree).
	InitialCheckout bool
}

// Apply takes 1..MaxUnpackTrees tree oids and applies them to repo's
// index via `git read-tree -m -u`, holding the index lock across the
// call. It dispatches on arity the way component G's oneway/twoway/
// threeway inner functions do: 1 tree is a plain reset-style unpack, 2 is
// a two-way merge (flagged as an initial checkout only when
// opts.InitialCheckout is set; the index itself is not inspected for
// being unborn), 3+ is an N-way merge in read-tree's order: the merge
// bases first, then HEAD's tree next to last, then the remote's tree last.
func Apply(ctx context.Context, repo *objstore.Repository, trees []objstore.OID, opts Options) error {
	if len(trees) == 0 {
		return fmt.Errorf("unpack: no trees given")
	}
	if len(trees) > MaxUnpackTrees {
		return fmt.Errorf("unpack: %d trees exceeds the maximum of %d", len(trees), MaxUnpackTrees)
	}

	lock, err := repo.LockIndex(ctx)
	if err != nil {
		return fmt.Errorf("unpack: %w", err)
	}

	if err := apply(repo, trees, opts); err != nil {
		_ = lock.Rollback()
		return err
	}
	return lock.Commit()
}

func apply(repo *objstore.Repository, trees []objstore.OID, opts Options) error {
	switch {
	case len(trees) == 1:
		return oneway(repo, trees[0])
	case len(trees) == 2:
		return twoway(repo, trees[0], trees[1], opts)
	default:
		return threeway(repo, trees, opts)
	}
}

func oneway(repo *objstore.Repository, tree objstore.OID) error {
	if err := repo.RunReadTree("--reset", "-u", string(tree)); err != nil {
		return fmt.Errorf("unpack (one-way): %w", err)
	}
	return nil
}

func twoway(repo *objstore.Repository, from, to objstore.OID, opts Options) error {
	args := []string{"-m", "-u"}
	if opts.InitialCheckout {
		args = append(args, "--reset")
	}
	args = append(args, string(from), string(to))
	if err := repo.RunReadTree(args...); err != nil {
		return fmt.Errorf("unpack (two-way): %w", err)
	}
	return nil
}

func threeway(repo *objstore.Repository, trees []objstore.OID, opts Options) error {
	args := []string{"-m", "-u"}
	if opts.Aggressive {
		args = append(args, "--aggressive")
	}
	for _, t := range trees {
		args = append(args, string(t))
	}
	// read-tree's convention for >2 trees: the next-to-last descriptor
	// is HEAD's side and the last one is the remote's.
	if err := repo.RunReadTree(args...); err != nil {
		return fmt.Errorf("unpack (three-way): %w", err)
	}
	return nil
}
