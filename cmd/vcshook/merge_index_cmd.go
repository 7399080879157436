package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/gitops-tools/vcshook/internal/merge"
	"github.com/gitops-tools/vcshook/internal/objstore"
)

var (
	mergeIndexOneshot bool
	mergeIndexQuiet   bool
	mergeIndexAll     bool
	mergeIndexUse     string
)

var mergeIndexCmd = &cobra.Command{
	Use:   "merge-index [-o] [-q] (<program>|--use=merge-one-file) (-a | <files>...)",
	Short: "Drive a merge program over unmerged index paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		var program string
		if mergeIndexUse == "" {
			if len(args) == 0 {
				return fmt.Errorf("a merge program or --use=merge-one-file is required")
			}
			program = args[0]
			args = args[1:]
		}

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		repo, err := objstore.Open(cwd)
		if err != nil {
			return err
		}

		if mergeIndexUse == "merge-one-file" {
			return runInProcess(repo, args)
		}
		return runExternalProgram(repo, program, args)
	},
}

func init() {
	mergeIndexCmd.Flags().BoolVarP(&mergeIndexOneshot, "oneshot", "o", false, "keep going on error, aggregate status")
	mergeIndexCmd.Flags().BoolVarP(&mergeIndexQuiet, "quiet", "q", false, "suppress per-path error diagnostics")
	mergeIndexCmd.Flags().BoolVarP(&mergeIndexAll, "all", "a", false, "walk the entire index")
	mergeIndexCmd.Flags().StringVar(&mergeIndexUse, "use", "", "merge program name; merge-one-file runs in-process")
}

func runInProcess(repo *objstore.Repository, files []string) error {
	lock, err := repo.LockIndex(context.Background())
	if err != nil {
		return err
	}

	w := &merge.Walker{Repo: repo, Quiet: mergeIndexQuiet, Oneshot: mergeIndexOneshot}
	var sweepErr error
	if mergeIndexAll {
		sweepErr = w.All()
	} else {
		for _, path := range files {
			if _, err := w.Path(path); err != nil {
				sweepErr = err
				if !mergeIndexOneshot {
					break
				}
			}
		}
	}

	if sweepErr != nil {
		_ = lock.Rollback()
		os.Exit(1)
	}
	if err := lock.Commit(); err != nil {
		return err
	}
	return nil
}

func runExternalProgram(repo *objstore.Repository, program string, files []string) error {
	lock, err := repo.LockIndex(context.Background())
	if err != nil {
		return err
	}

	w := &merge.Walker{Repo: repo, Quiet: mergeIndexQuiet, Oneshot: mergeIndexOneshot}
	mergeFn := func(r *objstore.Repository, t merge.Triple) (merge.Outcome, error) {
		return invokeExternal(r, program, t)
	}
	w.Merge = mergeFn

	var sweepErr error
	if mergeIndexAll {
		sweepErr = w.All()
	} else {
		for _, path := range files {
			if _, err := w.Path(path); err != nil {
				sweepErr = err
				if !mergeIndexOneshot {
					break
				}
			}
		}
	}

	if sweepErr != nil {
		_ = lock.Rollback()
		os.Exit(1)
	}
	return lock.Commit()
}

// invokeExternal calls program with the eight-argument calling
// convention merge-one-file uses: orig ours theirs path orig-mode
// ours-mode theirs-mode.
func invokeExternal(repo *objstore.Repository, program string, t merge.Triple) (merge.Outcome, error) {
	cmd := exec.Command(program,
		string(t.Orig.OID), string(t.Ours.OID), string(t.Theirs.OID),
		t.Path,
		t.Orig.Mode.String(), t.Ours.Mode.String(), t.Theirs.Mode.String(),
	)
	cmd.Dir = repo.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return merge.ConflictKept, err
	}
	return merge.Resolved, nil
}
