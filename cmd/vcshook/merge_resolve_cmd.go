package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitops-tools/vcshook/internal/objstore"
	"github.com/gitops-tools/vcshook/internal/strategy"
)

var mergeResolveCmd = &cobra.Command{
	Use:   "merge-resolve <bases>... -- <head> <remote>",
	Short: "Two-way merge strategy with at most one remote",
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := runMergeResolve(cmd, args)
		if err != nil {
			return err
		}
		os.Exit(code)
		return nil
	},
}

// runMergeResolve resolves and runs the strategy, returning the exit
// code spec.md §4.H defines rather than calling os.Exit directly, so
// it can be exercised without terminating the test process.
func runMergeResolve(cmd *cobra.Command, args []string) (int, error) {
	bases, rest := splitAtDash(cmd, args)
	if len(rest) != 2 {
		return strategy.ExitRefused, nil
	}
	head, remote := rest[0], rest[1]

	cwd, err := os.Getwd()
	if err != nil {
		return 0, err
	}
	repo, err := objstore.Open(cwd)
	if err != nil {
		return 0, err
	}

	return strategy.Resolve(context.Background(), repo, bases, head, remote), nil
}

// splitAtDash splits args at the "--" terminator pflag records via
// ArgsLenAtDash, mirroring the `<bases>… -- <head> <remote>` calling
// convention of spec.md §6. If no "--" was present, everything is
// treated as the trailing (head/remote) group.
func splitAtDash(cmd *cobra.Command, args []string) (before, after []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return nil, args
	}
	return args[:dash], args[dash:]
}
