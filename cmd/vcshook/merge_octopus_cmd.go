package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitops-tools/vcshook/internal/objstore"
	"github.com/gitops-tools/vcshook/internal/strategy"
	"github.com/gitops-tools/vcshook/internal/uiout"
)

var mergeOctopusCmd = &cobra.Command{
	Use:   "merge-octopus [<bases>...] -- <head> <remote1> <remote2> [<more>...]",
	Short: "N-way octopus merge strategy",
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := runMergeOctopus(cmd, args)
		if err != nil {
			return err
		}
		os.Exit(code)
		return nil
	},
}

// runMergeOctopus mirrors runMergeResolve: it returns the exit code
// instead of calling os.Exit so it can be tested in-process.
func runMergeOctopus(cmd *cobra.Command, args []string) (int, error) {
	bases, rest := splitAtDash(cmd, args)
	if len(rest) < 3 {
		uiout.Fatal(os.Stderr, "merge-octopus requires a head and at least two remotes")
		return strategy.ExitRefused, nil
	}
	head, remotes := rest[0], rest[1:]

	cwd, err := os.Getwd()
	if err != nil {
		return 0, err
	}
	repo, err := objstore.Open(cwd)
	if err != nil {
		return 0, err
	}

	return strategy.Octopus(context.Background(), repo, bases, head, remotes), nil
}
