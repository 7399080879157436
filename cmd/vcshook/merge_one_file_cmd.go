package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitops-tools/vcshook/internal/merge"
	"github.com/gitops-tools/vcshook/internal/objstore"
	"github.com/gitops-tools/vcshook/internal/uiout"
)

var mergeOneFileCmd = &cobra.Command{
	Use:   "merge-one-file <orig> <ours> <theirs> <path> <orig-mode> <ours-mode> <theirs-mode>",
	Short: "Three-way merge a single path",
	Args:  cobra.ExactArgs(7),
	RunE: func(cmd *cobra.Command, args []string) error {
		origOID, oursOID, theirsOID := args[0], args[1], args[2]
		path := args[3]
		origModeStr, oursModeStr, theirsModeStr := args[4], args[5], args[6]

		if (origOID == "") != (origModeStr == "") {
			return fmt.Errorf("orig oid/mode presence mismatch")
		}
		if (oursOID == "") != (oursModeStr == "") {
			return fmt.Errorf("ours oid/mode presence mismatch")
		}
		if (theirsOID == "") != (theirsModeStr == "") {
			return fmt.Errorf("theirs oid/mode presence mismatch")
		}

		origMode, err := objstore.ParseMode(origModeStr)
		if err != nil {
			return err
		}
		oursMode, err := objstore.ParseMode(oursModeStr)
		if err != nil {
			return err
		}
		theirsMode, err := objstore.ParseMode(theirsModeStr)
		if err != nil {
			return err
		}
		for _, m := range []objstore.Mode{origMode, oursMode, theirsMode} {
			if m != objstore.ModeNone && !m.IsRegular() && !m.IsSymlink() && m != objstore.ModeTree {
				return fmt.Errorf("unsupported mode %s: must be regular file, directory, or symlink", m)
			}
		}

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		repo, err := objstore.Open(cwd)
		if err != nil {
			return err
		}

		triple := merge.Triple{
			Path:   path,
			Orig:   merge.Side{OID: objstore.OID(origOID), Mode: origMode},
			Ours:   merge.Side{OID: objstore.OID(oursOID), Mode: oursMode},
			Theirs: merge.Side{OID: objstore.OID(theirsOID), Mode: theirsMode},
		}

		outcome, err := merge.Dispatch(repo, triple)
		if outcome == merge.ConflictKept {
			uiout.Fatal(os.Stderr, "%v", err)
			os.Exit(1)
		}
		if err != nil {
			uiout.Fatal(os.Stderr, "%v", err)
			os.Exit(1)
		}
		return nil
	},
}
