// Command vcshook dispatches configured and legacy git hooks and
// performs three-way tree/content merges, per the subsystem spec.md
// describes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gitops-tools/vcshook/internal/appconfig"
)

var rootColor string

var rootCmd = &cobra.Command{
	Use:   "vcshook",
	Short: "Hook dispatch and three-way merge helper",
	Long: `vcshook builds and runs a repository's configured git hooks
(falling back to the legacy .git/hooks executable when allowed) and
implements the merge-one-file / merge-resolve / merge-octopus /
merge-index family of three-way merge helpers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := appconfig.Initialize(); err != nil {
			return err
		}
		if cmd.Flags().Changed("color") {
			appconfig.Set("color", rootColor)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootColor, "color", "auto", "colorize output: auto, always, or never")

	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(mergeOneFileCmd)
	rootCmd.AddCommand(mergeResolveCmd)
	rootCmd.AddCommand(mergeOctopusCmd)
	rootCmd.AddCommand(mergeIndexCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
