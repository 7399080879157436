package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitops-tools/vcshook/internal/appconfig"
	"github.com/gitops-tools/vcshook/internal/gitconfig"
	"github.com/gitops-tools/vcshook/internal/hook"
	"github.com/gitops-tools/vcshook/internal/objstore"
	"github.com/gitops-tools/vcshook/internal/uiout"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "List or run configured and legacy git hooks",
}

var hookListRunHookdir string

var hookListCmd = &cobra.Command{
	Use:   "list <event>",
	Short: "List the hooks that would run for an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		event := args[0]
		repo, builder, policy, err := openHookContext()
		if err != nil {
			return err
		}

		list, err := builder.Build(event)
		if err != nil {
			return err
		}

		if list.Len() == 0 {
			fmt.Printf("no commands configured for hook '%s'\n", event)
			return nil
		}

		effectivePolicy := hook.ParseDirPolicy(hookListRunHookdir)
		if hookListRunHookdir == "" {
			effectivePolicy = resolveConfiguredPolicy(repo)
		}

		for _, e := range list.Entries() {
			scope := e.Origin.String()
			annotation := ""
			if e.FromHookdir {
				scope = "hookdir"
				annotation = effectivePolicy.Annotation()
			}
			fmt.Printf("%s: %s%s\n", scope, e.Command, uiout.Annotate(annotation))
		}
		_ = policy
		return nil
	},
}

var (
	hookRunEnv       []string
	hookRunArgs      []string
	hookRunStdin     string
	hookRunJobs      int
	hookRunHookdir   string
)

var hookRunCmd = &cobra.Command{
	Use:   "run <event>",
	Short: "Run the hooks configured for an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		event := args[0]

		var policyValue hook.DirPolicy
		if hookRunHookdir != "" {
			policyValue = hook.ParseDirPolicy(hookRunHookdir)
			if policyValue == hook.DirPolicyUnknown {
				return fmt.Errorf("invalid --run-hookdir value %q; must be one of no, error, yes, warn, interactive", hookRunHookdir)
			}
		}

		repo, builder, policy, err := openHookContext()
		if err != nil {
			return err
		}
		if hookRunHookdir == "" {
			policyValue = resolveConfiguredPolicy(repo)
		}

		driver := &hook.Driver{Builder: builder, Policy: policy}

		jobs := hookRunJobs
		if jobs <= 0 {
			jobs = appconfig.Jobs()
		}

		rc, err := driver.Run(context.Background(), event, hook.RunHooksOptions{
			Env:           hookRunEnv,
			Args:          hookRunArgs,
			StdinPath:     hookRunStdin,
			Jobs:          jobs,
			Dir:           repo.Dir,
			HookDirPolicy: policyValue,
		})
		if err != nil {
			return err
		}
		os.Exit(rc)
		return nil
	},
}

func init() {
	hookListCmd.Flags().StringVar(&hookListRunHookdir, "run-hookdir", "", "override hook.runhookdir for annotation purposes (no|error|yes|warn|interactive)")

	hookRunCmd.Flags().StringArrayVar(&hookRunEnv, "env", nil, "KEY=VALUE to export to every child")
	hookRunCmd.Flags().StringArrayVar(&hookRunArgs, "arg", nil, "argument appended to every child's command")
	hookRunCmd.Flags().StringVar(&hookRunStdin, "to-stdin", "", "path reopened as stdin for every child")
	hookRunCmd.Flags().IntVar(&hookRunJobs, "jobs", 0, "degree of parallelism (0 = use configured/CPU default)")
	hookRunCmd.Flags().StringVar(&hookRunHookdir, "run-hookdir", "", "override hook.runhookdir (no|error|yes|warn|interactive)")

	hookCmd.AddCommand(hookListCmd)
	hookCmd.AddCommand(hookRunCmd)
}

func openHookContext() (*objstore.Repository, *hook.Builder, *hook.Policy, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, nil, err
	}
	repo, err := objstore.Open(cwd)
	if err != nil {
		return nil, nil, nil, err
	}

	hooksDir := appconfig.HooksDir()
	if hooksDir == "" {
		hooksDir, err = repo.HooksDir()
		if err != nil {
			return nil, nil, nil, err
		}
	}

	src := gitconfig.Git(repo.Dir)
	builder := &hook.Builder{Source: src, HooksDir: hooksDir}
	policy := &hook.Policy{
		Stdin:  os.Stdin,
		Stderr: os.Stderr,
		ResolveFromConfig: func() hook.DirPolicy {
			return resolveConfiguredPolicy(repo)
		},
	}
	return repo, builder, policy, nil
}

func resolveConfiguredPolicy(repo *objstore.Repository) hook.DirPolicy {
	src := gitconfig.Git(repo.Dir)
	if s, ok := src.String("hook.runhookdir"); ok && strings.TrimSpace(s) != "" {
		return hook.ParseDirPolicy(s)
	}
	return hook.DirPolicyYes
}
