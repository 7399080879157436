package hook

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/gitops-tools/vcshook/internal/procpool"
)

// RunHooksOptions bundles the configuration component C (Driver.Run)
// accepts, per spec.md §3.
type RunHooksOptions struct {
	// Env is an ordered list of KEY=VALUE strings exported for every
	// child, added to (not replacing) the parent's environment.
	Env []string
	// Args is appended after the command for every child.
	Args []string
	// StdinPath, if set, is reopened fresh for every child's stdin.
	// Mutually exclusive with FeedPipe.
	StdinPath string
	// FeedPipe, if set, is invoked to supply each child's stdin.
	// Mutually exclusive with StdinPath.
	FeedPipe func(entry *Entry) (io.Reader, error)
	// ConsumeSideband, if set, receives each child's aggregated stderr.
	ConsumeSideband func(entry *Entry, stderr []byte)
	// Jobs is the degree of parallelism; a value below 1 means
	// runtime.NumCPU().
	Jobs int
	// Dir is the initial working directory for each child.
	Dir string
	// HookDirPolicy controls which legacy-hookdir entries are included.
	HookDirPolicy DirPolicy
}

// Driver is component C: it builds a hook list, filters legacy entries
// through Policy, and runs the remainder to completion with bounded
// parallelism.
type Driver struct {
	Builder *Builder
	Policy  *Policy
}

// childResult is what each dispatched child reports back through
// procpool.
type childResult struct {
	entry    *Entry
	exitCode int
	started  bool
}

// Run implements spec.md §4.C: build, filter, dispatch, aggregate.
func (d *Driver) Run(ctx context.Context, event string, opts RunHooksOptions) (int, error) {
	if opts.StdinPath != "" && opts.FeedPipe != nil {
		return 0, fmt.Errorf("programmer error: both stdin_path and feed_pipe set")
	}
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = runtime.NumCPU()
		if jobs < 1 {
			jobs = 1
		}
	}

	list, err := d.Builder.Build(event)
	if err != nil {
		return 0, err
	}

	entries := list.Entries()
	var filtered []*Entry
	for i := range entries {
		e := entries[i]
		if e.FromHookdir && !d.Policy.Include(e.Command, opts.HookDirPolicy) {
			continue
		}
		filtered = append(filtered, &e)
	}

	if len(filtered) == 0 {
		return 0, nil
	}

	idx := 0
	next := func() (any, bool) {
		if idx >= len(filtered) {
			return nil, false
		}
		e := filtered[idx]
		idx++
		return e, true
	}

	runChild := func(ctx context.Context, task any) (any, error) {
		entry := task.(*Entry)
		return d.runOne(ctx, entry, opts)
	}

	results := procpool.Run(ctx, jobs, next, runChild)

	rc := 0
	for _, r := range results {
		if r.Err != nil {
			rc |= 1
			if cr, ok := r.Value.(childResult); ok {
				fmt.Fprintf(os.Stderr, "Couldn't start '%s'\n", cr.entry.Command)
			}
			continue
		}
		cr := r.Value.(childResult)
		rc |= cr.exitCode
	}
	return rc, nil
}

func (d *Driver) runOne(ctx context.Context, entry *Entry, opts RunHooksOptions) (childResult, error) {
	var cmd *exec.Cmd
	if entry.FromHookdir {
		cmd = exec.CommandContext(ctx, entry.Command, opts.Args...)
	} else {
		line := entry.Command
		if len(opts.Args) > 0 {
			line = line + " " + strings.Join(opts.Args, " ")
		}
		cmd = exec.CommandContext(ctx, "sh", "-c", line)
	}

	cmd.Env = append(os.Environ(), opts.Env...)
	cmd.Dir = opts.Dir
	cmd.Stdout = os.Stderr

	var stderrBuf strings.Builder
	if opts.ConsumeSideband != nil {
		cmd.Stderr = &stderrBuf
	} else {
		cmd.Stderr = os.Stderr
	}

	switch {
	case opts.StdinPath != "":
		f, err := os.Open(opts.StdinPath)
		if err != nil {
			return childResult{entry: entry, started: false}, err
		}
		defer f.Close()
		cmd.Stdin = f
	case opts.FeedPipe != nil:
		r, err := opts.FeedPipe(entry)
		if err != nil {
			return childResult{entry: entry, started: false}, err
		}
		cmd.Stdin = r
	default:
		cmd.Stdin = nil
	}

	err := cmd.Run()
	if opts.ConsumeSideband != nil {
		opts.ConsumeSideband(entry, []byte(stderrBuf.String()))
	}

	if err == nil {
		return childResult{entry: entry, exitCode: 0, started: true}, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return childResult{entry: entry, exitCode: exitErr.ExitCode(), started: true}, nil
	}
	return childResult{entry: entry, started: false}, err
}
