// Package hook implements the hook list builder, legacy-hookdir policy
// resolver, and execution driver of spec.md §4.A–§4.C: building an
// ordered list of commands to run for a named event, deciding whether a
// legacy per-event executable participates, and running the resulting
// list to completion with bounded parallelism.
package hook

import "github.com/gitops-tools/vcshook/internal/gitconfig"

// Entry is one HookEntry: a command to run for an event, per spec.md §3.
type Entry struct {
	// Command is the literal command line to execute, shell-interpreted
	// unless FromHookdir is true.
	Command string

	// Origin is the configuration scope this entry was last defined in
	// (informational only).
	Origin gitconfig.Scope

	// FromHookdir is true iff this entry came from the legacy per-event
	// executable file on disk rather than from configuration.
	FromHookdir bool

	// FeedPipeState is opaque per-entry state owned by a caller-supplied
	// stdin-feeder callback; created lazily on first feed.
	FeedPipeState any
}

// key is the (command, from_hookdir) identity spec.md §3 says must be
// unique within a list.
type key struct {
	command     string
	fromHookdir bool
}
