package hook

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/gitops-tools/vcshook/internal/uiout"
)

// DirPolicy is HookDirPolicy: how to treat a legacy hookdir executable.
type DirPolicy int

const (
	DirPolicyUnknown DirPolicy = iota
	DirPolicyNo
	DirPolicyError
	DirPolicyWarn
	DirPolicyInteractive
	DirPolicyYes
	// DirPolicyUseConfig is a sentinel meaning "resolve from config at
	// this moment"; it never appears in a stored decision.
	DirPolicyUseConfig
)

// ParseDirPolicy parses the hook.runhookdir config value.
func ParseDirPolicy(s string) DirPolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "no", "false", "0":
		return DirPolicyNo
	case "error":
		return DirPolicyError
	case "warn":
		return DirPolicyWarn
	case "interactive":
		return DirPolicyInteractive
	case "yes", "true", "1":
		return DirPolicyYes
	case "":
		return DirPolicyYes
	default:
		return DirPolicyUnknown
	}
}

func (p DirPolicy) String() string {
	switch p {
	case DirPolicyNo:
		return "no"
	case DirPolicyError:
		return "error"
	case DirPolicyWarn:
		return "warn"
	case DirPolicyInteractive:
		return "interactive"
	case DirPolicyYes:
		return "yes"
	case DirPolicyUseConfig:
		return "use-config"
	default:
		return "unknown"
	}
}

// Annotation returns the hook-list display suffix spec.md §6 specifies
// for a legacy entry under this policy.
func (p DirPolicy) Annotation() string {
	switch p {
	case DirPolicyNo:
		return " (will not run)"
	case DirPolicyError:
		return " (will error and not run)"
	case DirPolicyInteractive:
		return " (will prompt)"
	case DirPolicyWarn:
		return " (will warn but run)"
	default:
		return ""
	}
}

// Policy is component B: it decides whether a legacy hookdir entry runs.
type Policy struct {
	// Stdin is the stream interactive prompts read from.
	Stdin io.Reader
	// Stderr is where prompts and messages are written.
	Stderr io.Writer
	// ResolveFromConfig is consulted when policy is DirPolicyUseConfig.
	ResolveFromConfig func() DirPolicy

	unknownWarned sync.Once
}

// Include returns whether the legacy hook at path should run, performing
// any user-facing messaging the policy requires, per spec.md §4.B's
// table.
func (p *Policy) Include(path string, policy DirPolicy) bool {
	if path == "" {
		return false
	}

	switch policy {
	case DirPolicyNo:
		return false
	case DirPolicyError:
		uiout.Fatal(p.Stderr, "Skipping legacy hook at '%s'", path)
		return false
	case DirPolicyWarn:
		uiout.Warn(p.Stderr, "Running legacy hook at '%s'", path)
		return true
	case DirPolicyInteractive:
		return p.prompt(path)
	case DirPolicyYes:
		return true
	case DirPolicyUseConfig:
		if p.ResolveFromConfig == nil {
			return true
		}
		return p.Include(path, p.ResolveFromConfig())
	default:
		p.unknownWarned.Do(func() {
			uiout.Warn(p.Stderr, "warning: unrecognized value for hook.runhookdir; treating as 'yes'")
		})
		return true
	}
}

func (p *Policy) prompt(path string) bool {
	reader := bufio.NewReader(p.Stdin)
	for {
		fmt.Fprintf(p.Stderr, "Run '%s'? [Yn] ", path)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return true
		}
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" || strings.HasPrefix(line, "y") {
			return true
		}
		if strings.HasPrefix(line, "n") {
			return false
		}
	}
}

// IsInteractiveTerminal reports whether r looks like a real terminal,
// gating whether the Interactive policy can meaningfully prompt at all.
func IsInteractiveTerminal(f interface{ Fd() uintptr }) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
