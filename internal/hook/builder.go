package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/gitops-tools/vcshook/internal/gitconfig"
)

// Builder is component A: it builds a List for an event from a config
// Source plus the legacy hookdir on disk, per spec.md §4.A.
type Builder struct {
	Source   gitconfig.Source
	HooksDir string
	// Ext is an optional platform executable extension (e.g. ".exe")
	// tried as a fallback when the bare hookdir path is absent.
	Ext string

	adviceOnce sync.Map // event name -> struct{}, one-shot advisory gate
}

// Build runs the algorithm of spec.md §4.A for event, returning the
// resulting List.
func (b *Builder) Build(event string) (*List, error) {
	list := NewList()

	err := b.Source.ForEach(`^hook\.`+regexp.QuoteMeta(event)+`\.command$`, func(e gitconfig.Entry) error {
		v := e.Value

		if skip, ok := b.Source.Bool("hookcmd." + v + ".skip"); ok && skip {
			resolved := v
			if cmd, ok := b.Source.String("hookcmd." + v + ".command"); ok && cmd != "" {
				resolved = cmd
			}
			list.Remove(resolved, false)
			return nil
		}

		resolved := v
		if cmd, ok := b.Source.String("hookcmd." + v + ".command"); ok && cmd != "" {
			resolved = cmd
		}

		list.Upsert(resolved, false, e.Scope)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("building hook list for %s: %w", event, err)
	}

	if b.HooksDir != "" {
		if path, ok := b.probeLegacyHook(event); ok {
			list.Upsert(path, true, gitconfig.ScopeUnknown)
		}
	}

	return list, nil
}

// probeLegacyHook tries <hooksDir>/<event>, then <hooksDir>/<event><ext>
// if ext is configured, requiring executable permission on whichever
// exists. It emits a one-shot advisory on permission-denied, per
// spec.md §4.A step 3.
func (b *Builder) probeLegacyHook(event string) (string, bool) {
	candidates := []string{filepath.Join(b.HooksDir, event)}
	if b.Ext != "" {
		candidates = append(candidates, filepath.Join(b.HooksDir, event+b.Ext))
	}

	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Mode()&0o111 == 0 {
			b.adviseOnce(event, path)
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		return abs, true
	}
	return "", false
}

func (b *Builder) adviseOnce(event, path string) {
	if _, loaded := b.adviceOnce.LoadOrStore(event, struct{}{}); loaded {
		return
	}
	fmt.Fprintf(os.Stderr, "hint: the '%s' hook was ignored because it's not executable\nhint: '%s' exists\n", event, path)
}
