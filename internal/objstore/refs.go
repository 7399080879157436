package objstore

import (
	"bytes"
	"fmt"
	"strings"
)

// MergeBases returns the merge base(s) of the given commit-ishes, via
// `git merge-base --all`.
func (r *Repository) MergeBases(commits ...string) ([]OID, error) {
	args := append([]string{"merge-base", "--all"}, commits...)
	out, err := r.command(args...).Output()
	if err != nil {
		return nil, fmt.Errorf("merge-base %v: %w", commits, err)
	}
	var bases []OID
	for _, line := range bytes.Split(bytes.TrimSpace(out), []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		bases = append(bases, OID(string(line)))
	}
	return bases, nil
}

// PrettyName resolves oid to a human-readable ref name for use in
// messages, via `git name-rev --name-only`. Falls back to the oid itself
// if no name can be found.
func (r *Repository) PrettyName(oid string) string {
	out, err := r.command("name-rev", "--name-only", oid).Output()
	if err != nil {
		return oid
	}
	name := strings.TrimSpace(string(out))
	if name == "" || name == "undefined" {
		return oid
	}
	return name
}

// DirtyPaths lists working-tree/index paths that differ from tree, via
// `git diff-index --name-only <tree>`. An empty result means the index
// and working tree are clean against tree.
func (r *Repository) DirtyPaths(tree OID) ([]string, error) {
	out, err := r.command("diff-index", "--name-only", string(tree)).Output()
	if err != nil {
		return nil, fmt.Errorf("diff-index: %w", err)
	}
	var paths []string
	for _, line := range bytes.Split(bytes.TrimSpace(out), []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		paths = append(paths, string(line))
	}
	return paths, nil
}
