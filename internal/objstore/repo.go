package objstore

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Repository is a handle onto one working tree + index, and the thread
// through which every merge/hook component reaches the external object
// store and index collaborators (spec.md §9: "thread a repository handle
// ... explicitly through the merge APIs; no process-wide mutable state").
type Repository struct {
	// Dir is the working tree root (or any directory inside it); every
	// shelled git invocation runs with this as its cwd.
	Dir string

	// IndexFile, if non-empty, overrides GIT_INDEX_FILE for every
	// command this Repository issues. A zero value means "the
	// repository's real index".
	IndexFile string
}

// Open returns a Repository rooted at dir after confirming dir is (inside)
// a git working tree.
func Open(dir string) (*Repository, error) {
	r := &Repository{Dir: dir}
	cmd := r.command("rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s is not inside a git working tree: %w", dir, err)
	}
	r.Dir = strings.TrimSpace(string(out))
	return r, nil
}

// WithIndexFile returns a shallow copy of r that operates against a
// different index file.
func (r *Repository) WithIndexFile(path string) *Repository {
	cp := *r
	cp.IndexFile = path
	return &cp
}

func (r *Repository) command(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	if r.IndexFile != "" {
		cmd.Env = append(os.Environ(), "GIT_INDEX_FILE="+r.IndexFile)
	}
	return cmd
}

// ReadBlob returns the content of oid, or nil for an absent oid (spec.md
// §4.E step 1: "the null-hash empty blob when absent").
func (r *Repository) ReadBlob(oid OID) ([]byte, error) {
	if oid.Empty() {
		return nil, nil
	}
	out, err := r.command("cat-file", "-p", string(oid)).Output()
	if err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", oid, err)
	}
	return out, nil
}

// HashObject writes content to the object database and returns its oid.
func (r *Repository) HashObject(content []byte) (OID, error) {
	cmd := r.command("hash-object", "-w", "--stdin")
	cmd.Stdin = bytes.NewReader(content)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("hash-object: %w", err)
	}
	return OID(strings.TrimSpace(string(out))), nil
}

// ResolveTree resolves a commit-ish or tree-ish to the oid of its tree.
func (r *Repository) ResolveTree(treeish string) (OID, error) {
	out, err := r.command("rev-parse", "--verify", treeish+"^{tree}").Output()
	if err != nil {
		return "", fmt.Errorf("resolving tree %s: %w", treeish, err)
	}
	return OID(strings.TrimSpace(string(out))), nil
}

// ResolveCommit resolves a commit-ish to its oid. Returns an empty OID
// (not an error) for the literal empty tree, the convention
// builtin/merge-resolve.c and builtin/merge-octopus.c use to mean
// "no commit" / an unborn branch.
func (r *Repository) ResolveCommit(commitish string) (OID, error) {
	out, err := r.command("rev-parse", "--verify", commitish+"^{commit}").Output()
	if err != nil {
		return "", fmt.Errorf("resolving commit %s: %w", commitish, err)
	}
	oid := strings.TrimSpace(string(out))
	empty, err := r.EmptyTreeOID()
	if err == nil && oid == string(empty) {
		return "", nil
	}
	return OID(oid), nil
}

// EmptyTreeOID returns the well-known empty tree object id for this
// repository's hash algorithm (sha1 or sha256).
func (r *Repository) EmptyTreeOID() (OID, error) {
	out, err := r.command("hash-object", "-t", "tree", "--stdin").Output()
	if err != nil {
		return "", fmt.Errorf("resolving empty tree: %w", err)
	}
	return OID(strings.TrimSpace(string(out))), nil
}

// WriteTree writes the current index as a tree object, returning its oid.
// Fails (as write-tree does) if the index has unmerged entries.
func (r *Repository) WriteTree() (OID, error) {
	out, err := r.command("write-tree").Output()
	if err != nil {
		return "", fmt.Errorf("write-tree: %w", err)
	}
	return OID(strings.TrimSpace(string(out))), nil
}

// RunReadTree invokes `git read-tree` with args, surfacing stderr on
// failure. It is the Go-side entry point onto the unpack-trees engine
// internal/unpack dispatches to by tree arity.
func (r *Repository) RunReadTree(args ...string) error {
	cmd := r.command(append([]string{"read-tree"}, args...)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("read-tree %v: %w: %s", args, err, out)
	}
	return nil
}

// StageBlob records (mode, oid) at stage 0 for path without touching the
// working tree, via `update-index --cacheinfo`.
func (r *Repository) StageBlob(path string, mode Mode, oid OID) error {
	spec := fmt.Sprintf("%s,%s,%s", mode, oid, path)
	if err := r.command("update-index", "--add", "--cacheinfo", spec).Run(); err != nil {
		return fmt.Errorf("staging %s: %w", path, err)
	}
	return nil
}

// Unstage removes every stage entry (0, 1, 2, 3) for path from the index,
// used for the "both sides deleted" and "delete matches orig" cases of
// spec.md §4.D.
func (r *Repository) Unstage(path string) error {
	if err := r.command("update-index", "--force-remove", path).Run(); err != nil {
		return fmt.Errorf("unstaging %s: %w", path, err)
	}
	return nil
}

// CheckoutBlob writes oid's content into the working tree at path with
// the given mode, creating parent directories as needed. It does not
// touch the index.
func (r *Repository) CheckoutBlob(path string, mode Mode, oid OID) error {
	content, err := r.ReadBlob(oid)
	if err != nil {
		return err
	}

	full := filepath.Join(r.Dir, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating parent directory for %s: %w", path, err)
	}

	if mode.IsSymlink() {
		_ = os.Remove(full)
		return os.Symlink(string(content), full)
	}

	perm := os.FileMode(0o644)
	if mode == ModeExecutable {
		perm = 0o755
	}
	if err := os.WriteFile(full, content, perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// RemoveWorkingFile removes path from the working tree. Absence is not an
// error.
func (r *Repository) RemoveWorkingFile(path string) error {
	full := filepath.Join(r.Dir, path)
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// WorkingFileExists reports whether path exists in the working tree,
// used by spec.md §4.D's "added in theirs only; if working file exists
// refuse with untracked overwritten" case.
func (r *Repository) WorkingFileExists(path string) bool {
	_, err := os.Stat(filepath.Join(r.Dir, path))
	return err == nil
}
