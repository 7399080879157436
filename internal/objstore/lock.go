package objstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// fileLockRetryInterval is how often TryLockContext re-attempts the
// index lock while waiting for a concurrent holder to release it.
const fileLockRetryInterval = 50 * time.Millisecond

// IndexLock holds an advisory lock on a file beside the index
// (<index>.vcshook.lock) for the duration of an operation that mutates
// the index, so that concurrent vcshook processes exclude each other. It
// is not git's own <index>.lock, which every git command run underneath
// still takes and releases for itself. It is released on both the commit
// and rollback paths.
type IndexLock struct {
	repo *Repository
	fl   *flock.Flock
}

// LockIndex acquires the repository's index lock, blocking until it is
// available or ctx is done.
func (r *Repository) LockIndex(ctx context.Context) (*IndexLock, error) {
	indexPath := r.IndexFile
	if indexPath == "" {
		gitDir, err := r.gitDir()
		if err != nil {
			return nil, err
		}
		indexPath = filepath.Join(gitDir, "index")
	}

	fl := flock.New(indexPath + ".lock")
	locked, err := fl.TryLockContext(ctx, fileLockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquiring index lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("acquiring index lock: %s is already locked", indexPath)
	}
	return &IndexLock{repo: r, fl: fl}, nil
}

// Commit releases the lock after a successful operation. Unlike git's own
// lockfile (which atomically renames a .lock file over the real index),
// every index mutation in this package goes through `git update-index`/
// `git read-tree` directly, so Commit only needs to release the
// exclusion; the mutation itself is already durable.
func (l *IndexLock) Commit() error {
	return l.fl.Unlock()
}

// Rollback releases the lock after a failed operation. It is always safe
// to call even if no mutation occurred.
func (l *IndexLock) Rollback() error {
	return l.fl.Unlock()
}

// HooksDir returns the repository's hooks directory (normally
// <git-dir>/hooks, but overridable via core.hooksPath).
func (r *Repository) HooksDir() (string, error) {
	out, err := r.command("rev-parse", "--git-path", "hooks").Output()
	if err != nil {
		return "", fmt.Errorf("resolving hooks dir: %w", err)
	}
	dir := trimNewline(out)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.Dir, dir)
	}
	return dir, nil
}

func (r *Repository) gitDir() (string, error) {
	out, err := r.command("rev-parse", "--git-dir").Output()
	if err != nil {
		return "", fmt.Errorf("resolving git dir: %w", err)
	}
	dir := trimNewline(out)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.Dir, dir)
	}
	return dir, nil
}

// ScratchIndexFile returns a fresh, unique path suitable for use as a
// private GIT_INDEX_FILE, per spec.md §4.G's need to compose N trees
// without disturbing a caller's real index mid-computation. The caller is
// responsible for removing it.
func (r *Repository) ScratchIndexFile() (string, error) {
	gitDir, err := r.gitDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(gitDir, "vcshook")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}
	return filepath.Join(dir, "index-"+uuid.NewString()), nil
}

func trimNewline(b []byte) string {
	s := string(b)
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
