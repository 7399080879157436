package merge

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/gitops-tools/vcshook/internal/objstore"
	"github.com/stretchr/testify/require"
)

// stageConflict sets up path with stage 1/2/3 entries directly via
// update-index --index-info, simulating what a real three-way read-tree
// would have left behind.
func stageConflict(t *testing.T, repo *objstore.Repository, path string, orig, ours, theirs objstore.OID) {
	t.Helper()
	lines := ""
	if !orig.Empty() {
		lines += "100644 " + string(orig) + " 1\t" + path + "\n"
	}
	if !ours.Empty() {
		lines += "100644 " + string(ours) + " 2\t" + path + "\n"
	}
	if !theirs.Empty() {
		lines += "100644 " + string(theirs) + " 3\t" + path + "\n"
	}
	cmd := exec.Command("git", "update-index", "--index-info")
	cmd.Dir = repo.Dir
	cmd.Stdin = strings.NewReader(lines)
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "update-index --index-info: %s", out)
}

func TestWalkerAllMergesEveryPathOnce(t *testing.T) {
	repo := initRepo(t)
	orig := blob(t, repo, "base\n")
	ours := blob(t, repo, "ours change\n")
	theirs := blob(t, repo, "base\n")

	stageConflict(t, repo, "a.txt", orig, ours, theirs)

	w := &Walker{Repo: repo, Oneshot: true, Quiet: true}
	err := w.All()
	require.NoError(t, err)

	entries, err := repo.UnmergedEntries()
	require.NoError(t, err)
	require.Empty(t, entries, "a.txt should be resolved to stage 0")
}

func TestWalkerPathNoOpWhenAlreadyMerged(t *testing.T) {
	repo := initRepo(t)
	oid := blob(t, repo, "content\n")
	require.NoError(t, repo.StageBlob("clean.txt", objstore.ModeRegular, oid))

	w := &Walker{Repo: repo}
	outcome, err := w.Path("clean.txt")
	require.NoError(t, err)
	require.Equal(t, Resolved, outcome)
}

func TestWalkerAllKeepsGoingInOneshotMode(t *testing.T) {
	repo := initRepo(t)
	origA := blob(t, repo, "a-base\n")
	oursA := blob(t, repo, "a-ours\n")
	theirsA := blob(t, repo, "a-theirs\n")
	stageConflict(t, repo, "a.txt", origA, oursA, theirsA)

	origB := blob(t, repo, "b-base\n")
	oursB := blob(t, repo, "b-content\n")
	stageConflict(t, repo, "b.txt", origB, oursB, origB)

	w := &Walker{Repo: repo, Oneshot: true, Quiet: true}
	err := w.All()
	// a.txt resolves as a content conflict, which is reported as an
	// aggregate error but does not stop the sweep: b.txt is still merged.
	require.Error(t, err)
	require.True(t, repo.WorkingFileExists("a.txt"))
	require.True(t, repo.WorkingFileExists("b.txt"))
}
