package strategy

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOctopusRefusesFewerThanTwoRemotes(t *testing.T) {
	repo := initRepo(t)
	writeAndCommit(t, repo, map[string]string{"a.txt": "base\n"}, "base")

	code := Octopus(context.Background(), repo, nil, "HEAD", []string{"HEAD"})
	require.Equal(t, ExitRefused, code)
}

func TestOctopusAlreadyUpToDate(t *testing.T) {
	repo := initRepo(t)
	base := writeAndCommit(t, repo, map[string]string{"a.txt": "base\n"}, "base")
	checkoutNewBranch(t, repo, "b1", base)
	b1 := writeAndCommit(t, repo, map[string]string{"x.txt": "1\n"}, "b1")

	cmd := exec.Command("git", "checkout", "-q", "main")
	cmd.Dir = repo.Dir
	require.NoError(t, cmd.Run())
	checkoutNewBranch(t, repo, "b2", base)
	writeAndCommit(t, repo, map[string]string{"y.txt": "2\n"}, "b2")

	cmd = exec.Command("git", "checkout", "-q", "main")
	cmd.Dir = repo.Dir
	require.NoError(t, cmd.Run())

	code := Octopus(context.Background(), repo, nil, "HEAD", []string{b1, base})
	require.Equal(t, ExitClean, code)
}

func TestOctopusFastForwardsCleanMerges(t *testing.T) {
	repo := initRepo(t)
	base := writeAndCommit(t, repo, map[string]string{"a.txt": "base\n"}, "base")
	checkoutNewBranch(t, repo, "b1", base)
	b1 := writeAndCommit(t, repo, map[string]string{"x.txt": "1\n"}, "b1")

	cmd := exec.Command("git", "checkout", "-q", "main")
	cmd.Dir = repo.Dir
	require.NoError(t, cmd.Run())
	checkoutNewBranch(t, repo, "b2", base)
	b2 := writeAndCommit(t, repo, map[string]string{"y.txt": "2\n"}, "b2")

	cmd = exec.Command("git", "checkout", "-q", "main")
	cmd.Dir = repo.Dir
	require.NoError(t, cmd.Run())

	code := Octopus(context.Background(), repo, nil, "HEAD", []string{b1, b2})
	require.Equal(t, ExitClean, code)

	_, err := os.Stat(filepath.Join(repo.Dir, "x.txt"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(repo.Dir, "y.txt"))
	require.NoError(t, err)
}
