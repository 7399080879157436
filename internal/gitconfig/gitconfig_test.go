package gitconfig

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoErrorf(t, err, "git %v: %s", args, out)
	}
	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	return dir
}

func TestForEachReadsLocalScope(t *testing.T) {
	dir := initRepo(t)
	cmd := exec.Command("git", "config", "--local", "hook.pre-commit.command", "lint")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())

	src := Git(dir)
	var got []Entry
	err := src.ForEach(`^hook\.pre-commit\.command$`, func(e Entry) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "lint", got[0].Value)
	require.Equal(t, ScopeLocal, got[0].Scope)
}

func TestForEachNoMatchIsNotError(t *testing.T) {
	dir := initRepo(t)
	src := Git(dir)
	called := false
	err := src.ForEach(`^hook\.nonexistent\.command$`, func(Entry) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.False(t, called)
}

func TestBoolAndString(t *testing.T) {
	dir := initRepo(t)
	cmd := exec.Command("git", "config", "hookcmd.lint.skip", "true")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())

	src := Git(dir)
	v, ok := src.Bool("hookcmd.lint.skip")
	require.True(t, ok)
	require.True(t, v)

	_, ok = src.Bool("hookcmd.missing.skip")
	require.False(t, ok)

	cmd = exec.Command("git", "config", "hook.runhookdir", "warn")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())
	s, ok := src.String("hook.runhookdir")
	require.True(t, ok)
	require.Equal(t, "warn", s)
}

func TestScopeString(t *testing.T) {
	require.Equal(t, "local", ScopeLocal.String())
	require.Equal(t, "unknown", Scope(99).String())
}
