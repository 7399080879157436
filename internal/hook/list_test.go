package hook

import (
	"testing"

	"github.com/gitops-tools/vcshook/internal/gitconfig"
	"github.com/stretchr/testify/require"
)

func TestUpsertAppendsNewEntries(t *testing.T) {
	l := NewList()
	l.Upsert("lint", false, gitconfig.ScopeGlobal)
	l.Upsert("test", false, gitconfig.ScopeLocal)

	entries := l.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "lint", entries[0].Command)
	require.Equal(t, "test", entries[1].Command)
}

func TestUpsertRedefinitionMovesToEndAndUpdatesOrigin(t *testing.T) {
	l := NewList()
	l.Upsert("lint", false, gitconfig.ScopeGlobal)
	l.Upsert("test", false, gitconfig.ScopeLocal)
	l.Upsert("lint", false, gitconfig.ScopeLocal)

	entries := l.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "test", entries[0].Command)
	require.Equal(t, "lint", entries[1].Command)
	require.Equal(t, gitconfig.ScopeLocal, entries[1].Origin)
}

func TestRemoveDeletesEntry(t *testing.T) {
	l := NewList()
	l.Upsert("lint", false, gitconfig.ScopeGlobal)
	l.Upsert("test", false, gitconfig.ScopeLocal)
	l.Remove("lint", false)

	entries := l.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "test", entries[0].Command)
}

func TestFromHookdirEntryIsDistinctIdentity(t *testing.T) {
	l := NewList()
	l.Upsert("/path/to/hook", false, gitconfig.ScopeLocal)
	l.Upsert("/path/to/hook", true, gitconfig.ScopeUnknown)

	require.Equal(t, 2, l.Len())
}

func TestLegacyEntryCanBeLast(t *testing.T) {
	l := NewList()
	l.Upsert("lint", false, gitconfig.ScopeGlobal)
	l.Upsert("test", false, gitconfig.ScopeLocal)
	l.Upsert("/hooks/pre-commit", true, gitconfig.ScopeUnknown)

	entries := l.Entries()
	require.True(t, entries[len(entries)-1].FromHookdir)
}
