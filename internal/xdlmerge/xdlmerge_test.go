package xdlmerge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeCleanWhenOnlyOneSideChanges(t *testing.T) {
	orig := []byte("line1\nline2\nline3\n")
	ours := []byte("line1\nline2\nline3\n")
	theirs := []byte("line1\nCHANGED\nline3\n")

	res, err := Merge(ours, orig, theirs, Labels{Ours: "ours", Orig: "orig", Theirs: "theirs"})
	require.NoError(t, err)
	require.False(t, res.Conflicted)
	require.Equal(t, "line1\nCHANGED\nline3\n", string(res.Content))
}

func TestMergeConflictWritesMarkers(t *testing.T) {
	orig := []byte("line1\n")
	ours := []byte("ours-version\n")
	theirs := []byte("theirs-version\n")

	res, err := Merge(ours, orig, theirs, Labels{Ours: "ours", Orig: "orig", Theirs: "theirs"})
	require.NoError(t, err)
	require.True(t, res.Conflicted)
	require.NotEmpty(t, res.Content, "conflicted merges still write content")
	require.True(t, strings.Contains(string(res.Content), "<<<<<<<"))
	require.True(t, strings.Contains(string(res.Content), "ours"))
	require.True(t, strings.Contains(string(res.Content), "theirs"))
}

func TestMergeIdenticalSides(t *testing.T) {
	content := []byte("same\n")
	res, err := Merge(content, content, content, Labels{})
	require.NoError(t, err)
	require.False(t, res.Conflicted)
	require.Equal(t, content, res.Content)
}
