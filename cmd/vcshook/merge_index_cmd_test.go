package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitops-tools/vcshook/internal/objstore"
)

func TestRunInProcessAllNoOpOnCleanIndex(t *testing.T) {
	dir := initRepo(t)
	repo, err := objstore.Open(dir)
	require.NoError(t, err)

	mergeIndexAll = true
	mergeIndexOneshot = false
	mergeIndexQuiet = false
	defer func() {
		mergeIndexAll, mergeIndexOneshot, mergeIndexQuiet = false, false, false
	}()

	require.NoError(t, runInProcess(repo, nil))
}

func TestRunExternalProgramAllNoOpOnCleanIndex(t *testing.T) {
	dir := initRepo(t)
	repo, err := objstore.Open(dir)
	require.NoError(t, err)

	mergeIndexAll = true
	mergeIndexOneshot = false
	mergeIndexQuiet = false
	defer func() {
		mergeIndexAll, mergeIndexOneshot, mergeIndexQuiet = false, false, false
	}()

	require.NoError(t, runExternalProgram(repo, "true", nil))
}

func TestRunInProcessPathListNoOpWhenNothingUnmerged(t *testing.T) {
	dir := initRepo(t)
	repo, err := objstore.Open(dir)
	require.NoError(t, err)

	mergeIndexAll = false
	mergeIndexOneshot = true
	mergeIndexQuiet = true
	defer func() {
		mergeIndexAll, mergeIndexOneshot, mergeIndexQuiet = false, false, false
	}()

	require.NoError(t, runInProcess(repo, []string{"nonexistent.txt"}))
}

