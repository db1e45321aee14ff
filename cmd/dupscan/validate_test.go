package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	isolateGlobalConfig(t)
	out, _, err := execute(t, "validate", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "config ok: defaults\n", out)
}

func TestValidate_RepoConfig(t *testing.T) {
	isolateGlobalConfig(t)
	dir := writeFiles(t, map[string]string{".dupscan.yml": "min_occurrences: 3\n"})

	out, _, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Equal(t, "config ok: "+filepath.Join(dir, ".dupscan.yml")+"\n", out)
}

func TestValidate_ExplicitFile(t *testing.T) {
	isolateGlobalConfig(t)
	dir := writeFiles(t, map[string]string{"ci/dupscan.toml": "hash_algorithm = \"blake3\"\n"})
	path := filepath.Join(dir, "ci", "dupscan.toml")

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Equal(t, "config ok: "+path+"\n", out)
}

func TestValidate_ListsEveryProblem(t *testing.T) {
	isolateGlobalConfig(t)
	dir := writeFiles(t, map[string]string{
		".dupscan.yaml": "min_occurrences: 1\nstorage_mode: disk\nworkers: -1\n",
	})

	_, _, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
	assert.Contains(t, err.Error(), "min_occurrences")
	assert.Contains(t, err.Error(), "storage_mode")
	assert.Contains(t, err.Error(), "workers")
}

func TestValidate_MissingPath(t *testing.T) {
	_, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
	assert.Contains(t, err.Error(), "cannot open")
}
