// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const guardSource = `def check(value):
    if value is None: return False
    if value < 0: return False
    if value > 100: return False
    return True
`

// resetFlags restores every package-level flag to its default so tests that
// run the cobra tree do not leak state into each other.
func resetFlags() {
	for _, fs := range []*pflag.FlagSet{
		scanCmd.Flags(),
		configCmd.PersistentFlags(),
		rootCmd.PersistentFlags(),
		rootCmd.Flags(),
	} {
		fs.VisitAll(func(f *pflag.Flag) {
			f.Changed = false
			_ = f.Value.Set(f.DefValue)
		})
	}
	// StringSlice.Set("[]") appends a literal entry, so clear it afterwards.
	scanExclude = nil
}

// isolateGlobalConfig points the global config lookup at an empty directory.
func isolateGlobalConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

// execute runs the root command with args and returns stdout, stderr and the
// error cobra returned.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// exitCode extracts the exit status main would use for err.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ece *exitCodeError
	if errors.As(err, &ece) {
		return ece.ExitCode()
	}
	return ExitInvalidArgs
}
