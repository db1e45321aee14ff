// Package integration contains end-to-end tests for dupscan.
//
// These tests build the dupscan binary and run it against small repositories
// written to temp directories, checking exit codes, report formats and that
// repeated runs agree.
package integration

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guard = `    if value is None: return False
    if value < 0: return False
    if value > 100: return False
    return True
`

// sampleRepo is a small mixed-language tree with one duplicated block in
// three files, one exact constant duplicate and a word-order pair.
var sampleRepo = map[string]string{
	"app/orders.py":   "def check_order(value):\n" + guard + "\nAPI_TIMEOUT = 30\n",
	"app/invoices.py": "def check_invoice(value):\n" + guard + "\nTIMEOUT_API = 30\n",
	"lib/shared.py":   "def check_shared(value):\n" + guard,
	"web/a.js":        "const MAX_RETRIES = 5;\n",
	"web/b.js":        "export const MAX_RETRIES = 3;\n",
	"README.md":       "not scanned\n",
}

// repoRoot returns the dupscan repository root directory.
func repoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	// test/integration/scan_test.go -> repo root
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

// buildBinary compiles dupscan into a temp directory.
func buildBinary(t *testing.T) string {
	t.Helper()
	binary := filepath.Join(t.TempDir(), "dupscan-test")
	cmd := exec.Command("go", "build", "-o", binary, "./cmd/dupscan") //nolint:gosec // test helper
	cmd.Dir = repoRoot(t)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "go build failed:\n%s", out)
	return binary
}

func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

// run executes the binary with an isolated global config and returns stdout
// and the process exit code.
func run(t *testing.T, binary string, args ...string) ([]byte, int) {
	t.Helper()
	cmd := exec.Command(binary, args...) //nolint:gosec // test helper
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+t.TempDir())
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, exitErr.ExitCode()
	}
	require.NoError(t, err)
	return out, 0
}

type report struct {
	Violations []map[string]any `json:"violations"`
	Metadata   map[string]any   `json:"metadata"`
}

func scanJSON(t *testing.T, binary, root string, extra ...string) (report, int) {
	t.Helper()
	args := append([]string{"scan", root, "--min-lines", "4", "--min-tokens", "10", "-f", "json", "-q"}, extra...)
	out, code := run(t, binary, args...)
	var r report
	require.NoError(t, json.Unmarshal(out, &r), "invalid JSON:\n%s", out)
	return r, code
}

func categories(r report) map[string]int {
	out := make(map[string]int)
	for _, v := range r.Violations {
		out[v["rule_category"].(string)]++
	}
	return out
}

func TestScan_SampleRepo(t *testing.T) {
	binary := buildBinary(t)
	root := writeRepo(t, sampleRepo)

	r, code := scanJSON(t, binary, root)
	assert.Equal(t, 1, code)
	assert.Equal(t, map[string]int{
		"duplicate-code":     1,
		"duplicate-constant": 1,
		"similar-constant":   1,
	}, categories(r))
	assert.InDelta(t, 3, r.Metadata["total_count"], 0)

	for _, v := range r.Violations {
		if v["rule_category"] == "duplicate-code" {
			primary := v["primary_location"].(map[string]any)
			assert.Equal(t, "app/invoices.py", primary["file"])
			assert.Len(t, v["related_locations"], 2)
		}
	}
}

func TestScan_Idempotent(t *testing.T) {
	binary := buildBinary(t)
	root := writeRepo(t, sampleRepo)

	first, _ := scanJSON(t, binary, root, "--workers", "4")
	second, _ := scanJSON(t, binary, root, "--workers", "1")
	assert.Equal(t, first.Violations, second.Violations)
	assert.NotEqual(t, first.Metadata["run_id"], second.Metadata["run_id"], "each run has its own ID")
}

func TestScan_StorageModesAgree(t *testing.T) {
	binary := buildBinary(t)
	root := writeRepo(t, sampleRepo)

	mem, _ := scanJSON(t, binary, root, "--storage", "memory")
	disk, _ := scanJSON(t, binary, root, "--storage", "tempfile", "--hash", "blake3", "--verify-snippets")
	assert.Equal(t, mem.Violations, disk.Violations)
}

func TestScan_SARIFValidity(t *testing.T) {
	binary := buildBinary(t)
	root := writeRepo(t, sampleRepo)

	out, code := run(t, binary, "scan", root, "--min-lines", "4", "--min-tokens", "10", "-f", "sarif", "-q")
	assert.Equal(t, 1, code)

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []map[string]any `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	assert.Len(t, doc.Runs[0].Results, 3)
}

func TestScan_OutputFile(t *testing.T) {
	binary := buildBinary(t)
	root := writeRepo(t, sampleRepo)
	dest := filepath.Join(t.TempDir(), "report.json")

	out, code := run(t, binary, "scan", root, "-f", "json", "-o", dest, "-q", "--no-constants")
	assert.Equal(t, 0, code, "default thresholds find no six-line block")
	assert.Empty(t, out)

	data, err := os.ReadFile(dest) //nolint:gosec // test path
	require.NoError(t, err)
	var r report
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Empty(t, r.Violations)
}

func TestScan_SuppressionDirective(t *testing.T) {
	binary := buildBinary(t)
	root := writeRepo(t, map[string]string{
		"a.py": "API_TIMEOUT = 30  # dupscan:ignore[similar-constant]\n",
		"b.py": "TIMEOUT_API = 60  # dupscan:ignore[similar-constant]\n",
	})

	r, code := scanJSON(t, binary, root)
	assert.Equal(t, 0, code)
	assert.Empty(t, r.Violations)
}

func TestScan_GitignoreAndTrackedOnly(t *testing.T) {
	binary := buildBinary(t)
	files := map[string]string{
		".gitignore":   "build/\n",
		"a.py":         "def a(value):\n" + guard,
		"build/b.py":   "def b(value):\n" + guard,
		"scratch/c.py": "def c(value):\n" + guard,
	}
	root := writeRepo(t, files)

	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("a.py")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	r, code := scanJSON(t, binary, root)
	assert.Equal(t, 1, code, "a.py and scratch/c.py duplicate each other")
	assert.Len(t, r.Violations, 1)

	_, code = scanJSON(t, binary, root, "--no-gitignore", "--min-occurrences", "3")
	assert.Equal(t, 1, code, "build/ counts once .gitignore is off")

	_, code = scanJSON(t, binary, root, "--tracked-only")
	assert.Equal(t, 0, code, "only a.py is tracked")
}

func TestScan_ErrorMessages(t *testing.T) {
	binary := buildBinary(t)
	root := writeRepo(t, sampleRepo)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing root", []string{"scan", filepath.Join(root, "nope")}, 2},
		{"bad format", []string{"scan", root, "-f", "xml"}, 2},
		{"bad threshold", []string{"scan", root, "--min-occurrences", "1"}, 2},
		{"unknown flag", []string{"scan", root, "--bogus"}, 2},
		{"storage failure", []string{"scan", root, "--storage", "tempfile", "--config", writeStorageConfig(t)}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binary, tt.args...) //nolint:gosec // test helper
			cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+t.TempDir())
			out, err := cmd.CombinedOutput()
			var exitErr *exec.ExitError
			require.True(t, errors.As(err, &exitErr), "expected failure, got:\n%s", out)
			assert.Equal(t, tt.code, exitErr.ExitCode())
			assert.NotEmpty(t, out)
		})
	}
}

// writeStorageConfig returns a config file whose temp_dir does not exist.
func writeStorageConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "dupscan.yaml")
	content := "temp_dir: " + filepath.Join(dir, "missing") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateCommand(t *testing.T) {
	binary := buildBinary(t)
	good := writeRepo(t, map[string]string{".dupscan.yaml": "min_occurrences: 3\n"})
	bad := writeRepo(t, map[string]string{".dupscan.yaml": "hash_algorithm: md5\n"})

	out, code := run(t, binary, "validate", good)
	assert.Equal(t, 0, code)
	assert.Contains(t, string(out), "config ok")

	_, code = run(t, binary, "validate", bad)
	assert.Equal(t, 2, code)
}
