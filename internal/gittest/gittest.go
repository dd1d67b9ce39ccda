// Package gittest builds throwaway git repositories for
// tests.
package gittest

import (
	"context"
	"os"
	oe "os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// InitRepo creates a git repository in dir with one
// initial commit. Hooks are disabled so pre-commit
// scanners do not interfere with tests.
func InitRepo(tb testing.TB, dir string) {
	tb.Helper()

	cmds := [][]string{
		{"init", "-b", "main"},
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test"},
		{"config", "core.hooksPath", "/dev/null"},
		{"config", "commit.gpgsign", "false"},
		{"commit", "--allow-empty", "-m", "initial"},
	}

	for _, args := range cmds {
		Run(tb, dir, args...)
	}
}

// Isolate points git at an empty global configuration and
// provides a commit identity through the environment, so
// repositories created by the code under test can commit.
// It uses t.Setenv and therefore cannot be combined with
// t.Parallel.
func Isolate(t *testing.T) {
	t.Helper()

	cfg := filepath.Join(t.TempDir(), "gitconfig")

	content := "[commit]\n\tgpgsign = false\n" +
		"[core]\n\thooksPath = /dev/null\n" +
		"[init]\n\tdefaultBranch = main\n"

	if err := os.WriteFile(cfg, []byte(content), 0o600); err != nil {
		t.Fatalf("writing git config: %v", err)
	}

	t.Setenv("GIT_CONFIG_GLOBAL", cfg)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "Test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@test.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@test.com")
}

// WriteFile writes content to path relative to dir,
// creating parent directories.
func WriteFile(tb testing.TB, dir, path, content string) {
	tb.Helper()

	full := filepath.Join(dir, path)

	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		tb.Fatalf("creating directory for %s: %v", path, err)
	}

	if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
		tb.Fatalf("writing %s: %v", path, err)
	}
}

// Run runs a git command in dir and returns its trimmed
// output, failing the test on error.
func Run(tb testing.TB, dir string, args ...string) string {
	tb.Helper()

	//nolint:gosec // test helper
	cmd := oe.CommandContext(context.Background(), "git", args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		tb.Fatalf("git %v failed: %s: %v", args, string(out), err)
	}

	return strings.TrimSpace(string(out))
}
