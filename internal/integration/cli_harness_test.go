//go:build e2e

// cli_harness_test.go provides a test harness for E2E testing of the
// openspec-loop CLI.
//
// The CLIHarness runs the binary built by TestMain in an isolated project
// directory with a controlled environment.
package integration

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/thruflo/openspec-loop/internal/state"
	"github.com/thruflo/openspec-loop/internal/testutil"
)

// CLIHarness runs openspec-loop commands against one test project.
type CLIHarness struct {
	// BinaryPath is the path to the built openspec-loop binary.
	BinaryPath string

	// WorkDir is the project directory commands run in.
	WorkDir string

	// Store reads and writes the project's loop state.
	Store *state.Store

	// EnvVars override the inherited environment for command execution.
	EnvVars map[string]string

	t *testing.T
}

// CLIResult contains the output from a CLI command execution.
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Success returns true if the command completed with exit code 0.
func (r *CLIResult) Success() bool {
	return r.ExitCode == 0 && r.Err == nil
}

// NewCLIHarness creates a project with a hook-host config. PATH holds only
// an empty directory, so bd is missing until UseBackend is called.
func NewCLIHarness(t *testing.T) *CLIHarness {
	t.Helper()

	workDir, store := testutil.SetupTestDir(t)
	emptyBin := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(emptyBin, 0o755); err != nil {
		t.Fatalf("failed to create bin dir: %v", err)
	}

	return &CLIHarness{
		BinaryPath: binaryPath,
		WorkDir:    workDir,
		Store:      store,
		EnvVars: map[string]string{
			"PATH":                emptyBin,
			"OPENCODE_SERVER_URL": "",
		},
		t: t,
	}
}

// UseBackend puts the fake bd on PATH, ahead of /bin for its shell.
func (h *CLIHarness) UseBackend(bd *testutil.FakeBD) {
	h.SetEnv("PATH", bd.BinDir()+string(os.PathListSeparator)+"/bin"+string(os.PathListSeparator)+"/usr/bin")
}

// SetEnv sets an environment variable for subsequent command executions.
func (h *CLIHarness) SetEnv(key, value string) {
	h.EnvVars[key] = value
}

// Run executes an openspec-loop command with the default timeout.
func (h *CLIHarness) Run(args ...string) *CLIResult {
	return h.RunWithInput("", args...)
}

// RunWithInput executes a command with stdin set to input.
func (h *CLIHarness) RunWithInput(input string, args ...string) *CLIResult {
	h.t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return h.RunWithContext(ctx, strings.NewReader(input), args...)
}

// RunWithContext executes a command with the given context and stdin.
func (h *CLIHarness) RunWithContext(ctx context.Context, stdin io.Reader, args ...string) *CLIResult {
	h.t.Helper()

	cmd := exec.CommandContext(ctx, h.BinaryPath, args...)
	cmd.Dir = h.WorkDir
	cmd.Env = h.buildEnv()
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &CLIResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		result.Err = err
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}

	return result
}

// buildEnv inherits the process environment, replacing overridden keys.
func (h *CLIHarness) buildEnv() []string {
	env := []string{}
	for _, e := range os.Environ() {
		key, _, _ := strings.Cut(e, "=")
		if _, overridden := h.EnvVars[key]; overridden {
			continue
		}
		env = append(env, e)
	}
	for k, v := range h.EnvVars {
		env = append(env, k+"="+v)
	}
	return env
}

// RequireSuccess fails the test if the command result indicates failure.
func (h *CLIHarness) RequireSuccess(result *CLIResult, msgAndArgs ...interface{}) {
	h.t.Helper()
	if !result.Success() {
		msg := "command failed"
		if len(msgAndArgs) > 0 {
			if s, ok := msgAndArgs[0].(string); ok {
				msg = s
			}
		}
		h.t.Fatalf("%s: exit=%d err=%v\nstdout: %s\nstderr: %s",
			msg, result.ExitCode, result.Err, result.Stdout, result.Stderr)
	}
}

// RequireFailure fails the test if the command result indicates success.
func (h *CLIHarness) RequireFailure(result *CLIResult, msgAndArgs ...interface{}) {
	h.t.Helper()
	if result.Success() {
		msg := "expected command to fail"
		if len(msgAndArgs) > 0 {
			if s, ok := msgAndArgs[0].(string); ok {
				msg = s
			}
		}
		h.t.Fatalf("%s: command succeeded unexpectedly\nstdout: %s\nstderr: %s",
			msg, result.Stdout, result.Stderr)
	}
}
