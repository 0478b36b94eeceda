package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/openspec-loop/internal/config"
	"github.com/thruflo/openspec-loop/internal/state"
)

// HookConfig selects the stop-hook host and disables desktop notifications,
// so test runs never touch a real server or display.
const HookConfig = `host:
  kind: hook
notify:
  enabled: false
`

// SetupTestDir creates a temporary project with the .opencode directory and
// a hook-host config. Returns the project path and a Store.
// The directory is automatically cleaned up when the test completes.
func SetupTestDir(t *testing.T) (string, *state.Store) {
	t.Helper()

	tmpDir := t.TempDir()
	store := state.NewStore(tmpDir)

	require.NoError(t, os.MkdirAll(store.Dir(), 0o755))
	require.NoError(t, os.WriteFile(config.Path(tmpDir), []byte(HookConfig), 0o644))

	return tmpDir, store
}

// FindProjectRoot walks up from the current directory to the module root.
func FindProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find module root (directory containing go.mod)")
		}
		dir = parent
	}
}

// MustMarshalJSON marshals a value to JSON, failing the test on error.
// Uses indented format for readability.
func MustMarshalJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	return data
}

// MustUnmarshalJSON unmarshals JSON data into v, failing the test on error.
func MustUnmarshalJSON(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v))
}

// WriteTestFile writes content to a file in the test directory.
// Creates parent directories as needed.
func WriteTestFile(t *testing.T, basePath, relativePath string, content []byte) {
	t.Helper()
	fullPath := filepath.Join(basePath, relativePath)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, content, 0o644))
}
