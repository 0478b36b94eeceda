package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/openspec-loop/internal/beads"
	"github.com/thruflo/openspec-loop/internal/config"
	"github.com/thruflo/openspec-loop/internal/logging"
	"github.com/thruflo/openspec-loop/internal/testutil"
)

// useGateway swaps the backend for the duration of a test.
func useGateway(t *testing.T, gw beads.Gateway) {
	t.Helper()
	prev := newGateway
	newGateway = func(string, *config.Config, *logging.Logger) beads.Gateway { return gw }
	t.Cleanup(func() { newGateway = prev })
}

// writeConfig writes a project config file under dir.
func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	path := config.Path(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

// hookConfig selects the stop-hook host with notifications off.
const hookConfig = testutil.HookConfig
