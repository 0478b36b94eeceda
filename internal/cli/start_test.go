package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/openspec-loop/internal/state"
)

func TestStartCommand_Flags(t *testing.T) {
	flag := startCmd.Flags().Lookup("max-iterations")
	require.NotNil(t, flag)
	assert.Equal(t, "25", flag.DefValue)
	require.NotNil(t, startCmd.Flags().Lookup("verify"))
	assert.Error(t, startCmd.Args(startCmd, []string{"extra"}))
}

func TestStartLoop_NewState(t *testing.T) {
	t.Parallel()
	store := state.NewStore(t.TempDir())

	st, err := startLoop(store, startOptions{})
	require.NoError(t, err)

	assert.True(t, st.Active)
	assert.Equal(t, DefaultMaxIterations, st.MaxIterations)
	assert.Equal(t, []string{}, st.VerifyCommands)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, st, loaded)
}

func TestStartLoop_RestartsExisting(t *testing.T) {
	t.Parallel()
	store := state.NewStore(t.TempDir())
	require.NoError(t, store.Save(&state.LoopState{
		Active:         false,
		Iteration:      7,
		MaxIterations:  40,
		CurrentTask:    "bd-3",
		StuckCount:     1,
		VerifyCommands: []string{"make test"},
		BlockedReason:  "backend not installed",
		StuckReason:    "All tasks blocked",
	}))

	st, err := startLoop(store, startOptions{})
	require.NoError(t, err)

	assert.Equal(t, &state.LoopState{
		Active:         true,
		MaxIterations:  40,
		VerifyCommands: []string{"make test"},
	}, st)
}

func TestStartLoop_Overrides(t *testing.T) {
	t.Parallel()
	store := state.NewStore(t.TempDir())
	require.NoError(t, store.Save(&state.LoopState{MaxIterations: 40, VerifyCommands: []string{"make test"}}))

	unbounded := 0
	st, err := startLoop(store, startOptions{
		MaxIterations: &unbounded,
		Verify:        []string{"go test ./...", "go vet ./..."},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, st.MaxIterations)
	assert.Equal(t, []string{"go test ./...", "go vet ./..."}, st.VerifyCommands)
}

func TestPrintStarted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printStarted(&buf, &state.LoopState{MaxIterations: 0, VerifyCommands: []string{"a", "b"}})

	out := buf.String()
	assert.Contains(t, out, "OpenSpec loop started.")
	assert.Contains(t, out, "unbounded")
	assert.Contains(t, out, "a && b")
}
