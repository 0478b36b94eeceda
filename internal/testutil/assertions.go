package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/openspec-loop/internal/state"
)

// LoadLoopState loads the stored record, failing the test if it is absent.
func LoadLoopState(t *testing.T, store *state.Store) *state.LoopState {
	t.Helper()
	st, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, st, "loop state not found")
	return st
}

// AssertLoopActive asserts that the stored loop is active.
func AssertLoopActive(t *testing.T, store *state.Store) {
	t.Helper()
	assert.True(t, LoadLoopState(t, store).Active, "loop should be active")
}

// AssertLoopStopped asserts that the stored loop is inactive.
func AssertLoopStopped(t *testing.T, store *state.Store) {
	t.Helper()
	assert.False(t, LoadLoopState(t, store).Active, "loop should be stopped")
}

// AssertIteration asserts the stored iteration count.
func AssertIteration(t *testing.T, store *state.Store, expected int) {
	t.Helper()
	assert.Equal(t, expected, LoadLoopState(t, store).Iteration, "iteration mismatch")
}

// AssertStuck asserts the loop stopped with the given stuck reason.
func AssertStuck(t *testing.T, store *state.Store, reason string) {
	t.Helper()
	st := LoadLoopState(t, store)
	assert.False(t, st.Active, "loop should be stopped")
	assert.Equal(t, reason, st.StuckReason, "stuck reason mismatch")
}
