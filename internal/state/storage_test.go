package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRaw(t *testing.T, store *Store, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(store.Dir(), 0o755))
	require.NoError(t, os.WriteFile(store.StatePath(), []byte(content), 0o644))
}

func TestStore_Paths(t *testing.T) {
	t.Parallel()

	store := NewStore("/work")
	assert.Equal(t, filepath.Join("/work", ".opencode", "openspec-loop.json"), store.StatePath())
	assert.Equal(t, filepath.Join("/work", ".opencode", "openspec-loop-progress.md"), store.ProgressPath())
}

func TestStore_Load_Absent(t *testing.T) {
	t.Parallel()

	st, err := NewStore(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestStore_Load_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `{"active": true, "iter`},
		{"not json", "active: true"},
		{"wrong type", `{"active": "yes"}`},
		{"empty", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := NewStore(t.TempDir())
			writeRaw(t, store, tt.content)

			st, err := store.Load()
			require.NoError(t, err)
			assert.Nil(t, st)
		})
	}
}

func TestStore_Load_FieldNames(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	writeRaw(t, store, `{
  "active": true,
  "iteration": 2,
  "max_iterations": 5,
  "current_task": "bd-3",
  "stuck_count": 1,
  "verify_commands": ["go test ./...", "go vet ./..."],
  "stuck_reason": "All tasks blocked"
}`)

	st, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.True(t, st.Active)
	assert.Equal(t, 2, st.Iteration)
	assert.Equal(t, 5, st.MaxIterations)
	assert.Equal(t, "bd-3", st.CurrentTask)
	assert.Equal(t, 1, st.StuckCount)
	assert.Equal(t, []string{"go test ./...", "go vet ./..."}, st.VerifyCommands)
	assert.Empty(t, st.BlockedReason)
	assert.Equal(t, ReasonAllBlocked, st.StuckReason)
}

func TestStore_Load_MissingVerifyCommands(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	writeRaw(t, store, `{"active": true, "iteration": 0, "max_iterations": 0}`)

	st, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.NotNil(t, st.VerifyCommands)
	assert.Empty(t, st.VerifyCommands)
}

func TestStore_Save_CreatesDirectory(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	store := NewStore(tmpDir)

	require.NoError(t, store.Save(&LoopState{Active: true, MaxIterations: 10}))

	st, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.True(t, st.Active)
	assert.Equal(t, 10, st.MaxIterations)
}

func TestStore_Save_OmitsEmptyOptionals(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(&LoopState{Active: true}))

	data, err := os.ReadFile(store.StatePath())
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, `"verify_commands": []`)
	assert.Contains(t, body, `"stuck_count": 0`)
	assert.NotContains(t, body, "current_task")
	assert.NotContains(t, body, "blocked_reason")
	assert.NotContains(t, body, "stuck_reason")
}

func TestStore_Save_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Save(&LoopState{Active: true, Iteration: i}))
	}

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "openspec-loop.json", entries[0].Name())

	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Iteration)
}

func TestStore_Save_FileMode(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(&LoopState{Active: true}))

	info, err := os.Stat(store.StatePath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestStore_Save_KeepsUnknownKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	writeRaw(t, store, `{
  "active": true,
  "iteration": 1,
  "max_iterations": 5,
  "stuck_count": 0,
  "verify_commands": [],
  "owner": "ci",
  "notes": {"last_run": 42}
}`)

	require.NoError(t, store.Update(func(st *LoopState) { st.Iteration = 2 }))

	data, err := os.ReadFile(store.StatePath())
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "ci", raw["owner"])
	assert.Equal(t, map[string]any{"last_run": float64(42)}, raw["notes"])
	assert.Equal(t, float64(2), raw["iteration"])
	assert.Equal(t, true, raw["active"])

	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Iteration)
	assert.Equal(t, 5, st.MaxIterations)
}

func TestStore_Update(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	err := store.Update(func(s *LoopState) { s.Active = false })
	assert.ErrorIs(t, err, ErrNoState)

	require.NoError(t, store.Save(&LoopState{Active: true, Iteration: 4}))
	require.NoError(t, store.Update(func(s *LoopState) { s.Active = false }))

	st, err := store.Load()
	require.NoError(t, err)
	assert.False(t, st.Active)
	assert.Equal(t, 4, st.Iteration)
}

func TestStore_LoadProgress(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	_, ok := store.LoadProgress()
	assert.False(t, ok)

	require.NoError(t, os.MkdirAll(store.Dir(), 0o755))
	require.NoError(t, os.WriteFile(store.ProgressPath(), []byte("- bd-1 done\n"), 0o644))

	notes, ok := store.LoadProgress()
	assert.True(t, ok)
	assert.Equal(t, "- bd-1 done\n", notes)
}

func TestLoopState_BudgetExhausted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		iteration int
		max       int
		want      bool
	}{
		{"unbounded zero", 100, 0, false},
		{"unbounded negative", 100, -1, false},
		{"below ceiling", 2, 3, false},
		{"at ceiling", 3, 3, true},
		{"past ceiling", 4, 3, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st := LoopState{Iteration: tt.iteration, MaxIterations: tt.max}
			assert.Equal(t, tt.want, st.BudgetExhausted())
		})
	}
}

func TestLoopState_Clone(t *testing.T) {
	t.Parallel()

	orig := LoopState{VerifyCommands: []string{"make test"}}
	cp := orig.Clone()
	cp.VerifyCommands[0] = "changed"
	assert.Equal(t, "make test", orig.VerifyCommands[0])
}
