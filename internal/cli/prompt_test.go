package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/openspec-loop/internal/beads"
	"github.com/thruflo/openspec-loop/internal/prompt"
)

func TestRenderPrompt(t *testing.T) {
	t.Parallel()

	gw := beads.NewFakeGateway()
	gw.AddEpic(beads.Epic{ID: "bd-epic-1", Title: "add-retries", Status: "open"})
	gw.Issues["bd-7"] = beads.Issue{ID: "bd-7", Title: "Add retry", Status: "open", Parent: "bd-epic-1"}

	var buf bytes.Buffer
	err := renderPrompt(context.Background(), &buf, gw, "bd-7", []string{"make test"})
	require.NoError(t, err)

	want := prompt.Build(beads.Task{ID: "bd-7", Title: "Add retry", Status: "open", Parent: "bd-epic-1"},
		"add-retries", "bd-epic-1", []string{"make test"})
	assert.Equal(t, want+"\n", buf.String())
}

func TestRenderPrompt_NoParent(t *testing.T) {
	t.Parallel()

	gw := beads.NewFakeGateway()
	gw.Issues["bd-1"] = beads.Issue{ID: "bd-1", Title: "Loose end"}

	var buf bytes.Buffer
	require.NoError(t, renderPrompt(context.Background(), &buf, gw, "bd-1", nil))
	assert.NotContains(t, buf.String(), "Change:")
	assert.Equal(t, 1, countCalls(gw, "lookup"))
}

func TestRenderPrompt_Errors(t *testing.T) {
	t.Parallel()

	gw := beads.NewFakeGateway()
	err := renderPrompt(context.Background(), &bytes.Buffer{}, gw, "bd-404", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bd-404 not found")

	gw.Missing = true
	err = renderPrompt(context.Background(), &bytes.Buffer{}, gw, "bd-1", nil)
	assert.Error(t, err)
}

func TestPromptCommand_RequiresTaskID(t *testing.T) {
	assert.Error(t, promptCmd.Args(promptCmd, []string{}))
	assert.NoError(t, promptCmd.Args(promptCmd, []string{"bd-1"}))
}

func countCalls(gw *beads.FakeGateway, op string) int {
	n := 0
	for _, c := range gw.Calls() {
		if c == op {
			n++
		}
	}
	return n
}
