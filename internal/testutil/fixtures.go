package testutil

import (
	"github.com/thruflo/openspec-loop/internal/beads"
	"github.com/thruflo/openspec-loop/internal/state"
)

// SampleChangeID is the OpenSpec change the sample epic tracks.
const SampleChangeID = "add-retries"

// SampleEpicID identifies the sample epic.
const SampleEpicID = "bd-epic-1"

// SampleEpic returns an open epic whose title is the sample change id.
func SampleEpic() beads.Epic {
	return beads.Epic{ID: SampleEpicID, Title: SampleChangeID, Status: "open"}
}

// SampleTasks returns ready tasks under the sample epic, highest priority first.
// Returns a new slice each time to prevent test interference.
func SampleTasks() []beads.Task {
	return []beads.Task{
		{ID: "bd-7", Title: "Add retry to HTTP client", Status: "open", Parent: SampleEpicID, Priority: 1},
		{ID: "bd-8", Title: "Document retry settings", Status: "open", Parent: SampleEpicID, Priority: 2},
		{ID: "bd-9", Title: "Add retry metrics", Status: "open", Parent: SampleEpicID, Priority: 3},
	}
}

// SampleLoopState returns an active loop that has not run yet.
func SampleLoopState() *state.LoopState {
	return &state.LoopState{
		Active:         true,
		MaxIterations:  10,
		VerifyCommands: []string{"go test ./..."},
	}
}
