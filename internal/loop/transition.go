package loop

import (
	"fmt"

	"github.com/thruflo/openspec-loop/internal/beads"
	"github.com/thruflo/openspec-loop/internal/logging"
	"github.com/thruflo/openspec-loop/internal/state"
)

// Outcome is the state the controller ends an invocation in.
type Outcome int

const (
	OutcomeIdle           Outcome = iota // Loop inactive or not configured
	OutcomeDispatch                      // Instruction sent for the next task
	OutcomeComplete                      // Every epic closed
	OutcomeBlocked                       // Remaining work is all blocked
	OutcomeMaxIterations                 // Iteration ceiling reached
	OutcomeBackendMissing                // Task backend not installed
	OutcomeWaiting                       // Nothing ready right now
)

// String returns a human-readable description of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeDispatch:
		return "dispatched"
	case OutcomeComplete:
		return "complete"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeMaxIterations:
		return "max iterations"
	case OutcomeBackendMissing:
		return "backend missing"
	case OutcomeWaiting:
		return "waiting"
	default:
		return "unknown"
	}
}

// Stopped reports whether the outcome deactivates the loop.
func (o Outcome) Stopped() bool {
	switch o {
	case OutcomeComplete, OutcomeBlocked, OutcomeMaxIterations, OutcomeBackendMissing:
		return true
	}
	return false
}

// Snapshot is what the backend reported during one invocation.
// Fields the policy never needed are left empty.
type Snapshot struct {
	BackendAvailable bool
	Ready            []beads.Task
	InProgress       []beads.Task
	Epics            []beads.Epic
	Blocked          []beads.Task
	Parent           *beads.Issue // lookup of Ready[0].Parent, if any
}

// Decision describes what Transition chose and what should be reported.
type Decision struct {
	Outcome  Outcome
	Task     *beads.Task
	ChangeID string
	ParentID string
	Level    logging.Level
	Message  string
}

// Persist reports whether the decision changed state that must be saved.
func (d Decision) Persist() bool {
	return d.Outcome == OutcomeDispatch || d.Outcome.Stopped()
}

// BackendMissingMessage is logged when the backend binary cannot be found.
const BackendMissingMessage = "OpenSpec loop requires bd (Beads). Install: npm install -g @beads/bd"

// Transition applies the loop policy. It never mutates its inputs.
func Transition(st state.LoopState, snap Snapshot) (state.LoopState, Decision) {
	next := st.Clone()

	if !st.Active {
		return next, Decision{Outcome: OutcomeIdle}
	}

	if !snap.BackendAvailable {
		next.Active = false
		next.BlockedReason = state.ReasonBackendMissing
		return next, Decision{
			Outcome: OutcomeBackendMissing,
			Level:   logging.LevelError,
			Message: BackendMissingMessage,
		}
	}

	if st.BudgetExhausted() {
		next.Active = false
		return next, Decision{
			Outcome: OutcomeMaxIterations,
			Level:   logging.LevelInfo,
			Message: fmt.Sprintf("Max iterations (%d) reached. Stopping loop.", st.MaxIterations),
		}
	}

	if len(snap.Ready) == 0 && len(snap.InProgress) == 0 {
		if len(beads.Incomplete(snap.Epics)) == 0 {
			next.Active = false
			return next, Decision{Outcome: OutcomeComplete, Level: logging.LevelInfo}
		}
		if len(snap.Blocked) > 0 {
			next.Active = false
			next.StuckReason = state.ReasonAllBlocked
			return next, Decision{
				Outcome: OutcomeBlocked,
				Level:   logging.LevelWarn,
				Message: fmt.Sprintf("%d tasks blocked, no ready tasks. Stopping.", len(snap.Blocked)),
			}
		}
		// Epics still open with nothing ready, claimed or blocked: the backend
		// may be between consistent views, so fall through and wait.
	}

	task := firstReady(snap)
	if task == nil {
		msg := "No work found."
		if len(snap.InProgress) > 0 {
			msg = fmt.Sprintf("No ready tasks, %d in progress.", len(snap.InProgress))
		}
		return next, Decision{Outcome: OutcomeWaiting, Level: logging.LevelInfo, Message: msg}
	}

	var changeID string
	if task.Parent != "" && snap.Parent != nil {
		changeID = snap.Parent.Title
	}

	next.Iteration++
	next.CurrentTask = task.ID

	label := ""
	if changeID != "" {
		label = " (" + changeID + ")"
	}

	return next, Decision{
		Outcome:  OutcomeDispatch,
		Task:     task,
		ChangeID: changeID,
		ParentID: task.Parent,
		Level:    logging.LevelInfo,
		Message: fmt.Sprintf("Iteration %d | Ready: %d | In Progress: %d | Task: %s%s",
			next.Iteration, len(snap.Ready), len(snap.InProgress), task.ID, label),
	}
}

// firstReady returns the backend's top-priority ready task.
func firstReady(snap Snapshot) *beads.Task {
	if len(snap.Ready) == 0 {
		return nil
	}
	t := snap.Ready[0]
	return &t
}

// needsBlocked reports whether the blocked query can affect the decision.
func needsBlocked(snap Snapshot) bool {
	return len(snap.Ready) == 0 && len(snap.InProgress) == 0 && len(beads.Incomplete(snap.Epics)) > 0
}

// CompletionSummary renders the message logged when every epic is closed.
func CompletionSummary(stats, progress string, hasProgress bool) string {
	summary := "OpenSpec Loop Complete (Beads)!\n\n"
	summary += "Beads Summary:\n" + stats + "\n\n"
	if hasProgress {
		summary += "Progress:\n" + progress
	}
	return summary
}
