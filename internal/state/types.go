package state

import "encoding/json"

// LoopState is the controller's persisted record, one per working directory.
// Keys written by other tools are kept and written back on save.
type LoopState struct {
	Active         bool     `json:"active"`
	Iteration      int      `json:"iteration"`
	MaxIterations  int      `json:"max_iterations"`
	CurrentTask    string   `json:"current_task,omitempty"`
	StuckCount     int      `json:"stuck_count"`
	VerifyCommands []string `json:"verify_commands"`
	BlockedReason  string   `json:"blocked_reason,omitempty"`
	StuckReason    string   `json:"stuck_reason,omitempty"`

	extra map[string]json.RawMessage
}

// loopStateFields has the same fields as LoopState without its JSON methods.
type loopStateFields LoopState

var knownKeys = []string{
	"active", "iteration", "max_iterations", "current_task",
	"stuck_count", "verify_commands", "blocked_reason", "stuck_reason",
}

// UnmarshalJSON decodes the known fields and keeps every other key verbatim.
func (s *LoopState) UnmarshalJSON(data []byte) error {
	var known loopStateFields
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range knownKeys {
		delete(all, k)
	}

	*s = LoopState(known)
	s.extra = nil
	if len(all) > 0 {
		s.extra = all
	}
	return nil
}

// MarshalJSON encodes the known fields followed by any kept keys.
func (s LoopState) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(loopStateFields(s))
	if err != nil || len(s.extra) == 0 {
		return data, err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k, v := range s.extra {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}
	return json.Marshal(all)
}

// BudgetExhausted reports whether a positive iteration ceiling has been reached.
// A ceiling of zero or less is unbounded.
func (s *LoopState) BudgetExhausted() bool {
	return s.MaxIterations > 0 && s.Iteration >= s.MaxIterations
}

// Clone returns a deep copy so callers can mutate without aliasing VerifyCommands.
func (s LoopState) Clone() LoopState {
	if s.VerifyCommands != nil {
		s.VerifyCommands = append([]string(nil), s.VerifyCommands...)
	}
	if s.extra != nil {
		extra := make(map[string]json.RawMessage, len(s.extra))
		for k, v := range s.extra {
			extra[k] = v
		}
		s.extra = extra
	}
	return s
}

// Reasons recorded when the loop deactivates itself.
const (
	ReasonBackendMissing = "backend not installed"
	ReasonAllBlocked     = "All tasks blocked"
)
