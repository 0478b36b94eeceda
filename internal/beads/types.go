package beads

// Task is a read-only snapshot of a bd issue.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Parent    string `json:"parent,omitempty"`
	Priority  int    `json:"priority,omitempty"`
	IssueType string `json:"issue_type,omitempty"`
}

// Epic is a read-only snapshot of an epic. Its title holds the change id.
type Epic struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// Issue is the result of looking an entity up by id.
type Issue struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
	Parent string `json:"parent,omitempty"`
}

// StatusClosed marks an issue as finished.
const StatusClosed = "closed"

// Incomplete returns the epics that are not closed.
func Incomplete(epics []Epic) []Epic {
	out := make([]Epic, 0, len(epics))
	for _, e := range epics {
		if e.Status != StatusClosed {
			out = append(out, e)
		}
	}
	return out
}
