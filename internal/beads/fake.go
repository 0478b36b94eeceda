package beads

import (
	"context"
	"sync"
)

// FakeGateway implements Gateway with canned in-memory fixtures.
// It records which queries were issued so tests can assert on laziness.
// This fake is exported for use by tests in other packages.
type FakeGateway struct {
	mu sync.Mutex

	Missing     bool
	ReadyList   []Task
	InProgList  []Task
	EpicList    []Epic
	BlockedList []Task
	StatsText   string
	Issues      map[string]Issue

	calls []string
}

// NewFakeGateway returns an available backend with no work.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		StatsText: "Total: 0",
		Issues:    make(map[string]Issue),
	}
}

func (f *FakeGateway) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
}

// Calls returns the queries issued so far, in order.
func (f *FakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Called reports whether op was queried.
func (f *FakeGateway) Called(op string) bool {
	for _, c := range f.Calls() {
		if c == op {
			return true
		}
	}
	return false
}

// AddEpic registers an epic both in the epic list and for lookup.
func (f *FakeGateway) AddEpic(e Epic) {
	f.EpicList = append(f.EpicList, e)
	f.Issues[e.ID] = Issue{ID: e.ID, Title: e.Title, Status: e.Status}
}

func (f *FakeGateway) Available(ctx context.Context) bool {
	f.record("available")
	return !f.Missing
}

func (f *FakeGateway) Ready(ctx context.Context) []Task {
	f.record("ready")
	return append([]Task{}, f.ReadyList...)
}

func (f *FakeGateway) InProgress(ctx context.Context) []Task {
	f.record("in_progress")
	return append([]Task{}, f.InProgList...)
}

func (f *FakeGateway) Epics(ctx context.Context) []Epic {
	f.record("epics")
	return append([]Epic{}, f.EpicList...)
}

func (f *FakeGateway) Blocked(ctx context.Context) []Task {
	f.record("blocked")
	return append([]Task{}, f.BlockedList...)
}

func (f *FakeGateway) Stats(ctx context.Context) string {
	f.record("stats")
	return f.StatsText
}

func (f *FakeGateway) Lookup(ctx context.Context, id string) *Issue {
	f.record("lookup")
	issue, ok := f.Issues[id]
	if !ok {
		return nil
	}
	return &issue
}
