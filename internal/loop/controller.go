package loop

import (
	"context"
	"fmt"

	"github.com/thruflo/openspec-loop/internal/beads"
	"github.com/thruflo/openspec-loop/internal/host"
	"github.com/thruflo/openspec-loop/internal/logging"
	"github.com/thruflo/openspec-loop/internal/notify"
	"github.com/thruflo/openspec-loop/internal/prompt"
	"github.com/thruflo/openspec-loop/internal/state"
)

// StateStore abstracts loop state persistence for testability.
// *state.Store satisfies this interface.
type StateStore interface {
	Load() (*state.LoopState, error)
	Save(st *state.LoopState) error
	LoadProgress() (string, bool)
}

// Controller runs one loop step per idle signal.
type Controller struct {
	store       StateStore
	gateway     beads.Gateway
	host        host.Host
	notifier    notify.Sender
	service     string
	notifyTitle string
	log         *logging.Logger
}

// Options holds the dependencies of a Controller.
type Options struct {
	Store       StateStore
	Gateway     beads.Gateway
	Host        host.Host
	Notifier    notify.Sender // nil disables notifications
	Service     string        // service name for host log entries
	NotifyTitle string
	Logger      *logging.Logger
}

// NewController creates a Controller.
func NewController(opts Options) *Controller {
	c := &Controller{
		store:       opts.Store,
		gateway:     opts.Gateway,
		host:        opts.Host,
		notifier:    opts.Notifier,
		service:     opts.Service,
		notifyTitle: opts.NotifyTitle,
		log:         opts.Logger,
	}
	if c.notifier == nil {
		c.notifier = notify.Discard{}
	}
	if c.service == "" {
		c.service = "openspec-loop"
	}
	if c.notifyTitle == "" {
		c.notifyTitle = "OpenCode"
	}
	if c.log == nil {
		c.log = logging.Default()
	}
	return c
}

// HandleIdle evaluates the loop for one idle signal from sessionID.
// It returns an error only when state cannot be saved or the instruction
// cannot be dispatched; backend trouble never surfaces here.
func (c *Controller) HandleIdle(ctx context.Context, sessionID string) (Decision, error) {
	st, err := c.store.Load()
	if err != nil {
		c.log.Debug("state unreadable, treating loop as not configured", "error", err)
		return Decision{Outcome: OutcomeIdle}, nil
	}
	if st == nil || !st.Active {
		return Decision{Outcome: OutcomeIdle}, nil
	}

	snap := c.snapshot(ctx, st)
	next, d := Transition(*st, snap)
	c.log.Debug("loop decision", "outcome", d.Outcome.String(), "iteration", next.Iteration)

	if d.Persist() {
		if err := c.store.Save(&next); err != nil {
			return d, fmt.Errorf("failed to save loop state: %w", err)
		}
	}

	switch d.Outcome {
	case OutcomeComplete:
		progress, ok := c.store.LoadProgress()
		d.Message = CompletionSummary(c.gateway.Stats(ctx), progress, ok)
		c.report(ctx, d)
		if err := c.notifier.Notify(ctx, c.notifyTitle, notify.CompletionMessage); err != nil {
			c.log.Warn("completion notification failed", "error", err)
		}

	case OutcomeDispatch:
		c.report(ctx, d)
		text := prompt.Build(*d.Task, d.ChangeID, d.ParentID, next.VerifyCommands)
		if err := c.host.Dispatch(ctx, sessionID, text); err != nil {
			return d, fmt.Errorf("failed to dispatch %s: %w", d.Task.ID, err)
		}

	default:
		c.report(ctx, d)
	}

	return d, nil
}

// snapshot queries the backend only as far as the policy can use the answers.
func (c *Controller) snapshot(ctx context.Context, st *state.LoopState) Snapshot {
	snap := Snapshot{BackendAvailable: c.gateway.Available(ctx)}
	if !snap.BackendAvailable || st.BudgetExhausted() {
		return snap
	}

	snap.Ready = c.gateway.Ready(ctx)
	snap.InProgress = c.gateway.InProgress(ctx)
	snap.Epics = c.gateway.Epics(ctx)

	if needsBlocked(snap) {
		snap.Blocked = c.gateway.Blocked(ctx)
	}

	if t := firstReady(snap); t != nil && t.Parent != "" {
		snap.Parent = c.gateway.Lookup(ctx, t.Parent)
	}

	return snap
}

// report sends the decision's message to the host log.
// Host failures are logged locally and otherwise ignored.
func (c *Controller) report(ctx context.Context, d Decision) {
	if d.Message == "" {
		return
	}
	entry := host.Entry{Service: c.service, Level: d.Level, Message: d.Message}
	if err := c.host.Log(ctx, entry); err != nil {
		c.log.Warn("host log failed", "error", err)
	}
}
