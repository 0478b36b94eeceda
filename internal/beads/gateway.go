package beads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/thruflo/openspec-loop/internal/logging"
)

// StatsPlaceholder is returned by Stats when the backend cannot report.
const StatsPlaceholder = "(unable to get stats)"

// DefaultStatsLines is how much of the stats report is kept by default.
const DefaultStatsLines = 10

// Gateway is the controller's view of the task backend.
// Implementations never return errors; failures degrade to empty values.
type Gateway interface {
	Available(ctx context.Context) bool
	Ready(ctx context.Context) []Task
	InProgress(ctx context.Context) []Task
	Epics(ctx context.Context) []Epic
	Blocked(ctx context.Context) []Task
	Stats(ctx context.Context) string
	Lookup(ctx context.Context, id string) *Issue
}

// CLI implements Gateway by shelling out to the bd binary.
type CLI struct {
	dir        string
	binary     string
	statsLines int
	runner     Runner
	lookPath   func(string) (string, error)
	log        *logging.Logger
}

// CLIOptions holds configuration for creating a CLI gateway.
type CLIOptions struct {
	Dir        string
	Binary     string // defaults to "bd"
	StatsLines int    // defaults to DefaultStatsLines
	Runner     Runner // defaults to ExecRunner
	LookPath   func(string) (string, error)
	Logger     *logging.Logger
}

// NewCLI creates a gateway bound to a working directory.
func NewCLI(opts CLIOptions) *CLI {
	c := &CLI{
		dir:        opts.Dir,
		binary:     opts.Binary,
		statsLines: opts.StatsLines,
		runner:     opts.Runner,
		lookPath:   opts.LookPath,
		log:        opts.Logger,
	}
	if c.binary == "" {
		c.binary = "bd"
	}
	if c.statsLines <= 0 {
		c.statsLines = DefaultStatsLines
	}
	if c.runner == nil {
		c.runner = ExecRunner{}
	}
	if c.lookPath == nil {
		c.lookPath = exec.LookPath
	}
	if c.log == nil {
		c.log = logging.Default()
	}
	return c
}

// Available reports whether the backend executable is on PATH.
func (c *CLI) Available(ctx context.Context) bool {
	_, err := c.lookPath(c.binary)
	return err == nil
}

// QueryReady runs `bd ready --json`.
func (c *CLI) QueryReady(ctx context.Context) Result[[]Task] {
	return queryList[Task](ctx, c, "ready", "ready", "--json")
}

// QueryInProgress runs `bd list --status in_progress --json`.
func (c *CLI) QueryInProgress(ctx context.Context) Result[[]Task] {
	return queryList[Task](ctx, c, "in_progress", "list", "--status", "in_progress", "--json")
}

// QueryEpics runs `bd list --type epic --json`.
func (c *CLI) QueryEpics(ctx context.Context) Result[[]Epic] {
	return queryList[Epic](ctx, c, "epics", "list", "--type", "epic", "--json")
}

// QueryBlocked runs `bd blocked --json`.
func (c *CLI) QueryBlocked(ctx context.Context) Result[[]Task] {
	return queryList[Task](ctx, c, "blocked", "blocked", "--json")
}

// QueryStats runs `bd stats` and keeps the first statsLines lines.
func (c *CLI) QueryStats(ctx context.Context) Result[string] {
	out, err := c.runner.Run(ctx, c.dir, c.binary, "stats")
	if err != nil {
		return Fail[string]("stats", err)
	}
	lines := strings.Split(string(out), "\n")
	if len(lines) > c.statsLines {
		lines = lines[:c.statsLines]
	}
	return Ok(strings.Join(lines, "\n"))
}

// QueryLookup runs `bd show <id> --json`. Both a single object and a
// single-element array are accepted, since bd versions differ.
func (c *CLI) QueryLookup(ctx context.Context, id string) Result[*Issue] {
	out, err := c.runner.Run(ctx, c.dir, c.binary, "show", id, "--json")
	if err != nil {
		return Fail[*Issue]("show", err)
	}

	trimmed := bytes.TrimSpace(out)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var issues []Issue
		if err := json.Unmarshal(trimmed, &issues); err != nil {
			return Fail[*Issue]("show", fmt.Errorf("parse output: %w", err))
		}
		if len(issues) == 0 {
			return Fail[*Issue]("show", fmt.Errorf("issue %s not found", id))
		}
		return Ok(&issues[0])
	}

	var issue Issue
	if err := json.Unmarshal(trimmed, &issue); err != nil {
		return Fail[*Issue]("show", fmt.Errorf("parse output: %w", err))
	}
	if issue.ID == "" {
		return Fail[*Issue]("show", fmt.Errorf("issue %s not found", id))
	}
	return Ok(&issue)
}

// Ready returns tasks with no unmet dependencies, in backend order.
func (c *CLI) Ready(ctx context.Context) []Task {
	return collapse(c, c.QueryReady(ctx), []Task{})
}

// InProgress returns claimed tasks.
func (c *CLI) InProgress(ctx context.Context) []Task {
	return collapse(c, c.QueryInProgress(ctx), []Task{})
}

// Epics returns all epic-type entries.
func (c *CLI) Epics(ctx context.Context) []Epic {
	return collapse(c, c.QueryEpics(ctx), []Epic{})
}

// Blocked returns tasks with unmet dependencies.
func (c *CLI) Blocked(ctx context.Context) []Task {
	return collapse(c, c.QueryBlocked(ctx), []Task{})
}

// Stats returns a short digest of the backend report.
func (c *CLI) Stats(ctx context.Context) string {
	return collapse(c, c.QueryStats(ctx), StatsPlaceholder)
}

// Lookup resolves one entity, or nil.
func (c *CLI) Lookup(ctx context.Context, id string) *Issue {
	return collapse(c, c.QueryLookup(ctx, id), (*Issue)(nil))
}

func queryList[T any](ctx context.Context, c *CLI, op string, args ...string) Result[[]T] {
	out, err := c.runner.Run(ctx, c.dir, c.binary, args...)
	if err != nil {
		return Fail[[]T](op, err)
	}

	var items []T
	if err := json.Unmarshal(bytes.TrimSpace(out), &items); err != nil {
		return Fail[[]T](op, fmt.Errorf("parse output: %w", err))
	}
	if items == nil {
		items = []T{}
	}
	return Ok(items)
}

func collapse[T any](c *CLI, r Result[T], def T) T {
	if r.Err != nil {
		var be *BackendError
		if errors.As(r.Err, &be) {
			c.log.Debug("backend query failed", "op", be.Op, "error", be.Err)
		}
	}
	return r.Or(def)
}
