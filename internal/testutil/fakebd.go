package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thruflo/openspec-loop/internal/beads"
)

// fakeBDScript answers the bd subcommands the gateway issues from files in
// the data directory and appends each invocation to calls.log. A fail_<cmd>
// marker file makes that subcommand exit non-zero.
const fakeBDScript = `#!/bin/sh
data="%DATA%"
echo "$*" >> "$data/calls.log"
if [ -f "$data/fail_$1" ]; then echo "Error: database is locked" >&2; exit 1; fi
case "$1" in
  ready) cat "$data/ready.json" ;;
  blocked) cat "$data/blocked.json" ;;
  stats) cat "$data/stats.txt" ;;
  show)
    f="$data/issues/$2.json"
    if [ -f "$f" ]; then cat "$f"; else echo "Error: issue $2 not found" >&2; exit 1; fi
    ;;
  list)
    case "$*" in
      *"--status in_progress"*) cat "$data/in_progress.json" ;;
      *"--type epic"*) cat "$data/epics.json" ;;
      *) echo "[]" ;;
    esac
    ;;
  *) echo "unknown command: $1" >&2; exit 2 ;;
esac
`

// FakeBD is an executable bd stand-in backed by JSON fixtures.
type FakeBD struct {
	binDir  string
	dataDir string
	t       *testing.T
}

// NewFakeBD installs an empty backend: no tasks, no epics.
// Skips the test on platforms without /bin/sh.
func NewFakeBD(t *testing.T) *FakeBD {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake bd requires /bin/sh")
	}

	root := t.TempDir()
	f := &FakeBD{
		binDir:  filepath.Join(root, "bin"),
		dataDir: filepath.Join(root, "data"),
		t:       t,
	}
	require.NoError(t, os.MkdirAll(f.binDir, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.dataDir, "issues"), 0o755))

	script := strings.ReplaceAll(fakeBDScript, "%DATA%", f.dataDir)
	require.NoError(t, os.WriteFile(f.Binary(), []byte(script), 0o755))

	f.SetReady()
	f.SetInProgress()
	f.SetEpics()
	f.SetBlocked()
	f.SetStats("Total Issues: 0")
	return f
}

// Binary returns the absolute path of the fake executable.
func (f *FakeBD) Binary() string {
	return filepath.Join(f.binDir, "bd")
}

// BinDir returns the directory to prepend to PATH.
func (f *FakeBD) BinDir() string {
	return f.binDir
}

// SetReady replaces the `bd ready` answer.
func (f *FakeBD) SetReady(tasks ...beads.Task) {
	f.writeJSON("ready.json", nonNil(tasks))
}

// SetInProgress replaces the in-progress listing.
func (f *FakeBD) SetInProgress(tasks ...beads.Task) {
	f.writeJSON("in_progress.json", nonNil(tasks))
}

// SetBlocked replaces the `bd blocked` answer.
func (f *FakeBD) SetBlocked(tasks ...beads.Task) {
	f.writeJSON("blocked.json", nonNil(tasks))
}

// SetEpics replaces the epic listing and makes each epic resolvable by id.
func (f *FakeBD) SetEpics(epics ...beads.Epic) {
	if epics == nil {
		epics = []beads.Epic{}
	}
	f.writeJSON("epics.json", epics)
	for _, e := range epics {
		f.AddIssue(beads.Issue{ID: e.ID, Title: e.Title, Status: e.Status})
	}
}

// SetStats replaces the `bd stats` report.
func (f *FakeBD) SetStats(report string) {
	f.write("stats.txt", []byte(report))
}

// Fail makes every later invocation of subcommand exit with an error.
func (f *FakeBD) Fail(subcommand string) {
	f.write("fail_"+subcommand, nil)
}

// AddIssue makes id resolvable through `bd show`. bd prints an array.
func (f *FakeBD) AddIssue(issue beads.Issue) {
	f.writeJSON(filepath.Join("issues", issue.ID+".json"), []beads.Issue{issue})
}

// Calls returns the argument lists bd was invoked with, in order.
func (f *FakeBD) Calls() []string {
	data, err := os.ReadFile(filepath.Join(f.dataDir, "calls.log"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(f.t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func (f *FakeBD) writeJSON(name string, v interface{}) {
	f.write(name, MustMarshalJSON(f.t, v))
}

func (f *FakeBD) write(name string, data []byte) {
	require.NoError(f.t, os.WriteFile(filepath.Join(f.dataDir, name), data, 0o644))
}

func nonNil(tasks []beads.Task) []beads.Task {
	if tasks == nil {
		return []beads.Task{}
	}
	return tasks
}
