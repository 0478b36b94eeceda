// Package notify raises OS-native desktop notifications.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// CompletionMessage is shown when every epic is closed.
const CompletionMessage = "All Beads epics complete!"

// Sender delivers one desktop notification.
type Sender interface {
	Notify(ctx context.Context, title, message string) error
}

// Notifier sends notifications with the platform's native tool.
// On macOS this is osascript; on Linux notify-send when installed.
// Elsewhere it is a no-op.
type Notifier struct {
	goos     string
	run      func(ctx context.Context, name string, args ...string) error
	lookPath func(string) (string, error)
}

// New creates a Notifier for the running platform.
func New() *Notifier {
	return &Notifier{
		goos:     runtime.GOOS,
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Notify sends a notification with the given title and message.
func (n *Notifier) Notify(ctx context.Context, title, message string) error {
	switch n.goos {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		return n.run(ctx, "osascript", "-e", script)
	case "linux":
		if _, err := n.lookPath("notify-send"); err != nil {
			return nil
		}
		return n.run(ctx, "notify-send", title, message)
	default:
		return nil
	}
}

// Discard is a Sender that does nothing, used when notifications are disabled.
type Discard struct{}

// Notify does nothing.
func (Discard) Notify(context.Context, string, string) error { return nil }
