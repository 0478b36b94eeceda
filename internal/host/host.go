// Package host connects the loop controller to the agent runtime that
// delivers idle signals. The runtime receives structured log entries and the
// dispatched work instruction.
package host

import (
	"context"

	"github.com/thruflo/openspec-loop/internal/logging"
)

// Entry is one log call made to the host runtime.
type Entry struct {
	Service string        `json:"service"`
	Level   logging.Level `json:"-"`
	Message string        `json:"message"`
}

// Host is the agent runtime as seen by the controller.
type Host interface {
	// Log records a message in the runtime's log.
	Log(ctx context.Context, e Entry) error

	// Dispatch sends text as a new user message into the given session.
	Dispatch(ctx context.Context, sessionID, text string) error
}
