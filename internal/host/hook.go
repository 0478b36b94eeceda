package host

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/thruflo/openspec-loop/internal/logging"
)

// Hook serves hosts that run the controller as a stop hook and read a
// decision from its stdout. Log entries go to the local logger; the
// instruction is returned as a "block" decision, which makes the host feed
// the reason back to the agent instead of stopping.
type Hook struct {
	out io.Writer
	log *logging.Logger
}

// NewHook creates a Hook writing decisions to out.
func NewHook(out io.Writer, log *logging.Logger) *Hook {
	if log == nil {
		log = logging.Default()
	}
	return &Hook{out: out, log: log}
}

type hookDecision struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// Log writes the entry through the local logger.
func (h *Hook) Log(ctx context.Context, e Entry) error {
	h.log.With("service", e.Service).Log(e.Level, e.Message)
	return nil
}

// Dispatch writes the block decision carrying text.
func (h *Hook) Dispatch(ctx context.Context, sessionID, text string) error {
	data, err := json.Marshal(hookDecision{Decision: "block", Reason: text})
	if err != nil {
		return fmt.Errorf("failed to marshal hook decision: %w", err)
	}
	if _, err := fmt.Fprintln(h.out, string(data)); err != nil {
		return fmt.Errorf("failed to write hook decision: %w", err)
	}
	return nil
}
