package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/thruflo/openspec-loop/internal/config"
	"github.com/thruflo/openspec-loop/internal/host"
	"github.com/thruflo/openspec-loop/internal/logging"
	"github.com/thruflo/openspec-loop/internal/loop"
	"github.com/thruflo/openspec-loop/internal/notify"
	"github.com/thruflo/openspec-loop/internal/state"
	"golang.org/x/term"
)

var (
	idleSession string
	idleEvent   string
)

var idleCmd = &cobra.Command{
	Use:   "idle",
	Short: "Advance the loop after the agent session goes idle",
	Long: `Runs one step of the loop. Hosts invoke this every time the agent session
becomes idle.

The session can be given directly with --session, or taken from a host
event with --event (a file path, or - for stdin). Two event shapes are
understood:

  opencode:  {"type":"session.idle","properties":{"sessionID":"..."}}
  hook:      {"session_id":"...","hook_event_name":"Stop"}

Other events are ignored. With host.kind: hook the next instruction is
written to stdout as a block decision.

Example:
  openspec-loop idle --session ses_123
  openspec-loop idle --event -`,
	Args: cobra.NoArgs,
	RunE: runIdle,
}

func init() {
	idleCmd.Flags().StringVar(&idleSession, "session", "", "Session to dispatch the next task to")
	idleCmd.Flags().StringVar(&idleEvent, "event", "", "Host event JSON file, or - for stdin")
	rootCmd.AddCommand(idleCmd)
}

func runIdle(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dir, err := projectDir()
	if err != nil {
		return err
	}

	var event []byte
	if idleEvent != "" {
		event, err = readEvent(idleEvent, cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	_, err = handleIdle(ctx, idleRequest{
		Dir:       dir,
		SessionID: idleSession,
		Event:     event,
		LogLevel:  rootLogLevel,
		Out:       cmd.OutOrStdout(),
	})
	return err
}

// idleRequest carries one idle invocation's inputs.
type idleRequest struct {
	Dir       string
	SessionID string // wins over the event's session
	Event     []byte // optional host event
	LogLevel  string
	Out       io.Writer
}

// handleIdle resolves the session, wires the controller for the configured
// host and runs a single step.
func handleIdle(ctx context.Context, req idleRequest) (loop.Decision, error) {
	cfg, log, err := loadEnv(req.Dir, req.LogLevel)
	if err != nil {
		return loop.Decision{}, err
	}
	log = log.With("invocation", uuid.NewString())

	sessionID := req.SessionID
	if len(req.Event) > 0 {
		ev, err := ParseEvent(req.Event)
		if err != nil {
			return loop.Decision{}, err
		}
		if !ev.Idle {
			log.Debug("ignoring non-idle event")
			return loop.Decision{Outcome: loop.OutcomeIdle}, nil
		}
		if sessionID == "" {
			sessionID = ev.SessionID
		}
	}
	if sessionID == "" && cfg.Host.Kind == config.HostOpenCode {
		return loop.Decision{}, errors.New("no session id: pass --session or an event that names the session")
	}

	ctrl := loop.NewController(loop.Options{
		Store:       state.NewStore(req.Dir),
		Gateway:     newGateway(req.Dir, cfg, log),
		Host:        newHost(req.Dir, cfg, req.Out),
		Notifier:    newNotifier(cfg),
		Service:     cfg.Host.Service,
		NotifyTitle: cfg.Notify.Title,
		Logger:      log,
	})

	d, err := ctrl.HandleIdle(ctx, sessionID)
	if err != nil {
		return d, err
	}
	log.Info("idle handled", "outcome", d.Outcome.String(), "session", sessionID)
	return d, nil
}

// newHost picks the adapter for host.kind. Hook hosts have no log API, so
// their entries go to stderr at info level whatever the diagnostics level.
func newHost(dir string, cfg *config.Config, out io.Writer) host.Host {
	if cfg.Host.Kind == config.HostHook {
		hookLog := logging.New()
		hookLog.SetLevel(logging.LevelInfo)
		return host.NewHook(out, hookLog)
	}
	return host.NewOpenCode(cfg.Host.URL, host.WithDirectory(dir))
}

func newNotifier(cfg *config.Config) notify.Sender {
	if !cfg.Notify.Enabled {
		return notify.Discard{}
	}
	return notify.New()
}

func readEvent(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, fmt.Errorf("--event - expects the event piped on stdin")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read event from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}
	return data, nil
}
