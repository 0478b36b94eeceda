package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/thruflo/openspec-loop/internal/beads"
	"github.com/thruflo/openspec-loop/internal/state"
)

var statusBackend bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show loop status",
	Long: `Shows the stored loop state for this project.

With --backend, also asks Beads for ready, in-progress, blocked and epic
counts and prints its stats summary.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusBackend, "backend", false, "Include Beads counts and stats")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dir, err := projectDir()
	if err != nil {
		return err
	}

	st, err := state.NewStore(dir).Load()
	if err != nil {
		return fmt.Errorf("failed to load loop state: %w", err)
	}

	out := cmd.OutOrStdout()
	styles := newStatusStyles(out)
	showState(out, styles, st)

	if statusBackend {
		cfg, log, err := loadEnv(dir, rootLogLevel)
		if err != nil {
			return err
		}
		showBackend(ctx, out, styles, newGateway(dir, cfg, log))
	}
	return nil
}

// statusStyles renders against the output's own color profile, so piped
// output stays plain.
type statusStyles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	active  lipgloss.Style
	stopped lipgloss.Style
	warn    lipgloss.Style
}

func newStatusStyles(w io.Writer) statusStyles {
	r := lipgloss.NewRenderer(w)
	return statusStyles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		label:   r.NewStyle().Foreground(lipgloss.Color("#888888")),
		active:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
		stopped: r.NewStyle().Foreground(lipgloss.Color("#888888")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
	}
}

func showState(w io.Writer, s statusStyles, st *state.LoopState) {
	fmt.Fprintln(w, s.title.Render("OpenSpec Loop"))
	fmt.Fprintln(w)

	if st == nil {
		fmt.Fprintln(w, "No loop configured. Run 'openspec-loop start' to begin.")
		return
	}

	status := s.stopped.Render("stopped")
	if st.Active {
		status = s.active.Render("active")
	}
	printField(w, s, "Status", status)
	printField(w, s, "Iteration", formatIteration(st))
	if st.CurrentTask != "" {
		printField(w, s, "Current task", st.CurrentTask)
	}
	if len(st.VerifyCommands) > 0 {
		printField(w, s, "Verify", strings.Join(st.VerifyCommands, " && "))
	}
	if st.StuckReason != "" {
		printField(w, s, "Stuck", s.warn.Render(st.StuckReason))
	}
	if st.BlockedReason != "" {
		printField(w, s, "Blocked", s.warn.Render(st.BlockedReason))
	}
}

func showBackend(ctx context.Context, w io.Writer, s statusStyles, gw beads.Gateway) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.title.Render("Beads"))
	fmt.Fprintln(w)

	if !gw.Available(ctx) {
		fmt.Fprintln(w, s.warn.Render("bd is not installed."))
		return
	}

	epics := gw.Epics(ctx)
	printField(w, s, "Ready", fmt.Sprintf("%d", len(gw.Ready(ctx))))
	printField(w, s, "In progress", fmt.Sprintf("%d", len(gw.InProgress(ctx))))
	printField(w, s, "Blocked", fmt.Sprintf("%d", len(gw.Blocked(ctx))))
	printField(w, s, "Open epics", fmt.Sprintf("%d/%d", len(beads.Incomplete(epics)), len(epics)))
	fmt.Fprintln(w)
	fmt.Fprintln(w, gw.Stats(ctx))
}

func formatIteration(st *state.LoopState) string {
	if st.MaxIterations <= 0 {
		return fmt.Sprintf("%d (unbounded)", st.Iteration)
	}
	return fmt.Sprintf("%d/%d", st.Iteration, st.MaxIterations)
}

func printField(w io.Writer, s statusStyles, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", s.label.Render(fmt.Sprintf("%-14s", label+":")), value)
}
