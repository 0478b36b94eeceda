package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thruflo/openspec-loop/internal/state"
)

// DefaultMaxIterations bounds a freshly started loop.
const DefaultMaxIterations = 25

var (
	startMaxIterations int
	startVerify        []string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Activate the loop for this project",
	Long: `Activates the loop. The iteration counter restarts at zero and any previous
stop reason is cleared.

An existing loop keeps its iteration budget and verification commands
unless --max-iterations or --verify is given. A budget of 0 is unbounded.
Repeat --verify to run several commands after each epic.

Example:
  openspec-loop start
  openspec-loop start --max-iterations 40 --verify "go test ./..." --verify "go vet ./..."`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	startCmd.Flags().IntVar(&startMaxIterations, "max-iterations", DefaultMaxIterations, "Iteration budget (0 for unbounded)")
	startCmd.Flags().StringArrayVar(&startVerify, "verify", nil, "Verification command (repeatable)")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	dir, err := projectDir()
	if err != nil {
		return err
	}

	opts := startOptions{}
	if cmd.Flags().Changed("max-iterations") {
		opts.MaxIterations = &startMaxIterations
	}
	if cmd.Flags().Changed("verify") {
		opts.Verify = startVerify
	}

	st, err := startLoop(state.NewStore(dir), opts)
	if err != nil {
		return err
	}
	printStarted(cmd.OutOrStdout(), st)
	return nil
}

// startOptions holds overrides; nil fields keep the stored values.
type startOptions struct {
	MaxIterations *int
	Verify        []string
}

// startLoop activates the loop, creating the record if needed.
func startLoop(store *state.Store, opts startOptions) (*state.LoopState, error) {
	st, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load loop state: %w", err)
	}
	if st == nil {
		st = &state.LoopState{MaxIterations: DefaultMaxIterations, VerifyCommands: []string{}}
	}

	st.Active = true
	st.Iteration = 0
	st.CurrentTask = ""
	st.StuckCount = 0
	st.BlockedReason = ""
	st.StuckReason = ""
	if opts.MaxIterations != nil {
		st.MaxIterations = *opts.MaxIterations
	}
	if opts.Verify != nil {
		st.VerifyCommands = append([]string{}, opts.Verify...)
	}

	if err := store.Save(st); err != nil {
		return nil, fmt.Errorf("failed to save loop state: %w", err)
	}
	return st, nil
}

func printStarted(w io.Writer, st *state.LoopState) {
	fmt.Fprintf(w, "OpenSpec loop started.\n")
	fmt.Fprintf(w, "  Max iterations: %s\n", formatBudget(st.MaxIterations))
	if len(st.VerifyCommands) > 0 {
		fmt.Fprintf(w, "  Verify:         %s\n", strings.Join(st.VerifyCommands, " && "))
	}
	fmt.Fprintf(w, "\nThe next idle signal picks up the first ready task.\n")
}

func formatBudget(max int) string {
	if max <= 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%d", max)
}
