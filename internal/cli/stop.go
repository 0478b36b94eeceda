package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thruflo/openspec-loop/internal/state"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Deactivate the loop",
	Long: `Deactivates the loop without recording a reason. Further idle signals are
ignored until 'openspec-loop start' is run again. Beads tasks are left as
they are.`,
	Args: cobra.NoArgs,
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	dir, err := projectDir()
	if err != nil {
		return err
	}

	st, err := stopLoop(state.NewStore(dir))
	if errors.Is(err, state.ErrNoState) {
		fmt.Fprintln(cmd.OutOrStdout(), "No loop configured.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OpenSpec loop stopped after %d iteration(s).\n", st.Iteration)
	return nil
}

// stopLoop clears the active flag and leaves every other field alone.
func stopLoop(store *state.Store) (*state.LoopState, error) {
	var stopped state.LoopState
	err := store.Update(func(st *state.LoopState) {
		st.Active = false
		stopped = *st
	})
	if err != nil {
		return nil, fmt.Errorf("failed to stop loop: %w", err)
	}
	return &stopped, nil
}
