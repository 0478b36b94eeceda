package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/thruflo/openspec-loop/internal/beads"
	"github.com/thruflo/openspec-loop/internal/prompt"
	"github.com/thruflo/openspec-loop/internal/state"
)

var promptCmd = &cobra.Command{
	Use:   "prompt <task-id>",
	Short: "Print the instruction the loop would send for a task",
	Long: `Looks up a Beads task and its epic and prints the instruction the loop
would dispatch for it, using the stored verification commands. Nothing is
sent and the loop state is not changed.

Example:
  openspec-loop prompt bd-7`,
	Args: cobra.ExactArgs(1),
	RunE: runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dir, err := projectDir()
	if err != nil {
		return err
	}
	cfg, log, err := loadEnv(dir, rootLogLevel)
	if err != nil {
		return err
	}

	st, err := state.NewStore(dir).Load()
	if err != nil {
		return fmt.Errorf("failed to load loop state: %w", err)
	}
	var verify []string
	if st != nil {
		verify = st.VerifyCommands
	}

	return renderPrompt(ctx, cmd.OutOrStdout(), newGateway(dir, cfg, log), args[0], verify)
}

// renderPrompt resolves the task the same way the loop does and prints
// the instruction.
func renderPrompt(ctx context.Context, w io.Writer, gw beads.Gateway, taskID string, verify []string) error {
	if !gw.Available(ctx) {
		return fmt.Errorf("bd is not installed")
	}

	issue := gw.Lookup(ctx, taskID)
	if issue == nil {
		return fmt.Errorf("task %s not found", taskID)
	}
	task := beads.Task{ID: issue.ID, Title: issue.Title, Status: issue.Status, Parent: issue.Parent}

	var changeID string
	if task.Parent != "" {
		if parent := gw.Lookup(ctx, task.Parent); parent != nil {
			changeID = parent.Title
		}
	}

	fmt.Fprintln(w, prompt.Build(task, changeID, task.Parent, verify))
	return nil
}
