// Package prompt renders the work instruction handed to the agent for one task.
package prompt

import (
	"fmt"
	"strings"

	"github.com/thruflo/openspec-loop/internal/beads"
)

// BlockedSentinel prefixes a reply from an executor that cannot proceed
// because the change's spec is defective. This package never parses replies.
const BlockedSentinel = "BLOCKED:"

const fence = "```"

// ChangeDir returns the conventional location of a change's spec files.
func ChangeDir(changeID string) string {
	return "openspec/changes/" + changeID + "/"
}

// Build renders the instruction for task. changeID and parentID are empty
// when the task has no resolvable epic. The output depends only on its inputs.
func Build(task beads.Task, changeID, parentID string, verify []string) string {
	change := changeID
	if change == "" {
		change = "<change-id>"
	}
	commitPrefix := changeID
	if commitPrefix == "" {
		commitPrefix = "<change>"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "OpenSpec Apply (Beads) | Task: %s\n\n", task.ID)

	if changeID != "" {
		fmt.Fprintf(&b, "Change: %s (Epic: %s)\n", changeID, parentID)
		fmt.Fprintf(&b, "Spec files: %s\n\n", ChangeDir(changeID))
	}

	fmt.Fprintf(&b, "Current task: %s\n\n", task.Title)

	b.WriteString("Guardrails:\n")
	b.WriteString("- Favor straightforward, minimal implementations; keep scope tight.\n")
	b.WriteString("- Refer to openspec/AGENTS.md if conventions are unclear.\n\n")

	b.WriteString("Steps:\n")
	b.WriteString("1. Claim the task in Beads:\n")
	fmt.Fprintf(&b, "   %sbash\n   bd update %s --status in_progress\n   bd sync\n   %s\n\n", fence, task.ID, fence)

	b.WriteString("2. Read the OpenSpec change files for context:\n")
	fmt.Fprintf(&b, "   - %sproposal.md\n", ChangeDir(change))
	fmt.Fprintf(&b, "   - %stasks.md\n", ChangeDir(change))
	fmt.Fprintf(&b, "   - %sdesign.md (if exists)\n\n", ChangeDir(change))

	b.WriteString("3. Implement the task, keeping changes minimal and focused.\n\n")

	b.WriteString("4. Update tasks.md to reflect progress:\n")
	b.WriteString("   - Mark task as in-progress: `- [-]`\n")
	b.WriteString("   - When done: `- [x]`\n\n")

	b.WriteString("5. Complete the task in Beads:\n")
	fmt.Fprintf(&b, "   %sbash\n   bd close %s --reason \"Completed: <brief summary>\"\n   bd sync\n   %s\n\n", fence, task.ID, fence)

	b.WriteString("6. Commit your work:\n")
	fmt.Fprintf(&b, "   %sbash\n   git add -A && git commit -m \"%s: %s - <brief summary>\"\n   %s\n\n", fence, commitPrefix, task.ID, fence)

	b.WriteString("BLOCKED Status:\n")
	fmt.Fprintf(&b, "If you cannot proceed due to a spec issue, output: %s <reason>", BlockedSentinel)

	if len(verify) > 0 {
		b.WriteString("\n\nVerification (run after epic completion):\n")
		fmt.Fprintf(&b, "%sbash\n%s\n%s", fence, strings.Join(verify, " && "), fence)
	}

	return b.String()
}
