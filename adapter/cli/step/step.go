// Package step holds the onboarding step CLI commands.
package step

import (
	"github.com/spf13/cobra"
)

// Cmd is the step command group
var Cmd = &cobra.Command{
	Use:   "step",
	Short: "Trigger and manage onboarding steps",
	Long:  `Complete, undo, schedule, and reschedule a candidate's onboarding steps.`,
}

func init() {
	Cmd.AddCommand(completeCmd)
	Cmd.AddCommand(undoCmd)
	Cmd.AddCommand(scheduleCmd)
	Cmd.AddCommand(rescheduleCmd)
}
