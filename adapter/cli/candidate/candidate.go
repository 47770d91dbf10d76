// Package candidate holds the candidate management CLI commands.
package candidate

import (
	"github.com/spf13/cobra"
)

// Cmd is the candidate command group
var Cmd = &cobra.Command{
	Use:   "candidate",
	Short: "Manage onboarding candidates",
	Long:  `Add candidates, inspect their schedules, and review their activity.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(activityCmd)
	Cmd.AddCommand(scheduleCmd)
}
