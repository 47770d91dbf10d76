// Package template holds the step template CLI commands.
package template

import (
	"github.com/spf13/cobra"
)

// Cmd is the template command group
var Cmd = &cobra.Command{
	Use:   "template",
	Short: "Manage department step templates",
	Long:  `Define and inspect the per-department onboarding step templates.`,
}

func init() {
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(listCmd)
}
