package candidate

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joinflow/joinflow/adapter/cli"
	"github.com/joinflow/joinflow/internal/onboarding/application/services"
)

var activityLimit int

var activityCmd = &cobra.Command{
	Use:   "activity [candidate-id]",
	Short: "Show a candidate's engine activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			fmt.Println("Candidate commands require a database connection.")
			return nil
		}

		candidateID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid candidate ID: %w", err)
		}

		entries, err := app.Service.Activity(cmd.Context(), candidateID, activityLimit)
		if err != nil {
			return fmt.Errorf("failed to load activity: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No activity recorded.")
			return nil
		}
		for _, entry := range entries {
			fmt.Printf("%s  step %-2d %-15s by %-12s %s\n",
				entry.OccurredAt.In(services.InstitutionZone).Format("2006-01-02 15:04"),
				entry.StepNumber, entry.Action, entry.ActorID, entry.Detail)
		}
		return nil
	},
}

func init() {
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 50, "maximum entries to show")
}
