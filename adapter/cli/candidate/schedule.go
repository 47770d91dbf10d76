package candidate

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joinflow/joinflow/adapter/cli"
	"github.com/joinflow/joinflow/internal/onboarding/application/services"
)

var scheduleAll bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule [candidate-id]",
	Short: "Show a candidate's onboarding calendar",
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

		events, err := app.Service.Schedule(cmd.Context(), candidateID, scheduleAll)
		if err != nil {
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No events scheduled.")
			return nil
		}
		for _, event := range events {
			fmt.Printf("%s  step %-2d %-12s %s\n",
				event.StartTime().In(services.InstitutionZone).Format("2006-01-02 15:04"),
				event.StepNumber(), event.Status(), event.Title())
		}
		return nil
	},
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleAll, "all", false, "include completed and cancelled events")
}
