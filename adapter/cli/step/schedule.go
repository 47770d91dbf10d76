package step

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joinflow/joinflow/adapter/cli"
	"github.com/joinflow/joinflow/internal/onboarding/application/commands"
	"github.com/joinflow/joinflow/pkg/observability"
)

var scheduleActor string

var scheduleCmd = &cobra.Command{
	Use:   "schedule [candidate-id] [step-number]",
	Short: "Schedule a step's calendar event",
	Long: `Ensure a calendar event exists for a candidate step, computing its
time from the step template's anchor and offset.

Examples:
  joinflow step schedule 6f1d... 2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			fmt.Println("Step commands require a database connection.")
			return nil
		}

		candidateID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid candidate ID: %w", err)
		}
		stepNumber, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step number: %w", err)
		}

		ctx := observability.WithActorID(cmd.Context(), scheduleActor)
		result, err := app.Service.ScheduleStep(ctx, commands.ScheduleStepCommand{
			CandidateID: candidateID,
			StepNumber:  stepNumber,
			ActorID:     scheduleActor,
		})
		if err != nil {
			return fmt.Errorf("failed to schedule step: %w", err)
		}

		if !result.Created {
			fmt.Printf("Step %d not scheduled: %s\n", stepNumber, result.Reason)
			return nil
		}
		fmt.Printf("Step %d scheduled (event %s).\n", stepNumber, result.EventID)
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVarP(&scheduleActor, "actor", "a", "cli", "acting user id for the audit trail")
}
