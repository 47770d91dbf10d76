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

var (
	completeActor       string
	completeAttachments []string
)

var completeCmd = &cobra.Command{
	Use:   "complete [candidate-id] [step-number]",
	Short: "Complete an onboarding step",
	Long: `Trigger a step's side effects for a candidate: dispatch its message,
update the candidate record, close out the calendar event, and cascade
any follow-up scheduling.

Examples:
  joinflow step complete 6f1d... 1 --attach files/offer.pdf
  joinflow step complete 6f1d... 3 --actor hr-lead`,
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

		ctx := observability.WithActorID(cmd.Context(), completeActor)
		result, err := app.Service.CompleteStep(ctx, commands.CompleteStepCommand{
			CandidateID: candidateID,
			StepNumber:  stepNumber,
			ActorID:     completeActor,
			Attachments: completeAttachments,
		})
		if err != nil {
			return fmt.Errorf("failed to complete step: %w", err)
		}

		if result.Status == commands.StepStatusSkipped {
			fmt.Printf("Step %d skipped: %s\n", stepNumber, result.Reason)
			return nil
		}
		fmt.Printf("Step %d completed.\n", stepNumber)
		return nil
	},
}

func init() {
	completeCmd.Flags().StringVarP(&completeActor, "actor", "a", "cli", "acting user id for the audit trail")
	completeCmd.Flags().StringSliceVar(&completeAttachments, "attach", nil, "attachment file refs (repeatable)")
}
