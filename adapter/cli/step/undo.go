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
	undoActor  string
	undoReason string
)

var undoCmd = &cobra.Command{
	Use:   "undo [candidate-id] [step-number]",
	Short: "Undo a completed or scheduled step",
	Long: `Reverse a step's engine state: cancel its live calendar event and
clear the candidate marker it set. Messages already sent are not
recalled.

Examples:
  joinflow step undo 6f1d... 2 --reason "wrong date"`,
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

		ctx := observability.WithActorID(cmd.Context(), undoActor)
		if err := app.Service.UndoStep(ctx, commands.UndoStepCommand{
			CandidateID: candidateID,
			StepNumber:  stepNumber,
			ActorID:     undoActor,
			Reason:      undoReason,
		}); err != nil {
			return fmt.Errorf("failed to undo step: %w", err)
		}

		fmt.Printf("Step %d undone.\n", stepNumber)
		return nil
	},
}

func init() {
	undoCmd.Flags().StringVarP(&undoActor, "actor", "a", "cli", "acting user id for the audit trail")
	undoCmd.Flags().StringVarP(&undoReason, "reason", "r", "", "reason recorded on the cancelled event")
}
