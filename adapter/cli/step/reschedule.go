package step

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joinflow/joinflow/adapter/cli"
	"github.com/joinflow/joinflow/internal/onboarding/application/commands"
	"github.com/joinflow/joinflow/internal/onboarding/application/services"
	"github.com/joinflow/joinflow/pkg/observability"
)

const rescheduleTimeLayout = "2006-01-02 15:04"

var (
	rescheduleActor string
	rescheduleStart string
	rescheduleEnd   string
)

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule [candidate-id] [step-number]",
	Short: "Move a step's live calendar event",
	Long: `Move a candidate's live step event to a new time. Times are read in
the institution's zone. When --end is omitted the step's default
duration is kept.

Examples:
  joinflow step reschedule 6f1d... 2 --start "2025-06-11 11:00"`,
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

		newStart, err := time.ParseInLocation(rescheduleTimeLayout, rescheduleStart, services.InstitutionZone)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		var newEnd time.Time
		if rescheduleEnd != "" {
			newEnd, err = time.ParseInLocation(rescheduleTimeLayout, rescheduleEnd, services.InstitutionZone)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
		}

		ctx := observability.WithActorID(cmd.Context(), rescheduleActor)
		event, err := app.Service.RescheduleStep(ctx, commands.RescheduleStepCommand{
			CandidateID: candidateID,
			StepNumber:  stepNumber,
			ActorID:     rescheduleActor,
			NewStart:    newStart,
			NewEnd:      newEnd,
		})
		if err != nil {
			return fmt.Errorf("failed to reschedule step: %w", err)
		}

		fmt.Printf("Step %d rescheduled to %s.\n", stepNumber,
			event.StartTime().In(services.InstitutionZone).Format(rescheduleTimeLayout))
		return nil
	},
}

func init() {
	rescheduleCmd.Flags().StringVarP(&rescheduleActor, "actor", "a", "cli", "acting user id for the audit trail")
	rescheduleCmd.Flags().StringVar(&rescheduleStart, "start", "", "new start time (YYYY-MM-DD HH:mm)")
	rescheduleCmd.Flags().StringVar(&rescheduleEnd, "end", "", "new end time (YYYY-MM-DD HH:mm)")
	_ = rescheduleCmd.MarkFlagRequired("start")
}
