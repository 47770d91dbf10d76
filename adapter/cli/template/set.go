package template

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joinflow/joinflow/adapter/cli"
	"github.com/joinflow/joinflow/internal/onboarding/domain"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

var (
	setDepartment    string
	setStep          int
	setKind          string
	setMethod        string
	setOffsetDays    int
	setTimeDOJ       string
	setTimeOffer     string
	setEmailTemplate string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace a step template",
	Long: `Define what a department's step number means. Saving a template for
an existing (department, step) pair replaces it.

Examples:
  joinflow template set --department engineering --step 2 --kind HR_INDUCTION \
    --method doj --offset -1 --time-doj 11:00 --email-template tmpl-hr-induction`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Templates == nil {
			fmt.Println("Template commands require a database connection.")
			return nil
		}

		var offset *int
		if cmd.Flags().Changed("offset") {
			offset = &setOffsetDays
		}

		tmpl, err := domain.NewStepTemplate(
			sharedDomain.NewDepartmentID(setDepartment),
			setStep,
			domain.StepKind(setKind),
			domain.SchedulingMethod(setMethod),
			offset,
			setTimeDOJ, setTimeOffer,
			setEmailTemplate,
		)
		if err != nil {
			return fmt.Errorf("invalid template: %w", err)
		}

		if err := app.Templates.Save(cmd.Context(), tmpl); err != nil {
			return fmt.Errorf("failed to save template: %w", err)
		}

		fmt.Printf("Template saved for %s step %d.\n", setDepartment, setStep)
		return nil
	},
}

func init() {
	setCmd.Flags().StringVar(&setDepartment, "department", "", "department slug")
	setCmd.Flags().IntVar(&setStep, "step", 0, "step number")
	setCmd.Flags().StringVar(&setKind, "kind", "", "step kind (OFFER_LETTER, HR_INDUCTION, ...)")
	setCmd.Flags().StringVar(&setMethod, "method", "manual", "scheduling method (doj, offerLetter, manual)")
	setCmd.Flags().IntVar(&setOffsetDays, "offset", 0, "due date offset in days relative to the anchor")
	setCmd.Flags().StringVar(&setTimeDOJ, "time-doj", "", "scheduled time for DOJ-anchored steps (HH:mm)")
	setCmd.Flags().StringVar(&setTimeOffer, "time-offer", "", "scheduled time for offer-anchored steps (HH:mm)")
	setCmd.Flags().StringVar(&setEmailTemplate, "email-template", "", "email template id dispatched by this step")
	_ = setCmd.MarkFlagRequired("department")
	_ = setCmd.MarkFlagRequired("step")
	_ = setCmd.MarkFlagRequired("kind")
}
