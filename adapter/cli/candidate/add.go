package candidate

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joinflow/joinflow/adapter/cli"
	"github.com/joinflow/joinflow/internal/onboarding/application/services"
	"github.com/joinflow/joinflow/internal/onboarding/domain"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

var (
	addName       string
	addEmail      string
	addDepartment string
	addJoining    string
	addOfferFile  string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a candidate",
	Long: `Register a candidate for onboarding.

Examples:
  joinflow candidate add --name "Priya Sharma" --email priya@example.com \
    --department engineering --joining 2025-06-10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Candidates == nil {
			fmt.Println("Candidate commands require a database connection.")
			return nil
		}

		var joining *time.Time
		if addJoining != "" {
			d, err := time.ParseInLocation("2006-01-02", addJoining, services.InstitutionZone)
			if err != nil {
				return fmt.Errorf("invalid --joining: %w", err)
			}
			joining = &d
		}

		candidate, err := domain.NewCandidate(addName, addEmail,
			sharedDomain.NewDepartmentID(addDepartment), joining)
		if err != nil {
			return fmt.Errorf("invalid candidate: %w", err)
		}
		if addOfferFile != "" {
			candidate.SetOfferLetterFile(addOfferFile)
		}

		if err := app.Candidates.Save(cmd.Context(), candidate); err != nil {
			return fmt.Errorf("failed to save candidate: %w", err)
		}

		fmt.Printf("Candidate added: %s\n", candidate.ID())
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addName, "name", "", "full name")
	addCmd.Flags().StringVar(&addEmail, "email", "", "email address")
	addCmd.Flags().StringVar(&addDepartment, "department", "", "department slug")
	addCmd.Flags().StringVar(&addJoining, "joining", "", "expected joining date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addOfferFile, "offer-file", "", "offer letter file ref")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("email")
	_ = addCmd.MarkFlagRequired("department")
}
