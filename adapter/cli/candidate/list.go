package candidate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joinflow/joinflow/adapter/cli"
	"github.com/joinflow/joinflow/internal/onboarding/application/services"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

var listDepartment string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates in a department",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Candidates == nil {
			fmt.Println("Candidate commands require a database connection.")
			return nil
		}

		candidates, err := app.Candidates.FindByDepartment(cmd.Context(),
			sharedDomain.NewDepartmentID(listDepartment))
		if err != nil {
			return fmt.Errorf("failed to list candidates: %w", err)
		}

		if len(candidates) == 0 {
			fmt.Println("No candidates found.")
			return nil
		}
		for _, c := range candidates {
			joining := "-"
			if d := c.JoiningDate(); d != nil {
				joining = d.In(services.InstitutionZone).Format("2006-01-02")
			}
			fmt.Printf("%s  %-24s %-28s joining %s\n", c.ID(), c.FullName(), c.Email(), joining)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listDepartment, "department", "", "department slug")
	_ = listCmd.MarkFlagRequired("department")
}
