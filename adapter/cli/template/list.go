package template

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joinflow/joinflow/adapter/cli"
	sharedDomain "github.com/joinflow/joinflow/internal/shared/domain"
)

var listDepartment string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a department's step templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Templates == nil {
			fmt.Println("Template commands require a database connection.")
			return nil
		}

		templates, err := app.Templates.FindByDepartment(cmd.Context(),
			sharedDomain.NewDepartmentID(listDepartment))
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}

		if len(templates) == 0 {
			fmt.Println("No templates defined.")
			return nil
		}
		for _, t := range templates {
			offset := "-"
			if d := t.DueDateOffsetDays(); d != nil {
				offset = fmt.Sprintf("%+d", *d)
			}
			fmt.Printf("step %-2d %-18s method=%-11s offset=%-4s doj=%-5s offer=%-5s template=%s\n",
				t.StepNumber(), t.Kind(), t.Method(), offset,
				t.ScheduledTimeDOJ(), t.ScheduledTimeOffer(), t.EmailTemplateID())
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listDepartment, "department", "", "department slug")
	_ = listCmd.MarkFlagRequired("department")
}
