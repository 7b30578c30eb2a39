package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"project-tracker-api/internal/attribution"
	"project-tracker-api/internal/dashboard"
	"project-tracker-api/internal/identity"
	applog "project-tracker-api/internal/log"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/stats"
	"project-tracker-api/internal/store"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// SummaryCmd returns the summary command
func SummaryCmd() *cobra.Command {
	var employeeID string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard counters",
		Long: `Print the dashboard counters as a director sees them, or as a given
employee sees them with --employee.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := setup()
			if err != nil {
				return err
			}
			s := store.NewGormStore(db)
			ctx := context.Background()

			viewer := identity.NewPrincipal("", "cli", models.RoleDirector)
			if employeeID != "" {
				e, err := s.FindEmployeeByID(ctx, employeeID)
				if err != nil {
					return err
				}
				viewer = identity.NewPrincipal(e.ID, e.Name, e.Role)
			}

			dash := dashboard.NewService(s, s, s, cfg.EmployeeCacheTTL, applog.GetLogger())
			view, err := dash.Build(ctx, viewer, attribution.TaskFilter{}, attribution.ProjectFilter{})
			if err != nil {
				return err
			}
			printSummary(os.Stdout, viewer, view.Summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&employeeID, "employee", "e", "", "show the summary for this employee id")
	return cmd
}

func printSummary(w io.Writer, viewer identity.Principal, sum stats.Summary) {
	header := color.New(color.Bold)
	warn := color.New(color.FgRed)
	ok := color.New(color.FgGreen)

	who := string(viewer.Role)
	if viewer.ID != "" {
		who = fmt.Sprintf("%s (%s)", viewer.Name, viewer.Role)
	}
	header.Fprintf(w, "Dashboard for %s at %s\n\n", who, sum.GeneratedAt.Format(time.RFC1123))

	fmt.Fprintln(w, "Tasks")
	fmt.Fprintf(w, "  total:       %d\n", sum.Tasks.Total)
	fmt.Fprintf(w, "  completed:   %s\n", ok.Sprint(sum.Tasks.Completed))
	fmt.Fprintf(w, "  in progress: %d\n", sum.Tasks.InProgress)
	fmt.Fprintf(w, "  pending:     %d\n", sum.Tasks.Pending)
	overdue := fmt.Sprint(sum.Tasks.Overdue)
	if sum.Tasks.Overdue > 0 {
		overdue = warn.Sprint(sum.Tasks.Overdue)
	}
	fmt.Fprintf(w, "  overdue:     %s\n\n", overdue)

	fmt.Fprintln(w, "Projects")
	fmt.Fprintf(w, "  total:       %d\n", sum.Projects.Total)
	fmt.Fprintf(w, "  active:      %d\n\n", sum.Projects.Active)

	fmt.Fprintf(w, "Active employees: %d\n\n", sum.ActiveEmployees)

	fmt.Fprintf(w, "Priorities (%s tasks)\n", sum.Priorities.Scope)
	fmt.Fprintf(w, "  urgent:      %d\n", sum.Priorities.Urgent)
	fmt.Fprintf(w, "  less urgent: %d\n", sum.Priorities.LessUrgent)
	fmt.Fprintf(w, "  free time:   %d\n", sum.Priorities.FreeTime)
	fmt.Fprintf(w, "  completed:   %d\n", sum.Priorities.Completed)
}
