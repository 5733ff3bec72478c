package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/curricula/internal/cli/formatter"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/spf13/cobra"
)

func newEnrollmentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "enrollment",
		Aliases: []string{"enroll"},
		Short:   "Manage learner enrollments on learning paths",
	}

	cmd.AddCommand(
		newEnrollmentAddCmd(app),
		newEnrollmentListCmd(app),
		newEnrollmentTransitionCmd("withdraw", "Withdraw an enrollment", "Withdrew", func(ctx context.Context, id string) error {
			return app.Enrollments.Withdraw(ctx, id)
		}),
		newEnrollmentTransitionCmd("complete", "Mark an enrollment completed", "Completed", func(ctx context.Context, id string) error {
			return app.Enrollments.Complete(ctx, id)
		}),
	)

	return cmd
}

func newEnrollmentAddCmd(app *App) *cobra.Command {
	var pathInput, userID string
	var start dateValue

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Enroll a learner; the end date follows from the path's working days",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pathID, err := resolvePathID(ctx, app, pathInput)
			if err != nil {
				return err
			}
			e := &domain.Enrollment{
				LearningPathID: pathID,
				UserID:         userID,
				StartDate:      start.Time(),
			}
			if err := app.Enrollments.Enroll(ctx, e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enrolled %s (%s), ends %s\n",
				e.UserID, e.ID, formatter.FormatDatePtr(e.EndDate))
			return nil
		},
	}

	cmd.Flags().StringVar(&pathInput, "path", "", "Learning path ID")
	cmd.Flags().StringVar(&userID, "user", "", "Learner ID")
	cmd.Flags().Var(&start, "start", "Start date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("path")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newEnrollmentListCmd(app *App) *cobra.Command {
	var pathInput, userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List enrollments of a learning path or a learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var enrollments []*domain.Enrollment
			if userID != "" {
				var err error
				if enrollments, err = app.Enrollments.ListByUser(ctx, userID); err != nil {
					return err
				}
			} else {
				pathID, err := resolvePathID(ctx, app, pathInput)
				if err != nil {
					return err
				}
				if enrollments, err = app.Enrollments.ListByLearningPath(ctx, pathID); err != nil {
					return err
				}
			}
			if len(enrollments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No enrollments found.")
				return nil
			}
			titles, err := pathTitles(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEnrollmentList(enrollments, titles))
			return nil
		},
	}

	cmd.Flags().StringVar(&pathInput, "path", "", "Learning path ID")
	cmd.Flags().StringVar(&userID, "user", "", "Learner ID")
	cmd.MarkFlagsMutuallyExclusive("path", "user")
	cmd.MarkFlagsOneRequired("path", "user")

	return cmd
}

func pathTitles(ctx context.Context, app *App) (map[string]string, error) {
	paths, err := app.Paths.List(ctx)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(paths))
	for _, p := range paths {
		titles[p.ID] = p.Title
	}
	return titles, nil
}

func newEnrollmentTransitionCmd(use, short, verb string, apply func(context.Context, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apply(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s enrollment %s\n", verb, args[0])
			return nil
		},
	}
}
