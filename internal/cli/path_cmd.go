package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/curricula/internal/cli/formatter"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/spf13/cobra"
)

func newPathCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "path",
		Aliases: []string{"learning-path"},
		Short:   "Manage learning paths",
	}

	cmd.AddCommand(
		newPathCreateCmd(app),
		newPathListCmd(app),
		newPathShowCmd(app),
		newPathUpdateCmd(app),
		newPathDeleteCmd(app),
	)

	return cmd
}

func newPathCreateCmd(app *App) *cobra.Command {
	var id, title string
	var courses []string
	var start dateValue

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a learning path from existing courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			known, err := courseIDs(ctx, app)
			if err != nil {
				return err
			}
			resolved, err := matchIDs("course", courses, known)
			if err != nil {
				return err
			}
			p := &domain.LearningPath{
				ID:        id,
				Title:     title,
				CourseIDs: resolved,
				StartAt:   start.Time(),
			}
			if err := app.Paths.Create(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created learning path %s (%s) with %d course(s)\n", p.Title, p.ID, len(p.CourseIDs))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Learning path ID (generated when empty)")
	cmd.Flags().StringVar(&title, "title", "", "Learning path title")
	cmd.Flags().StringSliceVar(&courses, "courses", nil, "Course IDs in path order")
	cmd.Flags().Var(&start, "start", "Path start date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newPathListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List learning paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := app.Paths.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No learning paths found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPathList(paths))
			return nil
		},
	}
}

func newPathShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a learning path, its courses and enrollments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePathID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Paths.GetByID(ctx, id)
			if err != nil {
				return err
			}
			courses, err := pathCourses(ctx, app, p)
			if err != nil {
				return err
			}
			enrollments, err := app.Enrollments.ListByLearningPath(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPath(p, courses, enrollments))
			return nil
		},
	}
}

func pathCourses(ctx context.Context, app *App, p *domain.LearningPath) ([]*domain.Course, error) {
	out := make([]*domain.Course, 0, len(p.CourseIDs))
	for _, id := range p.CourseIDs {
		c, err := app.Courses.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func newPathUpdateCmd(app *App) *cobra.Command {
	var title string
	var courses []string
	var start dateValue
	var clearStart bool
	var strict bool

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a learning path's title, courses or start date",
		Long: `Change a learning path. A new course list or start date reschedules
the path's courses, totals and enrollment end dates. Without a start date
the path starts with its earliest course.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePathID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Paths.GetByID(ctx, id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("title") {
				p.Title = title
			}
			if cmd.Flags().Changed("courses") {
				known, err := courseIDs(ctx, app)
				if err != nil {
					return err
				}
				if p.CourseIDs, err = matchIDs("course", courses, known); err != nil {
					return err
				}
			}
			if start.Time() != nil {
				p.StartAt = start.Time()
			}
			if clearStart {
				p.StartAt = nil
			}

			resp, err := app.Paths.Update(ctx, p, app.actor(), strict || app.Strict)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated learning path %s\n", p.ID)
			if resp != nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPathSchedule(resp))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringSliceVar(&courses, "courses", nil, "Replacement course list, in order")
	cmd.Flags().Var(&start, "start", "New start date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearStart, "clear-start", false, "Remove the start date")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on prerequisite cycles")
	cmd.MarkFlagsMutuallyExclusive("start", "clear-start")

	return cmd
}

func newPathDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a learning path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePathID(ctx, app, args[0])
			if err != nil {
				return err
			}
			ok, err := confirmDelete(app, yes, "learning path "+id)
			if err != nil || !ok {
				return err
			}
			if err := app.Paths.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted learning path %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
