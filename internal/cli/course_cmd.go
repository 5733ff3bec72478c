package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/curricula/internal/cli/formatter"
	"github.com/alexanderramin/curricula/internal/contract"
	"github.com/alexanderramin/curricula/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newCourseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage courses",
	}

	cmd.AddCommand(
		newCourseCreateCmd(app),
		newCourseListCmd(app),
		newCourseShowCmd(app),
		newCourseRenameCmd(app),
		newCourseDeleteCmd(app),
	)

	return cmd
}

func newCourseCreateCmd(app *App) *cobra.Command {
	var id, title string
	var topics []string
	var prereqs, coreqs relationsValue
	var start dateValue

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a course from existing topics",
		Long: `Create a course. Topics are listed in order with --topics. Without
--prereq entries each topic follows the one before it; "--prereq B:A" makes
B wait for A, and "--prereq B:" makes B independent. "--coreq B:A" runs B
alongside A.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			known, err := topicIDs(ctx, app)
			if err != nil {
				return err
			}
			resolved, err := matchIDs("topic", topics, known)
			if err != nil {
				return err
			}
			prereqMap, err := resolveRelations(prereqs.Map(), resolved)
			if err != nil {
				return err
			}
			coreqMap, err := resolveRelations(coreqs.Map(), resolved)
			if err != nil {
				return err
			}

			c := &domain.Course{
				ID:                 id,
				Title:              title,
				TopicIDs:           resolved,
				TopicPrerequisites: prereqMap,
				TopicCorequisites:  coreqMap,
				StartAt:            start.Time(),
			}
			if err := app.Courses.Create(ctx, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created course %s (%s) with %d topic(s)\n", c.Title, c.ID, len(c.TopicIDs))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Course ID (generated when empty)")
	cmd.Flags().StringVar(&title, "title", "", "Course title")
	cmd.Flags().StringSliceVar(&topics, "topics", nil, "Topic IDs in course order")
	cmd.Flags().Var(&prereqs, "prereq", "Prerequisites as TOPIC:DEP1,DEP2 (repeatable)")
	cmd.Flags().Var(&coreqs, "coreq", "Corequisites as TOPIC:DEP1,DEP2 (repeatable)")
	cmd.Flags().Var(&start, "start", "Course start date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newCourseListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			courses, err := app.Courses.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(courses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No courses found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCourseList(courses))
			return nil
		},
	}
}

func newCourseShowCmd(app *App) *cobra.Command {
	var tui bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a course and its topics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCourseID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if tui {
				if !app.interactive() {
					return fmt.Errorf("--tui needs an interactive terminal")
				}
				resp, err := app.Schedule.PreviewCourse(ctx, courseRequest(app, id, false))
				if err != nil {
					return err
				}
				_, err = tea.NewProgram(newScheduleBrowser(resp), tea.WithAltScreen()).Run()
				return err
			}

			c, err := app.Courses.GetByID(ctx, id)
			if err != nil {
				return err
			}
			topics, err := courseTopics(ctx, app, c)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCourse(c, topics))
			return nil
		},
	}

	cmd.Flags().BoolVar(&tui, "tui", false, "Browse the computed schedule interactively")

	return cmd
}

// courseTopics loads a course's topics in course order.
func courseTopics(ctx context.Context, app *App, c *domain.Course) ([]*domain.Topic, error) {
	all, err := app.Topics.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Topic, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}
	out := make([]*domain.Topic, 0, len(c.TopicIDs))
	for _, id := range c.TopicIDs {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func courseRequest(app *App, courseID string, strict bool) contract.ScheduleCourseRequest {
	req := contract.NewScheduleCourseRequest(courseID)
	req.UpdatedBy = app.actor()
	req.RejectCycles = strict || app.Strict
	return req
}

func newCourseRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID TITLE",
		Short: "Rename a course",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCourseID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Courses.Rename(ctx, id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed course %s to %s\n", id, args[1])
			return nil
		},
	}
}

func newCourseDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a course no learning path uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCourseID(ctx, app, args[0])
			if err != nil {
				return err
			}
			ok, err := confirmDelete(app, yes, "course "+id)
			if err != nil || !ok {
				return err
			}
			if err := app.Courses.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted course %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
