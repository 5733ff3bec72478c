package cli

import (
	"fmt"

	"github.com/alexanderramin/curricula/internal/cli/formatter"
	"github.com/alexanderramin/curricula/internal/contract"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute working-day schedules",
	}

	cmd.AddCommand(
		newScheduleCourseCmd(app),
		newSchedulePathCmd(app),
		newScheduleTopicCmd(app),
	)

	return cmd
}

func newScheduleCourseCmd(app *App) *cobra.Command {
	var start, fallback dateValue
	var dryRun, strict bool

	cmd := &cobra.Command{
		Use:   "course ID",
		Short: "Schedule a course's topics on working days",
		Long: `Schedule a course. The start date is --start, else the course's own
start date, else --fallback-start, else today. Topics on a prerequisite cycle
are placed after everything else unless --strict is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveCourseID(ctx, app, args[0])
			if err != nil {
				return err
			}
			req := courseRequest(app, id, strict)
			req.StartAtOverride = start.Time()
			req.FallbackStartAt = fallback.Time()

			var resp *contract.CourseScheduleResponse
			if dryRun {
				resp, err = app.Schedule.PreviewCourse(ctx, req)
			} else {
				resp, err = app.Schedule.ScheduleCourse(ctx, req)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCourseSchedule(resp))
			return nil
		},
	}

	cmd.Flags().Var(&start, "start", "Start date overriding the course's own (YYYY-MM-DD)")
	cmd.Flags().Var(&fallback, "fallback-start", "Start date used when the course has none (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute without saving")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on prerequisite cycles")

	return cmd
}

func newSchedulePathCmd(app *App) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "path ID",
		Short: "Schedule every course of a learning path and its enrollments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePathID(ctx, app, args[0])
			if err != nil {
				return err
			}
			req := contract.NewScheduleLearningPathRequest(id)
			req.UpdatedBy = app.actor()
			req.RejectCycles = strict || app.Strict

			resp, err := app.Schedule.ScheduleLearningPath(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPathSchedule(resp))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on prerequisite cycles")

	return cmd
}

func newScheduleTopicCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "topic ID",
		Short: "Recalculate every course, learning path and enrollment containing a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTopicID(ctx, app, args[0])
			if err != nil {
				return err
			}
			req := contract.NewCascadeRequest(id)
			req.UpdatedBy = app.actor()

			resp, err := app.Schedule.RecalculateForTopic(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCascade(resp))
			return nil
		},
	}
}
