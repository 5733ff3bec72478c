package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/curricula/internal/cli/formatter"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/spf13/cobra"
)

func newTopicCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Manage topics",
	}

	cmd.AddCommand(
		newTopicCreateCmd(app),
		newTopicListCmd(app),
		newTopicShowCmd(app),
		newTopicRenameCmd(app),
		newTopicSetDurationCmd(app),
		newTopicDeleteCmd(app),
	)

	return cmd
}

func newTopicCreateCmd(app *App) *cobra.Command {
	var id, title string
	var allocated float64
	unit := newUnitValue(domain.TimeUnitHours)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &domain.Topic{
				ID:            id,
				Title:         title,
				TimeAllocated: allocated,
				TimeUnit:      unit.unit,
			}
			if err := app.Topics.Create(cmd.Context(), t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created topic %s (%s)\n", t.Title, t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Topic ID (generated when empty)")
	cmd.Flags().StringVar(&title, "title", "", "Topic title")
	cmd.Flags().Float64Var(&allocated, "time", 0, "Time allocated, in --unit")
	cmd.Flags().Var(unit, "unit", "Time unit: hours or days")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

func newTopicListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			topics, err := app.Topics.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(topics) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No topics found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTopicList(topics))
			return nil
		},
	}
}

func newTopicShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a topic and the courses that use it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTopicID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Topics.GetByID(ctx, id)
			if err != nil {
				return err
			}
			courses, err := app.Courses.ListContainingTopic(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTopic(t, courses))
			return nil
		},
	}
}

func newTopicRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename ID TITLE",
		Short: "Rename a topic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTopicID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Topics.Rename(ctx, id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed topic %s to %s\n", id, args[1])
			return nil
		},
	}
}

func newTopicSetDurationCmd(app *App) *cobra.Command {
	var allocated float64
	unit := newUnitValue(domain.TimeUnitHours)

	cmd := &cobra.Command{
		Use:   "set-duration ID",
		Short: "Change a topic's duration and recalculate everything that contains it",
		Long: `Change a topic's duration. Every course that lists the topic, every
learning path containing those courses and every dated enrollment on those
paths is recalculated in the same transaction.

Without --time the new duration is asked for interactively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTopicID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Topics.GetByID(ctx, id)
			if err != nil {
				return err
			}

			newAllocated, newUnit := allocated, unit.unit
			if !cmd.Flags().Changed("time") {
				if newAllocated, newUnit, err = promptDuration(app, t); err != nil {
					return err
				}
			} else if !cmd.Flags().Changed("unit") {
				newUnit = t.TimeUnit
			}

			resp, err := app.Topics.UpdateDuration(ctx, id, newAllocated, newUnit, app.actor())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Topic %s now takes %s\n", t.Title,
				formatter.FormatDuration(newAllocated, newUnit))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCascade(resp))
			return nil
		},
	}

	cmd.Flags().Float64Var(&allocated, "time", 0, "New time allocated")
	cmd.Flags().Var(unit, "unit", "Time unit: hours or days (defaults to the topic's current unit)")

	return cmd
}

func promptDuration(app *App, t *domain.Topic) (float64, domain.TimeUnit, error) {
	if !app.interactive() {
		return 0, "", fmt.Errorf("--time is required in a non-interactive session")
	}
	amount := strconv.FormatFloat(t.TimeAllocated, 'f', -1, 64)
	unit := t.TimeUnit
	if err := durationForm("Time allocated to "+t.Title, &amount, &unit).Run(); err != nil {
		return 0, "", err
	}
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid time %q: %w", amount, err)
	}
	return v, unit, nil
}

func newTopicDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a topic no course uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTopicID(ctx, app, args[0])
			if err != nil {
				return err
			}
			ok, err := confirmDelete(app, yes, "topic "+id)
			if err != nil || !ok {
				return err
			}
			if err := app.Topics.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted topic %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
