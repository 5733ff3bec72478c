package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/curricula/internal/calendar"
	"github.com/alexanderramin/curricula/internal/cli/formatter"
	"github.com/alexanderramin/curricula/internal/scheduler"
	"github.com/spf13/cobra"
)

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Inspect the working calendar",
	}

	cmd.AddCommand(
		newCalendarInfoCmd(app),
		newCalendarHolidaysCmd(app),
		newCalendarCheckCmd(app),
		newCalendarAddCmd(app),
	)

	return cmd
}

func newCalendarInfoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the calendar rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			fixed := app.Calendar.FixedHolidays()
			days := make([]string, len(fixed))
			for i, md := range fixed {
				days[i] = md.String()
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Working week:   Monday to Friday\n")
			fmt.Fprintf(out, "Hours per day:  %s\n", formatter.FormatHours(scheduler.HoursPerDay))
			fmt.Fprintf(out, "Fixed holidays: %s\n", strings.Join(days, ", "))
			fmt.Fprintf(out, "Also closed:    last Monday of August\n")
			return nil
		},
	}
}

func newCalendarHolidaysCmd(app *App) *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List holidays for a range of years",
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == 0 {
				from = time.Now().UTC().Year()
			}
			if to == 0 {
				to = from
			}
			if to < from {
				return fmt.Errorf("--to (%d) is before --from (%d)", to, from)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatHolidays(app.Calendar.Holidays(from, to)))
			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "First year (defaults to the current year)")
	cmd.Flags().IntVar(&to, "to", 0, "Last year (defaults to --from)")

	return cmd
}

func newCalendarCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check DATE",
		Short: "Tell whether a day is a working day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(args[0])
			if err != nil {
				return err
			}
			working := app.Calendar.IsWorkingDay(d)
			var next time.Time
			if !working {
				next = app.Calendar.NextWorkingDay(d)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.WorkingDayLabel(d, working, next))
			return nil
		},
	}
}

func newCalendarAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add DATE DAYS",
		Short: "Show the last day of a span of working days starting at DATE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(args[0])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid day count %q: must be a non-negative integer", args[1])
			}
			end := app.Calendar.AddWorkingDays(calendar.Day(d), n)
			fmt.Fprintf(cmd.OutOrStdout(), "%d working day(s) from %s end on %s\n",
				n, formatter.FormatDate(d), formatter.FormatDate(end))
			return nil
		},
	}
}
