package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/curricula/internal/contract"
)

// FormatCascade renders the before/after totals of a duration cascade.
// Unchanged aggregates are listed dimmed.
func FormatCascade(resp *contract.CascadeResponse) string {
	if len(resp.Courses) == 0 && len(resp.Paths) == 0 {
		return Dim("No courses or learning paths were affected.")
	}

	headers := []string{"KIND", "TITLE", "HOURS", "DAYS", "END"}
	rows := make([][]string, 0, len(resp.Courses)+len(resp.Paths))
	for _, group := range [][]contract.TotalsDelta{resp.Courses, resp.Paths} {
		for _, d := range group {
			row := []string{
				string(d.EntityType),
				d.Title,
				change(FormatHours(d.HoursBefore), FormatHours(d.HoursAfter)),
				change(fmt.Sprintf("%d", d.DaysBefore), fmt.Sprintf("%d", d.DaysAfter)),
				change(dateOrDash(d.EndBefore), dateOrDash(d.EndAfter)),
			}
			if !d.Changed() {
				for i := range row {
					row[i] = Dim(row[i])
				}
			}
			rows = append(rows, row)
		}
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	if resp.EnrollmentsUpdated > 0 {
		b.WriteString("\n" + Dim(fmt.Sprintf("%d enrollment(s) rescheduled", resp.EnrollmentsUpdated)) + "\n")
	}
	return RenderBox("Cascade", strings.TrimRight(b.String(), "\n"))
}

func change(before, after string) string {
	if before == after {
		return after
	}
	return before + Dim(" → ") + StyleYellow.Render(after)
}
