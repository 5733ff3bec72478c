package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/curricula/internal/contract"
)

// FormatHolidays lists holidays grouped by year.
func FormatHolidays(days []time.Time) string {
	if len(days) == 0 {
		return Dim("No holidays.")
	}
	var b strings.Builder
	year := 0
	for _, d := range days {
		if d.Year() != year {
			if year != 0 {
				b.WriteString("\n")
			}
			year = d.Year()
			b.WriteString(Header(fmt.Sprintf("%d", year)) + "\n")
		}
		b.WriteString("  " + FormatDate(d) + "\n")
	}
	return RenderBox("Holidays", strings.TrimRight(b.String(), "\n"))
}

// WorkingDayLabel reports a day's status in one line.
func WorkingDayLabel(d time.Time, working bool, next time.Time) string {
	if working {
		return FormatDate(d) + "  " + StyleGreen.Render("working day")
	}
	return FormatDate(d) + "  " + StyleRed.Render("not a working day") + Dim(", next is ") + FormatDate(next)
}

// FormatImportResult summarises an imported catalog.
func FormatImportResult(res *contract.ImportResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s topics, %s courses, %s learning paths, %s enrollments\n",
		Bold(fmt.Sprintf("%d", res.TopicCount)),
		Bold(fmt.Sprintf("%d", res.CourseCount)),
		Bold(fmt.Sprintf("%d", res.PathCount)),
		Bold(fmt.Sprintf("%d", res.EnrollmentCount)),
	))
	if len(res.Schedules) > 0 {
		b.WriteString("\n")
		headers := []string{"COURSE", "HOURS", "DAYS", "START", "END", ""}
		rows := make([][]string, 0, len(res.Schedules))
		for _, s := range res.Schedules {
			warn := ""
			if len(s.Unresolved) > 0 {
				warn = FallbackMarker(true)
			}
			rows = append(rows, []string{
				s.Title,
				FormatHours(s.TotalHours),
				fmt.Sprintf("%d", s.TotalDays),
				FormatDate(s.StartAt),
				FormatDate(s.EndAt),
				warn,
			})
		}
		b.WriteString(RenderTable(headers, rows))
	}
	return RenderBox("Imported", strings.TrimRight(b.String(), "\n"))
}
