package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/curricula/internal/contract"
	"github.com/alexanderramin/curricula/internal/domain"
)

// FormatPathList renders learning paths with their stored totals.
func FormatPathList(paths []*domain.LearningPath) string {
	headers := []string{"ID", "TITLE", "COURSES", "HOURS", "DAYS", "DATES"}
	rows := make([][]string, 0, len(paths))
	for _, p := range paths {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Title),
			fmt.Sprintf("%d", len(p.CourseIDs)),
			FormatHours(p.TotalHours),
			fmt.Sprintf("%d", p.TotalDays),
			DateRange(p.StartAt, p.EndAt),
		})
	}
	return RenderBox("Learning Paths", RenderTable(headers, rows))
}

// FormatPath renders a learning path card, its courses and its enrollments.
func FormatPath(p *domain.LearningPath, courses []*domain.Course, enrollments []*domain.Enrollment) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Title) + "\n\n")
	b.WriteString(field("ID", Dim(p.ID)))
	b.WriteString(field("TOTAL", FormatHours(p.TotalHours)+Dim(" / ")+FormatDays(p.TotalDays)))
	b.WriteString(field("DATES", DateRange(p.StartAt, p.EndAt)))

	if len(courses) > 0 {
		b.WriteString("\n" + Header("Courses") + "\n")
		for _, c := range courses {
			b.WriteString(fmt.Sprintf("  %s  %s  %s\n", TruncID(c.ID), c.Title, Dim(FormatHours(c.TotalHours))))
		}
	}
	if len(enrollments) > 0 {
		b.WriteString("\n" + Header("Enrollments") + "\n")
		for _, e := range enrollments {
			b.WriteString(fmt.Sprintf("  %s  %s  %s\n", e.UserID, EnrollmentStatusPill(e.Status), DateRange(e.StartDate, e.EndDate)))
		}
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatPathSchedule renders the result of scheduling a learning path.
func FormatPathSchedule(resp *contract.LearningPathScheduleResponse) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(resp.Title) + "\n")
	b.WriteString(DateRange(resp.StartAt, resp.EndAt) + "\n")
	b.WriteString(Dim(fmt.Sprintf("%s over %s", FormatHours(resp.TotalHours), FormatDays(resp.TotalDays))) + "\n\n")

	headers := []string{"COURSE", "HOURS", "DAYS", "START", "END", ""}
	rows := make([][]string, 0, len(resp.Courses))
	for _, c := range resp.Courses {
		warn := ""
		if len(c.Unresolved) > 0 {
			warn = FallbackMarker(true)
		}
		rows = append(rows, []string{
			c.Title,
			FormatHours(c.TotalHours),
			fmt.Sprintf("%d", c.TotalDays),
			FormatDate(c.StartAt),
			FormatDate(c.EndAt),
			warn,
		})
	}
	b.WriteString(RenderTable(headers, rows))
	if resp.EnrollmentsUpdated > 0 {
		b.WriteString("\n" + Dim(fmt.Sprintf("%d enrollment(s) rescheduled", resp.EnrollmentsUpdated)) + "\n")
	}
	return RenderBox("Learning Path Schedule", strings.TrimRight(b.String(), "\n"))
}
