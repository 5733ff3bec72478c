package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/curricula/internal/contract"
	"github.com/alexanderramin/curricula/internal/domain"
)

// FormatCourseList renders courses with their stored totals.
func FormatCourseList(courses []*domain.Course) string {
	headers := []string{"ID", "TITLE", "TOPICS", "HOURS", "DAYS", "DATES"}
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{
			TruncID(c.ID),
			Bold(c.Title),
			fmt.Sprintf("%d", len(c.TopicIDs)),
			FormatHours(c.TotalHours),
			fmt.Sprintf("%d", c.TotalDays),
			DateRange(c.StartAt, c.EndAt),
		})
	}
	return RenderBox("Courses", RenderTable(headers, rows))
}

// FormatCourse renders a course card with its topics in stored order.
func FormatCourse(c *domain.Course, topics []*domain.Topic) string {
	titles := topicTitles(topics)

	var b strings.Builder
	b.WriteString(StyleBold.Render(c.Title) + "\n\n")
	b.WriteString(field("ID", Dim(c.ID)))
	b.WriteString(field("TOTAL", FormatHours(c.TotalHours)+Dim(" / ")+FormatDays(c.TotalDays)))
	b.WriteString(field("DATES", DateRange(c.StartAt, c.EndAt)))

	if len(topics) > 0 {
		b.WriteString("\n")
		headers := []string{"TOPIC", "DURATION", "PREREQS", "COREQS", "DATES"}
		rows := make([][]string, 0, len(topics))
		for _, t := range topics {
			prereqs, hasPrereqs := c.TopicPrerequisites[t.ID]
			if !hasPrereqs {
				prereqs = t.Prerequisites
			}
			coreqs, hasCoreqs := c.TopicCorequisites[t.ID]
			if !hasCoreqs {
				coreqs = t.Corequisites
			}
			rows = append(rows, []string{
				t.Title,
				FormatDuration(t.TimeAllocated, t.TimeUnit),
				IDList(prereqs, titles),
				IDList(coreqs, titles),
				DateRange(t.StartDate, t.EndDate),
			})
		}
		b.WriteString(RenderTable(headers, rows))
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatCourseSchedule renders a computed course schedule in placement order.
func FormatCourseSchedule(resp *contract.CourseScheduleResponse) string {
	titles := make(map[string]string, len(resp.Topics))
	for _, t := range resp.Topics {
		titles[t.TopicID] = t.Title
	}

	var b strings.Builder
	b.WriteString(StyleBold.Render(resp.Title) + "\n")
	b.WriteString(FormatDate(resp.StartAt) + Dim(" → ") + FormatDate(resp.EndAt) + "\n")
	b.WriteString(Dim(fmt.Sprintf("%s over %s", FormatHours(resp.TotalHours), FormatDays(resp.TotalDays))) + "\n\n")

	headers := []string{"#", "TOPIC", "HOURS", "START", "END", "AFTER", "WITH", ""}
	rows := make([][]string, 0, len(resp.Topics))
	for i, t := range resp.Topics {
		rows = append(rows, []string{
			Dim(fmt.Sprintf("%d", i+1)),
			t.Title,
			FormatHours(t.Hours),
			FormatDate(t.StartDate),
			FormatDate(t.EndDate),
			IDList(t.Prerequisites, titles),
			IDList(t.Corequisites, titles),
			FallbackMarker(t.Fallback),
		})
	}
	b.WriteString(RenderTable(headers, rows))

	if len(resp.Unresolved) > 0 {
		b.WriteString("\n" + Warning(fmt.Sprintf("%d topic(s) sit on a prerequisite cycle: %s",
			len(resp.Unresolved), IDList(resp.Unresolved, titles))) + "\n")
	}
	if !resp.Applied {
		b.WriteString("\n" + Dim("dry run: nothing was written") + "\n")
	}

	return RenderBox("Schedule", strings.TrimRight(b.String(), "\n"))
}

func topicTitles(topics []*domain.Topic) map[string]string {
	titles := make(map[string]string, len(topics))
	for _, t := range topics {
		titles[t.ID] = t.Title
	}
	return titles
}
