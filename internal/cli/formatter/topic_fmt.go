package formatter

import (
	"strings"

	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/alexanderramin/curricula/internal/scheduler"
)

// FormatTopicList renders the topic catalog.
func FormatTopicList(topics []*domain.Topic) string {
	headers := []string{"ID", "TITLE", "DURATION", "HOURS", "SCHEDULED"}
	rows := make([][]string, 0, len(topics))
	for _, t := range topics {
		rows = append(rows, []string{
			TruncID(t.ID),
			Bold(t.Title),
			FormatDuration(t.TimeAllocated, t.TimeUnit),
			FormatHours(scheduler.TopicHours(*t)),
			DateRange(t.StartDate, t.EndDate),
		})
	}
	return RenderBox("Topics", RenderTable(headers, rows))
}

// FormatTopic renders one topic and the courses that list it.
func FormatTopic(t *domain.Topic, courses []*domain.Course) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(t.Title) + "\n\n")
	b.WriteString(field("ID", Dim(t.ID)))
	b.WriteString(field("DURATION", FormatDuration(t.TimeAllocated, t.TimeUnit)+Dim(" = ")+FormatHours(scheduler.TopicHours(*t))))
	b.WriteString(field("DATES", DateRange(t.StartDate, t.EndDate)))
	b.WriteString(field("PREREQS", IDList(t.Prerequisites, nil)))
	b.WriteString(field("COREQS", IDList(t.Corequisites, nil)))

	if len(courses) > 0 {
		b.WriteString("\n" + Header("Courses") + "\n")
		for _, c := range courses {
			b.WriteString("  " + TruncID(c.ID) + "  " + c.Title + "\n")
		}
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}
