package formatter

import "github.com/alexanderramin/curricula/internal/domain"

// FormatEnrollmentList renders enrollments. pathTitles maps learning path
// ids to titles and may be nil.
func FormatEnrollmentList(enrollments []*domain.Enrollment, pathTitles map[string]string) string {
	headers := []string{"ID", "USER", "PATH", "STATUS", "START", "END"}
	rows := make([][]string, 0, len(enrollments))
	for _, e := range enrollments {
		path := pathTitles[e.LearningPathID]
		if path == "" {
			path = TruncID(e.LearningPathID)
		}
		rows = append(rows, []string{
			TruncID(e.ID),
			Bold(e.UserID),
			path,
			EnrollmentStatusPill(e.Status),
			FormatDatePtr(e.StartDate),
			FormatDatePtr(e.EndDate),
		})
	}
	return RenderBox("Enrollments", RenderTable(headers, rows))
}
