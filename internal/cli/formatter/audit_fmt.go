package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/curricula/internal/domain"
)

// FormatAuditLog renders audit entries in the order given.
func FormatAuditLog(entries []*domain.AuditEntry) string {
	headers := []string{"WHEN", "ENTITY", "ID", "ACTION", "BY", "DETAILS"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			Dim(e.CreatedAt.Format("2006-01-02 15:04:05")),
			string(e.EntityType),
			TruncID(e.EntityID),
			actionLabel(e.Action),
			e.ActorID,
			FormatDetails(e.Details),
		})
	}
	return RenderBox("Audit Log", RenderTable(headers, rows))
}

func actionLabel(a domain.AuditAction) string {
	switch a {
	case domain.ActionDurationChanged, domain.ActionDurationCascade:
		return StyleYellow.Render(string(a))
	case domain.ActionCatalogImported:
		return StylePurple.Render(string(a))
	default:
		return StyleBlue.Render(string(a))
	}
}

// FormatDetails prints audit details as sorted key=value pairs.
func FormatDetails(details map[string]any) string {
	if len(details) == 0 {
		return Dim("-")
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, details[k])
	}
	return strings.Join(parts, " ")
}
