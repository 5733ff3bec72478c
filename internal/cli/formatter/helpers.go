package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// DateLayout is how schedule dates are printed and parsed on the command line.
const DateLayout = "2006-01-02"

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatDate prints a day with its weekday, e.g. "2025-01-06 Mon".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout) + " " + t.Format("Mon")
}

// FormatDatePtr is FormatDate with a dim placeholder for unscheduled dates.
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return FormatDate(*t)
}

func dateOrDash(t *time.Time) string {
	if t == nil {
		return "--"
	}
	return t.Format(DateLayout)
}

// DateRange renders "start → end".
func DateRange(start, end *time.Time) string {
	if start == nil && end == nil {
		return Dim("unscheduled")
	}
	return FormatDatePtr(start) + Dim(" → ") + FormatDatePtr(end)
}

// FormatHours prints hours without trailing zeros: 24h, 1.5h.
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// FormatDays prints a working-day count.
func FormatDays(d int) string {
	if d == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", d)
}

// FormatDuration prints a declared topic duration, e.g. "3 days".
func FormatDuration(allocated float64, unit domain.TimeUnit) string {
	return strconv.FormatFloat(allocated, 'f', -1, 64) + " " + UnitBadge(unit)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		id = "--"
	}
	return StyleDim.Render(id)
}

// IDList joins truncated ids, or a dim dash when empty.
func IDList(ids []string, titles map[string]string) string {
	if len(ids) == 0 {
		return Dim("-")
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		if title, ok := titles[id]; ok && title != "" {
			parts[i] = title
			continue
		}
		if len(id) > 8 {
			id = id[:8]
		}
		parts[i] = id
	}
	return strings.Join(parts, ", ")
}

// field renders one "LABEL  value" line of a detail card.
func field(label, value string) string {
	return fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-8s", label)), value)
}
