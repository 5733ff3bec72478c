package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// EnrollmentStatusPill returns a colored status indicator for an enrollment.
func EnrollmentStatusPill(status domain.EnrollmentStatus) string {
	switch status {
	case domain.EnrollmentActive:
		return StyleGreen.Render("● Active")
	case domain.EnrollmentCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.EnrollmentWithdrawn:
		return StyleDim.Render("✖ Withdrawn")
	default:
		return StyleDim.Render(string(status))
	}
}

// UnitBadge colors a duration unit.
func UnitBadge(unit domain.TimeUnit) string {
	if unit == domain.TimeUnitDays {
		return StylePurple.Render(string(unit))
	}
	return StyleBlue.Render(string(unit))
}

// FallbackMarker flags a topic placed by the fallback pass.
func FallbackMarker(fallback bool) string {
	if !fallback {
		return ""
	}
	return StyleYellow.Render("▲ cycle")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// Warning renders a yellow warning line.
func Warning(text string) string {
	return StyleYellow.Render("! " + text)
}
