package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/curricula/internal/cli/formatter"
	"github.com/alexanderramin/curricula/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var errNeedsConfirmation = errors.New("refusing to delete without confirmation: pass --yes")

func curriculaHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// confirmForm asks a yes/no question.
func confirmForm(title, description string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(curriculaHuhTheme()).WithShowHelp(false)
}

// confirmDelete returns true when the deletion may go ahead. --yes skips the
// prompt; without it a non-interactive session is refused.
func confirmDelete(app *App, yes bool, what string) (bool, error) {
	if yes {
		return true, nil
	}
	if !app.interactive() {
		return false, errNeedsConfirmation
	}
	var ok bool
	if err := confirmForm(fmt.Sprintf("Delete %s?", what), "This cannot be undone.", &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// durationForm collects a topic duration. amount is pre-filled with the
// current value.
func durationForm(title string, amount *string, unit *domain.TimeUnit) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("8").
				Value(amount).
				Validate(validatePositiveNumber),
			huh.NewSelect[domain.TimeUnit]().
				Title("Unit").
				Options(
					huh.NewOption("Hours", domain.TimeUnitHours),
					huh.NewOption("Days", domain.TimeUnitDays),
				).
				Value(unit),
		),
	).WithTheme(curriculaHuhTheme()).WithShowHelp(false)
}

func validatePositiveNumber(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}
