package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/feelog/internal/models"
)

// RunCalendar starts the interactive calendar on day. It returns the date
// the user picked for writing, or "" when they just quit.
func RunCalendar(ctx context.Context, source MonthSource, lookup DayLookup, day time.Time) (string, error) {
	model := NewCalendarModel(ctx, source, lookup, day, time.Now())

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	if m, ok := finalModel.(CalendarModel); ok {
		return m.EditDate(), nil
	}
	return "", nil
}

// RunEntryForm starts the interactive entry form pre-filled from req
func RunEntryForm(ctx context.Context, req models.RecordRequest, isEdit bool, save SaveFunc) error {
	model := NewEntryModel(ctx, req, isEdit, time.Now(), save)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()

	// Handle exit messages after TUI closes
	if err != nil {
		return err
	}

	if m, ok := finalModel.(EntryModel); ok {
		if m.cancelled {
			fmt.Println("❌ Entry not saved.")
		} else if m.completed {
			fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Render(m.message))
		}
	}

	return nil
}

// Prompt asks for one line of input in the terminal
func Prompt(label string, secret bool) (string, error) {
	p := tea.NewProgram(NewPromptModel(label, secret))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	m, ok := finalModel.(PromptModel)
	if !ok || m.cancelled {
		return "", ErrPromptCancelled
	}
	return m.Value(), nil
}
