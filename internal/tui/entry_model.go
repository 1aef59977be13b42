package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/feelog/internal/journal"
	"github.com/balkashynov/feelog/internal/models"
	"github.com/balkashynov/feelog/internal/parser"
)

// SaveFunc persists an entry and returns a message for the user
type SaveFunc func(ctx context.Context, req models.RecordRequest) (string, error)

// Field indexes. The mood picker comes after the four text inputs.
const (
	fieldGrateful = iota
	fieldSad
	fieldAngry
	fieldNotes
	fieldMood
	fieldCount
)

var fieldLabels = [...]string{"🙏 Grateful for", "😢 Sad about", "😠 Angry about", "📝 Notes", "Mood"}

type savedMsg struct {
	message string
	err     error
}

// EntryModel is the form for writing or editing one day's entry
type EntryModel struct {
	ctx  context.Context
	save SaveFunc

	width  int
	height int

	date   string
	today  time.Time
	isEdit bool
	inputs []textinput.Model
	mood   int
	focus  int

	saving        bool
	spinner       spinner.Model
	validationErr string
	err           error
	completed     bool
	cancelled     bool
	message       string
}

// NewEntryModel creates a form pre-filled from req
func NewEntryModel(ctx context.Context, req models.RecordRequest, isEdit bool, today time.Time, save SaveFunc) EntryModel {
	inputs := make([]textinput.Model, fieldMood)
	placeholders := []string{
		"What went well today? (Enter to skip)",
		"What made you sad? (Enter to skip)",
		"What made you angry? (Enter to skip)",
		"Anything else (Enter to skip)",
	}
	values := []string{req.Grateful, req.Sad, req.Angry, req.Notes}

	// Apply color theme to all inputs
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 60
		inputs[i].CharLimit = 1000
		inputs[i].Placeholder = placeholders[i]
		inputs[i].SetValue(values[i])

		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	}
	inputs[fieldGrateful].Focus()

	mood := req.Mood
	if !journal.ValidMood(mood) {
		mood = journal.DefaultMood
	}

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	return EntryModel{
		ctx:     ctx,
		save:    save,
		date:    req.Date,
		today:   today,
		isEdit:  isEdit,
		inputs:  inputs,
		mood:    mood,
		spinner: s,
	}
}

// Init starts the cursor blinking
func (m EntryModel) Init() tea.Cmd {
	return textinput.Blink
}

// Request returns the entry as currently typed
func (m EntryModel) Request() models.RecordRequest {
	return models.RecordRequest{
		Date:     m.date,
		Grateful: strings.TrimSpace(m.inputs[fieldGrateful].Value()),
		Sad:      strings.TrimSpace(m.inputs[fieldSad].Value()),
		Angry:    strings.TrimSpace(m.inputs[fieldAngry].Value()),
		Notes:    strings.TrimSpace(m.inputs[fieldNotes].Value()),
		Mood:     m.mood,
	}
}

// Update handles messages
func (m EntryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			// Keep the form so the user can retry
			m.err = msg.err
			return m, nil
		}
		m.completed = true
		m.message = msg.message
		return m, tea.Quit

	case tea.KeyMsg:
		if m.saving {
			if msg.String() == "ctrl+c" {
				m.cancelled = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "ctrl+s":
			return m.submit()

		case "tab", "down":
			return m.setFocus((m.focus + 1) % fieldCount), nil

		case "shift+tab", "up":
			return m.setFocus((m.focus + fieldCount - 1) % fieldCount), nil

		case "enter":
			if m.focus == fieldMood {
				return m.submit()
			}
			return m.setFocus(m.focus + 1), nil
		}

		if m.focus == fieldMood {
			switch msg.String() {
			case "left", "h", "-":
				if m.mood > journal.MoodVeryBad {
					m.mood--
				}
			case "right", "l", "+":
				if m.mood < journal.MoodVeryGood {
					m.mood++
				}
			case "1", "2", "3", "4", "5":
				m.mood = int(msg.String()[0] - '0')
			}
			return m, nil
		}
	}

	// Forward everything else to the focused input
	if m.focus < fieldMood {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m EntryModel) setFocus(field int) EntryModel {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = field
	if field < fieldMood {
		m.inputs[field].Focus()
	}
	return m
}

// submit validates and saves in the background
func (m EntryModel) submit() (tea.Model, tea.Cmd) {
	m.validationErr = "" // Clear any previous validation error
	m.err = nil

	req := m.Request()
	if err := journal.Validate(&req); err != nil {
		m.validationErr = err.Error()
		return m, nil
	}

	m.saving = true
	save := m.save
	ctx := m.ctx
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		message, err := save(ctx, req)
		return savedMsg{message: message, err: err}
	})
}

// View renders the form
func (m EntryModel) View() string {
	if m.cancelled || m.completed {
		return "" // Let the caller print the exit message
	}

	var b strings.Builder

	heading := "✍️  New entry"
	if m.isEdit {
		heading = "✍️  Edit entry"
	}
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(titleStyle.Render(heading + " · " + parser.FormatDay(m.date, m.today)))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	activeLabelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))

	for i := 0; i < fieldCount; i++ {
		style := labelStyle
		if i == m.focus {
			style = activeLabelStyle
		}
		b.WriteString(style.Render(fieldLabels[i]))
		b.WriteString("\n")
		if i < fieldMood {
			b.WriteString(m.inputs[i].View())
		} else {
			b.WriteString(m.renderMoodPicker())
		}
		b.WriteString("\n\n")
	}

	if m.validationErr != "" {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
		b.WriteString(errorStyle.Render("❌ " + m.validationErr))
		b.WriteString("\n")
	}
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
		b.WriteString(errorStyle.Render("❌ " + m.err.Error() + " (ctrl+s to retry)"))
		b.WriteString("\n")
	}
	if m.saving {
		b.WriteString(m.spinner.View() + " Saving...")
		b.WriteString("\n")
	}

	formStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 2)

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		formStyle.Render(b.String()),
		helpStyle.Render("tab/↓ next · shift+tab/↑ back · ←/→ or 1-5 mood · ctrl+s save · esc cancel"),
	)
}

func (m EntryModel) renderMoodPicker() string {
	var parts []string
	for _, mood := range journal.Moods {
		cell := mood.Emoji
		if mood.Value == m.mood {
			cell = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(ColorAccentBright)).
				Render("[" + mood.Emoji + " " + mood.Label + "]")
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, "  ")
}
