package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrPromptCancelled is returned when the user leaves a prompt with esc
var ErrPromptCancelled = errors.New("cancelled")

// PromptModel asks for a single line of input, optionally hidden
type PromptModel struct {
	label     string
	input     textinput.Model
	submitted bool
	cancelled bool
}

// NewPromptModel creates a prompt. secret masks the typed characters.
func NewPromptModel(label string, secret bool) PromptModel {
	input := textinput.New()
	input.Width = 40
	input.CharLimit = 256
	input.Prompt = "› "
	input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	input.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	if secret {
		input.EchoMode = textinput.EchoPassword
		input.EchoCharacter = '•'
	}
	input.Focus()

	return PromptModel{label: label, input: input}
}

// Init starts the cursor blinking
func (m PromptModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// Value is the text typed so far
func (m PromptModel) Value() string {
	return m.input.Value()
}

// View renders the prompt
func (m PromptModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	return labelStyle.Render(m.label) + "\n" + m.input.View() + "\n"
}
