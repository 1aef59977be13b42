package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/feelog/internal/journal"
	"github.com/balkashynov/feelog/internal/models"
)

// RenderEntry formats the mood and the non-empty sections of a record
func RenderEntry(r models.EmotionRecord) string {
	var b strings.Builder

	moodStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(moodStyle.Render(fmt.Sprintf("%s %s", journal.MoodEmoji(r.Mood), journal.MoodLabel(r.Mood))))
	b.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText))
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	sections := []struct {
		label string
		text  string
	}{
		{fieldLabels[fieldGrateful], r.Grateful},
		{fieldLabels[fieldSad], r.Sad},
		{fieldLabels[fieldAngry], r.Angry},
		{fieldLabels[fieldNotes], r.Notes},
	}
	for _, s := range sections {
		if strings.TrimSpace(s.text) == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(s.label))
		b.WriteString("\n")
		b.WriteString(textStyle.Render(s.text))
		b.WriteString("\n")
	}
	return b.String()
}
