package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/feelog/internal/journal"
	"github.com/balkashynov/feelog/internal/models"
	"github.com/balkashynov/feelog/internal/parser"
)

// MonthSource loads the per-day summary of a month.
type MonthSource interface {
	CalendarMonth(ctx context.Context, year, month int) (*models.CalendarMonth, error)
}

// DayLookup loads the full entry of one day. A missing entry is not an error.
type DayLookup interface {
	GetByDate(ctx context.Context, date string) (*models.EmotionRecord, bool)
}

type monthLoadedMsg struct {
	month time.Time
	cal   *models.CalendarMonth
	err   error
}

type dayLoadedMsg struct {
	date   string
	record *models.EmotionRecord
}

// CalendarModel shows one month with a mood marker per written day
type CalendarModel struct {
	ctx    context.Context
	source MonthSource
	lookup DayLookup

	width  int
	height int

	today    time.Time
	month    time.Time // first day of the shown month, UTC
	selected int       // day of month
	days     map[string]models.CalendarDay
	detail   *models.EmotionRecord
	detailOf string

	loading bool
	spinner spinner.Model
	err     error

	// Set when the user asks to edit the selected day
	editDate string
	quitting bool
}

// NewCalendarModel creates a calendar positioned on day
func NewCalendarModel(ctx context.Context, source MonthSource, lookup DayLookup, day, today time.Time) CalendarModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	return CalendarModel{
		ctx:      ctx,
		source:   source,
		lookup:   lookup,
		today:    time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
		month:    time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC),
		selected: day.Day(),
		days:     map[string]models.CalendarDay{},
		loading:  true,
		spinner:  s,
	}
}

// Init loads the first month
func (m CalendarModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadMonth(m.month))
}

// Update handles messages
func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case monthLoadedMsg:
		// Ignore answers for a month the user already left
		if !msg.month.Equal(m.month) {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.cal != nil {
			m.days = msg.cal.Records
		}
		return m, nil

	case dayLoadedMsg:
		if msg.date == m.SelectedDate() {
			m.detail = msg.record
			m.detailOf = msg.date
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit

		case "left", "h":
			return m.moveSelection(-1)

		case "right", "l":
			return m.moveSelection(1)

		case "up", "k":
			return m.moveSelection(-7)

		case "down", "j":
			return m.moveSelection(7)

		case "[", "pgup":
			return m.changeMonth(-1)

		case "]", "pgdown":
			return m.changeMonth(1)

		case "t":
			return m.jumpTo(m.today)

		case "enter":
			return m, m.loadDay(m.SelectedDate())

		case "e":
			m.editDate = m.SelectedDate()
			return m, tea.Quit
		}
	}

	return m, nil
}

// SelectedDate returns the selected day as YYYY-MM-DD
func (m CalendarModel) SelectedDate() string {
	return time.Date(m.month.Year(), m.month.Month(), m.selected, 0, 0, 0, 0, time.UTC).Format(parser.DayLayout)
}

// EditDate is the day the user chose to edit, if any
func (m CalendarModel) EditDate() string {
	return m.editDate
}

// moveSelection moves by delta days, loading the neighbouring month when
// the selection leaves the shown one
func (m CalendarModel) moveSelection(delta int) (tea.Model, tea.Cmd) {
	current := time.Date(m.month.Year(), m.month.Month(), m.selected, 0, 0, 0, 0, time.UTC)
	return m.jumpTo(current.AddDate(0, 0, delta))
}

// changeMonth keeps the day of month where possible
func (m CalendarModel) changeMonth(delta int) (tea.Model, tea.Cmd) {
	target := m.month.AddDate(0, delta, 0)
	day := m.selected
	if last := daysIn(target); day > last {
		day = last
	}
	return m.jumpTo(time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC))
}

func (m CalendarModel) jumpTo(day time.Time) (tea.Model, tea.Cmd) {
	m.selected = day.Day()
	m.detail = nil
	m.detailOf = ""

	month := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	if month.Equal(m.month) {
		return m, nil
	}

	m.month = month
	m.days = map[string]models.CalendarDay{}
	m.loading = true
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.loadMonth(month))
}

func (m CalendarModel) loadMonth(month time.Time) tea.Cmd {
	return func() tea.Msg {
		cal, err := m.source.CalendarMonth(m.ctx, month.Year(), int(month.Month()))
		return monthLoadedMsg{month: month, cal: cal, err: err}
	}
}

func (m CalendarModel) loadDay(date string) tea.Cmd {
	if m.lookup == nil {
		return nil
	}
	return func() tea.Msg {
		rec, _ := m.lookup.GetByDate(m.ctx, date)
		return dayLoadedMsg{date: date, record: rec}
	}
}

// View renders the calendar
func (m CalendarModel) View() string {
	if m.quitting || m.editDate != "" {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	title := titleStyle.Render("🗓  " + m.month.Format("January 2006"))
	if m.loading {
		title += "  " + m.spinner.View()
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(RenderMonthGrid(m.month, m.days, m.selected, m.today))
	b.WriteString("\n")

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
		b.WriteString(errorStyle.Render("❌ " + m.err.Error()))
		b.WriteString("\n")
	}

	gridStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		gridStyle.Render(b.String()),
		m.renderDetails(),
		m.renderHelpBar(),
	)
}

// renderDetails shows the summary, or the full entry once loaded
func (m CalendarModel) renderDetails() string {
	var b strings.Builder
	date := m.SelectedDate()

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Italic(true)

	b.WriteString(labelStyle.Render(parser.FormatDay(date, m.today)))
	b.WriteString("\n")

	day, ok := m.days[date]
	switch {
	case m.detail != nil && m.detailOf == date:
		b.WriteString(RenderEntry(*m.detail))
	case ok && day.HasRecord:
		b.WriteString(fmt.Sprintf("%s %s", journal.MoodEmoji(day.Mood), journal.MoodLabel(day.Mood)))
		if day.Preview != "" {
			b.WriteString("\n")
			b.WriteString(mutedStyle.Render(day.Preview))
		}
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("enter to open"))
	default:
		b.WriteString(mutedStyle.Render("No entry. Press e to write one"))
	}

	return lipgloss.NewStyle().Padding(1, 1, 0, 1).Render(b.String())
}

// renderHelpBar renders the hotkey hints
func (m CalendarModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		MarginTop(1)

	return helpStyle.Render("←/→/↑/↓ day · [/] month · t today · enter open · e write · q/esc quit")
}

// RenderMonthGrid draws a Monday-first month. Written days carry their mood
// emoji; selected is highlighted, 0 selects nothing.
func RenderMonthGrid(month time.Time, days map[string]models.CalendarDay, selected int, today time.Time) string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Background(lipgloss.Color(ColorAccentMain))
	todayStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWarning))

	var b strings.Builder
	for _, name := range []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"} {
		b.WriteString(headerStyle.Render(fmt.Sprintf(" %-4s", name)))
	}
	b.WriteString("\n")

	todayKey := today.Format(parser.DayLayout)
	for _, week := range MonthGrid(month) {
		for _, d := range week {
			if d == 0 {
				b.WriteString("     ")
				continue
			}

			key := time.Date(month.Year(), month.Month(), d, 0, 0, 0, 0, time.UTC).Format(parser.DayLayout)
			marker := "  "
			day, written := days[key]
			written = written && day.HasRecord
			if written {
				marker = journal.MoodEmoji(day.Mood)
			}

			num := fmt.Sprintf("%2d", d)
			switch {
			case d == selected:
				num = selectedStyle.Render(num)
			case key == todayKey:
				num = todayStyle.Render(num)
			case written:
				num = lipgloss.NewStyle().Foreground(lipgloss.Color(MoodColor(day.Mood))).Render(num)
			}
			b.WriteString(" " + num + marker)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// MonthGrid lays out the days of month in Monday-first weeks. Cells outside
// the month are 0.
func MonthGrid(month time.Time) [][7]int {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7 // Monday = 0

	var weeks [][7]int
	var week [7]int
	col := offset
	for d := 1; d <= daysIn(first); d++ {
		week[col] = d
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

func daysIn(month time.Time) int {
	return time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
