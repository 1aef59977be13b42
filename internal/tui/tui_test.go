package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/feelog/internal/models"
)

func TestMonthGrid(t *testing.T) {
	// March 2024 starts on a Friday and has 31 days
	weeks := MonthGrid(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	require.Len(t, weeks, 5)
	assert.Equal(t, [7]int{0, 0, 0, 0, 1, 2, 3}, weeks[0])
	assert.Equal(t, [7]int{25, 26, 27, 28, 29, 30, 31}, weeks[4])

	// February 2021 starts on a Monday and fills exactly four weeks
	weeks = MonthGrid(time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, weeks, 4)
	assert.Equal(t, 1, weeks[0][0])
	assert.Equal(t, 28, weeks[3][6])

	// September 2024 starts on a Sunday
	weeks = MonthGrid(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, [7]int{0, 0, 0, 0, 0, 0, 1}, weeks[0])
	assert.Equal(t, [7]int{30, 0, 0, 0, 0, 0, 0}, weeks[len(weeks)-1])
}

func TestRenderMonthGrid(t *testing.T) {
	month := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	days := map[string]models.CalendarDay{
		"2024-03-01": {HasRecord: true, Mood: 5},
		"2024-03-02": {HasRecord: true, Mood: 1},
	}
	out := RenderMonthGrid(month, days, 0, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, out, "😄")
	assert.Contains(t, out, "😢")
	assert.Contains(t, out, "31")
	assert.Equal(t, 6, strings.Count(out, "\n"))
}

type fakeMonths struct {
	calls []string
}

func (f *fakeMonths) CalendarMonth(ctx context.Context, year, month int) (*models.CalendarMonth, error) {
	f.calls = append(f.calls, time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"))
	return &models.CalendarMonth{Year: year, Month: month, Records: map[string]models.CalendarDay{}}, nil
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestCalendarModel_Navigation(t *testing.T) {
	source := &fakeMonths{}
	day := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	m := NewCalendarModel(context.Background(), source, nil, day, day)
	assert.Equal(t, "2024-03-31", m.SelectedDate())

	next, cmd := m.Update(key(tea.KeyLeft))
	m = next.(CalendarModel)
	assert.Equal(t, "2024-03-30", m.SelectedDate())
	assert.Nil(t, cmd, "moving within the month needs no load")

	next, cmd = m.Update(key(tea.KeyDown))
	m = next.(CalendarModel)
	assert.Equal(t, "2024-04-06", m.SelectedDate())
	assert.NotNil(t, cmd, "crossing into April loads it")
	assert.True(t, m.loading)

	next, _ = m.Update(runes("["))
	m = next.(CalendarModel)
	assert.Equal(t, "2024-03-06", m.SelectedDate())

	// A late answer for April is ignored once March is shown again
	next, _ = m.Update(monthLoadedMsg{
		month: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		cal:   &models.CalendarMonth{Records: map[string]models.CalendarDay{"2024-04-06": {HasRecord: true}}},
	})
	m = next.(CalendarModel)
	assert.True(t, m.loading)
	assert.Empty(t, m.days)

	next, _ = m.Update(monthLoadedMsg{
		month: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		cal:   &models.CalendarMonth{Records: map[string]models.CalendarDay{"2024-03-06": {HasRecord: true, Mood: 4}}},
	})
	m = next.(CalendarModel)
	assert.False(t, m.loading)
	assert.Contains(t, m.View(), "good")

	next, cmd = m.Update(runes("e"))
	m = next.(CalendarModel)
	assert.Equal(t, "2024-03-06", m.EditDate())
	assert.NotNil(t, cmd)
}

func TestCalendarModel_MonthChangeClampsDay(t *testing.T) {
	day := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	m := NewCalendarModel(context.Background(), &fakeMonths{}, nil, day, day)

	next, _ := m.Update(runes("]"))
	assert.Equal(t, "2024-02-29", next.(CalendarModel).SelectedDate())
}

func TestEntryModel(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("empty entry is not saved", func(t *testing.T) {
		called := false
		save := func(ctx context.Context, req models.RecordRequest) (string, error) {
			called = true
			return "", nil
		}
		m := NewEntryModel(context.Background(), models.RecordRequest{Date: "2024-03-10"}, false, today, save)

		next, cmd := m.Update(key(tea.KeyCtrlS))
		m = next.(EntryModel)
		assert.Nil(t, cmd)
		assert.False(t, called)
		assert.NotEmpty(t, m.validationErr)
	})

	t.Run("typed entry is saved with the picked mood", func(t *testing.T) {
		var saved models.RecordRequest
		save := func(ctx context.Context, req models.RecordRequest) (string, error) {
			saved = req
			return "saved", nil
		}
		m := NewEntryModel(context.Background(), models.RecordRequest{Date: "2024-03-10", Mood: 2}, false, today, save)

		next, _ := m.Update(runes("sunshine"))
		m = next.(EntryModel)
		for i := 0; i < 4; i++ {
			next, _ = m.Update(key(tea.KeyTab))
			m = next.(EntryModel)
		}
		assert.Equal(t, fieldMood, m.focus)
		next, _ = m.Update(key(tea.KeyRight))
		m = next.(EntryModel)
		next, _ = m.Update(key(tea.KeyRight))
		m = next.(EntryModel)

		next, cmd := m.Update(key(tea.KeyEnter))
		m = next.(EntryModel)
		require.NotNil(t, cmd)
		assert.True(t, m.saving)

		// Run the save command directly instead of through a program
		_, err := m.save(m.ctx, m.Request())
		require.NoError(t, err)
		assert.Equal(t, models.RecordRequest{Date: "2024-03-10", Mood: 4, Grateful: "sunshine"}, saved)

		next, _ = m.Update(savedMsg{message: "saved"})
		m = next.(EntryModel)
		assert.True(t, m.completed)
	})

	t.Run("failed save keeps the form", func(t *testing.T) {
		m := NewEntryModel(context.Background(), models.RecordRequest{Date: "2024-03-10", Notes: "x"}, true, today, nil)
		m.saving = true

		next, _ := m.Update(savedMsg{err: errors.New("server error: HTTP 500")})
		m = next.(EntryModel)
		assert.False(t, m.completed)
		assert.False(t, m.saving)
		assert.Contains(t, m.View(), "retry")
	})
}

func TestPromptModel(t *testing.T) {
	m := NewPromptModel("Password", true)
	for _, r := range "hunter2" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(PromptModel)
	}
	assert.Equal(t, "hunter2", m.Value())
	assert.NotContains(t, m.View(), "hunter2")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(PromptModel)
	require.NotNil(t, cmd)
	assert.True(t, m.submitted)
	assert.Empty(t, m.View())

	cancelled, _ := NewPromptModel("Email", false).Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, cancelled.(PromptModel).cancelled)
}
