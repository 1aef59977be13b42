package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/balkashynov/feelog/internal/models"
)

var today = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func TestWeekly(t *testing.T) {
	records := []models.EmotionRecord{
		{Date: "2024-03-10", Mood: 5},
		{Date: "2024-03-06", Mood: 2},
		{Date: "2024-03-04", Mood: 4},
		{Date: "2024-03-03", Mood: 1}, // outside the window
		{Date: "2024-03-11", Mood: 1}, // future
	}

	stats := Weekly(records, today)
	assert.Equal(t, "2024-03-04", stats.From)
	assert.Equal(t, "2024-03-10", stats.To)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 3.7, stats.AverageMood)
	assert.Equal(t, map[int]int{2: 1, 4: 1, 5: 1}, stats.MoodDistribution)
}

func TestWeeklyEmpty(t *testing.T) {
	stats := Weekly(nil, today)
	assert.Zero(t, stats.Count)
	assert.Equal(t, float64(DefaultMood), stats.AverageMood)
}

func TestMonthly(t *testing.T) {
	records := []models.EmotionRecord{
		{Date: "2024-02-29", Mood: 2},
		{Date: "2024-02-01", Mood: 0},
		{Date: "2024-03-01", Mood: 5},
	}

	stats := Monthly(records, time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-02-01", stats.From)
	assert.Equal(t, "2024-02-29", stats.To)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 2.5, stats.AverageMood)
	assert.Equal(t, map[int]int{2: 1, 3: 1}, stats.MoodDistribution)
}

func TestOverview(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, OverviewStats{}, Overview(nil, today))
	})

	t.Run("streak ending today", func(t *testing.T) {
		records := []models.EmotionRecord{
			{Date: "2024-03-10", Mood: 4},
			{Date: "2024-03-09", Mood: 4},
			{Date: "2024-03-08", Mood: 2},
			{Date: "2024-03-05", Mood: 5},
		}
		stats := Overview(records, today)
		assert.Equal(t, 4, stats.TotalRecords)
		assert.Equal(t, 3, stats.StreakDays)
		assert.Equal(t, 4, stats.MostFrequentMood)
		assert.Equal(t, 3.8, stats.AverageMood)
		assert.Equal(t, "2024-03-05", stats.FirstRecordDate)
		assert.Equal(t, "2024-03-10", stats.LastRecordDate)
	})

	t.Run("streak still open when today is unwritten", func(t *testing.T) {
		records := []models.EmotionRecord{
			{Date: "2024-03-09", Mood: 3},
			{Date: "2024-03-08", Mood: 3},
		}
		assert.Equal(t, 2, Overview(records, today).StreakDays)
	})

	t.Run("broken streak", func(t *testing.T) {
		records := []models.EmotionRecord{{Date: "2024-03-07", Mood: 3}}
		assert.Zero(t, Overview(records, today).StreakDays)
	})

	t.Run("ties prefer the better mood", func(t *testing.T) {
		records := []models.EmotionRecord{
			{Date: "2024-03-01", Mood: 2},
			{Date: "2024-03-02", Mood: 5},
		}
		assert.Equal(t, 5, Overview(records, today).MostFrequentMood)
	})
}
