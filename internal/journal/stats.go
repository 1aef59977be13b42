package journal

import (
	"math"
	"time"

	"github.com/balkashynov/feelog/internal/models"
)

// PeriodStats summarises the entries of a week or a month.
type PeriodStats struct {
	Period           string
	From, To         string
	Count            int
	AverageMood      float64
	MoodDistribution map[int]int
}

// OverviewStats summarises every entry.
type OverviewStats struct {
	TotalRecords     int
	AverageMood      float64
	StreakDays       int
	MostFrequentMood int
	FirstRecordDate  string
	LastRecordDate   string
}

// Weekly covers the seven days ending at now.
func Weekly(records []models.EmotionRecord, now time.Time) PeriodStats {
	to := dayOf(now)
	from := to.AddDate(0, 0, -6)
	return periodStats("week", records, from, to)
}

// Monthly covers the calendar month containing month.
func Monthly(records []models.EmotionRecord, month time.Time) PeriodStats {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return periodStats("month", records, from, to)
}

func periodStats(period string, records []models.EmotionRecord, from, to time.Time) PeriodStats {
	stats := PeriodStats{
		Period: period,
		From:   from.Format(DateLayout),
		To:     to.Format(DateLayout),
	}

	var inRange []models.EmotionRecord
	for _, r := range records {
		if r.Date >= stats.From && r.Date <= stats.To {
			inRange = append(inRange, r)
		}
	}
	stats.Count = len(inRange)
	stats.AverageMood = averageMood(inRange)
	stats.MoodDistribution = MoodDistribution(inRange)
	return stats
}

// Overview computes totals and the current streak as of today.
func Overview(records []models.EmotionRecord, today time.Time) OverviewStats {
	stats := OverviewStats{TotalRecords: len(records)}
	if len(records) == 0 {
		return stats
	}

	stats.AverageMood = averageMood(records)

	dates := make(map[string]bool, len(records))
	for _, r := range records {
		dates[r.Date] = true
		if stats.FirstRecordDate == "" || r.Date < stats.FirstRecordDate {
			stats.FirstRecordDate = r.Date
		}
		if r.Date > stats.LastRecordDate {
			stats.LastRecordDate = r.Date
		}
	}

	// A streak survives a missing entry for today until the day is over.
	day := dayOf(today)
	if !dates[day.Format(DateLayout)] {
		day = day.AddDate(0, 0, -1)
	}
	for dates[day.Format(DateLayout)] {
		stats.StreakDays++
		day = day.AddDate(0, 0, -1)
	}

	best := 0
	for mood, n := range MoodDistribution(records) {
		if n > best || (n == best && mood > stats.MostFrequentMood) {
			best = n
			stats.MostFrequentMood = mood
		}
	}
	return stats
}

// MoodDistribution counts entries per mood. Missing moods count as neutral.
func MoodDistribution(records []models.EmotionRecord) map[int]int {
	dist := make(map[int]int)
	for _, r := range records {
		dist[effectiveMood(r.Mood)]++
	}
	return dist
}

// averageMood is rounded to one decimal. An empty set averages neutral.
func averageMood(records []models.EmotionRecord) float64 {
	if len(records) == 0 {
		return DefaultMood
	}
	sum := 0
	for _, r := range records {
		sum += effectiveMood(r.Mood)
	}
	return math.Round(float64(sum)/float64(len(records))*10) / 10
}

func effectiveMood(m int) int {
	if ValidMood(m) {
		return m
	}
	return DefaultMood
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
