package journal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/balkashynov/feelog/internal/models"
)

// DateLayout is the canonical date of an entry.
const DateLayout = "2006-01-02"

var (
	ErrEmptyEntry  = errors.New("write at least one of grateful, sad, angry or notes")
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
	ErrInvalidMood = errors.New("mood must be between 1 and 5")
)

// Validate checks a request before it is sent. A zero mood is replaced by
// the default.
func Validate(req *models.RecordRequest) error {
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		return fmt.Errorf("%w: got %q", ErrInvalidDate, req.Date)
	}
	if req.Mood == 0 {
		req.Mood = DefaultMood
	}
	if !ValidMood(req.Mood) {
		return ErrInvalidMood
	}
	if IsBlank(*req) {
		return ErrEmptyEntry
	}
	return nil
}

// IsBlank reports whether all four text fields are empty or whitespace.
func IsBlank(req models.RecordRequest) bool {
	for _, text := range []string{req.Grateful, req.Sad, req.Angry, req.Notes} {
		if strings.TrimSpace(text) != "" {
			return false
		}
	}
	return true
}

// Preview returns the first non-empty text of the record, cut to max runes.
// max <= 0 means no limit.
func Preview(r models.EmotionRecord, max int) string {
	for _, text := range []string{r.Grateful, r.Sad, r.Angry, r.Notes} {
		text = strings.Join(strings.Fields(text), " ")
		if text == "" {
			continue
		}
		runes := []rune(text)
		if max > 0 && len(runes) > max {
			if max <= 3 {
				return string(runes[:max])
			}
			return string(runes[:max-3]) + "..."
		}
		return text
	}
	return ""
}

// Filter keeps the records whose text contains term, ignoring case. A blank
// term keeps everything.
func Filter(records []models.EmotionRecord, term string) []models.EmotionRecord {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}

	var out []models.EmotionRecord
	for _, r := range records {
		for _, text := range []string{r.Grateful, r.Sad, r.Angry, r.Notes} {
			if strings.Contains(strings.ToLower(text), term) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// SortByDate sorts records in place. Ties keep their relative order.
func SortByDate(records []models.EmotionRecord, ascending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		if ascending {
			return records[i].Date < records[j].Date
		}
		return records[i].Date > records[j].Date
	})
}
