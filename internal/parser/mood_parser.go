package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/balkashynov/feelog/internal/journal"
)

var moodWords = map[string]int{
	"very bad":  journal.MoodVeryBad,
	"awful":     journal.MoodVeryBad,
	"terrible":  journal.MoodVeryBad,
	"bad":       journal.MoodBad,
	"down":      journal.MoodBad,
	"neutral":   journal.MoodNeutral,
	"ok":        journal.MoodNeutral,
	"okay":      journal.MoodNeutral,
	"meh":       journal.MoodNeutral,
	"good":      journal.MoodGood,
	"fine":      journal.MoodGood,
	"very good": journal.MoodVeryGood,
	"great":     journal.MoodVeryGood,
	"awesome":   journal.MoodVeryGood,
}

// ParseMood accepts 1-5, a mood word (e.g., "great", "meh", "very bad") or
// the mood's emoji.
func ParseMood(input string) (int, error) {
	input = strings.ToLower(strings.Join(strings.Fields(input), " "))
	if input == "" {
		return 0, fmt.Errorf("mood is empty")
	}

	if n, err := strconv.Atoi(input); err == nil {
		if !journal.ValidMood(n) {
			return 0, fmt.Errorf("mood must be between 1 and 5")
		}
		return n, nil
	}
	if n, ok := moodWords[input]; ok {
		return n, nil
	}
	for _, m := range journal.Moods {
		if input == m.Emoji {
			return m.Value, nil
		}
	}
	return 0, fmt.Errorf("unknown mood %q. Use 1-5 or words like awful, bad, ok, good, great", input)
}
