// Package journal holds the rules of a journal entry: moods, validation,
// previews, filtering and statistics.
package journal

// Mood scale. Entries without an explicit mood are neutral.
const (
	MoodVeryBad  = 1
	MoodBad      = 2
	MoodNeutral  = 3
	MoodGood     = 4
	MoodVeryGood = 5

	DefaultMood = MoodNeutral
)

// MoodInfo describes one point on the scale.
type MoodInfo struct {
	Value int
	Emoji string
	Label string
}

// Moods lists the scale from worst to best.
var Moods = []MoodInfo{
	{MoodVeryBad, "😢", "very bad"},
	{MoodBad, "😕", "bad"},
	{MoodNeutral, "😐", "neutral"},
	{MoodGood, "😊", "good"},
	{MoodVeryGood, "😄", "very good"},
}

// ValidMood reports whether m is on the scale.
func ValidMood(m int) bool {
	return m >= MoodVeryBad && m <= MoodVeryGood
}

// Mood returns the info for m, falling back to neutral.
func Mood(m int) MoodInfo {
	if !ValidMood(m) {
		m = DefaultMood
	}
	return Moods[m-1]
}

// MoodEmoji returns the emoji for m. Unknown values render as neutral.
func MoodEmoji(m int) string {
	return Mood(m).Emoji
}

// MoodLabel returns the label for m. Unknown values render as neutral.
func MoodLabel(m int) string {
	return Mood(m).Label
}
