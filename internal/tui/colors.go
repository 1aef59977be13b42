package tui

// Color constants for the feelog TUI theme
const (
	// Base Colors
	ColorBorder = "#3A3F55" // Grey-blue

	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Field labels, user input, titles
	ColorSecondaryText = "#B1B8C7" // Subtle purple-tinted grey
	ColorPlaceholder   = "#B1B8C7" // Same as secondary
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Purple theme)
	ColorAccentMain   = "#7C3AED" // Selected day, active borders
	ColorAccentBright = "#A78BFA" // Titles, highlights

	// State Colors
	ColorError   = "#EF4444" // Validation and request errors
	ColorSuccess = "#22C55E" // Confirmations
	ColorWarning = "#F59E0B" // Today marker
)

// moodColors tint the day numbers of written days, worst to best
var moodColors = [...]string{
	"#EF4444", // very bad
	"#F59E0B", // bad
	"#B1B8C7", // neutral
	"#A78BFA", // good
	"#22C55E", // very good
}

// MoodColor returns the tint for mood, neutral when out of range
func MoodColor(mood int) string {
	if mood < 1 || mood > len(moodColors) {
		return moodColors[2]
	}
	return moodColors[mood-1]
}
