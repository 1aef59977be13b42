package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/balkashynov/feelog/internal/models"
)

// Entry fields a quick entry can target.
const (
	FieldGrateful = "grateful"
	FieldSad      = "sad"
	FieldAngry    = "angry"
	FieldNotes    = "notes"
)

var (
	fieldTagRegex = regexp.MustCompile(`(?:^|\s)#([a-zA-Z]+)\b`)
	moodTagRegex  = regexp.MustCompile(`\bmood:(\S+)`)
	dayTagRegex   = regexp.MustCompile(`\bon:(\S+)`)
)

// ParsedEntry is a journal entry written in one line.
type ParsedEntry struct {
	Text   string
	Field  string
	Mood   int
	Date   string
	Errors []string
}

// ParseEntry extracts metadata from a one-line entry
// Syntax: "Long walk with Ana #grateful mood:great on:yesterday"
// The text goes to notes unless a #grateful, #sad or #angry tag says otherwise.
func ParseEntry(input string, now time.Time) ParsedEntry {
	result := ParsedEntry{
		Field:  FieldNotes,
		Errors: []string{},
	}

	// Extract the field tag (#grateful, #sad, #angry, #notes)
	if matches := fieldTagRegex.FindStringSubmatch(input); len(matches) > 1 {
		field := strings.ToLower(matches[1])
		if isValidField(field) {
			result.Field = field
			input = fieldTagRegex.ReplaceAllString(input, " ")
		} else {
			result.Errors = append(result.Errors, "Unknown field '#"+matches[1]+"'. Use: #grateful, #sad, #angry or #notes")
		}
	}

	// Extract mood (mood:4, mood:great)
	if matches := moodTagRegex.FindStringSubmatch(input); len(matches) > 1 {
		mood, err := ParseMood(matches[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid mood '"+matches[1]+"': "+err.Error())
		} else {
			result.Mood = mood
		}
		input = moodTagRegex.ReplaceAllString(input, "")
	}

	// Extract day (on:yesterday, on:15/12/2024)
	if matches := dayTagRegex.FindStringSubmatch(input); len(matches) > 1 {
		day, err := ParseDay(matches[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid day '"+matches[1]+"': "+err.Error())
		} else {
			result.Date = day
		}
		input = dayTagRegex.ReplaceAllString(input, "")
	}

	// Clean up the text (remove extra spaces)
	result.Text = strings.Join(strings.Fields(input), " ")

	return result
}

// Apply writes the parsed text into its field of req and copies the mood and
// date when they were given. Empty text leaves the fields alone.
func (p ParsedEntry) Apply(req *models.RecordRequest) {
	switch {
	case p.Text == "":
	case p.Field == FieldGrateful:
		req.Grateful = p.Text
	case p.Field == FieldSad:
		req.Sad = p.Text
	case p.Field == FieldAngry:
		req.Angry = p.Text
	default:
		req.Notes = p.Text
	}
	if p.Mood != 0 {
		req.Mood = p.Mood
	}
	if p.Date != "" {
		req.Date = p.Date
	}
}

func isValidField(field string) bool {
	switch field {
	case FieldGrateful, FieldSad, FieldAngry, FieldNotes:
		return true
	}
	return false
}
