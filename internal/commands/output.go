package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/balkashynov/feelog/internal/journal"
	"github.com/balkashynov/feelog/internal/models"
)

const previewWidth = 50

// printRecordTable prints one line per record
func printRecordTable(out io.Writer, recs []models.EmotionRecord) {
	fmt.Fprintf(out, "%-6s %-10s %-14s %s\n", "ID", "DATE", "MOOD", "PREVIEW")
	fmt.Fprintln(out, strings.Repeat("-", 80))
	for _, r := range recs {
		mood := journal.MoodEmoji(r.Mood) + " " + journal.MoodLabel(r.Mood)
		fmt.Fprintf(out, "%-6d %-10s %-14s %s\n", r.ID, r.Date, mood, journal.Preview(r, previewWidth))
	}
}

func printJSON(out io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(out, string(jsonBytes))
	return nil
}
