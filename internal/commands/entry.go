package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/feelog/internal/journal"
	"github.com/balkashynov/feelog/internal/models"
	"github.com/balkashynov/feelog/internal/parser"
)

// entryFlags are the per-field flags shared by write and edit
type entryFlags struct {
	grateful    string
	sad         string
	angry       string
	notes       string
	mood        string
	interactive bool
}

func (f *entryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.grateful, "grateful", "g", "", "What you are grateful for")
	cmd.Flags().StringVarP(&f.sad, "sad", "s", "", "What made you sad")
	cmd.Flags().StringVarP(&f.angry, "angry", "a", "", "What made you angry")
	cmd.Flags().StringVarP(&f.notes, "notes", "n", "", "Anything else")
	cmd.Flags().StringVarP(&f.mood, "mood", "m", "", "Mood: 1-5 or a word like great, ok, awful")
	cmd.Flags().BoolVarP(&f.interactive, "interactive", "i", false, "Open the entry form")
}

// any reports whether a field flag was given
func (f *entryFlags) any(cmd *cobra.Command) bool {
	for _, name := range []string{"grateful", "sad", "angry", "notes", "mood"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// apply overwrites the fields of req whose flags were given
func (f *entryFlags) apply(cmd *cobra.Command, req *models.RecordRequest) error {
	flags := cmd.Flags()
	if flags.Changed("grateful") {
		req.Grateful = f.grateful
	}
	if flags.Changed("sad") {
		req.Sad = f.sad
	}
	if flags.Changed("angry") {
		req.Angry = f.angry
	}
	if flags.Changed("notes") {
		req.Notes = f.notes
	}
	if flags.Changed("mood") {
		mood, err := parser.ParseMood(f.mood)
		if err != nil {
			return fmt.Errorf("%w: %v", journal.ErrInvalidMood, err)
		}
		req.Mood = mood
	}
	return nil
}

// saveEntry stores req on the server, or as a local draft when logged out.
// The returned message is meant for the user.
func (a *app) saveEntry(ctx context.Context, req models.RecordRequest) (string, error) {
	when := parser.FormatDay(req.Date, time.Now())

	if !a.session.IsAuthenticated() {
		if err := journal.Validate(&req); err != nil {
			return "", err
		}
		if _, err := a.drafts.Save(req); err != nil {
			return "", err
		}
		return fmt.Sprintf("📝 Saved a local draft for %s.\n"+
			"   Entries are only kept on this machine until you sign in.\n"+
			"   Run 'feelog register' to create an account or 'feelog login', then 'feelog push'.", when), nil
	}

	rec, created, err := a.cache.Save(ctx, req)
	if err != nil {
		return "", err
	}
	verb := "updated"
	if created {
		verb = "saved"
	}
	return fmt.Sprintf("✅ Entry %s for %s %s", verb, when, journal.MoodEmoji(rec.Mood)), nil
}

// existingEntry returns what is already written for date, from the server
// when logged in and from the drafts otherwise. A failed lookup is an error,
// never an empty entry, so a merge cannot drop fields.
func (a *app) existingEntry(ctx context.Context, date string) (models.RecordRequest, bool, error) {
	if a.session.IsAuthenticated() {
		rec, err := a.client.RecordByDate(ctx, date)
		if err != nil {
			return models.RecordRequest{}, false, err
		}
		if rec == nil {
			return models.RecordRequest{Date: date}, false, nil
		}
		return rec.Request(), true, nil
	}

	draft, err := a.drafts.Get(date)
	if err != nil {
		return models.RecordRequest{}, false, err
	}
	if draft == nil {
		return models.RecordRequest{Date: date}, false, nil
	}
	return draft.Request(), true, nil
}

// splitDayArg treats the first argument as a day when it parses as one
func splitDayArg(args []string, now time.Time) (day string, rest []string) {
	if len(args) > 0 {
		if d, err := parser.ParseDay(args[0], now); err == nil {
			return d, args[1:]
		}
	}
	return now.Format(parser.DayLayout), args
}

// parseQuickEntry reads a one-line entry like "long walk #grateful mood:4".
// It returns nil when text is blank.
func parseQuickEntry(text string, now time.Time) (*parser.ParsedEntry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	parsed := parser.ParseEntry(text, now)
	if len(parsed.Errors) > 0 {
		return nil, errors.New(strings.Join(parsed.Errors, "; "))
	}
	return &parsed, nil
}
