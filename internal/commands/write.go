package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/feelog/internal/tui"
)

var writeFlags entryFlags

var writeCmd = &cobra.Command{
	Use:   "write [day] [text...]",
	Short: "Write the entry for a day",
	Long: `Write or extend the entry for a day (today by default).

Fields not given keep what is already written. With no text and no field
flags the entry form opens.

Quick syntax in the text:
  #grateful #sad #angry #notes   Which field the text goes to (default notes)
  mood:4 / mood:great            Mood of the day
  on:yesterday / on:15/03/2024   Day of the entry

Example:
  feelog write "Long walk with Ana #grateful mood:great"
  feelog write yesterday -s "missed the train" --mood bad`,
	Aliases: []string{"w", "add"},
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		now := time.Now()
		date, rest := splitDayArg(args, now)

		quick, err := parseQuickEntry(strings.Join(rest, " "), now)
		if err != nil {
			return err
		}
		if quick != nil && quick.Date != "" {
			date = quick.Date
		}

		req, exists, err := a.existingEntry(ctx, date)
		if err != nil {
			return err
		}
		if quick != nil {
			quick.Apply(&req)
		}
		if err := writeFlags.apply(cmd, &req); err != nil {
			return err
		}

		if writeFlags.interactive || (quick == nil && !writeFlags.any(cmd)) {
			return tui.RunEntryForm(ctx, req, exists, a.saveEntry)
		}

		msg, err := a.saveEntry(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}),
}

func init() {
	writeFlags.bind(writeCmd)
}
