package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/feelog/internal/parser"
	"github.com/balkashynov/feelog/internal/tui"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show [day]",
	Short: "Show the entry for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		now := time.Now()
		date := now.Format(parser.DayLayout)
		if len(args) == 1 {
			d, err := parser.ParseDay(args[0], now)
			if err != nil {
				return err
			}
			date = d
		}

		out := cmd.OutOrStdout()
		rec, err := a.client.RecordByDate(ctx, date)
		if err != nil {
			return err
		}
		if rec == nil {
			fmt.Fprintf(out, "Nothing written for %s. Run 'feelog write' to add an entry.\n", parser.FormatDay(date, now))
			return nil
		}

		if showJSON {
			return printJSON(out, rec)
		}
		fmt.Fprintf(out, "📖 %s\n\n", parser.FormatDay(rec.Date, now))
		fmt.Fprint(out, tui.RenderEntry(*rec))
		return nil
	}),
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "JSON output")
}
