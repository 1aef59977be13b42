package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/feelog/internal/parser"
	"github.com/balkashynov/feelog/internal/tui"
)

var calendarNoUI bool

var calendarCmd = &cobra.Command{
	Use:     "calendar [month]",
	Aliases: []string{"cal"},
	Short:   "Browse a month of entries",
	Long: `Show a month of entries with the mood of each day.
The month can be "last", "march", "2024-03" or "03/2024"; default is this month.

Keys: arrows move the day, [ and ] change month, enter shows the day,
e writes the selected day, t jumps to today, q quits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		now := time.Now()
		input := ""
		if len(args) == 1 {
			input = args[0]
		}
		month, err := parser.ParseMonth(input, now)
		if err != nil {
			return err
		}

		if calendarNoUI {
			summary, err := a.client.CalendarMonth(ctx, month.Year(), int(month.Month()))
			if err != nil {
				return err
			}
			selected := 0
			if month.Year() == now.Year() && month.Month() == now.Month() {
				selected = now.Day()
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\n", month.Format("January 2006"))
			fmt.Fprint(out, tui.RenderMonthGrid(month, summary.Records, selected, now))
			return nil
		}

		day := month
		if month.Year() == now.Year() && month.Month() == now.Month() {
			day = now
		}
		date, err := tui.RunCalendar(ctx, a.client, a.cache, day)
		if err != nil || date == "" {
			return err
		}

		req, exists, err := a.existingEntry(ctx, date)
		if err != nil {
			return err
		}
		return tui.RunEntryForm(ctx, req, exists, a.saveEntry)
	}),
}

func init() {
	calendarCmd.Flags().BoolVar(&calendarNoUI, "no-ui", false, "Print the month grid without the interactive view")
}
