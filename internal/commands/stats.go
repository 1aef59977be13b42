package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/feelog/internal/journal"
	"github.com/balkashynov/feelog/internal/models"
	"github.com/balkashynov/feelog/internal/parser"
)

const (
	statsPageSize = 100
	statsMaxPages = 100
)

var (
	statsMonth string
	statsJSON  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Mood statistics for the week, a month and overall",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		now := time.Now()
		month, err := parser.ParseMonth(statsMonth, now)
		if err != nil {
			return err
		}

		recs, err := fetchEverything(ctx, a)
		if err != nil {
			return err
		}

		weekly := journal.Weekly(recs, now)
		monthly := journal.Monthly(recs, month)
		overview := journal.Overview(recs, now)

		out := cmd.OutOrStdout()
		if statsJSON {
			return printJSON(out, map[string]any{
				"weekly":   weekly,
				"monthly":  monthly,
				"overview": overview,
			})
		}

		printPeriod(out, "This week", weekly)
		printPeriod(out, month.Format("January 2006"), monthly)

		fmt.Fprintln(out, "Overall")
		fmt.Fprintf(out, "  Entries:       %d\n", overview.TotalRecords)
		if overview.TotalRecords == 0 {
			return nil
		}
		fmt.Fprintf(out, "  Average mood:  %.1f\n", overview.AverageMood)
		fmt.Fprintf(out, "  Streak:        %d day(s)\n", overview.StreakDays)
		fmt.Fprintf(out, "  Usual mood:    %s %s\n", journal.MoodEmoji(overview.MostFrequentMood), journal.MoodLabel(overview.MostFrequentMood))
		fmt.Fprintf(out, "  First entry:   %s\n", overview.FirstRecordDate)
		fmt.Fprintf(out, "  Latest entry:  %s\n", overview.LastRecordDate)
		return nil
	}),
}

// fetchEverything pages through all records
func fetchEverything(ctx context.Context, a *app) ([]models.EmotionRecord, error) {
	var all []models.EmotionRecord
	for page := 0; page < statsMaxPages; page++ {
		recs, err := a.cache.FetchAll(ctx, statsPageSize, page*statsPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, recs...)
		if len(recs) < statsPageSize {
			break
		}
	}
	return all, nil
}

func printPeriod(out io.Writer, title string, s journal.PeriodStats) {
	fmt.Fprintf(out, "%s (%s to %s)\n", title, s.From, s.To)
	fmt.Fprintf(out, "  Entries:       %d\n", s.Count)
	if s.Count > 0 {
		fmt.Fprintf(out, "  Average mood:  %.1f\n", s.AverageMood)
		for i := len(journal.Moods) - 1; i >= 0; i-- {
			mood := journal.Moods[i]
			n := s.MoodDistribution[mood.Value]
			fmt.Fprintf(out, "  %s %-9s %s %d\n", mood.Emoji, mood.Label, strings.Repeat("█", n), n)
		}
	}
	fmt.Fprintln(out)
}

func init() {
	statsCmd.Flags().StringVar(&statsMonth, "month", "", "Month for the monthly figures (default this month)")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "JSON output")
}
