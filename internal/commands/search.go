package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/feelog/internal/api"
	"github.com/balkashynov/feelog/internal/parser"
)

var (
	searchFrom string
	searchTo   string
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search entries by text and date range",
	Long: `Search the text of your entries. --from and --to limit the date range
and accept the same day formats as write (today, 3 days ago, 15/03/2024).

Example:
  feelog search "coffee" --from "30 days ago"`,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		params, err := searchParams(strings.Join(args, " "), searchFrom, searchTo, time.Now())
		if err != nil {
			return err
		}

		found, err := a.cache.Search(ctx, params)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if searchJSON {
			return printJSON(out, found)
		}

		if params.Query != "" {
			fmt.Fprintf(out, "Search results for '%s' (%d found):\n", params.Query, len(found))
		} else {
			fmt.Fprintf(out, "Entries in range (%d found):\n", len(found))
		}
		if len(found) == 0 {
			fmt.Fprintln(out, "No entries found matching your search.")
			return nil
		}
		fmt.Fprintln(out)
		printRecordTable(out, found)
		return nil
	}),
}

func searchParams(query, from, to string, now time.Time) (api.SearchParams, error) {
	params := api.SearchParams{Query: strings.TrimSpace(query)}
	var err error
	if from != "" {
		if params.DateFrom, err = parser.ParseDay(from, now); err != nil {
			return params, fmt.Errorf("--from: %w", err)
		}
	}
	if to != "" {
		if params.DateTo, err = parser.ParseDay(to, now); err != nil {
			return params, fmt.Errorf("--to: %w", err)
		}
	}
	if params.DateFrom != "" && params.DateTo != "" && params.DateFrom > params.DateTo {
		return params, fmt.Errorf("--from %s is after --to %s", params.DateFrom, params.DateTo)
	}
	if params.Query == "" && params.DateFrom == "" && params.DateTo == "" {
		return params, fmt.Errorf("give a query or a date range")
	}
	return params, nil
}

func init() {
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "Earliest day")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "Latest day")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "JSON output")
}
