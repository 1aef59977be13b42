package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/feelog/internal/journal"
)

var (
	listLimit  int
	listOffset int
	listJSON   bool
	listFilter string
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List entries, newest first",
	Args:    cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		recs, err := a.cache.FetchAll(ctx, listLimit, listOffset)
		if err != nil {
			return err
		}
		if listFilter != "" {
			recs = journal.Filter(recs, listFilter)
		}

		out := cmd.OutOrStdout()
		if listJSON {
			return printJSON(out, recs)
		}
		if len(recs) == 0 {
			fmt.Fprintln(out, "No entries yet. Run 'feelog write' to add one.")
			return nil
		}
		printRecordTable(out, recs)
		return nil
	}),
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 30, "Maximum number of entries")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Entries to skip")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "JSON output")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Only entries whose text contains this")
}
