package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/feelog/internal/api"
	"github.com/balkashynov/feelog/internal/parser"
)

var rmYes bool

var rmCmd = &cobra.Command{
	Use:   "rm <day|id>",
	Short: "Delete an entry",
	Long: `Delete the entry of a day, or the entry with the given numeric ID.
Asks for confirmation unless --yes is given.`,
	Aliases: []string{"delete"},
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		id, label, err := resolveRecord(ctx, a, args[0])
		if err != nil {
			return err
		}

		if !rmYes {
			answer, err := newPrompter(cmd).ask(fmt.Sprintf("Delete the entry for %s? (y/N)", label), false)
			if err != nil {
				return err
			}
			if answer != "y" && answer != "Y" && answer != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing deleted.")
				return nil
			}
		}

		if err := a.cache.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted the entry for %s\n", label)
		return nil
	}),
}

// resolveRecord finds the record id for a day or a numeric id
func resolveRecord(ctx context.Context, a *app, arg string) (int64, string, error) {
	now := time.Now()
	if date, err := parser.ParseDay(arg, now); err == nil {
		rec, err := a.client.RecordByDate(ctx, date)
		if err != nil {
			return 0, "", err
		}
		if rec == nil {
			return 0, "", fmt.Errorf("%w: no entry for %s", api.ErrNotFound, date)
		}
		return rec.ID, parser.FormatDay(date, now), nil
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("%q is neither a day nor an entry ID", arg)
	}
	return id, fmt.Sprintf("#%d", id), nil
}

func init() {
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "Do not ask for confirmation")
}
