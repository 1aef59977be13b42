package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/feelog/internal/api"
	"github.com/balkashynov/feelog/internal/journal"
	"github.com/balkashynov/feelog/internal/models"
	"github.com/balkashynov/feelog/internal/parser"
	"github.com/balkashynov/feelog/internal/tui"
)

var editFlags entryFlags

var editCmd = &cobra.Command{
	Use:   "edit <day>",
	Short: "Edit an existing entry",
	Long: `Edit the entry of a day. Without field flags the entry form opens
pre-filled with what is written.

Example:
  feelog edit yesterday --mood 4
  feelog edit 15/03/2024`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		date, err := parser.ParseDay(args[0], time.Now())
		if err != nil {
			return err
		}

		existing, err := a.client.RecordByDate(ctx, date)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: no entry for %s. Use 'feelog write' to create one", api.ErrNotFound, date)
		}

		req := existing.Request()
		if err := editFlags.apply(cmd, &req); err != nil {
			return err
		}

		update := func(ctx context.Context, req models.RecordRequest) (string, error) {
			if err := journal.Validate(&req); err != nil {
				return "", err
			}
			if _, err := a.cache.Update(ctx, existing.ID, req); err != nil {
				return "", err
			}
			return fmt.Sprintf("✅ Entry updated for %s", parser.FormatDay(req.Date, time.Now())), nil
		}

		if editFlags.interactive || !editFlags.any(cmd) {
			return tui.RunEntryForm(ctx, req, true, update)
		}

		msg, err := update(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	}),
}

func init() {
	editFlags.bind(editCmd)
}
