package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/balkashynov/feelog/internal/journal"
	"github.com/balkashynov/feelog/internal/models"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "List entries written while logged out",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		drafts, err := a.drafts.List()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(drafts) == 0 {
			fmt.Fprintln(out, "No local drafts.")
			return nil
		}

		recs := make([]models.EmotionRecord, 0, len(drafts))
		for _, d := range drafts {
			req := d.Request()
			recs = append(recs, models.EmotionRecord{
				ID:       int64(d.ID),
				Date:     req.Date,
				Grateful: req.Grateful,
				Sad:      req.Sad,
				Angry:    req.Angry,
				Notes:    req.Notes,
				Mood:     req.Mood,
			})
		}
		printRecordTable(out, recs)
		fmt.Fprintln(out)
		if a.session.IsAuthenticated() {
			fmt.Fprintln(out, "Run 'feelog push' to upload them.")
		} else {
			fmt.Fprintln(out, "Run 'feelog register' or 'feelog login', then 'feelog push' to upload them.")
		}
		return nil
	}),
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload local drafts to the server",
	Long: `Upload every local draft. A draft replaces the server entry for the same
day. Uploaded drafts are removed from this machine.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		drafts, err := a.drafts.List()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(drafts) == 0 {
			fmt.Fprintln(out, "No local drafts to push.")
			return nil
		}

		pushed := 0
		for _, d := range drafts {
			rec, created, err := a.cache.Save(ctx, d.Request())
			if err != nil {
				// Stop at the first failure so nothing is lost
				fmt.Fprintf(out, "❌ %s: %s\n", d.Date, describe(err))
				return fmt.Errorf("pushed %d of %d drafts: %w", pushed, len(drafts), err)
			}
			if err := a.drafts.Delete(d.ID); err != nil {
				a.logger.Warn("failed to delete pushed draft", zap.Uint("draft_id", d.ID), zap.Error(err))
			}

			verb := "updated"
			if created {
				verb = "created"
			}
			fmt.Fprintf(out, "✅ %s %s %s\n", rec.Date, verb, journal.MoodEmoji(rec.Mood))
			pushed++
		}
		fmt.Fprintf(out, "Pushed %d draft(s).\n", pushed)
		return nil
	}),
}
