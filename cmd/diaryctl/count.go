package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/nikhilbhutani/voicediary/internal/config"
	"github.com/nikhilbhutani/voicediary/internal/database"
	"github.com/nikhilbhutani/voicediary/internal/diary"
	"github.com/nikhilbhutani/voicediary/internal/models"
	"github.com/spf13/cobra"
)

const sampleSize = 3

func newCountCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "count --user UUID",
		Short: "Show a user's diary entry counts per date",
		Long:  "Show a user's diary entry counts per date with the newest and oldest entries. Needs DATABASE_URL.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := database.NewPool(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := diary.NewService(db)
			stats, err := svc.Stats(ctx, userID)
			if err != nil {
				return err
			}
			newest, err := svc.List(ctx, userID, sampleSize, 0)
			if err != nil {
				return err
			}
			oldest, err := svc.Oldest(ctx, userID, sampleSize)
			if err != nil {
				return err
			}

			printCounts(cmd.OutOrStdout(), stats, newest, oldest)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User ID")
	cmd.MarkFlagRequired("user")

	return cmd
}

func printCounts(out io.Writer, stats *models.DiaryStats, newest, oldest []models.DiaryEntry) {
	fmt.Fprintf(out, "total entries: %d\n", stats.Total)
	if stats.Total == 0 {
		return
	}
	fmt.Fprintf(out, "earliest: %s\nlatest:   %s\n\n", stats.Earliest.Format("2006-01-02"), stats.Latest.Format("2006-01-02"))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCOUNT")
	for _, dc := range stats.ByDate {
		fmt.Fprintf(tw, "%s\t%d\n", dc.Date.Format("2006-01-02"), dc.Count)
	}
	tw.Flush()

	printSample(out, "newest", newest)
	printSample(out, "oldest", oldest)
}

func printSample(out io.Writer, label string, entries []models.DiaryEntry) {
	fmt.Fprintf(out, "\n%s:\n", label)
	for _, e := range entries {
		title := e.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(out, "  %s  %s  %s  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.ID, e.Status, title)
	}
}
