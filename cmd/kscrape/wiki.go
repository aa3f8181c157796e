package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdramalab/kscrape/internal/types"
	"github.com/kdramalab/kscrape/internal/wiki"
)

var (
	outFile     string
	castPageURL string
	categoryURL string
	genreWord   string
)

func dramaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drama",
		Short: "Build the drama master table from the wiki list page",
		Long: `Walks the configured list page, follows each entry's detail page and
collects title, period, channel, genre, staff, episode count and the
average audience rating into one CSV row per drama.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, client, err := setup()
			if err != nil {
				return err
			}
			ctx, stop := jobContext()
			defer stop()

			s := wiki.NewScraper(client, &cfg.Wiki, &cfg.HTTP, logger)
			rows, err := s.ScrapeDramas(ctx)
			if err != nil {
				return fmt.Errorf("scrape dramas: %w", err)
			}

			recs := make([][]string, 0, len(rows))
			for _, r := range rows {
				recs = append(recs, r.Record())
			}
			logger.Info("drama scrape complete", "rows", len(recs))
			return writeTable(outPath(cfg, outFile, "drama.csv"), types.DramaHeaders, recs)
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	return cmd
}

func weeklyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Build the weekly broadcast schedule table",
		Long: `Reads each drama's infobox broadcast slot and splits it into
days-of-week, a normalized HH:MM~HH:MM time range and a runtime.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, client, err := setup()
			if err != nil {
				return err
			}
			ctx, stop := jobContext()
			defer stop()

			s := wiki.NewScraper(client, &cfg.Wiki, &cfg.HTTP, logger)
			rows, err := s.ScrapeWeekly(ctx)
			if err != nil {
				return fmt.Errorf("scrape weekly: %w", err)
			}

			recs := make([][]string, 0, len(rows))
			for _, r := range rows {
				recs = append(recs, r.Record())
			}
			logger.Info("weekly scrape complete", "rows", len(recs))
			return writeTable(outPath(cfg, outFile, "weekly.csv"), types.WeeklyHeaders, recs)
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	return cmd
}

func castCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cast",
		Short: "Extract actor/character pairs from drama detail pages",
		Long: `Scans the cast sections of every drama detail page for "actor : role"
lines and writes one row per role. Use --url to parse a single page.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, client, err := setup()
			if err != nil {
				return err
			}
			ctx, stop := jobContext()
			defer stop()

			s := wiki.NewScraper(client, &cfg.Wiki, &cfg.HTTP, logger)
			var rows []types.CastRole
			if castPageURL != "" {
				rows, err = s.ScrapeCastPage(ctx, castPageURL)
			} else {
				rows, err = s.ScrapeCast(ctx)
			}
			if err != nil {
				return fmt.Errorf("scrape cast: %w", err)
			}

			recs := make([][]string, 0, len(rows))
			for _, r := range rows {
				recs = append(recs, r.Record())
			}
			logger.Info("cast scrape complete", "rows", len(recs))
			return writeTable(outPath(cfg, outFile, "cast.csv"), types.CastRoleHeaders, recs)
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	cmd.Flags().StringVar(&castPageURL, "url", "", "parse a single detail page instead of the list")
	return cmd
}

func peopleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "people",
		Short: "Collect actor birth dates and gender from person pages",
		Long: `Gathers actor links from the cast sections, then visits each person
page and reads the birth date from the infobox plus the gender from
either the infobox or the page's category links.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, client, err := setup()
			if err != nil {
				return err
			}
			ctx, stop := jobContext()
			defer stop()

			s := wiki.NewScraper(client, &cfg.Wiki, &cfg.HTTP, logger)
			rows, err := s.ScrapePeople(ctx)
			if err != nil {
				return fmt.Errorf("scrape people: %w", err)
			}

			recs := make([][]string, 0, len(rows))
			for _, r := range rows {
				recs = append(recs, r.Record())
			}
			logger.Info("people scrape complete", "rows", len(recs))
			return writeTable(outPath(cfg, outFile, "people.csv"), types.PersonHeaders, recs)
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	return cmd
}

func genreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genre",
		Short: "Scrape a drama category and tag members with a genre",
		Long: `Pages through a wiki category, visits each member page and writes
title, genre and channel. The genre keyword replaces infobox genres
that merely repeat the category name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if categoryURL == "" {
				return fmt.Errorf("--category is required")
			}
			cfg, logger, client, err := setup()
			if err != nil {
				return err
			}
			ctx, stop := jobContext()
			defer stop()

			s := wiki.NewScraper(client, &cfg.Wiki, &cfg.HTTP, logger)
			rows, err := s.ScrapeCategory(ctx, categoryURL, genreWord)
			if err != nil {
				return fmt.Errorf("scrape category: %w", err)
			}

			recs := make([][]string, 0, len(rows))
			for _, r := range rows {
				recs = append(recs, r.Record())
			}
			logger.Info("category scrape complete", "rows", len(recs), "genre", genreWord)
			return writeTable(outPath(cfg, outFile, "genre.csv"), types.CategoryHeaders, recs)
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	cmd.Flags().StringVar(&categoryURL, "category", "", "category page URL (required)")
	cmd.Flags().StringVar(&genreWord, "keyword", "", "genre keyword for the output rows")
	return cmd
}
