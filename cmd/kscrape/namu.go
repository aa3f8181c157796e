package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdramalab/kscrape/internal/media"
	"github.com/kdramalab/kscrape/internal/namu"
	"github.com/kdramalab/kscrape/internal/types"
)

var inFile string

func episodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "episodes",
		Short: "Scrape per-episode lists from namu-wiki documents",
		Long: `For each title in the input CSV, opens the drama document (trying the
"(드라마)" variants first), prefers its broadcast-list subpage and
parses the episode tables into number, title, air date and summary.
Duplicate episode numbers are merged, keeping the longer field values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, client, err := setup()
			if err != nil {
				return err
			}
			titles, err := readColumn(inFile, false)
			if err != nil {
				return err
			}
			ctx, stop := jobContext()
			defer stop()

			s := namu.NewScraper(client, &cfg.Namu, logger)
			rows, err := s.ScrapeEpisodes(ctx, titles)
			if err != nil {
				return fmt.Errorf("scrape episodes: %w", err)
			}

			recs := make([][]string, 0, len(rows))
			for _, r := range rows {
				recs = append(recs, r.Record())
			}
			logger.Info("episode scrape complete", "titles", len(titles), "rows", len(recs))
			return writeTable(outPath(cfg, outFile, "episode.csv"), types.EpisodeHeaders, recs)
		},
	}
	cmd.Flags().StringVarP(&inFile, "in", "i", "", "input CSV with a title column (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	cmd.MarkFlagRequired("in")
	return cmd
}

func descriptionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "descriptions",
		Short: "Scrape one-line summary tables from namu-wiki documents",
		Long: `For each title, opens the drama document and serializes its summary
info table into a single line of text. Later occurrences of the same
title replace earlier ones.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, client, err := setup()
			if err != nil {
				return err
			}
			titles, err := readColumn(inFile, false)
			if err != nil {
				return err
			}
			ctx, stop := jobContext()
			defer stop()

			s := namu.NewScraper(client, &cfg.Namu, logger)
			rows, err := s.ScrapeDescriptions(ctx, titles)
			if err != nil {
				return fmt.Errorf("scrape descriptions: %w", err)
			}

			recs := make([][]string, 0, len(rows))
			for _, r := range rows {
				recs = append(recs, r.Record())
			}
			logger.Info("description scrape complete", "titles", len(titles), "rows", len(recs))
			return writeTable(outPath(cfg, outFile, "description.csv"), types.DescriptionHeaders, recs)
		},
	}
	cmd.Flags().StringVarP(&inFile, "in", "i", "", "input CSV with a title column (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	cmd.MarkFlagRequired("in")
	return cmd
}

func dramaImagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drama-images",
		Short: "Download drama poster images via namu-wiki og:image",
		Long: `Resolves each title to its drama document, falling back to search when
the direct variants miss, and downloads the page's og:image poster.
Every input title gets a result row with status and note.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, client, err := setup()
			if err != nil {
				return err
			}
			titles, err := readColumn(inFile, false)
			if err != nil {
				return err
			}
			ctx, stop := jobContext()
			defer stop()

			s := namu.NewScraper(client, &cfg.Namu, logger)
			dl := media.NewDownloader(cfg.Output.ImageDir, client, cfg.Namu.RequestTimeout, logger)
			rows, err := s.DramaImages(ctx, dl, titles)
			if err != nil {
				return fmt.Errorf("scrape drama images: %w", err)
			}

			ok := 0
			recs := make([][]string, 0, len(rows))
			for _, r := range rows {
				if r.Status == "OK" {
					ok++
				}
				recs = append(recs, r.Record())
			}
			logger.Info("drama image scrape complete", "titles", len(titles), "saved", ok)
			fmt.Printf("✅ %d/%d posters saved → %s\n", ok, len(titles), cfg.Output.ImageDir)
			return writeTable(outPath(cfg, outFile, "drama_image.csv"), types.ImageResultHeaders, recs)
		},
	}
	cmd.Flags().StringVarP(&inFile, "in", "i", "", "input CSV with a title column (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	cmd.MarkFlagRequired("in")
	return cmd
}

func personImagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person-images",
		Short: "Download actor profile images via namu-wiki og:image",
		Long: `Resolves each name to its person document (trying the "(배우)"
variants first) and downloads the og:image photo. Misses still get a
row with an empty URL so downstream joins see every name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, client, err := setup()
			if err != nil {
				return err
			}
			names, err := readColumn(inFile, true)
			if err != nil {
				return err
			}
			ctx, stop := jobContext()
			defer stop()

			s := namu.NewScraper(client, &cfg.Namu, logger)
			dl := media.NewDownloader(cfg.Output.ImageDir, client, cfg.Namu.RequestTimeout, logger)
			rows, err := s.PersonImages(ctx, dl, names)
			if err != nil {
				return fmt.Errorf("scrape person images: %w", err)
			}

			recs := make([][]string, 0, len(rows))
			for _, r := range rows {
				recs = append(recs, r.Record())
			}
			logger.Info("person image scrape complete", "names", len(names), "rows", len(recs))
			return writeTable(outPath(cfg, outFile, "person_image.csv"), types.ImageRefHeaders, recs)
		},
	}
	cmd.Flags().StringVarP(&inFile, "in", "i", "", "input CSV with a name column (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	cmd.MarkFlagRequired("in")
	return cmd
}
