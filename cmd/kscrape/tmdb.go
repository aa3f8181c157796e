package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdramalab/kscrape/internal/config"
	"github.com/kdramalab/kscrape/internal/tmdb"
	"github.com/kdramalab/kscrape/internal/types"
)

var tmdbAPIKey string

func tmdbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tmdb",
		Short: "TMDB API batch jobs",
		Long: `Looks up dramas and actors on The Movie Database. Every job takes an
input CSV, queries the API per row and writes a CSV keyed back to the
input value, keeping miss rows so joins stay total.`,
	}
	cmd.PersistentFlags().StringVar(&tmdbAPIKey, "api-key", "", "TMDB API key (overrides config)")
	cmd.AddCommand(tmdbImagesCmd())
	cmd.AddCommand(tmdbCastCmd())
	cmd.AddCommand(tmdbPersonImagesCmd())
	return cmd
}

// tmdbSetup extends setup with the API-key override and check.
func tmdbSetup() (*config.Config, *tmdb.Client, error) {
	cfg, logger, client, err := setup()
	if err != nil {
		return nil, nil, err
	}
	if tmdbAPIKey != "" {
		cfg.TMDB.APIKey = tmdbAPIKey
	}
	if err := config.RequireTMDBKey(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, tmdb.NewClient(client, &cfg.TMDB, logger), nil
}

func tmdbImagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Look up poster and backdrop URLs per drama title",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := tmdbSetup()
			if err != nil {
				return err
			}
			titles, err := readColumn(inFile, false)
			if err != nil {
				return err
			}
			ctx, stop := jobContext()
			defer stop()

			rows, err := client.DramaImages(ctx, titles)
			if err != nil {
				return fmt.Errorf("tmdb images: %w", err)
			}

			recs := make([][]string, 0, len(rows))
			for _, r := range rows {
				recs = append(recs, r.Record())
			}
			return writeTable(outPath(cfg, outFile, "drama_tmdb_image.csv"), tmdb.DramaImageHeaders, recs)
		},
	}
	cmd.Flags().StringVarP(&inFile, "in", "i", "", "input CSV with a title column (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	cmd.MarkFlagRequired("in")
	return cmd
}

func tmdbCastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cast",
		Short: "Fetch cast credits per drama title",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := tmdbSetup()
			if err != nil {
				return err
			}
			titles, err := readColumn(inFile, false)
			if err != nil {
				return err
			}
			ctx, stop := jobContext()
			defer stop()

			rows, err := client.DramaCast(ctx, titles)
			if err != nil {
				return fmt.Errorf("tmdb cast: %w", err)
			}

			recs := make([][]string, 0, len(rows))
			for _, r := range rows {
				recs = append(recs, r.Record())
			}
			return writeTable(outPath(cfg, outFile, "tmdb_cast.csv"), types.CastRoleHeaders, recs)
		},
	}
	cmd.Flags().StringVarP(&inFile, "in", "i", "", "input CSV with a title column (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	cmd.MarkFlagRequired("in")
	return cmd
}

func tmdbPersonImagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person-images",
		Short: "Look up actor profile image URLs per name",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := tmdbSetup()
			if err != nil {
				return err
			}
			names, err := readColumn(inFile, true)
			if err != nil {
				return err
			}
			ctx, stop := jobContext()
			defer stop()

			rows, err := client.PersonProfiles(ctx, names)
			if err != nil {
				return fmt.Errorf("tmdb person images: %w", err)
			}

			recs := make([][]string, 0, len(rows))
			for _, r := range rows {
				recs = append(recs, r.Record())
			}
			return writeTable(outPath(cfg, outFile, "person_tmdb_image.csv"), tmdb.PersonProfileHeaders, recs)
		},
	}
	cmd.Flags().StringVarP(&inFile, "in", "i", "", "input CSV with a name column (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	cmd.MarkFlagRequired("in")
	return cmd
}
