package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kdramalab/kscrape/internal/csvx"
	"github.com/kdramalab/kscrape/internal/merge"
)

var mergeWith string

func mergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Offline CSV joins between job outputs",
		Long: `Joins previously scraped CSV files without touching the network.
All joins match on the normalized title or name and are safe to
re-run: applying a merge twice gives the same file.`,
	}
	cmd.AddCommand(mergeRuntimeCmd())
	cmd.AddCommand(mergeDescriptionCmd())
	cmd.AddCommand(mergePersonURLCmd())
	cmd.AddCommand(mergeImageExportCmd())
	return cmd
}

// runMerge reads the two inputs, applies the join and writes the result.
func runMerge(base, with, out string, job func(base, with *csvx.Table) (*csvx.Table, error)) error {
	baseTable, err := csvx.ReadFile(base)
	if err != nil {
		return err
	}
	withTable, err := csvx.ReadFile(with)
	if err != nil {
		return err
	}
	merged, err := job(baseTable, withTable)
	if err != nil {
		return err
	}
	return writeTable(out, merged.Headers, merged.Rows)
}

func mergeRuntimeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runtime",
		Short: "Backfill episode runtimes from the weekly schedule",
		Long: `Overwrites the episode table's runtime_min with the drama's runtime
from the weekly schedule, normalized to a "<N>분" label. Episodes of
dramas missing from the schedule keep their scraped value.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := outPath(cfg, outFile, "episode.csv")
			return runMerge(inFile, mergeWith, out,
				func(episodes, weekly *csvx.Table) (*csvx.Table, error) {
					return merge.RuntimeBackfill(weekly, episodes)
				})
		},
	}
	cmd.Flags().StringVarP(&inFile, "in", "i", "", "episode CSV (required)")
	cmd.Flags().StringVar(&mergeWith, "with", "", "weekly schedule CSV (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("with")
	return cmd
}

func mergeDescriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "description",
		Short: "Join scraped descriptions onto the drama table",
		Long: `Left-joins the description CSV onto the drama table by title and
appends description as the last column. Unmatched dramas get an
empty description.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := outPath(cfg, outFile, "drama.csv")
			return runMerge(inFile, mergeWith, out, merge.DescriptionJoin)
		},
	}
	cmd.Flags().StringVarP(&inFile, "in", "i", "", "drama CSV (required)")
	cmd.Flags().StringVar(&mergeWith, "with", "", "description CSV (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("with")
	return cmd
}

func mergePersonURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person-url",
		Short: "Fill person image URLs from the TMDB profile table",
		Long: `Left-joins TMDB profile URLs onto the person image table by name.
A non-empty TMDB URL replaces the existing one; empty lookups leave
the row untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			out := outPath(cfg, outFile, "person_image.csv")
			return runMerge(inFile, mergeWith, out, merge.PersonURLMerge)
		},
	}
	cmd.Flags().StringVarP(&inFile, "in", "i", "", "person image CSV (required)")
	cmd.Flags().StringVar(&mergeWith, "with", "", "TMDB profile CSV (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("with")
	return cmd
}

func mergeImageExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image-export",
		Short: "Reshape TMDB poster lookups into the image reference table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			src, err := csvx.ReadFile(inFile)
			if err != nil {
				return err
			}
			exported, err := merge.ImageExport(src)
			if err != nil {
				return fmt.Errorf("image export: %w", err)
			}
			out := outPath(cfg, outFile, "drama_image_ref.csv")
			return writeTable(out, exported.Headers, exported.Rows)
		},
	}
	cmd.Flags().StringVarP(&inFile, "in", "i", "", "TMDB image CSV (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output CSV path")
	cmd.MarkFlagRequired("in")
	return cmd
}
