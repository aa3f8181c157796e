package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kdramalab/kscrape/internal/config"
	"github.com/kdramalab/kscrape/internal/csvx"
	"github.com/kdramalab/kscrape/internal/fetcher"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kscrape",
		Short: "kscrape — Korean-drama metadata batch scrapers",
		Long: `kscrape collects Korean-drama metadata into flat CSV tables.

Jobs:
  • wiki list/detail pages: drama master table, weekly schedule, cast, people, genre categories
  • namu-wiki documents: episode lists, summary descriptions, og:image posters
  • TMDB API: posters, cast lists, actor profile images
  • merge: CSV joins that stitch job outputs together

Each job is an independent batch: it reads a CSV (or the configured
list page), scrapes, and writes a CSV. Jobs couple only through files.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(dramaCmd())
	rootCmd.AddCommand(weeklyCmd())
	rootCmd.AddCommand(castCmd())
	rootCmd.AddCommand(peopleCmd())
	rootCmd.AddCommand(genreCmd())
	rootCmd.AddCommand(episodesCmd())
	rootCmd.AddCommand(descriptionsCmd())
	rootCmd.AddCommand(dramaImagesCmd())
	rootCmd.AddCommand(personImagesCmd())
	rootCmd.AddCommand(tmdbCmd())
	rootCmd.AddCommand(mergeCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kscrape %s\n", config.Version)
		},
	}
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("HTTP:\n")
			fmt.Printf("  Workers:          %d\n", cfg.HTTP.Workers)
			fmt.Printf("  Max Retries:      %d\n", cfg.HTTP.MaxRetries)
			fmt.Printf("  Max Body Size:    %d bytes\n", cfg.HTTP.MaxBodySize)
			fmt.Printf("\nWiki:\n")
			fmt.Printf("  Base URL:         %s\n", cfg.Wiki.BaseURL)
			fmt.Printf("  Request Timeout:  %s\n", cfg.Wiki.RequestTimeout)
			fmt.Printf("  Delay:            %s\n", cfg.Wiki.Delay)
			fmt.Printf("\nNamu:\n")
			fmt.Printf("  Base URL:         %s\n", cfg.Namu.BaseURL)
			fmt.Printf("  Request Timeout:  %s\n", cfg.Namu.RequestTimeout)
			fmt.Printf("  Delay:            %s\n", cfg.Namu.Delay)
			fmt.Printf("\nTMDB:\n")
			fmt.Printf("  Base URL:         %s\n", cfg.TMDB.BaseURL)
			fmt.Printf("  Language:         %s\n", cfg.TMDB.Language)
			fmt.Printf("  API Key Set:      %v\n", cfg.TMDB.APIKey != "")
			fmt.Printf("\nOutput:\n")
			fmt.Printf("  Dir:              %s\n", cfg.Output.Dir)
			fmt.Printf("  Image Dir:        %s\n", cfg.Output.ImageDir)
			return nil
		},
	}
}

// loadConfig loads and validates configuration for a job run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setupLogger creates the structured logger the jobs share.
func setupLogger(cfg *config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	out := os.Stderr
	if cfg.Output == "stdout" {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// jobContext wires SIGINT/SIGTERM into cancellation so a long batch
// can stop between items and still flush partial output.
func jobContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// setup is the shared preamble of every scrape command.
func setup() (*config.Config, *slog.Logger, *fetcher.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := setupLogger(&cfg.Logging)
	return cfg, logger, fetcher.NewClient(&cfg.HTTP, logger), nil
}

// outPath resolves an output file against the configured data dir.
func outPath(cfg *config.Config, flag, name string) string {
	if flag != "" {
		return flag
	}
	return filepath.Join(cfg.Output.Dir, name)
}

// readColumn loads the input CSV and returns one column's values,
// located by the accepted spellings for titles or names.
func readColumn(path string, name bool) ([]string, error) {
	table, err := csvx.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var col int
	if name {
		col, err = table.NameColumn()
	} else {
		col, err = table.TitleColumn()
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table.Values(col), nil
}

// writeTable writes rows and prints the closing summary line.
func writeTable(path string, headers []string, rows [][]string) error {
	if err := csvx.WriteFile(path, headers, rows); err != nil {
		return err
	}
	fmt.Printf("✅ %d rows → %s\n", len(rows), path)
	return nil
}
