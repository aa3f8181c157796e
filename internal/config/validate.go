package config

import (
	"fmt"
	"net/url"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.HTTP.Workers < 1 {
		return fmt.Errorf("http.workers must be >= 1, got %d", cfg.HTTP.Workers)
	}
	if cfg.HTTP.Workers > 64 {
		return fmt.Errorf("http.workers must be <= 64, got %d", cfg.HTTP.Workers)
	}
	if cfg.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be >= 0, got %d", cfg.HTTP.MaxRetries)
	}
	if cfg.HTTP.MaxBodySize <= 0 {
		return fmt.Errorf("http.max_body_size must be > 0")
	}

	for name, base := range map[string]string{
		"wiki.base_url": cfg.Wiki.BaseURL,
		"namu.base_url": cfg.Namu.BaseURL,
		"tmdb.base_url": cfg.TMDB.BaseURL,
	} {
		if err := ValidateURL(base); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if cfg.Wiki.RequestTimeout <= 0 || cfg.Namu.RequestTimeout <= 0 || cfg.TMDB.RequestTimeout <= 0 {
		return fmt.Errorf("request timeouts must be > 0")
	}
	if cfg.Wiki.Delay < 0 || cfg.Namu.Delay < 0 || cfg.TMDB.Delay < 0 {
		return fmt.Errorf("delays must be >= 0")
	}

	if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir must not be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// RequireTMDBKey ensures an API key is present for TMDB-backed commands.
func RequireTMDBKey(cfg *Config) error {
	if cfg.TMDB.APIKey == "" {
		return fmt.Errorf("TMDB API key missing: set --api-key, KSCRAPE_TMDB_API_KEY, or TMDB_API_KEY")
	}
	return nil
}

// ValidateURL checks if a URL string is usable as a scrape target.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
