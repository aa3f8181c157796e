package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and CLI flags.
// Priority (highest to lowest): CLI flags > env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("KSCRAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("kscrape")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".kscrape"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if not explicitly specified
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The bare TMDB_API_KEY env var is honored for compatibility with
	// other TMDB tooling.
	if cfg.TMDB.APIKey == "" {
		cfg.TMDB.APIKey = os.Getenv("TMDB_API_KEY")
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("http.user_agent", cfg.HTTP.UserAgent)
	v.SetDefault("http.max_retries", cfg.HTTP.MaxRetries)
	v.SetDefault("http.retry_delay", cfg.HTTP.RetryDelay)
	v.SetDefault("http.max_body_size", cfg.HTTP.MaxBodySize)
	v.SetDefault("http.idle_conn_timeout", cfg.HTTP.IdleConnTimeout)
	v.SetDefault("http.max_idle_conns", cfg.HTTP.MaxIdleConns)
	v.SetDefault("http.workers", cfg.HTTP.Workers)

	v.SetDefault("wiki.base_url", cfg.Wiki.BaseURL)
	v.SetDefault("wiki.list_path", cfg.Wiki.ListPath)
	v.SetDefault("wiki.request_timeout", cfg.Wiki.RequestTimeout)
	v.SetDefault("wiki.delay", cfg.Wiki.Delay)

	v.SetDefault("namu.base_url", cfg.Namu.BaseURL)
	v.SetDefault("namu.request_timeout", cfg.Namu.RequestTimeout)
	v.SetDefault("namu.delay", cfg.Namu.Delay)

	v.SetDefault("tmdb.api_key", cfg.TMDB.APIKey)
	v.SetDefault("tmdb.base_url", cfg.TMDB.BaseURL)
	v.SetDefault("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	v.SetDefault("tmdb.language", cfg.TMDB.Language)
	v.SetDefault("tmdb.request_timeout", cfg.TMDB.RequestTimeout)
	v.SetDefault("tmdb.delay", cfg.TMDB.Delay)

	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.image_dir", cfg.Output.ImageDir)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
}
