package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for kscrape.
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"    yaml:"http"`
	Wiki    WikiConfig    `mapstructure:"wiki"    yaml:"wiki"`
	Namu    NamuConfig    `mapstructure:"namu"    yaml:"namu"`
	TMDB    TMDBConfig    `mapstructure:"tmdb"    yaml:"tmdb"`
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// HTTPConfig controls the shared HTTP client.
type HTTPConfig struct {
	UserAgent       string        `mapstructure:"user_agent"        yaml:"user_agent"`
	MaxRetries      int           `mapstructure:"max_retries"       yaml:"max_retries"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"       yaml:"retry_delay"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	Workers         int           `mapstructure:"workers"           yaml:"workers"`
}

// WikiConfig controls access to the Korean Wikipedia.
type WikiConfig struct {
	BaseURL        string        `mapstructure:"base_url"        yaml:"base_url"`
	ListPath       string        `mapstructure:"list_path"       yaml:"list_path"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	Delay          time.Duration `mapstructure:"delay"           yaml:"delay"`
}

// NamuConfig controls access to Namu-wiki document pages.
type NamuConfig struct {
	BaseURL        string        `mapstructure:"base_url"        yaml:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	Delay          time.Duration `mapstructure:"delay"           yaml:"delay"`
}

// TMDBConfig controls The Movie Database API client.
type TMDBConfig struct {
	APIKey         string        `mapstructure:"api_key"         yaml:"api_key"`
	BaseURL        string        `mapstructure:"base_url"        yaml:"base_url"`
	ImageBaseURL   string        `mapstructure:"image_base_url"  yaml:"image_base_url"`
	Language       string        `mapstructure:"language"        yaml:"language"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	Delay          time.Duration `mapstructure:"delay"           yaml:"delay"`
}

// OutputConfig controls where CSV tables and images are written.
type OutputConfig struct {
	Dir      string `mapstructure:"dir"       yaml:"dir"`
	ImageDir string `mapstructure:"image_dir" yaml:"image_dir"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			MaxRetries:      3,
			RetryDelay:      2 * time.Second,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
			Workers:         8,
		},
		Wiki: WikiConfig{
			BaseURL:        "https://ko.wikipedia.org",
			ListPath:       "/wiki/%EB%8C%80%ED%95%9C%EB%AF%BC%EA%B5%AD%EC%9D%98_%ED%85%94%EB%A0%88%EB%B9%84%EC%A0%84_%EB%93%9C%EB%9D%BC%EB%A7%88_%EB%AA%A9%EB%A1%9D",
			RequestTimeout: 20 * time.Second,
			Delay:          600 * time.Millisecond,
		},
		Namu: NamuConfig{
			BaseURL:        "https://namu.wiki",
			RequestTimeout: 8 * time.Second,
			Delay:          350 * time.Millisecond,
		},
		TMDB: TMDBConfig{
			BaseURL:        "https://api.themoviedb.org/3",
			ImageBaseURL:   "https://image.tmdb.org/t/p",
			Language:       "ko-KR",
			RequestTimeout: 5 * time.Second,
			Delay:          250 * time.Millisecond,
		},
		Output: OutputConfig{
			Dir:      "./data",
			ImageDir: "./data/images",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
