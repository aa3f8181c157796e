// Package wiki scrapes the Korean Wikipedia: the yearly drama list
// page, per-drama detail articles, cast sections, actor articles, and
// genre category trees.
package wiki

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/kdramalab/kscrape/internal/config"
	"github.com/kdramalab/kscrape/internal/fetcher"
)

// Scraper runs wiki batch jobs against one configured host.
type Scraper struct {
	client *fetcher.Client
	cfg    *config.WikiConfig
	http   *config.HTTPConfig
	logger *slog.Logger
}

// NewScraper creates a wiki scraper sharing the given HTTP client.
func NewScraper(client *fetcher.Client, cfg *config.WikiConfig, httpCfg *config.HTTPConfig, logger *slog.Logger) *Scraper {
	return &Scraper{
		client: client,
		cfg:    cfg,
		http:   httpCfg,
		logger: logger.With("component", "wiki"),
	}
}

// ListURL is the absolute address of the drama list page.
func (s *Scraper) ListURL() string {
	return s.cfg.BaseURL + s.cfg.ListPath
}

func (s *Scraper) fetchDoc(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := s.client.Get(ctx, url, s.cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return resp.Document()
}

// ListItems fetches and parses the drama list page.
func (s *Scraper) ListItems(ctx context.Context) ([]ListItem, error) {
	doc, err := s.fetchDoc(ctx, s.ListURL())
	if err != nil {
		return nil, err
	}
	items := ParseListItems(doc, s.cfg.BaseURL)
	s.logger.Info("list page parsed", "url", s.ListURL(), "items", len(items))
	return items, nil
}
