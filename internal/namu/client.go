// Package namu scrapes namu-wiki drama documents: episode tables,
// summary descriptions, and representative og:image posters. Document
// titles are probed through a fixed candidate cascade because dramas
// live under "제목 (드라마)", "제목(드라마)", or the bare title
// depending on how ambiguous the name is.
package namu

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kdramalab/kscrape/internal/config"
	"github.com/kdramalab/kscrape/internal/fetcher"
	"github.com/kdramalab/kscrape/internal/normalize"
)

// allowedPrefixes limits navigation to document, search, and asset
// paths. Anything else on the host is not worth a request.
var allowedPrefixes = []string{"/w/", "/Search", "/img/", "/i/", "/js/", "/css/", "/_nuxt/", "/"}

// Scraper is a namu-wiki batch client.
type Scraper struct {
	client *fetcher.Client
	cfg    *config.NamuConfig
	logger *slog.Logger
}

func NewScraper(client *fetcher.Client, cfg *config.NamuConfig, logger *slog.Logger) *Scraper {
	return &Scraper{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "namu"),
	}
}

// Allowed reports whether the URL's path falls under a crawlable prefix.
func Allowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	for _, pref := range allowedPrefixes {
		if strings.HasPrefix(u.Path, pref) {
			return true
		}
	}
	return false
}

// DocURL builds the document URL for an exact title. The title is
// escaped whole, slash included, so subpage names stay literal.
func (s *Scraper) DocURL(title string) string {
	return s.cfg.BaseURL + "/w/" + url.PathEscape(title)
}

// SearchURL builds the site-search URL for a query.
func (s *Scraper) SearchURL(query string) string {
	return s.cfg.BaseURL + "/Search?q=" + url.QueryEscape(query)
}

// DramaCandidates lists the document titles to probe for a drama, most
// specific first.
func DramaCandidates(title string) []string {
	base := normalize.SearchTitle(title)
	return []string{
		fmt.Sprintf("%s (드라마)", base),
		fmt.Sprintf("%s(드라마)", base),
		base,
	}
}

// PersonCandidates lists the document titles to probe for an actor.
func PersonCandidates(name string) []string {
	base := normalize.PersonTitle(name)
	return []string{
		fmt.Sprintf("%s (배우)", base),
		fmt.Sprintf("%s(배우)", base),
		base,
	}
}

// fetchDoc fetches one document. A non-200 page or a network failure
// comes back as an error; the caller decides whether to try the next
// candidate.
func (s *Scraper) fetchDoc(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if !Allowed(rawURL) {
		return nil, fmt.Errorf("disallowed path: %s", rawURL)
	}
	resp, err := s.client.Get(ctx, rawURL, s.cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return resp.Document()
}

// openFirst probes title candidates in order and returns the first
// document that exists, along with its URL and the URLs tried.
func (s *Scraper) openFirst(ctx context.Context, candidates []string) (doc *goquery.Document, pageURL string, tried []string, err error) {
	for _, cand := range candidates {
		u := s.DocURL(cand)
		tried = append(tried, u)
		d, ferr := s.fetchDoc(ctx, u)
		if ferr == nil {
			return d, u, tried, nil
		}
		s.logger.Debug("document miss", "url", u, "error", ferr)
		if ctx.Err() != nil {
			return nil, "", tried, ctx.Err()
		}
		if serr := fetcher.Sleep(ctx, s.cfg.Delay); serr != nil {
			return nil, "", tried, serr
		}
	}
	return nil, "", tried, nil
}

// resolveImageURL absolutizes an image reference against the site root.
func (s *Scraper) resolveImageURL(src string) string {
	t := strings.TrimSpace(src)
	switch {
	case t == "":
		return ""
	case strings.HasPrefix(t, "//"):
		return "https:" + t
	case strings.HasPrefix(t, "http://"), strings.HasPrefix(t, "https://"):
		return t
	case strings.HasPrefix(t, "/"):
		return s.cfg.BaseURL + t
	default:
		return s.cfg.BaseURL + "/" + t
	}
}
