package wiki

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kdramalab/kscrape/internal/fetcher"
	"github.com/kdramalab/kscrape/internal/normalize"
	"github.com/kdramalab/kscrape/internal/types"
)

// ScrapeCategory crawls a genre category tree ("분류:대한민국의 로맨스
// 드라마" and friends): every alphabetical column on every pagination
// page, then each member article's title, genre, and channel. The
// genre keyword is backfilled into rows whose infobox genre does not
// mention it.
func (s *Scraper) ScrapeCategory(ctx context.Context, categoryURL, genreKeyword string) ([]types.CategoryDrama, error) {
	links, err := s.categoryMemberLinks(ctx, categoryURL)
	if err != nil {
		return nil, err
	}
	s.logger.Info("category members collected", "category", categoryURL, "members", len(links))

	rows := make([]types.CategoryDrama, 0, len(links))
	for _, link := range links {
		doc, err := s.fetchDoc(ctx, link)
		if err != nil {
			s.logger.Warn("member fetch failed", "url", link, "error", err)
			continue
		}
		row := categoryRow(doc)
		if row.Title != "" {
			row.Genre = fixGenre(row.Genre, genreKeyword)
			rows = append(rows, row)
		}
		if err := fetcher.Sleep(ctx, s.cfg.Delay); err != nil {
			return rows, err
		}
	}
	return dedupeCategory(rows), nil
}

// categoryMemberLinks walks the category listing and its pagination.
func (s *Scraper) categoryMemberLinks(ctx context.Context, firstURL string) ([]string, error) {
	var links []string
	seenPages := map[string]bool{}

	url := firstURL
	for url != "" && !seenPages[url] {
		seenPages[url] = true
		doc, err := s.fetchDoc(ctx, url)
		if err != nil {
			return links, err
		}

		found := 0
		doc.Find("#mw-pages ul > li > a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if href == "" {
				return
			}
			links = append(links, resolveURL(s.cfg.BaseURL, href))
			found++
		})
		if found == 0 {
			break
		}

		url = nextCategoryPage(doc, s.cfg.BaseURL)
		if err := fetcher.Sleep(ctx, s.cfg.Delay); err != nil {
			return links, err
		}
	}
	return dedupeStrings(links), nil
}

func nextCategoryPage(doc *goquery.Document, baseURL string) string {
	var next string
	doc.Find("#mw-pages a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if normalize.CleanText(a.Text()) == "다음 페이지" {
			if href, ok := a.Attr("href"); ok {
				next = resolveURL(baseURL, href)
				return false
			}
		}
		return true
	})
	return next
}

func categoryRow(doc *goquery.Document) types.CategoryDrama {
	row := types.CategoryDrama{
		Title: normalize.CleanText(doc.Find("#firstHeading").First().Text()),
	}
	box := FindInfobox(doc)
	if box != nil {
		row.Genre = box.Value("장르")
		row.Channel = strings.Trim(strings.ReplaceAll(box.LinkedValue(channelLabelRe), ";", ","), ", ")
	}
	return row
}

// fixGenre guarantees the category's genre keyword appears in the
// genre column: empty values become the keyword, others get it
// prepended.
func fixGenre(genre, keyword string) string {
	g := strings.Trim(strings.TrimSpace(genre), ",; ")
	if g == "" {
		return keyword
	}
	if strings.Contains(g, keyword) {
		return g
	}
	return fmt.Sprintf("%s, %s", keyword, g)
}

func dedupeCategory(rows []types.CategoryDrama) []types.CategoryDrama {
	seen := make(map[string]bool, len(rows))
	out := rows[:0]
	for _, r := range rows {
		if seen[r.Title] {
			continue
		}
		seen[r.Title] = true
		out = append(out, r)
	}
	return out
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
