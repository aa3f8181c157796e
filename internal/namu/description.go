package namu

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kdramalab/kscrape/internal/fetcher"
	"github.com/kdramalab/kscrape/internal/normalize"
	"github.com/kdramalab/kscrape/internal/selector"
	"github.com/kdramalab/kscrape/internal/types"
)

// The summary table sits in one of the first content sections, inside
// the site's obfuscated wrapper class. The class names rotate with
// frontend deploys; "article table" stays as the broad fallback.
var descPrimarySelector = strings.Join([]string{
	"div.BpaiDiJp.M4Ezwymi > div:nth-child(5) div.kZb-CLkK._1BEih8Vh > table",
	"div.BpaiDiJp.M4Ezwymi > div:nth-child(6) div.kZb-CLkK._1BEih8Vh > table",
	"div.BpaiDiJp.M4Ezwymi > div:nth-child(7) div.kZb-CLkK._1BEih8Vh > table",
	"div.BpaiDiJp.M4Ezwymi > div:nth-child(8) div.kZb-CLkK._1BEih8Vh > table",
}, ", ")

const descFallbackSelector = "article table"

// tableOneLine serializes every cell of a table into a single line.
func tableOneLine(table *goquery.Selection) string {
	var parts []string
	table.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		if t := selector.CellText(cell); t != "" {
			parts = append(parts, t)
		}
	})
	return normalize.CleanText(strings.Join(parts, " "))
}

// descriptionFromDoc picks the most populated qualifying table and
// flattens it.
func descriptionFromDoc(doc *goquery.Document) string {
	candidates := doc.Find(descPrimarySelector).FilterFunction(func(_ int, t *goquery.Selection) bool {
		return t.Find("th, td").Length() > 0
	})
	if candidates.Length() == 0 {
		candidates = doc.Find(descFallbackSelector).FilterFunction(func(_ int, t *goquery.Selection) bool {
			return t.Find("th, td").Length() > 0
		})
	}
	best := selector.BestTable(candidates)
	if best == nil {
		return ""
	}
	return tableOneLine(best)
}

// descriptionForTitle probes the drama-variant documents first; only
// when both variants yield nothing does the bare title get a try.
func (s *Scraper) descriptionForTitle(ctx context.Context, title string) (string, error) {
	for _, cand := range DramaCandidates(title) {
		doc, err := s.fetchDoc(ctx, s.DocURL(cand))
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}
		if txt := descriptionFromDoc(doc); txt != "" {
			return txt, nil
		}
		if err := fetcher.Sleep(ctx, s.cfg.Delay); err != nil {
			return "", err
		}
	}
	return "", nil
}

// ScrapeDescriptions collects one summary line per title, keeping the
// last row when a title repeats in the input.
func (s *Scraper) ScrapeDescriptions(ctx context.Context, titles []string) ([]types.Description, error) {
	index := make(map[string]int, len(titles))
	var rows []types.Description
	for i, title := range titles {
		txt, err := s.descriptionForTitle(ctx, title)
		if err != nil {
			return rows, err
		}
		row := types.Description{Title: title, Description: txt}
		if at, ok := index[normalize.Key(title)]; ok {
			rows[at] = row
		} else {
			index[normalize.Key(title)] = len(rows)
			rows = append(rows, row)
		}
		if (i+1)%25 == 0 {
			s.logger.Info("description progress", "done", i+1, "total", len(titles))
		}
		if err := fetcher.Sleep(ctx, s.cfg.Delay); err != nil {
			return rows, err
		}
	}
	return rows, nil
}
