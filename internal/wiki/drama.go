package wiki

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kdramalab/kscrape/internal/fetcher"
	"github.com/kdramalab/kscrape/internal/normalize"
	"github.com/kdramalab/kscrape/internal/types"
)

// ScrapeDramas walks the list page and every linked detail article,
// producing one master row per drama. The broadcast period always
// comes from the list table; the detail page only contributes the
// supporting fields. A fetch failure degrades to a list-only row.
func (s *Scraper) ScrapeDramas(ctx context.Context) ([]types.Drama, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	rows := make([]types.Drama, 0, len(items))
	for i, it := range items {
		row := types.Drama{Title: it.Title}
		row.FirstDay, row.EndDay = normalize.SplitPeriod(it.PeriodRaw)
		row.Status = normalize.Status(row.FirstDay, row.EndDay, today)

		if it.DetailURL != "" {
			if doc, err := s.fetchDoc(ctx, it.DetailURL); err != nil {
				s.logger.Warn("detail fetch failed", "title", it.Title, "url", it.DetailURL, "error", err)
			} else {
				s.fillDetail(&row, doc)
			}
			if err := fetcher.Sleep(ctx, s.cfg.Delay); err != nil {
				return rows, err
			}
		}

		rows = append(rows, row)
		if (i+1)%25 == 0 {
			s.logger.Info("drama progress", "done", i+1, "total", len(items))
		}
	}
	return dedupeDramas(rows), nil
}

func (s *Scraper) fillDetail(row *types.Drama, doc *goquery.Document) {
	if t := ArticleTitle(doc); t != "" {
		row.Title = normalize.StripBrackets(t)
	}
	box := FindInfobox(doc)
	if box != nil {
		row.Genre = box.Value("장르")
		row.Channel = box.LinkedValue(channelLabelRe)
		row.Director = box.LinkedValue(directorRe)
		row.Writer = box.LinkedValue(writerRe)
		row.EpisodeCount = normalize.EpisodeCount(EpisodeCountValue(box))
	}
	row.AvgRating = RatingsAvg(doc)
}

func dedupeDramas(rows []types.Drama) []types.Drama {
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
