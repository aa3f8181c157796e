package wiki

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kdramalab/kscrape/internal/fetcher"
	"github.com/kdramalab/kscrape/internal/normalize"
	"github.com/kdramalab/kscrape/internal/types"
)

// The slot label and the runtime label must stay mutually exclusive:
// 방송시간 carries days and a clock range, while 상영시간 and friends
// carry a duration. Parsing a slot cell as a runtime produces garbage
// like "10분" from "밤 10시".
var (
	timeLabelRe    = regexp.MustCompile(`방송시간|방영시간`)
	runtimeLabelRe = regexp.MustCompile(`상영시간|방송분량|러닝타임|분량`)
)

// Guard bounds for runtime inference from a start~end range.
const (
	inferMinMinutes = 40
	inferMaxMinutes = 120
)

// BroadcastFields holds the parsed slot of one drama.
type BroadcastFields struct {
	DOW       string
	StartTime string
	Runtime   string
}

// ParseBroadcastFields reads the infobox slot and runtime rows.
func ParseBroadcastFields(doc *goquery.Document) BroadcastFields {
	var out BroadcastFields
	box := FindInfobox(doc)
	if box == nil {
		return out
	}

	var timeTd, runtimeTd *goquery.Selection
	box.Row(func(label string, td *goquery.Selection) {
		if label == "" {
			return
		}
		if timeTd == nil && timeLabelRe.MatchString(label) {
			timeTd = td
		} else if runtimeTd == nil && runtimeLabelRe.MatchString(label) {
			runtimeTd = td
		}
	})

	if timeTd != nil {
		t := normalize.CleanText(joinedCellText(timeTd))
		// keep the primary slot; reruns and specials trail after a slash
		t = strings.SplitN(t, " / ", 2)[0]
		t = strings.SplitN(t, " ; ", 2)[0]
		if days := normalize.ExtractDays(t); len(days) > 0 {
			out.DOW = strings.Join(days, ", ")
		}
		out.StartTime = normalize.TimeRange(t)
	}

	if runtimeTd != nil {
		rt := normalize.CleanText(joinedCellText(runtimeTd))
		if min, ok := normalize.RuntimeMinutes(rt); ok {
			out.Runtime = fmt.Sprintf("%d분", min)
		}
	}

	return out
}

// ScrapeWeekly collects the weekly schedule table: day-of-week, start
// time, and runtime per drama. When no labeled runtime exists, a
// bounded estimate is derived from the start~end range.
func (s *Scraper) ScrapeWeekly(ctx context.Context) ([]types.WeeklySchedule, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]types.WeeklySchedule, 0, len(items))
	for _, it := range items {
		var f BroadcastFields
		if it.DetailURL != "" {
			if doc, err := s.fetchDoc(ctx, it.DetailURL); err != nil {
				s.logger.Warn("detail fetch failed", "title", it.Title, "error", err)
			} else {
				f = ParseBroadcastFields(doc)
			}
			if err := fetcher.Sleep(ctx, s.cfg.Delay); err != nil {
				return rows, err
			}
		}

		f.Runtime = normalize.InferRuntime(f.StartTime, f.Runtime, inferMinMinutes, inferMaxMinutes)
		rows = append(rows, types.WeeklySchedule{
			Title:     it.Title,
			DOW:       f.DOW,
			StartTime: f.StartTime,
			Runtime:   f.Runtime,
		})
	}
	return dedupeWeekly(rows), nil
}

func dedupeWeekly(rows []types.WeeklySchedule) []types.WeeklySchedule {
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
