package namu

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kdramalab/kscrape/internal/fetcher"
	"github.com/kdramalab/kscrape/internal/normalize"
	"github.com/kdramalab/kscrape/internal/selector"
	"github.com/kdramalab/kscrape/internal/types"
)

// Episode tables hide under a handful of section names, and the larger
// works keep them on a dedicated subpage.
var episodeSections = []string{"방영 목록", "방송 목록", "회차 목록", "에피소드", "회차 정보", "줄거리"}

const episodeSubpage = "방영 목록"

// episodeFields is one parsed table entry before the drama title is
// attached.
type episodeFields struct {
	episodeNo   string
	broadcastAt string
	title       string
	description string
}

// headerKey classifies an episode-table column header. Unrecognized
// headers map to "".
func headerKey(text string) string {
	t := strings.ReplaceAll(normalize.CleanText(text), " ", "")
	switch {
	case strings.Contains(t, "회차") || t == "회":
		return "episode_no"
	case strings.Contains(t, "방영일") || strings.Contains(t, "방송일") || strings.Contains(t, "방영"):
		return "broadcast_at"
	case strings.Contains(t, "제목") || strings.Contains(t, "부제") || strings.Contains(t, "소제목"):
		return "title"
	case strings.Contains(t, "줄거리") || strings.Contains(t, "개요") || strings.Contains(t, "내용"):
		return "description"
	default:
		return ""
	}
}

// cellOrStrong reads a cell's text, preferring an inner strong element
// when one exists (episode titles are usually bolded).
func cellOrStrong(cell *goquery.Selection) string {
	if strong := cell.Find("strong").First(); strong.Length() > 0 {
		if t := selector.CellText(strong); t != "" {
			return t
		}
	}
	return selector.CellText(cell)
}

// parseHorizontal handles the wikitable shape: a header row naming the
// columns, then one row per episode. The table qualifies only when it
// names an episode-number column plus a title or date column.
func parseHorizontal(table *goquery.Selection) []episodeFields {
	rows := table.Find("tr")
	if rows.Length() == 0 {
		return nil
	}

	idxMap := map[int]string{}
	rows.First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
		if k := headerKey(selector.CellText(cell)); k != "" {
			if _, taken := idxMap[i]; !taken {
				idxMap[i] = k
			}
		}
	})
	has := func(key string) bool {
		for _, v := range idxMap {
			if v == key {
				return true
			}
		}
		return false
	}
	if !has("episode_no") || (!has("title") && !has("broadcast_at")) {
		return nil
	}

	var out []episodeFields
	rows.Slice(1, rows.Length()).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td, th")
		if cells.Length() == 0 {
			return
		}
		var f episodeFields
		cells.Each(func(i int, cell *goquery.Selection) {
			switch idxMap[i] {
			case "episode_no":
				f.episodeNo = normalize.EpisodeNo(selector.CellText(cell))
			case "broadcast_at":
				f.broadcastAt = selector.CellText(cell)
			case "title":
				f.title = cellOrStrong(cell)
			case "description":
				f.description = selector.CellText(cell)
			}
		})
		if f.episodeNo != "" || f.title != "" {
			out = append(out, f)
		}
	})
	return out
}

// parseVertical handles the label-column shape: each row is a th label
// with its value, and one table describes one episode. At least two of
// the known labels must appear.
func parseVertical(table *goquery.Selection) []episodeFields {
	labels := map[string]string{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		th := tr.Find("th").First()
		tds := tr.Find("td")
		if th.Length() == 0 || tds.Length() == 0 {
			return
		}
		key := strings.ReplaceAll(selector.CellText(th), " ", "")
		if key != "" {
			labels[key] = selector.CellText(tds.Last())
		}
	})

	hits := 0
	for k := range labels {
		if strings.Contains(k, "회차") || strings.Contains(k, "방영일") ||
			strings.Contains(k, "제목") || strings.Contains(k, "줄거리") {
			hits++
		}
	}
	if hits < 2 {
		return nil
	}

	f := episodeFields{
		episodeNo:   labels["회차"],
		broadcastAt: labels["방영일"],
		title:       labels["제목"],
		description: labels["줄거리"],
	}
	if f.episodeNo != "" {
		f.episodeNo = normalize.EpisodeNo(f.episodeNo)
	}
	return []episodeFields{f}
}

// parseIndexed is the last-resort shape seen on hand-built episode
// cards: fixed row positions instead of labels. One table yields one
// episode, and the first cell must carry a number.
func parseIndexed(table *goquery.Selection) []episodeFields {
	rows := table.Find("tr")
	if rows.Length() == 0 {
		return nil
	}
	td0 := rows.Eq(0).Find("td").First()
	if td0.Length() == 0 {
		return nil
	}
	epText := cellOrStrong(td0)
	if !strings.ContainsAny(epText, "0123456789") {
		return nil
	}

	cellAt := func(row int, strongOK bool) string {
		if rows.Length() <= row {
			return ""
		}
		tds := rows.Eq(row).Find("td")
		if tds.Length() < 2 {
			return ""
		}
		if strongOK {
			return cellOrStrong(tds.Eq(1))
		}
		return selector.CellText(tds.Eq(1))
	}

	return []episodeFields{{
		episodeNo:   normalize.EpisodeNo(epText),
		broadcastAt: cellAt(2, false),
		title:       cellAt(3, true),
		description: cellAt(4, false),
	}}
}

// parseEpisodeTable tries the three table shapes in order.
func parseEpisodeTable(table *goquery.Selection) []episodeFields {
	if out := parseHorizontal(table); len(out) > 0 {
		return out
	}
	if out := parseVertical(table); len(out) > 0 {
		return out
	}
	return parseIndexed(table)
}

// sectionTables returns the tables of the first episode section found.
// The section spans from its heading to the next heading of the same
// level. Without a matching heading every table in the document is a
// candidate.
func sectionTables(doc *goquery.Document) []*goquery.Selection {
	var heading *goquery.Selection
	for _, level := range []string{"h2", "h3"} {
		doc.Find(level).EachWithBreak(func(_ int, h *goquery.Selection) bool {
			txt := normalize.CleanText(h.Text())
			for _, k := range episodeSections {
				if strings.Contains(txt, k) {
					heading = h
					return false
				}
			}
			return true
		})
		if heading != nil {
			break
		}
	}

	var tables []*goquery.Selection
	if heading == nil {
		doc.Find("table").Each(func(_ int, t *goquery.Selection) {
			tables = append(tables, t)
		})
		return tables
	}

	level := goquery.NodeName(heading)
	for sib := heading.Next(); sib.Length() > 0; sib = sib.Next() {
		name := goquery.NodeName(sib)
		if name == level {
			break
		}
		if name == "table" {
			tables = append(tables, sib)
		} else {
			sib.Find("table").Each(func(_ int, t *goquery.Selection) {
				tables = append(tables, t)
			})
		}
	}
	return tables
}

// episodesFromDoc parses every episode table in the document and sorts
// the result by episode number.
func episodesFromDoc(doc *goquery.Document) []episodeFields {
	var out []episodeFields
	for _, table := range sectionTables(doc) {
		out = append(out, parseEpisodeTable(table)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return normalize.EpisodeNum(out[i].episodeNo) < normalize.EpisodeNum(out[j].episodeNo)
	})
	return out
}

// episodesForTitle runs the per-drama probe: confirm the base document,
// try the dedicated episode subpage, then fall back to the base
// document's own sections.
func (s *Scraper) episodesForTitle(ctx context.Context, title string) ([]episodeFields, error) {
	baseDoc, baseURL, _, err := s.openFirst(ctx, DramaCandidates(title))
	if err != nil {
		return nil, err
	}
	if baseDoc == nil {
		return nil, nil
	}

	subURL := baseURL + "/" + url.PathEscape(episodeSubpage)
	if subDoc, err := s.fetchDoc(ctx, subURL); err == nil {
		if eps := episodesFromDoc(subDoc); len(eps) > 0 {
			return eps, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return episodesFromDoc(baseDoc), nil
}

// ScrapeEpisodes collects episode rows for each input title in order.
func (s *Scraper) ScrapeEpisodes(ctx context.Context, titles []string) ([]types.Episode, error) {
	var rows []types.Episode
	for i, title := range titles {
		eps, err := s.episodesForTitle(ctx, title)
		if err != nil {
			return rows, err
		}
		if len(eps) == 0 {
			s.logger.Debug("no episode list", "title", title)
		}
		for _, ep := range eps {
			rows = append(rows, types.Episode{
				DramaTitle:  title,
				EpisodeNo:   ep.episodeNo,
				Title:       ep.title,
				BroadcastAt: ep.broadcastAt,
				Description: ep.description,
			})
		}
		if (i+1)%25 == 0 {
			s.logger.Info("episode progress", "done", i+1, "total", len(titles))
		}
		if err := fetcher.Sleep(ctx, s.cfg.Delay); err != nil {
			return rows, err
		}
	}
	return MergeEpisodeDuplicates(rows), nil
}

// MergeEpisodeDuplicates collapses rows sharing a drama and episode
// number, preferring the longer value per field.
func MergeEpisodeDuplicates(rows []types.Episode) []types.Episode {
	type key struct{ drama, ep string }
	index := make(map[key]int, len(rows))
	var out []types.Episode
	longer := func(a, b string) string {
		if len([]rune(b)) > len([]rune(a)) {
			return b
		}
		return a
	}
	for _, r := range rows {
		k := key{normalize.Key(r.DramaTitle), r.EpisodeNo}
		if i, ok := index[k]; ok && r.EpisodeNo != "" {
			out[i].Title = longer(out[i].Title, r.Title)
			out[i].BroadcastAt = longer(out[i].BroadcastAt, r.BroadcastAt)
			out[i].RuntimeMin = longer(out[i].RuntimeMin, r.RuntimeMin)
			out[i].Description = longer(out[i].Description, r.Description)
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}
