// Package merge implements the CSV join jobs that stitch the scrape
// outputs together. Joins are left joins on a normalized title/name
// key: rows without a match pass through unchanged.
package merge

import (
	"fmt"

	"github.com/kdramalab/kscrape/internal/csvx"
	"github.com/kdramalab/kscrape/internal/normalize"
	"github.com/kdramalab/kscrape/internal/types"
)

// keyedLookup builds a key→value map from two columns, keeping the
// first value seen per key.
func keyedLookup(t *csvx.Table, keyCol, valCol int) map[string]string {
	m := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		k := normalize.Key(t.Get(row, keyCol))
		if k == "" {
			continue
		}
		if _, ok := m[k]; !ok {
			m[k] = t.Get(row, valCol)
		}
	}
	return m
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

// RuntimeBackfill overwrites the episode table's runtime_min column
// with the per-drama runtime from the weekly schedule, normalized to
// "<N>분". Episodes of dramas missing from the schedule keep their
// value.
func RuntimeBackfill(weekly, episodes *csvx.Table) (*csvx.Table, error) {
	wTitle := weekly.Column("title")
	wRuntime := weekly.Column("runtime")
	if wTitle < 0 || wRuntime < 0 {
		return nil, fmt.Errorf("weekly csv needs title and runtime columns, have %v", weekly.Headers)
	}
	eTitle := episodes.Column("drama_title")
	eRuntime := episodes.Column("runtime_min")
	if eTitle < 0 || eRuntime < 0 {
		return nil, fmt.Errorf("episode csv needs drama_title and runtime_min columns, have %v", episodes.Headers)
	}

	runtimes := keyedLookup(weekly, wTitle, wRuntime)

	out := &csvx.Table{
		Headers: append([]string(nil), episodes.Headers...),
		Rows:    cloneRows(episodes.Rows),
	}
	for _, row := range out.Rows {
		rt, ok := runtimes[normalize.Key(out.Get(row, eTitle))]
		if !ok {
			continue
		}
		if label := normalize.RuntimeLabel(rt); label != "" && eRuntime < len(row) {
			row[eRuntime] = label
		}
	}
	return out, nil
}

// DescriptionJoin left-joins the description table onto the drama
// table by title, appending description as the last column.
func DescriptionJoin(base, desc *csvx.Table) (*csvx.Table, error) {
	bTitle, err := base.TitleColumn()
	if err != nil {
		return nil, err
	}
	dTitle := desc.Column("title")
	dDesc := desc.Column("description")
	if dTitle < 0 || dDesc < 0 {
		return nil, fmt.Errorf("description csv needs title and description columns, have %v", desc.Headers)
	}

	lookup := keyedLookup(desc, dTitle, dDesc)

	// drop a pre-existing description column so the joined one is
	// authoritative and always last
	keep := make([]int, 0, len(base.Headers))
	for i, h := range base.Headers {
		if h != "description" {
			keep = append(keep, i)
		}
	}

	out := &csvx.Table{}
	for _, i := range keep {
		out.Headers = append(out.Headers, base.Headers[i])
	}
	out.Headers = append(out.Headers, "description")

	for _, row := range base.Rows {
		newRow := make([]string, 0, len(keep)+1)
		for _, i := range keep {
			newRow = append(newRow, base.Get(row, i))
		}
		newRow = append(newRow, lookup[normalize.Key(base.Get(row, bTitle))])
		out.Rows = append(out.Rows, newRow)
	}
	return out, nil
}

// PersonURLMerge left-joins TMDB profile URLs onto a person table by
// name. A non-empty TMDB URL overrides an existing url cell; without a
// url column one is appended.
func PersonURLMerge(base, tmdb *csvx.Table) (*csvx.Table, error) {
	bName, err := base.NameColumn()
	if err != nil {
		return nil, err
	}
	tName := tmdb.Column("name")
	tURL := tmdb.ColumnAny("profile_url", "url")
	if tName < 0 || tURL < 0 {
		return nil, fmt.Errorf("tmdb csv needs name and profile_url columns, have %v", tmdb.Headers)
	}

	urls := keyedLookup(tmdb, tName, tURL)

	out := &csvx.Table{
		Headers: append([]string(nil), base.Headers...),
		Rows:    cloneRows(base.Rows),
	}
	urlCol := out.Column("url")
	if urlCol < 0 {
		out.Headers = append(out.Headers, "url")
		urlCol = len(out.Headers) - 1
	}

	for i, row := range out.Rows {
		for len(row) < len(out.Headers) {
			row = append(row, "")
		}
		if u := urls[normalize.Key(out.Get(row, bName))]; u != "" {
			row[urlCol] = u
		}
		out.Rows[i] = row
	}
	return out, nil
}

// ImageExport reshapes the TMDB drama-image table into the project's
// image-reference schema: title, constant type, poster URL, constant
// sort order.
func ImageExport(src *csvx.Table) (*csvx.Table, error) {
	title := src.ColumnAny("drama_title", "title")
	poster := src.ColumnAny("poster_url", "url")
	if title < 0 || poster < 0 {
		return nil, fmt.Errorf("image csv needs drama_title and poster_url columns, have %v", src.Headers)
	}

	out := &csvx.Table{Headers: append([]string(nil), types.ImageRefHeaders...)}
	for _, row := range src.Rows {
		ref := types.ImageRef{
			Title:  src.Get(row, title),
			Type:   "drama_image",
			URL:    src.Get(row, poster),
			SortNo: 1,
		}
		out.Rows = append(out.Rows, ref.Record())
	}
	return out, nil
}
