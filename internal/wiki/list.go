package wiki

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kdramalab/kscrape/internal/normalize"
)

// ListItem is one row of the yearly drama list page.
type ListItem struct {
	Title     string
	DetailURL string
	PeriodRaw string // broadcast-period cell, line breaks preserved
}

var titleHeaderKeys = []string{"제목", "작품명", "프로그램명"}

func normLabel(s string) string {
	return strings.ReplaceAll(normalize.CleanText(s), " ", "")
}

// ParseListItems walks every wikitable on the list page and extracts
// one item per data row. Legend tables (caption containing 범례 or
// 설명) are skipped, and red links do not yield a detail URL.
func ParseListItems(doc *goquery.Document, baseURL string) []ListItem {
	var items []ListItem

	doc.Find("#mw-content-text table.wikitable, #content table.wikitable").Each(func(_ int, table *goquery.Selection) {
		cap := normLabel(table.Find("caption").First().Text())
		if strings.Contains(cap, "범례") || strings.Contains(cap, "설명") {
			return
		}

		header := headerRow(table)
		if header == nil {
			return
		}
		titleIdx, periodIdx := -1, -1
		header.Find("th").Each(func(i int, th *goquery.Selection) {
			t := normLabel(th.Text())
			for _, k := range titleHeaderKeys {
				if strings.Contains(t, k) && titleIdx < 0 {
					titleIdx = i
				}
			}
			if strings.Contains(t, "방송기간") && periodIdx < 0 {
				periodIdx = i
			}
		})
		if titleIdx < 0 {
			return
		}
		if periodIdx < 0 {
			periodIdx = 3 // period is conventionally the fourth column
		}

		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			if tr.Find("th").Length() > 0 && tr.Find("td").Length() == 0 {
				return
			}
			tds := tr.Find("td")
			if tds.Length() <= titleIdx {
				return
			}
			tdTitle := tds.Eq(titleIdx)
			title := normalize.StripBrackets(tdTitle.Text())
			if title == "" {
				return
			}

			item := ListItem{
				Title:     title,
				DetailURL: detailLink(tdTitle, baseURL),
			}
			if tds.Length() > periodIdx {
				item.PeriodRaw = cellTextLines(tds.Eq(periodIdx))
			}
			items = append(items, item)
		})
	})

	return dedupeItems(items)
}

func headerRow(table *goquery.Selection) *goquery.Selection {
	if row := table.Find("thead tr").First(); row.Length() > 0 {
		return row
	}
	first := table.Find("tr").First()
	if first.Length() > 0 && first.Find("th").Length() > 0 {
		return first
	}
	return nil
}

// detailLink resolves the first article link in a title cell. Links to
// non-article namespaces and red links (missing pages) are rejected.
func detailLink(td *goquery.Selection, baseURL string) string {
	a := td.Find("a[href]").First()
	if a.Length() == 0 {
		return ""
	}
	href, _ := a.Attr("href")
	cls, _ := a.Attr("class")
	if strings.Contains(cls, "new") || strings.Contains(href, "redlink=1") {
		return ""
	}
	if !strings.HasPrefix(href, "/wiki/") || strings.Contains(href, ":") {
		return ""
	}
	return resolveURL(baseURL, href)
}

func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	h, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(h).String()
}

// cellTextLines renders a cell's text with <br> turned into newlines
// so period ranges spread over two lines survive extraction.
func cellTextLines(sel *goquery.Selection) string {
	htmlStr, err := sel.Html()
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	htmlStr = strings.ReplaceAll(htmlStr, "<br>", "\n")
	htmlStr = strings.ReplaceAll(htmlStr, "<br/>", "\n")
	htmlStr = strings.ReplaceAll(htmlStr, "<br />", "\n")
	frag, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	return strings.TrimSpace(frag.Text())
}

func dedupeItems(items []ListItem) []ListItem {
	seen := make(map[ListItem]bool, len(items))
	out := items[:0]
	for _, it := range items {
		if seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}
