package wiki

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kdramalab/kscrape/internal/normalize"
)

var (
	channelLabelRe = regexp.MustCompile(`방송채널|방송사|채널|방송국`)
	directorRe     = regexp.MustCompile(`연출|감독`)
	writerRe       = regexp.MustCompile(`극본|각본`)
	percentRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
)

// Infobox wraps the key-value summary table of an article.
type Infobox struct {
	sel *goquery.Selection
}

// FindInfobox locates the article infobox, or returns nil.
func FindInfobox(doc *goquery.Document) *Infobox {
	sel := doc.Find("#mw-content-text table.infobox").First()
	if sel.Length() == 0 {
		return nil
	}
	return &Infobox{sel: sel}
}

// Row visits each label/value row of the infobox. The label has
// whitespace removed so keyword matching is spelling-tolerant.
func (b *Infobox) Row(fn func(label string, td *goquery.Selection)) {
	b.sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		td := tr.Find("td").First()
		if td.Length() == 0 {
			return
		}
		label := normLabel(tr.Find("th").First().Text())
		fn(label, td)
	})
}

// Value returns the first value cell whose label contains any keyword.
func (b *Infobox) Value(keywords ...string) string {
	var out string
	b.Row(func(label string, td *goquery.Selection) {
		if out != "" || label == "" {
			return
		}
		for _, k := range keywords {
			if strings.Contains(label, strings.ReplaceAll(k, " ", "")) {
				out = normalize.CleanText(joinedCellText(td))
				return
			}
		}
	})
	return out
}

// LinkedValue prefers the anchor texts of a value cell, joined with
// ", ". Channels and credits keep their markup as links; "; " joined
// plain text is the fallback.
func (b *Infobox) LinkedValue(labelRe *regexp.Regexp) string {
	var out string
	b.Row(func(label string, td *goquery.Selection) {
		if out != "" || label == "" || !labelRe.MatchString(label) {
			return
		}
		var names []string
		td.Find("a").Each(func(_ int, a *goquery.Selection) {
			if t := normalize.CleanText(a.Text()); t != "" {
				names = append(names, t)
			}
		})
		if len(names) > 0 {
			out = strings.Join(names, ", ")
			return
		}
		out = normalize.CleanText(joinedCellText(td))
	})
	return out
}

func joinedCellText(td *goquery.Selection) string {
	var parts []string
	td.Contents().Each(func(_ int, c *goquery.Selection) {
		if t := strings.TrimSpace(c.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

// ArticleTitle extracts the display title: the bold name inside the
// infobox when present, the page heading otherwise.
func ArticleTitle(doc *goquery.Document) string {
	if el := doc.Find("#mw-content-text table.infobox tr:first-child b, #mw-content-text table.infobox tr:first-child strong").First(); el.Length() > 0 {
		if t := normalize.CleanText(el.Text()); t != "" {
			return t
		}
	}
	return normalize.CleanText(doc.Find("#firstHeading").First().Text())
}

// EpisodeCountValue reads the episode-count infobox row.
func EpisodeCountValue(box *Infobox) string {
	if box == nil {
		return ""
	}
	return box.Value("방송횟수", "에피소드", "편수", "부작", "회수")
}

// RatingsAvg averages every percentage found in ratings tables of the
// article body, to one decimal place. Empty when no table matches.
func RatingsAvg(doc *goquery.Document) string {
	var vals []float64
	doc.Find("#mw-content-text .mw-parser-output table").Each(func(_ int, table *goquery.Selection) {
		capTxt := normalize.CleanText(table.Find("caption").First().Text())
		if !strings.Contains(capTxt, "시청률") && !strings.Contains(normalize.CleanText(table.Text()), "시청률") {
			return
		}
		table.Find("td").Each(func(_ int, td *goquery.Selection) {
			for _, m := range percentRe.FindAllStringSubmatch(normalize.CleanText(td.Text()), -1) {
				if v, err := strconv.ParseFloat(m[1], 64); err == nil {
					vals = append(vals, v)
				}
			}
		})
	})
	if len(vals) == 0 {
		return ""
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f%%", sum/float64(len(vals)))
}
