// Package selector provides small extraction helpers layered over
// goquery and XPath. Scrapers describe a page as an ordered cascade of
// candidate selectors; the first one that yields a value wins, so a
// single job can survive several page layouts.
package selector

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Extractor pulls a single string value out of a document. An empty
// return means the extractor did not match.
type Extractor func(doc *goquery.Document) string

// First runs extractors in order and returns the first non-empty value.
func First(doc *goquery.Document, extractors ...Extractor) string {
	for _, ex := range extractors {
		if v := strings.TrimSpace(ex(doc)); v != "" {
			return v
		}
	}
	return ""
}

// Text returns an Extractor reading the text of the first match.
func Text(sel string) Extractor {
	return func(doc *goquery.Document) string {
		return strings.TrimSpace(doc.Find(sel).First().Text())
	}
}

// Attr returns an Extractor reading an attribute of the first match.
func Attr(sel, attr string) Extractor {
	return func(doc *goquery.Document) string {
		v, _ := doc.Find(sel).First().Attr(attr)
		return strings.TrimSpace(v)
	}
}

// XPathAttr returns an Extractor evaluating an XPath expression and
// reading attr from the first matched node. Meta tags hide from CSS
// attribute selectors when the page swaps property/name, so og:image
// style lookups go through XPath.
func XPathAttr(expr, attr string) Extractor {
	return func(doc *goquery.Document) string {
		root := rootNode(doc)
		if root == nil {
			return ""
		}
		node, err := htmlquery.Query(root, expr)
		if err != nil || node == nil {
			return ""
		}
		return strings.TrimSpace(htmlquery.SelectAttr(node, attr))
	}
}

func rootNode(doc *goquery.Document) *html.Node {
	if len(doc.Nodes) == 0 {
		return nil
	}
	return doc.Nodes[0]
}

// BestTable returns the table in sel with the most cells, or nil when
// no table exists. Article pages often carry several decorative tables
// next to the one that holds the data.
func BestTable(sel *goquery.Selection) *goquery.Selection {
	var best *goquery.Selection
	bestCells := 0
	consider := func(_ int, tbl *goquery.Selection) {
		cells := tbl.Find("th, td").Length()
		if cells > bestCells {
			best = tbl
			bestCells = cells
		}
	}
	// sel may be the tables themselves or an ancestor of them.
	sel.Filter("table").Each(consider)
	sel.Find("table").Each(consider)
	return best
}

// CellText flattens a table cell to single-line text. <br> separated
// content keeps a space between the fragments.
func CellText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
