package wiki

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/kdramalab/kscrape/internal/normalize"
)

// Cast and character listings live under a handful of section names.
// Everything else (production credits, OST, ratings, plot) produces
// false positives and is blocked outright.
var allowSections = []string{
	"출연", "출연진", "출연자",
	"등장인물", "인물", "배역", "캐스팅",
	"주요 인물", "조연", "특별 출연", "카메오",
}

var blockSections = []string{
	"외부 링크", "같이 보기", "각주", "주석", "참고", "참조",
	"제작", "제작진", "기획", "방송", "방영", "편성",
	"시청률", "에피소드", "회차", "OST", "음악",
	"수상", "평가", "연표", "관련", "기타", "비고", "목차",
	"개요", "줄거리", "작품 소개", "기획 의도", "시놉시스", "방송 시간",
}

var skipClasses = []string{"navbox", "vertical-navbox", "sidebar", "sistersitebox", "metadata"}

func nodeClass(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return a.Val
		}
	}
	return ""
}

func nodeID(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "id" {
			return a.Val
		}
	}
	return ""
}

// skipNode reports whether n is a navigation box, infobox, reference
// list, or similar block whose contents must not be scanned.
func skipNode(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	cls := nodeClass(n)
	for _, x := range skipClasses {
		if strings.Contains(cls, x) {
			return true
		}
	}
	if n.Data == "table" && strings.Contains(cls, "infobox") {
		return true
	}
	if id := nodeID(n); id == "references" || id == "toc" {
		return true
	}
	return false
}

// underSkippedBlock walks ancestors of n up to root looking for a
// skipped block.
func underSkippedBlock(root, n *html.Node) bool {
	for cur := n.Parent; cur != nil && cur != root; cur = cur.Parent {
		if skipNode(cur) {
			return true
		}
	}
	return false
}

func isHeading(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "h2", "h3", "h4":
		return true
	}
	return false
}

// headingIn matches bare h2-h4 elements and the div.mw-heading wrapper
// newer MediaWiki skins emit around them.
func headingIn(n *html.Node) *html.Node {
	if isHeading(n) {
		return n
	}
	if n.Type == html.ElementNode && n.Data == "div" && strings.Contains(nodeClass(n), "mw-heading") {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if isHeading(c) {
				return c
			}
		}
	}
	return nil
}

// nearestPrevHeading returns the text of the closest heading before n,
// searching previous siblings and then climbing toward root.
func nearestPrevHeading(root, n *html.Node) string {
	for cur := n; cur != nil && cur != root; cur = cur.Parent {
		for prev := cur.PrevSibling; prev != nil; prev = prev.PrevSibling {
			if h := headingIn(prev); h != nil {
				return normalize.CleanText(nodeText(h))
			}
		}
	}
	return ""
}

// inAllowedSection reports whether n sits under one of the cast
// section headings and not under a blocked one.
func inAllowedSection(root, n *html.Node) bool {
	sec := nearestPrevHeading(root, n)
	if sec == "" {
		return false
	}
	if i := strings.IndexAny(sec, "[:"); i >= 0 {
		sec = sec[:i]
	}
	for _, b := range blockSections {
		if strings.Contains(sec, b) {
			return false
		}
	}
	for _, a := range allowSections {
		if strings.Contains(sec, a) {
			return true
		}
	}
	return false
}

// scanBlocks collects elements of the given tag names under root,
// excluding anything inside skipped blocks and, when scopedOnly is
// set, anything outside an allowed cast section.
func scanBlocks(root *goquery.Selection, scopedOnly bool, tags ...string) []*goquery.Selection {
	if len(root.Nodes) == 0 {
		return nil
	}
	rootNode := root.Nodes[0]
	var out []*goquery.Selection
	root.Find(strings.Join(tags, ", ")).Each(func(_ int, sel *goquery.Selection) {
		n := sel.Nodes[0]
		if underSkippedBlock(rootNode, n) {
			return
		}
		if scopedOnly && !inAllowedSection(rootNode, n) {
			return
		}
		out = append(out, sel)
	})
	return out
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(nd *html.Node) {
		if nd.Type == html.TextNode {
			b.WriteString(nd.Data)
		}
		for c := nd.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
