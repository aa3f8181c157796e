package wiki

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/kdramalab/kscrape/internal/fetcher"
	"github.com/kdramalab/kscrape/internal/normalize"
	"github.com/kdramalab/kscrape/internal/types"
)

var (
	koreanNameRe  = regexp.MustCompile(`^[가-힣]{2,4}(?:\s[가-힣]{2,4})?$`)
	hangulDotRe   = regexp.MustCompile(`^[가-힣·]+$`)
	koreanDateRe  = regexp.MustCompile(`\d{4}년\s*\d{1,2}월\s*\d{1,2}일`)
	nonPersonHint = []string{"연출", "각본", "작가", "감독", "제작", "기획", "촬영", "음악", "회사", "방송", "채널"}
)

// Articles about broadcasters, platforms, and production companies get
// linked from cast sections just like actors do. Anything matching
// these brands is rejected before following the link.
var nonPersonBrands = []string{
	"KBS", "MBC", "SBS", "EBS", "JTBC", "TV조선", "채널A", "MBN", "ENA", "OCN", "Mnet", "tvN",
	"KBS1", "KBS2", "SBS플러스", "JTBC4", "SBS FiL", "E Channel",
	"넷플릭스", "Netflix", "티빙", "Tving", "웨이브", "Wavve",
	"디즈니", "Disney+", "쿠팡플레이", "Coupang Play",
	"U+모바일tv", "왓챠", "Watcha", "Prime Video", "아마존 프라임",
	"예고", "재방송", "편성표", "프로그램", "시리즈",
	"스튜디오 드래곤", "박스미디어", "아센디오", "키이스트", "덱스터 스튜디오",
}

func looksLikePersonName(txt string) bool {
	if koreanNameRe.MatchString(txt) {
		return true
	}
	n := len([]rune(txt))
	return n >= 2 && n <= 5 && hangulDotRe.MatchString(txt)
}

// isActorLink applies the name-shape and deny-list heuristics to a
// single anchor.
func isActorLink(a *goquery.Selection) bool {
	href, ok := a.Attr("href")
	if !ok || !strings.HasPrefix(href, "/wiki/") {
		return false
	}
	tail := href[len("/wiki/"):]
	if strings.Contains(tail, ":") {
		return false
	}
	txt := normalize.CleanText(a.Text())
	if txt == "" {
		return false
	}
	if containsAny(txt, nonPersonBrands) || containsAny(tail, nonPersonBrands) {
		return false
	}
	if containsAny(txt, nonPersonHint) {
		return false
	}
	base := strings.TrimSpace(strings.SplitN(txt, "(", 2)[0])
	return looksLikePersonName(base)
}

// pickActorAnchor accepts a container only when its very first content
// is an anchor that looks like an actor, and the container holds
// exactly one such anchor. Lines naming several people or starting
// with prose are ambiguous and skipped.
func pickActorAnchor(container *goquery.Selection) *goquery.Selection {
	if container.Length() == 0 {
		return nil
	}
	var first *goquery.Selection
	for n := container.Nodes[0].FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.TextNode {
			if strings.TrimSpace(n.Data) != "" {
				return nil
			}
			continue
		}
		if n.Type == html.ElementNode {
			if n.Data != "a" {
				return nil
			}
			first = container.FindNodes(n)
			break
		}
	}
	if first == nil || !isActorLink(first) {
		return nil
	}

	count := 0
	container.ChildrenFiltered("a").Each(func(_ int, a *goquery.Selection) {
		if isActorLink(a) {
			count++
		}
	})
	if count != 1 {
		return nil
	}
	return first
}

// ActorLink is an actor name with their article URL.
type ActorLink struct {
	Name string
	URL  string
}

// ExtractActorLinks gathers actor links from the cast sections of a
// drama article: list items, table cells, and definition lists, with a
// lead-section fallback when scoping finds nothing.
func ExtractActorLinks(doc *goquery.Document, baseURL string) []ActorLink {
	pageTitle := normalize.CleanText(doc.Find("#firstHeading").First().Text())
	root := doc.Find("#mw-content-text div.mw-parser-output").First()
	if root.Length() == 0 {
		return nil
	}

	var pairs []ActorLink
	appendAnchor := func(container *goquery.Selection) {
		a := pickActorAnchor(container)
		if a == nil {
			return
		}
		name := strings.TrimSpace(strings.SplitN(normalize.CleanText(a.Text()), "(", 2)[0])
		if name == "" || name == pageTitle {
			return
		}
		href, _ := a.Attr("href")
		pairs = append(pairs, ActorLink{Name: name, URL: resolveURL(baseURL, href)})
	}

	for _, ul := range scanBlocks(root, true, "ul") {
		ul.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) { appendAnchor(li) })
	}
	for _, tb := range scanBlocks(root, true, "table") {
		tb.Find("td, th").Each(func(_ int, cell *goquery.Selection) { appendAnchor(cell) })
	}
	for _, dl := range scanBlocks(root, true, "dl") {
		dl.ChildrenFiltered("dt, dd").Each(func(_ int, node *goquery.Selection) { appendAnchor(node) })
	}

	if uniq := dedupeLinks(pairs); len(uniq) > 0 {
		return uniq
	}

	// Lead fallback: scan top-of-article lists until the first blocked
	// heading, capped to keep misfires small.
	pairs = pairs[:0]
	rootNode := root.Nodes[0]
	for n := rootNode.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		if h := headingIn(n); h != nil {
			title := normalize.CleanText(nodeText(h))
			if containsAny(title, blockSections) {
				break
			}
		}
		if n.Data == "ul" {
			root.FindNodes(n).ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				appendAnchor(li)
			})
		}
		if len(pairs) >= 30 {
			break
		}
	}
	return dedupeLinks(pairs)
}

func dedupeLinks(pairs []ActorLink) []ActorLink {
	seen := make(map[ActorLink]bool, len(pairs))
	var out []ActorLink
	for _, p := range pairs {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// PersonDetails reads birth date and gender from an actor's article.
// Gender prefers the infobox row and falls back to the category links
// (남자/여자 배우 categories).
func PersonDetails(doc *goquery.Document) (birthDate, gender string) {
	box := FindInfobox(doc)
	if box != nil {
		if raw := box.Value("출생", "생년월일"); raw != "" {
			birthDate = koreanDateRe.FindString(raw)
		}
		gender = box.Value("성별")
	}
	if gender == "" {
		doc.Find("#catlinks a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			c := normalize.CleanText(a.Text())
			if strings.Contains(c, "배우") {
				if strings.Contains(c, "남자") {
					gender = "남성"
					return false
				}
				if strings.Contains(c, "여자") {
					gender = "여성"
					return false
				}
			}
			return true
		})
	}
	return birthDate, gender
}

// ScrapePeople visits every drama detail page, follows each actor link
// found in the cast sections, and returns one row per unique person.
func (s *Scraper) ScrapePeople(ctx context.Context) ([]types.Person, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu   sync.Mutex
		rows []types.Person
		wg   sync.WaitGroup
	)
	sem := make(chan struct{}, s.http.Workers)

	for _, it := range items {
		if it.DetailURL == "" {
			continue
		}
		wg.Add(1)
		go func(it ListItem) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			doc, err := s.fetchDoc(ctx, it.DetailURL)
			if err != nil {
				s.logger.Warn("detail fetch failed", "title", it.Title, "error", err)
				return
			}
			links := ExtractActorLinks(doc, s.cfg.BaseURL)
			s.logger.Debug("actor links found", "title", it.Title, "links", len(links))

			for _, link := range links {
				p := types.Person{Name: link.Name}
				if personDoc, err := s.fetchDoc(ctx, link.URL); err == nil {
					p.BirthDate, p.Gender = PersonDetails(personDoc)
				}
				mu.Lock()
				rows = append(rows, p)
				mu.Unlock()
				if fetcher.Sleep(ctx, s.cfg.Delay) != nil {
					return
				}
			}
		}(it)
	}
	wg.Wait()

	return dedupePeople(rows), ctx.Err()
}

func dedupePeople(rows []types.Person) []types.Person {
	seen := make(map[types.Person]bool, len(rows))
	out := rows[:0]
	for _, r := range rows {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
