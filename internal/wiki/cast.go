package wiki

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/kdramalab/kscrape/internal/fetcher"
	"github.com/kdramalab/kscrape/internal/normalize"
	"github.com/kdramalab/kscrape/internal/types"
)

var (
	parensRe    = regexp.MustCompile(`\([^)]*\)`)
	colonSplit  = regexp.MustCompile(`\s*[:：]\s*`)
	dashSplit   = regexp.MustCompile(`\s*[–—-]\s*`)
	anglePairRe = regexp.MustCompile(`《.*》`)
)

var crewWords = []string{
	"연출", "감독", "각본", "극본", "프로듀서", "제작", "기획",
	"촬영", "음악", "편성", "방송", "재방송", "예고",
}

var channelWords = []string{
	"KBS", "MBC", "SBS", "EBS", "JTBC", "TV조선", "채널A", "MBN", "ENA", "OCN", "Mnet", "tvN",
	"KBS1", "KBS2", "SBS플러스", "JTBC4", "SBS FiL", "E Channel",
	"넷플릭스", "Netflix", "티빙", "Tving", "웨이브", "Wavve",
	"디즈니", "Disney+", "쿠팡플레이", "Coupang Play", "U+모바일tv", "왓챠", "Watcha", "Prime Video",
}

var ostWords = []string{"OST", "Special Track", "스페셜", "드라마 스페셜"}

func containsAny(t string, words []string) bool {
	for _, w := range words {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}

// isNoiseLine filters crew credits, OST tracks, and filmography lines
// that share the colon-dash shape of a role line.
func isNoiseLine(t string) bool {
	hasAngle := anglePairRe.MatchString(t)
	if containsAny(t, ostWords) {
		return true
	}
	if containsAny(t, crewWords) && hasAngle {
		return true
	}
	if hasAngle && containsAny(t, channelWords) {
		return true
	}
	if containsAny(t, channelWords) && containsAny(t, crewWords) {
		return true
	}
	return false
}

// RoleLine is one parsed cast entry.
type RoleLine struct {
	PersonName    string
	CharacterName string
	RoleType      string
}

// ParseRoleLine accepts only the strict "actor : character 역 - description"
// grammar: colon, then dash, with 역 on the dash's left side. Parenthetical
// qualifiers (child actors etc.) are dropped from the character name.
func ParseRoleLine(text string) (RoleLine, bool) {
	t := normalize.CleanText(text)
	if t == "" || isNoiseLine(t) {
		return RoleLine{}, false
	}

	parts := colonSplit.Split(t, 2)
	if len(parts) != 2 {
		return RoleLine{}, false
	}
	actor, tail := strings.TrimSpace(parts[0]), parts[1]

	parts2 := dashSplit.Split(tail, 2)
	if len(parts2) != 2 {
		return RoleLine{}, false
	}
	left, right := parts2[0], parts2[1]

	if !strings.Contains(left, "역") {
		return RoleLine{}, false
	}

	character := strings.TrimSpace(parensRe.ReplaceAllString(left, ""))
	roleType := strings.TrimSpace(right)
	if actor == "" || character == "" || roleType == "" {
		return RoleLine{}, false
	}
	return RoleLine{PersonName: actor, CharacterName: character, RoleType: roleType}, true
}

// castRolesFromDoc scans list items, definition lists, and table cells,
// first inside allowed cast sections, then unscoped as a fallback.
func castRolesFromDoc(doc *goquery.Document, title string) []types.CastRole {
	root := doc.Find("#mw-content-text div.mw-parser-output").First()
	if root.Length() == 0 {
		return nil
	}

	collect := func(scoped bool) []types.CastRole {
		var rows []types.CastRole
		add := func(text string) {
			if r, ok := ParseRoleLine(text); ok {
				rows = append(rows, types.CastRole{
					DramaTitle:    title,
					PersonName:    r.PersonName,
					RoleType:      r.RoleType,
					CharacterName: r.CharacterName,
					OrderNo:       1,
				})
			}
		}

		for _, ul := range scanBlocks(root, scoped, "ul") {
			ul.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				add(li.Text())
			})
		}
		if len(rows) > 0 {
			return rows
		}
		for _, dl := range scanBlocks(root, scoped, "dl") {
			dl.ChildrenFiltered("dt, dd").Each(func(_ int, node *goquery.Selection) {
				add(node.Text())
			})
		}
		if len(rows) > 0 {
			return rows
		}
		for _, tb := range scanBlocks(root, scoped, "table") {
			tb.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				add(cell.Text())
			})
		}
		return rows
	}

	if rows := collect(true); len(rows) > 0 {
		return rows
	}
	return collect(false)
}

// ScrapeCast walks every drama's detail page in parallel and extracts
// its character lines.
func (s *Scraper) ScrapeCast(ctx context.Context) ([]types.CastRole, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return s.castFromItems(ctx, items)
}

// ScrapeCastPage extracts cast roles from a single article URL.
func (s *Scraper) ScrapeCastPage(ctx context.Context, pageURL string) ([]types.CastRole, error) {
	doc, err := s.fetchDoc(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	title := ArticleTitle(doc)
	return castRolesFromDoc(doc, title), nil
}

func (s *Scraper) castFromItems(ctx context.Context, items []ListItem) ([]types.CastRole, error) {
	var (
		mu   sync.Mutex
		rows []types.CastRole
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
				s.logger.Warn("cast page fetch failed", "title", it.Title, "error", err)
				return
			}
			title := ArticleTitle(doc)
			if title == "" {
				title = it.Title
			}
			got := castRolesFromDoc(doc, title)
			s.logger.Debug("cast page parsed", "title", title, "roles", len(got))

			mu.Lock()
			rows = append(rows, got...)
			mu.Unlock()
			_ = fetcher.Sleep(ctx, s.cfg.Delay)
		}(it)
	}
	wg.Wait()

	rows = dedupeCast(rows)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].DramaTitle != rows[j].DramaTitle {
			return rows[i].DramaTitle < rows[j].DramaTitle
		}
		return rows[i].CharacterName < rows[j].CharacterName
	})
	return rows, ctx.Err()
}

func dedupeCast(rows []types.CastRole) []types.CastRole {
	seen := make(map[types.CastRole]bool, len(rows))
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
