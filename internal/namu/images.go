package namu

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kdramalab/kscrape/internal/fetcher"
	"github.com/kdramalab/kscrape/internal/media"
	"github.com/kdramalab/kscrape/internal/normalize"
	"github.com/kdramalab/kscrape/internal/selector"
	"github.com/kdramalab/kscrape/internal/types"
)

var (
	nonPhotoExtRe  = regexp.MustCompile(`(?i)\.(svg|ico)($|\?)`)
	decorationRe   = regexp.MustCompile(`(?i)logo|favicon|sprite|icon`)
	ogImageExtract = selector.XPathAttr(`//meta[@property="og:image"]`, "content")
)

// Drama documents announce themselves with one of these labels in the
// infobox near the top. A base-title page without a cue is some other
// topic sharing the drama's name.
var cueKeywords = []string{"방송시간", "방송 시간", "방송기간", "방송 기간", "제작사"}

// Search result pages put the first hit's link in a fixed spot.
const searchFirstHit = "article table tbody tr:nth-of-type(1) td strong a:nth-of-type(2)"

const searchCandidateLimit = 36

// nsBlock filters non-article namespaces out of search results.
var nsBlock = []string{"틀:", "분류:", "파일:", "나무뉴스:", "포털:", "나무위키:"}

// OGImage extracts the document's og:image URL, rejecting placeholders
// (data URIs, vector assets, site decoration).
func (s *Scraper) OGImage(doc *goquery.Document) string {
	val := strings.TrimSpace(ogImageExtract(doc))
	if val == "" || strings.HasPrefix(val, "data:") {
		return ""
	}
	if nonPhotoExtRe.MatchString(val) || decorationRe.MatchString(val) {
		return ""
	}
	return s.resolveImageURL(val)
}

// hasDramaCue checks the first content tables for a broadcast-schedule
// label.
func hasDramaCue(doc *goquery.Document) bool {
	found := false
	doc.Find("article table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		if i >= 6 {
			return false
		}
		table.Find("strong, th, td, b, span").EachWithBreak(func(_ int, el *goquery.Selection) bool {
			t := strings.Trim(normalize.CleanText(el.Text()), " :\t\r\n")
			for _, k := range cueKeywords {
				if t == k {
					found = true
					return false
				}
			}
			return true
		})
		return !found
	})
	return found
}

// docTitleFromHref recovers the document title from a /w/ link.
func docTitleFromHref(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	_, after, ok := strings.Cut(u.Path, "/w/")
	if !ok {
		return ""
	}
	title, err := url.PathUnescape(after)
	if err != nil {
		return after
	}
	return title
}

// searchFirst runs a site search and opens the best hit: the fixed
// first-result cell when it matches, otherwise the first article link,
// preferring an exact document-title match.
func (s *Scraper) searchFirst(ctx context.Context, query, preferExact string) (*goquery.Document, string, error) {
	searchDoc, err := s.fetchDoc(ctx, s.SearchURL(query))
	if err != nil {
		return nil, "", err
	}

	var hit string
	if a := searchDoc.Find(searchFirstHit).First(); a.Length() > 0 {
		if href, ok := a.Attr("href"); ok {
			full := s.resolveDocURL(href)
			if Allowed(full) && (preferExact == "" || docTitleFromHref(href) == preferExact) {
				hit = full
			}
		}
	}

	if hit == "" {
		type cand struct{ full, title string }
		var cands []cand
		searchDoc.Find(`article a[href^="/w/"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			full := s.resolveDocURL(href)
			if !Allowed(full) {
				return true
			}
			title := docTitleFromHref(href)
			for _, ns := range nsBlock {
				if strings.HasPrefix(title, ns) {
					return true
				}
			}
			cands = append(cands, cand{full, title})
			return len(cands) < searchCandidateLimit
		})
		if len(cands) == 0 {
			return nil, "", fmt.Errorf("no search result for %q", query)
		}
		hit = cands[0].full
		if preferExact != "" {
			for _, c := range cands {
				if c.title == preferExact {
					hit = c.full
					break
				}
			}
		}
	}

	doc, err := s.fetchDoc(ctx, hit)
	if err != nil {
		return nil, hit, err
	}
	return doc, hit, nil
}

func (s *Scraper) resolveDocURL(href string) string {
	t := strings.TrimSpace(href)
	if strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://") {
		return t
	}
	if strings.HasPrefix(t, "/") {
		return s.cfg.BaseURL + t
	}
	return s.cfg.BaseURL + "/" + t
}

// saveOG downloads the document's og:image and records the attempt.
func (s *Scraper) saveOG(ctx context.Context, dl *media.Downloader, title, pageURL string, doc *goquery.Document, note string) types.ImageResult {
	res := types.ImageResult{Title: title, PageURL: pageURL, Note: note, Status: "FAIL"}
	img := s.OGImage(doc)
	if img == "" {
		res.Note = note + ":no_og_image"
		return res
	}
	res.ImageURL = img
	path, err := dl.Save(ctx, img, pageURL, title)
	if err != nil {
		s.logger.Warn("image download failed", "title", title, "url", img, "error", err)
		res.Note = note + ":download_failed"
		return res
	}
	res.SavedPath = path
	res.Status = "OK"
	return res
}

// DramaImage resolves one drama's poster through the document cascade:
// cue-confirmed base page, (드라마) variants, search, and finally the
// base page's og:image as-is.
func (s *Scraper) DramaImage(ctx context.Context, dl *media.Downloader, title string) types.ImageResult {
	cands := DramaCandidates(title)
	base, variantSpace, variantTight := cands[2], cands[0], cands[1]

	baseDoc, baseErr := s.fetchDoc(ctx, s.DocURL(base))
	if baseErr == nil && hasDramaCue(baseDoc) {
		return s.saveOG(ctx, dl, title, s.DocURL(base), baseDoc, "exact_base")
	}

	for _, dv := range []string{variantSpace, variantTight} {
		if ctx.Err() != nil {
			break
		}
		if doc, err := s.fetchDoc(ctx, s.DocURL(dv)); err == nil {
			return s.saveOG(ctx, dl, title, s.DocURL(dv), doc, "drama:exact")
		}
		_ = fetcher.Sleep(ctx, s.cfg.Delay)
	}

	if doc, pageURL, err := s.searchFirst(ctx, base+" 드라마", variantSpace); err == nil {
		return s.saveOG(ctx, dl, title, pageURL, doc, "drama:search_exact")
	}
	for _, dv := range []string{variantSpace, variantTight} {
		if ctx.Err() != nil {
			break
		}
		if doc, pageURL, err := s.searchFirst(ctx, dv, dv); err == nil {
			return s.saveOG(ctx, dl, title, pageURL, doc, "drama:search_exact2")
		}
		_ = fetcher.Sleep(ctx, s.cfg.Delay)
	}

	if baseErr == nil {
		if res := s.saveOG(ctx, dl, title, s.DocURL(base), baseDoc, "fallback:og_only"); res.Status == "OK" {
			return res
		}
	}
	return types.ImageResult{Title: title, PageURL: s.DocURL(base), Status: "FAIL", Note: "no_match"}
}

// DramaImages runs the poster cascade for every title.
func (s *Scraper) DramaImages(ctx context.Context, dl *media.Downloader, titles []string) ([]types.ImageResult, error) {
	rows := make([]types.ImageResult, 0, len(titles))
	for i, title := range titles {
		rows = append(rows, s.DramaImage(ctx, dl, title))
		if (i+1)%25 == 0 {
			s.logger.Info("drama image progress", "done", i+1, "total", len(titles))
		}
		if err := fetcher.Sleep(ctx, s.cfg.Delay); err != nil {
			return rows, err
		}
	}
	return rows, nil
}

// PersonImage resolves one actor's og:image through the (배우) variant
// cascade. An empty URL means every candidate missed.
func (s *Scraper) PersonImage(ctx context.Context, dl *media.Downloader, name string) string {
	for _, cand := range PersonCandidates(name) {
		if ctx.Err() != nil {
			return ""
		}
		doc, err := s.fetchDoc(ctx, s.DocURL(cand))
		if err != nil {
			continue
		}
		img := s.OGImage(doc)
		if img == "" {
			continue
		}
		if _, err := dl.Save(ctx, img, s.DocURL(cand), name); err != nil {
			s.logger.Warn("image download failed", "name", name, "url", img, "error", err)
			continue
		}
		return img
	}
	return ""
}

// PersonImages collects one image reference per input name, in order.
// Misses are kept as empty-URL rows so the output stays aligned with
// the input file.
func (s *Scraper) PersonImages(ctx context.Context, dl *media.Downloader, names []string) ([]types.ImageRef, error) {
	rows := make([]types.ImageRef, 0, len(names))
	for i, name := range names {
		rows = append(rows, types.ImageRef{
			Title:  name,
			Type:   "image",
			URL:    s.PersonImage(ctx, dl, name),
			SortNo: 1,
		})
		if (i+1)%25 == 0 {
			s.logger.Info("person image progress", "done", i+1, "total", len(names))
		}
		if err := fetcher.Sleep(ctx, s.cfg.Delay); err != nil {
			return rows, err
		}
	}
	return rows, nil
}
