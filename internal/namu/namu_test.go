package namu

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/kdramalab/kscrape/internal/config"
	"github.com/kdramalab/kscrape/internal/types"
)

func testScraper() *Scraper {
	cfg := &config.NamuConfig{BaseURL: "https://namu.wiki"}
	return NewScraper(nil, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mustDoc(t *testing.T, src string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestDramaCandidates(t *testing.T) {
	got := DramaCandidates("《무빙》 (드라마)")
	want := []string{"무빙 (드라마)", "무빙(드라마)", "무빙"}
	if len(got) != len(want) {
		t.Fatalf("candidates = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDocURLEscapesSubpageSeparator(t *testing.T) {
	s := testScraper()
	got := s.DocURL("무빙/방영 목록")
	if strings.Contains(strings.TrimPrefix(got, "https://namu.wiki/w/"), "/") {
		t.Errorf("slash in title not escaped: %q", got)
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://namu.wiki/w/%EB%AC%B4%EB%B9%99", true},
		{"https://namu.wiki/Search?q=무빙", true},
		{"https://namu.wiki/img/poster.jpg", true},
		{"https://namu.wiki/ACL/whatever", true}, // bare "/" prefix admits the rest
		{"://bad url", false},
	}
	for _, tt := range tests {
		if got := Allowed(tt.url); got != tt.want {
			t.Errorf("Allowed(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestHeaderKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"회차", "episode_no"},
		{"회", "episode_no"},
		{"방영일", "broadcast_at"},
		{"방송일자", "broadcast_at"},
		{"제목", "title"},
		{"부제", "title"},
		{"줄거리", "description"},
		{"비고", ""},
	}
	for _, tt := range tests {
		if got := headerKey(tt.in); got != tt.want {
			t.Errorf("headerKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

const horizontalTableHTML = `<table>
<tr><th>회차</th><th>방영일</th><th>제목</th><th>시청률</th></tr>
<tr><td>제1화</td><td>2025.1.3</td><td><strong>첫 만남</strong> 부가설명</td><td>5.1%</td></tr>
<tr><td>제2화</td><td>2025.1.4</td><td>재회</td><td>6.0%</td></tr>
</table>`

func TestParseHorizontal(t *testing.T) {
	doc := mustDoc(t, horizontalTableHTML)
	eps := parseHorizontal(doc.Find("table"))

	if len(eps) != 2 {
		t.Fatalf("episodes = %d, want 2", len(eps))
	}
	if eps[0].episodeNo != "1화" {
		t.Errorf("episode no = %q, want normalized 1화", eps[0].episodeNo)
	}
	if eps[0].title != "첫 만남" {
		t.Errorf("title = %q, strong not preferred", eps[0].title)
	}
	if eps[1].broadcastAt != "2025.1.4" {
		t.Errorf("broadcast = %q", eps[1].broadcastAt)
	}
}

func TestParseHorizontalRejectsNonEpisodeTable(t *testing.T) {
	doc := mustDoc(t, `<table>
	<tr><th>배우</th><th>배역</th></tr>
	<tr><td>김수현</td><td>백현우</td></tr>
	</table>`)
	if eps := parseHorizontal(doc.Find("table")); eps != nil {
		t.Errorf("parsed %d rows from a cast table", len(eps))
	}
}

func TestParseVertical(t *testing.T) {
	doc := mustDoc(t, `<table>
	<tr><th>회차</th><td>3</td></tr>
	<tr><th>방영일</th><td>2025.1.10</td></tr>
	<tr><th>줄거리</th><td>세 번째 이야기</td></tr>
	</table>`)
	eps := parseVertical(doc.Find("table"))

	if len(eps) != 1 {
		t.Fatalf("episodes = %d, want 1", len(eps))
	}
	if eps[0].episodeNo != "3화" || eps[0].broadcastAt != "2025.1.10" {
		t.Errorf("row = %+v", eps[0])
	}
}

func TestParseVerticalNeedsTwoLabels(t *testing.T) {
	doc := mustDoc(t, `<table>
	<tr><th>회차</th><td>3</td></tr>
	<tr><th>감독</th><td>누군가</td></tr>
	</table>`)
	if eps := parseVertical(doc.Find("table")); eps != nil {
		t.Errorf("single-label table accepted: %+v", eps)
	}
}

func TestParseIndexed(t *testing.T) {
	doc := mustDoc(t, `<table>
	<tr><td><strong>제4화</strong></td></tr>
	<tr><td>구분</td></tr>
	<tr><td>방영일</td><td>2025.1.17</td></tr>
	<tr><td>제목</td><td><strong>네 번째 밤</strong></td></tr>
	<tr><td>줄거리</td><td>긴 이야기</td></tr>
	</table>`)
	eps := parseIndexed(doc.Find("table"))

	if len(eps) != 1 {
		t.Fatalf("episodes = %d, want 1", len(eps))
	}
	got := eps[0]
	if got.episodeNo != "4화" || got.broadcastAt != "2025.1.17" || got.title != "네 번째 밤" || got.description != "긴 이야기" {
		t.Errorf("row = %+v", got)
	}
}

func TestSectionTablesScoped(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<h2>개요</h2><table id="t0"><tr><td>x</td></tr></table>
	<h2>방영 목록</h2>
	<table id="t1"><tr><td>a</td></tr></table>
	<div><table id="t2"><tr><td>b</td></tr></table></div>
	<h2>평가</h2><table id="t3"><tr><td>y</td></tr></table>
	</body></html>`)

	tables := sectionTables(doc)
	if len(tables) != 2 {
		t.Fatalf("tables = %d, want 2", len(tables))
	}
	for i, want := range []string{"t1", "t2"} {
		if id, _ := tables[i].Attr("id"); id != want {
			t.Errorf("table[%d] id = %q, want %q", i, id, want)
		}
	}
}

func TestSectionTablesFallbackWholeDocument(t *testing.T) {
	doc := mustDoc(t, `<html><body>
	<h2>무관한 제목</h2>
	<table id="only"><tr><td>a</td></tr></table>
	</body></html>`)
	tables := sectionTables(doc)
	if len(tables) != 1 {
		t.Fatalf("tables = %d, want 1 via fallback", len(tables))
	}
}

func TestMergeEpisodeDuplicates(t *testing.T) {
	in := []types.Episode{
		{DramaTitle: "무빙", EpisodeNo: "1화", Title: "짧", BroadcastAt: "2025.1.3"},
		{DramaTitle: "무빙", EpisodeNo: "1화", Title: "더 긴 제목", Description: "줄거리"},
		{DramaTitle: "무빙", EpisodeNo: "2화", Title: "둘"},
	}
	out := MergeEpisodeDuplicates(in)

	if len(out) != 2 {
		t.Fatalf("rows = %d, want 2", len(out))
	}
	if out[0].Title != "더 긴 제목" {
		t.Errorf("merged title = %q, longer value not preferred", out[0].Title)
	}
	if out[0].BroadcastAt != "2025.1.3" {
		t.Errorf("merged broadcast = %q, existing value lost", out[0].BroadcastAt)
	}
	if out[0].Description != "줄거리" {
		t.Errorf("merged description = %q", out[0].Description)
	}

	// applying the merge again changes nothing
	again := MergeEpisodeDuplicates(out)
	if len(again) != len(out) {
		t.Errorf("merge not idempotent: %d -> %d rows", len(out), len(again))
	}
}

func TestDescriptionFromDocFallback(t *testing.T) {
	doc := mustDoc(t, `<html><body><article>
	<table><tr><td>작은 표</td></tr></table>
	<table><tr><th>장르</th><td>스릴러[1]</td></tr><tr><th>방송사</th><td>tvN</td></tr></table>
	</article></body></html>`)

	got := descriptionFromDoc(doc)
	if got != "장르 스릴러 방송사 tvN" {
		t.Errorf("description = %q", got)
	}
}

func TestOGImage(t *testing.T) {
	s := testScraper()
	tests := []struct {
		name string
		meta string
		want string
	}{
		{"plain", `<meta property="og:image" content="//i.namu.wiki/poster.jpg">`, "https://i.namu.wiki/poster.jpg"},
		{"relative", `<meta property="og:image" content="/img/poster.png">`, "https://namu.wiki/img/poster.png"},
		{"data uri", `<meta property="og:image" content="data:image/png;base64,xyz">`, ""},
		{"svg", `<meta property="og:image" content="https://namu.wiki/asset.svg">`, ""},
		{"logo", `<meta property="og:image" content="https://namu.wiki/site-logo.png">`, ""},
		{"missing", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDoc(t, "<html><head>"+tt.meta+"</head><body></body></html>")
			if got := s.OGImage(doc); got != tt.want {
				t.Errorf("OGImage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasDramaCue(t *testing.T) {
	with := mustDoc(t, `<html><body><article>
	<table><tr><th> 방송 기간 : </th><td>2025.1.3 ~</td></tr></table>
	</article></body></html>`)
	if !hasDramaCue(with) {
		t.Error("cue not detected")
	}

	without := mustDoc(t, `<html><body><article>
	<table><tr><th>수록곡</th><td>OST</td></tr></table>
	</article></body></html>`)
	if hasDramaCue(without) {
		t.Error("cue falsely detected")
	}
}

func TestDocTitleFromHref(t *testing.T) {
	if got := docTitleFromHref("/w/%EB%AC%B4%EB%B9%99(%EB%93%9C%EB%9D%BC%EB%A7%88)"); got != "무빙(드라마)" {
		t.Errorf("title = %q", got)
	}
	if got := docTitleFromHref("/Search?q=x"); got != "" {
		t.Errorf("non-document href yielded %q", got)
	}
}
