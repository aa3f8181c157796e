package selector

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, src string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestFirstCascade(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<div class="b">second</div>
		<div class="c">third</div>
	</body></html>`)

	got := First(doc, Text(".a"), Text(".b"), Text(".c"))
	if got != "second" {
		t.Errorf("First = %q, want %q", got, "second")
	}

	if got := First(doc, Text(".x"), Text(".y")); got != "" {
		t.Errorf("First on misses = %q, want empty", got)
	}
}

func TestXPathAttr(t *testing.T) {
	doc := mustDoc(t, `<html><head>
		<meta property="og:image" content="https://img.example/poster.jpg">
	</head><body></body></html>`)

	ex := XPathAttr(`//meta[@property="og:image"]`, "content")
	if got := ex(doc); got != "https://img.example/poster.jpg" {
		t.Errorf("XPathAttr = %q", got)
	}

	miss := XPathAttr(`//meta[@property="og:video"]`, "content")
	if got := miss(doc); got != "" {
		t.Errorf("miss = %q, want empty", got)
	}
}

func TestBestTable(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<table id="small"><tr><td>x</td></tr></table>
		<table id="big"><tr><th>a</th><th>b</th></tr><tr><td>1</td><td>2</td></tr></table>
	</body></html>`)

	best := BestTable(doc.Selection)
	if best == nil {
		t.Fatal("no table found")
	}
	if id, _ := best.Attr("id"); id != "big" {
		t.Errorf("best table id = %q, want big", id)
	}

	empty := mustDoc(t, `<html><body><p>no tables</p></body></html>`)
	if BestTable(empty.Selection) != nil {
		t.Error("expected nil for document without tables")
	}
}

func TestCellText(t *testing.T) {
	doc := mustDoc(t, `<html><body><table><tr><td>월요일<br>화요일  <b>밤</b> 10시</td></tr></table></body></html>`)
	got := CellText(doc.Find("td"))
	if got != "월요일 화요일 밤 10시" {
		t.Errorf("CellText = %q", got)
	}
}
