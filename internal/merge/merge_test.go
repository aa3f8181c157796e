package merge

import (
	"reflect"
	"testing"

	"github.com/kdramalab/kscrape/internal/csvx"
)

func TestRuntimeBackfill(t *testing.T) {
	weekly := &csvx.Table{
		Headers: []string{"title", "dow", "start_time", "runtime"},
		Rows: [][]string{
			{"무빙", "금요일", "20:00", "70분(예정)"},
			{"무빙", "금요일", "20:00", "999분"}, // duplicate title, first wins
		},
	}
	episodes := &csvx.Table{
		Headers: []string{"drama_title", "episode_no", "runtime_min"},
		Rows: [][]string{
			{"무빙 ", "1화", ""},
			{"모르는 드라마", "1화", "60분"},
		},
	}

	out, err := RuntimeBackfill(weekly, episodes)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Rows[0][2]; got != "70분" {
		t.Errorf("backfilled runtime = %q, want 70분", got)
	}
	if got := out.Rows[1][2]; got != "60분" {
		t.Errorf("unmatched row runtime = %q, existing value lost", got)
	}
	if episodes.Rows[0][2] != "" {
		t.Error("input table mutated")
	}
}

func TestRuntimeBackfillMissingColumn(t *testing.T) {
	weekly := &csvx.Table{Headers: []string{"title"}}
	episodes := &csvx.Table{Headers: []string{"drama_title", "runtime_min"}}
	if _, err := RuntimeBackfill(weekly, episodes); err == nil {
		t.Error("expected error for missing runtime column")
	}
}

func TestDescriptionJoin(t *testing.T) {
	base := &csvx.Table{
		Headers: []string{"title", "genre_name", "description"},
		Rows: [][]string{
			{"무빙", "액션", "낡은 줄거리"},
			{"매칭 없음", "코미디", ""},
		},
	}
	desc := &csvx.Table{
		Headers: []string{"title", "description"},
		Rows: [][]string{
			{"무빙", "초능력을 숨긴 가족"},
			{"무빙", "나중 값"}, // duplicate title, first wins
		},
	}

	out, err := DescriptionJoin(base, desc)
	if err != nil {
		t.Fatal(err)
	}
	wantHeaders := []string{"title", "genre_name", "description"}
	if !reflect.DeepEqual(out.Headers, wantHeaders) {
		t.Errorf("headers = %v", out.Headers)
	}
	if got := out.Rows[0][2]; got != "초능력을 숨긴 가족" {
		t.Errorf("description = %q", got)
	}
	if got := out.Rows[1][2]; got != "" {
		t.Errorf("unmatched description = %q, want empty", got)
	}
}

func TestPersonURLMerge(t *testing.T) {
	base := &csvx.Table{
		Headers: []string{"name", "birth_date", "url"},
		Rows: [][]string{
			{"김수현", "1988년 2월 16일", "https://old.example/a.jpg"},
			{"아무개", "", "https://old.example/b.jpg"},
		},
	}
	tmdb := &csvx.Table{
		Headers: []string{"name", "tmdb_person_id", "profile_url", "source"},
		Rows: [][]string{
			{"김수현", "55931", "https://image.tmdb.org/t/p/w500/x.jpg", "tmdb"},
			{"아무개", "", "", "none"},
		},
	}

	out, err := PersonURLMerge(base, tmdb)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Rows[0][2]; got != "https://image.tmdb.org/t/p/w500/x.jpg" {
		t.Errorf("url = %q, tmdb value should override", got)
	}
	if got := out.Rows[1][2]; got != "https://old.example/b.jpg" {
		t.Errorf("url = %q, empty tmdb value should not override", got)
	}
}

func TestPersonURLMergeAppendsURLColumn(t *testing.T) {
	base := &csvx.Table{
		Headers: []string{"name", "gender"},
		Rows:    [][]string{{"김수현", "남성"}},
	}
	tmdb := &csvx.Table{
		Headers: []string{"name", "profile_url"},
		Rows:    [][]string{{"김수현", "https://image.tmdb.org/t/p/w500/x.jpg"}},
	}

	out, err := PersonURLMerge(base, tmdb)
	if err != nil {
		t.Fatal(err)
	}
	if out.Headers[len(out.Headers)-1] != "url" {
		t.Errorf("headers = %v, url column not appended", out.Headers)
	}
	if got := out.Rows[0][2]; got != "https://image.tmdb.org/t/p/w500/x.jpg" {
		t.Errorf("url = %q", got)
	}
}

func TestImageExport(t *testing.T) {
	src := &csvx.Table{
		Headers: []string{"drama_title", "tmdb_id", "poster_url", "backdrop_url", "source"},
		Rows: [][]string{
			{"무빙", "42", "https://image.tmdb.org/t/p/w500/p.jpg", "https://image.tmdb.org/t/p/w780/b.jpg", "tmdb"},
			{"없는 드라마", "", "", "", "none"},
		},
	}

	out, err := ImageExport(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"무빙", "drama_image", "https://image.tmdb.org/t/p/w500/p.jpg", "1"}
	if !reflect.DeepEqual(out.Rows[0], want) {
		t.Errorf("row = %v, want %v", out.Rows[0], want)
	}
	if out.Rows[1][2] != "" {
		t.Errorf("miss row url = %q", out.Rows[1][2])
	}
}

func TestMergeIdempotence(t *testing.T) {
	weekly := &csvx.Table{
		Headers: []string{"title", "runtime"},
		Rows:    [][]string{{"무빙", "70분"}},
	}
	episodes := &csvx.Table{
		Headers: []string{"drama_title", "episode_no", "runtime_min"},
		Rows:    [][]string{{"무빙", "1화", ""}},
	}

	once, err := RuntimeBackfill(weekly, episodes)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := RuntimeBackfill(weekly, once)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second merge changed output: %v vs %v", once, twice)
	}
}
