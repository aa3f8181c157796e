package tmdb

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kdramalab/kscrape/internal/config"
	"github.com/kdramalab/kscrape/internal/fetcher"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	httpCfg := config.DefaultConfig().HTTP
	httpCfg.MaxRetries = 0

	cfg := &config.TMDBConfig{
		APIKey:         "test-key",
		BaseURL:        srv.URL,
		ImageBaseURL:   "https://image.tmdb.org/t/p",
		Language:       "ko-KR",
		RequestTimeout: 2 * time.Second,
	}
	return NewClient(fetcher.NewClient(&httpCfg, logger), cfg, logger), srv
}

func TestSearchTV(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/tv" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" || q.Get("language") != "ko-KR" || q.Get("include_adult") != "false" {
			t.Errorf("params = %v", q)
		}
		if q.Get("query") != "눈물의 여왕" {
			t.Errorf("query = %q", q.Get("query"))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"results":[
			{"id":219246,"name":"눈물의 여왕","poster_path":"/qoq.jpg","backdrop_path":"/back.jpg"},
			{"id":999,"name":"other"}
		]}`)
	})

	hit, err := client.SearchTV(context.Background(), "눈물의 여왕")
	if err != nil {
		t.Fatal(err)
	}
	if hit == nil || hit.ID != 219246 {
		t.Fatalf("hit = %+v, want first result", hit)
	}
	if got := client.ImageURL(hit.PosterPath, SizePoster); got != "https://image.tmdb.org/t/p/w500/qoq.jpg" {
		t.Errorf("poster url = %q", got)
	}
	if got := client.ImageURL(hit.BackdropPath, SizeBackdrop); got != "https://image.tmdb.org/t/p/w780/back.jpg" {
		t.Errorf("backdrop url = %q", got)
	}
}

func TestSearchTVNoResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":[]}`)
	})
	hit, err := client.SearchTV(context.Background(), "없는 드라마")
	if err != nil {
		t.Fatal(err)
	}
	if hit != nil {
		t.Errorf("hit = %+v, want nil", hit)
	}
}

func TestSearchPersonPrefersActing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":[
			{"id":1,"name":"동명이인","known_for_department":"Directing","profile_path":"/d.jpg"},
			{"id":2,"name":"김수현","known_for_department":"Acting","profile_path":"/a.jpg"}
		]}`)
	})
	hit, err := client.SearchPerson(context.Background(), "김수현")
	if err != nil {
		t.Fatal(err)
	}
	if hit == nil || hit.ID != 2 {
		t.Fatalf("hit = %+v, want the acting entry", hit)
	}
}

func TestImageURLEmptyPath(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if got := client.ImageURL("", SizePoster); got != "" {
		t.Errorf("ImageURL(\"\") = %q, want empty", got)
	}
}

func TestDramaCast(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/tv":
			io.WriteString(w, `{"results":[{"id":42,"name":"무빙"}]}`)
		case "/tv/42/credits":
			io.WriteString(w, `{"cast":[
				{"name":"류승룡","character":"장주원","order":0},
				{"name":"한효주","character":"이미현","order":1},
				{"name":"","character":"익명"}
			]}`)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	})

	rows, err := client.DramaCast(context.Background(), []string{"무빙 (드라마)"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 (nameless credit dropped)", len(rows))
	}
	first := rows[0]
	if first.DramaTitle != "무빙 (드라마)" || first.PersonName != "류승룡" ||
		first.RoleType != "actor" || first.CharacterName != "장주원" || first.OrderNo != 1 {
		t.Errorf("first row = %+v", first)
	}
}

func TestDramaImagesKeepsMissRows(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "무빙" {
			io.WriteString(w, `{"results":[{"id":42,"poster_path":"/p.jpg"}]}`)
			return
		}
		io.WriteString(w, `{"results":[]}`)
	})

	rows, err := client.DramaImages(context.Background(), []string{"무빙", "없는 드라마"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Source != "tmdb" || rows[0].TMDBID != "42" || rows[0].PosterURL == "" {
		t.Errorf("hit row = %+v", rows[0])
	}
	if rows[1].Source != "none" || rows[1].TMDBID != "" {
		t.Errorf("miss row = %+v", rows[1])
	}
}
