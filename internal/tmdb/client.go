// Package tmdb wraps the The Movie Database REST API for the batch
// jobs that backfill posters, cast lists, and actor profiles.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/kdramalab/kscrape/internal/config"
	"github.com/kdramalab/kscrape/internal/fetcher"
)

// Image size presets used across the jobs.
const (
	SizePoster   = "w500"
	SizeBackdrop = "w780"
	SizeProfile  = "w500"
)

// Client is a TMDB API client. Every call carries the configured API
// key, result language, and the include_adult=false filter.
type Client struct {
	client *fetcher.Client
	cfg    *config.TMDBConfig
	logger *slog.Logger
}

func NewClient(client *fetcher.Client, cfg *config.TMDBConfig, logger *slog.Logger) *Client {
	return &Client{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "tmdb"),
	}
}

// TVResult is one hit from the TV search endpoint.
type TVResult struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

// CastCredit is one cast entry from the TV credits endpoint.
type CastCredit struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// PersonResult is one hit from the person search endpoint.
type PersonResult struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	ProfilePath        string `json:"profile_path"`
	KnownForDepartment string `json:"known_for_department"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("api_key", c.cfg.APIKey)
	params.Set("language", c.cfg.Language)

	resp, err := c.client.Get(ctx, c.cfg.BaseURL+path+"?"+params.Encode(), c.cfg.RequestTimeout)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// SearchTV returns the top TV search hit for a title, or nil without
// error when nothing matches.
func (c *Client) SearchTV(ctx context.Context, title string) (*TVResult, error) {
	params := url.Values{}
	params.Set("query", title)
	params.Set("include_adult", "false")

	var body struct {
		Results []TVResult `json:"results"`
	}
	if err := c.get(ctx, "/search/tv", params, &body); err != nil {
		return nil, err
	}
	if len(body.Results) == 0 {
		return nil, nil
	}
	return &body.Results[0], nil
}

// TVCredits returns the cast list of a TV show.
func (c *Client) TVCredits(ctx context.Context, tvID int) ([]CastCredit, error) {
	var body struct {
		Cast []CastCredit `json:"cast"`
	}
	if err := c.get(ctx, "/tv/"+strconv.Itoa(tvID)+"/credits", url.Values{}, &body); err != nil {
		return nil, err
	}
	return body.Cast, nil
}

// SearchPerson returns the best person search hit for a name,
// preferring entries known for acting. Nil without error on no match.
func (c *Client) SearchPerson(ctx context.Context, name string) (*PersonResult, error) {
	params := url.Values{}
	params.Set("query", name)
	params.Set("include_adult", "false")

	var body struct {
		Results []PersonResult `json:"results"`
	}
	if err := c.get(ctx, "/search/person", params, &body); err != nil {
		return nil, err
	}
	if len(body.Results) == 0 {
		return nil, nil
	}
	for i := range body.Results {
		if body.Results[i].KnownForDepartment == "Acting" {
			return &body.Results[i], nil
		}
	}
	return &body.Results[0], nil
}

// ImageURL turns a TMDB image path into a fetchable URL. Empty path
// yields empty URL.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return c.cfg.ImageBaseURL + "/" + size + path
}
