package tmdb

import (
	"context"
	"strconv"

	"github.com/kdramalab/kscrape/internal/fetcher"
	"github.com/kdramalab/kscrape/internal/normalize"
	"github.com/kdramalab/kscrape/internal/types"
)

// DramaImage is one poster/backdrop lookup result. Misses keep their
// row with source "none" so the output stays aligned with the input.
type DramaImage struct {
	DramaTitle  string
	TMDBID      string
	PosterURL   string
	BackdropURL string
	Source      string // "tmdb" or "none"
}

var DramaImageHeaders = []string{"drama_title", "tmdb_id", "poster_url", "backdrop_url", "source"}

func (d DramaImage) Record() []string {
	return []string{d.DramaTitle, d.TMDBID, d.PosterURL, d.BackdropURL, d.Source}
}

// PersonProfile is one profile-image lookup result.
type PersonProfile struct {
	Name         string
	TMDBPersonID string
	ProfileURL   string
	Source       string
}

var PersonProfileHeaders = []string{"name", "tmdb_person_id", "profile_url", "source"}

func (p PersonProfile) Record() []string {
	return []string{p.Name, p.TMDBPersonID, p.ProfileURL, p.Source}
}

// DramaImages looks up poster and backdrop URLs for each title.
func (c *Client) DramaImages(ctx context.Context, titles []string) ([]DramaImage, error) {
	rows := make([]DramaImage, 0, len(titles))
	for i, title := range titles {
		row := DramaImage{DramaTitle: title, Source: "none"}

		hit, err := c.SearchTV(ctx, normalize.SearchTitle(title))
		if err != nil {
			if ctx.Err() != nil {
				return rows, ctx.Err()
			}
			c.logger.Warn("tv search failed", "title", title, "error", err)
		} else if hit != nil {
			row.TMDBID = strconv.Itoa(hit.ID)
			row.PosterURL = c.ImageURL(hit.PosterPath, SizePoster)
			row.BackdropURL = c.ImageURL(hit.BackdropPath, SizeBackdrop)
			row.Source = "tmdb"
		}
		rows = append(rows, row)

		if (i+1)%25 == 0 {
			c.logger.Info("tmdb image progress", "done", i+1, "total", len(titles))
		}
		if err := fetcher.Sleep(ctx, c.cfg.Delay); err != nil {
			return rows, err
		}
	}
	return rows, nil
}

// DramaCast looks up the cast list of each title. Titles without a TV
// match contribute no rows.
func (c *Client) DramaCast(ctx context.Context, titles []string) ([]types.CastRole, error) {
	var rows []types.CastRole
	for i, title := range titles {
		hit, err := c.SearchTV(ctx, normalize.SearchTitle(title))
		if err != nil {
			if ctx.Err() != nil {
				return rows, ctx.Err()
			}
			c.logger.Warn("tv search failed", "title", title, "error", err)
			continue
		}
		if hit == nil {
			c.logger.Debug("no tv match", "title", title)
			continue
		}

		cast, err := c.TVCredits(ctx, hit.ID)
		if err != nil {
			if ctx.Err() != nil {
				return rows, ctx.Err()
			}
			c.logger.Warn("credits fetch failed", "title", title, "tv_id", hit.ID, "error", err)
			continue
		}
		for _, member := range cast {
			if member.Name == "" {
				continue
			}
			rows = append(rows, types.CastRole{
				DramaTitle:    title,
				PersonName:    member.Name,
				RoleType:      "actor",
				CharacterName: member.Character,
				OrderNo:       1,
			})
		}

		if (i+1)%25 == 0 {
			c.logger.Info("tmdb cast progress", "done", i+1, "total", len(titles))
		}
		if err := fetcher.Sleep(ctx, c.cfg.Delay); err != nil {
			return rows, err
		}
	}
	return rows, nil
}

// PersonProfiles looks up profile-image URLs for each name.
func (c *Client) PersonProfiles(ctx context.Context, names []string) ([]PersonProfile, error) {
	rows := make([]PersonProfile, 0, len(names))
	for i, name := range names {
		row := PersonProfile{Name: name, Source: "none"}

		hit, err := c.SearchPerson(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return rows, ctx.Err()
			}
			c.logger.Warn("person search failed", "name", name, "error", err)
		} else if hit != nil {
			row.TMDBPersonID = strconv.Itoa(hit.ID)
			row.ProfileURL = c.ImageURL(hit.ProfilePath, SizeProfile)
			row.Source = "tmdb"
		}
		rows = append(rows, row)

		if (i+1)%25 == 0 {
			c.logger.Info("tmdb profile progress", "done", i+1, "total", len(names))
		}
		if err := fetcher.Sleep(ctx, c.cfg.Delay); err != nil {
			return rows, err
		}
	}
	return rows, nil
}
