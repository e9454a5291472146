package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Me returns the current user; an unparsable body yields a logged-out Auth with ErrNotJSON
func (c *Client) Me(ctx context.Context) (Auth, error) {
	env, err := c.do(ctx, http.MethodGet, c.endpoint("/auth/me", nil), nil, "", false)
	if err != nil {
		return Auth{}, err
	}
	var a Auth
	if len(env.Data) > 0 && !isNull(env.Data) && env.Data[0] == '{' {
		if err := env.DecodeData(&a); err != nil {
			return Auth{}, fmt.Errorf("%w: %w", ErrNotJSON, err)
		}
		return a, nil
	}
	if err := decodeRaw(env, &a); err != nil {
		return Auth{}, err
	}
	return a, nil
}

// Stars lists the user's stars
func (c *Client) Stars(ctx context.Context) ([]Star, error) {
	env, err := c.get(ctx, "/star/list", nil)
	if err != nil {
		return nil, err
	}
	if !env.OK() {
		return nil, &RemoteError{Status: http.StatusOK, Message: env.Message}
	}
	var stars []Star
	if _, err := env.Field("stars", &stars); err != nil {
		return nil, fmt.Errorf("decode stars: %w", err)
	}
	return stars, nil
}

// CreateStar creates a star named name
func (c *Client) CreateStar(ctx context.Context, name string) error {
	return c.starAction(ctx, "/star/create", url.Values{"name": {name}})
}

// RenameStar renames star id
func (c *Client) RenameStar(ctx context.Context, id int64, name string) error {
	return c.starAction(ctx, "/star/update", url.Values{"starId": {itoa(id)}, "name": {name}})
}

// DeleteStar deletes star id
func (c *Client) DeleteStar(ctx context.Context, id int64) error {
	return c.starAction(ctx, "/star/delete", url.Values{"starId": {itoa(id)}})
}

// star endpoints only count an explicit success=true
func (c *Client) starAction(ctx context.Context, path string, form url.Values) error {
	env, err := c.postForm(ctx, path, form)
	if err != nil {
		return err
	}
	if !env.OK() {
		return &RemoteError{Status: http.StatusOK, Message: env.Message}
	}
	return nil
}

// Planets lists the planets of a star; upload URLs come back absolute
func (c *Client) Planets(ctx context.Context, starID int64) ([]PlanetRecord, error) {
	env, err := c.get(ctx, "/planet/list", url.Values{"starId": {itoa(starID)}})
	if err != nil {
		return nil, err
	}
	var planets []PlanetRecord
	if _, err := env.Field("planets", &planets); err != nil {
		return nil, fmt.Errorf("decode planets: %w", err)
	}
	for i := range planets {
		if t := planets[i].Thumbnail; t != nil {
			t.URL = c.AbsoluteURL(t.URL)
			if t.Type == "" {
				t.Type = "image"
			}
		}
	}
	return planets, nil
}

// CreatePlanet creates a planet with an optional thumbnail
func (c *Client) CreatePlanet(ctx context.Context, starID int64, name string, thumb *Upload) (PlanetSaved, error) {
	m := newMultipart()
	m.field("starId", itoa(starID))
	m.field("name", name)
	if thumb != nil {
		m.file("thumbnail", *thumb)
	}
	return c.planetSaved(ctx, "/planet/create", m)
}

// UpdatePlanet changes a planet's name and/or thumbnail; nil leaves the value unchanged
func (c *Client) UpdatePlanet(ctx context.Context, starID, planetID int64, name *string, thumb *Upload) (PlanetSaved, error) {
	m := newMultipart()
	m.field("starId", itoa(starID))
	m.field("planetId", itoa(planetID))
	if name != nil {
		m.field("name", *name)
	}
	if thumb != nil {
		m.file("thumbnail", *thumb)
	}
	return c.planetSaved(ctx, "/planet/update", m)
}

func (c *Client) planetSaved(ctx context.Context, path string, m *multipartBody) (PlanetSaved, error) {
	env, err := c.postMultipart(ctx, path, m)
	if err != nil {
		return PlanetSaved{}, err
	}
	var saved PlanetSaved
	if err := env.DecodeData(&saved); err != nil {
		return PlanetSaved{}, fmt.Errorf("decode planet: %w", err)
	}
	if saved.ThumbnailURL != "" {
		saved.ThumbnailURL = c.AbsoluteURL(saved.ThumbnailURL)
		if saved.ThumbnailType == "" {
			saved.ThumbnailType = "image"
		}
	}
	return saved, nil
}

// DeletePlanet deletes a planet
func (c *Client) DeletePlanet(ctx context.Context, starID, planetID int64) error {
	_, err := c.postForm(ctx, "/planet/delete", url.Values{
		"starId":   {itoa(starID)},
		"planetId": {itoa(planetID)},
	})
	return err
}

// Media lists a planet's media
func (c *Client) Media(ctx context.Context, planetID int64) ([]Media, error) {
	env, err := c.get(ctx, "/media/list", url.Values{"planetId": {itoa(planetID)}})
	if err != nil {
		return nil, err
	}
	return c.decodeMedia(env)
}

// AddMedia uploads files with per-index description, location and CSV tags
func (c *Client) AddMedia(ctx context.Context, planetID int64, items []MediaUpload) ([]Media, error) {
	m := newMultipart()
	m.field("planetId", itoa(planetID))
	n := 0
	for _, it := range items {
		if it.File.Body == nil {
			continue
		}
		m.file("files", it.File)
		idx := strconv.Itoa(n)
		m.field("description"+idx, it.Description)
		m.field("location"+idx, it.Location)
		if len(it.Tags) > 0 {
			m.field("tags"+idx, Tags(it.Tags).CSV())
		}
		n++
	}
	if n == 0 {
		return nil, nil
	}
	env, err := c.postMultipart(ctx, "/media/add", m)
	if err != nil {
		return nil, err
	}
	return c.decodeMedia(env)
}

// DeleteMedia removes one media item
func (c *Client) DeleteMedia(ctx context.Context, planetID, mediaID int64) error {
	_, err := c.postForm(ctx, "/media/delete", url.Values{
		"planetId": {itoa(planetID)},
		"mediaId":  {itoa(mediaID)},
	})
	return err
}

// UpdateMedia replaces a media item's metadata
func (c *Client) UpdateMedia(ctx context.Context, planetID, mediaID int64, meta MediaMeta) error {
	_, err := c.postForm(ctx, "/media/update", url.Values{
		"planetId":    {itoa(planetID)},
		"mediaId":     {itoa(mediaID)},
		"description": {meta.Description},
		"location":    {meta.Location},
		"tags":        {Tags(meta.Tags).CSV()},
	})
	return err
}

// UpdateCoordinates asks the server to geocode a media item's location
func (c *Client) UpdateCoordinates(ctx context.Context, mediaID int64, location string) error {
	_, err := c.postForm(ctx, "/update-coordinates", url.Values{
		"mediaId":  {itoa(mediaID)},
		"location": {location},
	})
	return err
}

func (c *Client) decodeMedia(env *Envelope) ([]Media, error) {
	var media []Media
	if _, err := env.Field("media", &media); err != nil {
		return nil, fmt.Errorf("decode media: %w", err)
	}
	for i := range media {
		media[i].URL = c.AbsoluteURL(media[i].URL)
	}
	return media, nil
}

func decodeRaw(env *Envelope, v any) error {
	if err := json.Unmarshal(env.raw, v); err != nil {
		return fmt.Errorf("%w: %w", ErrNotJSON, err)
	}
	return nil
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
