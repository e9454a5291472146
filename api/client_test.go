package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/memory-space/api"
	"github.com/lixenwraith/memory-space/mockapi"
)

func newClient(t *testing.T) (*api.Client, *mockapi.Server) {
	t.Helper()
	srv := mockapi.New(api.DefaultContextPath, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := api.DefaultConfig()
	cfg.BaseURL = ts.URL
	return api.New(cfg, ts.Client(), zerolog.Nop()), srv
}

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", `{"a":1}`, `{"a":1}`, true},
		{"bom and noise", "\uFEFF  junk {\"a\":{\"b\":2}} trailing", `{"a":{"b":2}}`, true},
		{"no braces", "<html>", "<html>", false},
		{"reversed", "} {", "} {", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := api.Unwrap([]byte(tt.in))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestEnvelopeField(t *testing.T) {
	env, err := api.ParseEnvelope([]byte(`{"success":true,"data":{"planets":[{"id":7,"name":"x"}]}}`))
	require.NoError(t, err)
	assert.True(t, env.OK())

	var planets []api.PlanetRecord
	found, err := env.Field("planets", &planets)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []api.PlanetRecord{{ID: 7, Name: "x"}}, planets)

	var missing []int
	found, err = env.Field("stars", &missing)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMeLenient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "\uFEFF<!-- banner -->{\"success\":true,\"data\":{\"loggedIn\":true,\"userId\":\"kim\",\"role\":\"ADMIN\"}}\n")
	}))
	defer ts.Close()

	c := api.New(&api.Config{BaseURL: ts.URL}, ts.Client(), zerolog.Nop())
	a, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.True(t, a.LoggedIn)
	assert.Equal(t, "kim", a.DisplayName())
	assert.True(t, a.Admin())
}

func TestMeGarbage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "Internal error")
	}))
	defer ts.Close()

	c := api.New(&api.Config{BaseURL: ts.URL}, ts.Client(), zerolog.Nop())
	a, err := c.Me(context.Background())
	assert.ErrorIs(t, err, api.ErrNotJSON)
	assert.False(t, a.LoggedIn)
}

func TestStrictRejectsNonJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, `{"success":true,"stars":[]}`)
	}))
	defer ts.Close()

	c := api.New(&api.Config{BaseURL: ts.URL}, ts.Client(), zerolog.Nop())
	_, err := c.Stars(context.Background())
	assert.ErrorIs(t, err, api.ErrNotJSON)
}

func TestStarLifecycle(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	require.NoError(t, c.CreateStar(ctx, "Vega"))
	require.NoError(t, c.CreateStar(ctx, "Rigel"))
	stars, err := c.Stars(ctx)
	require.NoError(t, err)
	require.Len(t, stars, 2)
	assert.Equal(t, "Vega", stars[0].Name)

	require.NoError(t, c.RenameStar(ctx, stars[0].ID, "Altair"))
	require.NoError(t, c.DeleteStar(ctx, stars[1].ID))

	stars, err = c.Stars(ctx)
	require.NoError(t, err)
	require.Len(t, stars, 1)
	assert.Equal(t, "Altair", stars[0].Name)
}

func TestRemoteErrorMessage(t *testing.T) {
	c, srv := newClient(t)
	srv.Fail("/star/create", http.StatusOK, "Max 12 stars allowed")

	err := c.CreateStar(context.Background(), "x")
	require.ErrorIs(t, err, api.ErrRequestFailed)
	var re *api.RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "Max 12 stars allowed", re.Message)

	srv.Fail("/star/create", http.StatusInternalServerError, "")
	err = c.CreateStar(context.Background(), "x")
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusInternalServerError, re.Status)
}

func TestPlanetsAndUploads(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()
	star := srv.SeedStar("Vega")

	saved, err := c.CreatePlanet(ctx, star.ID, "Home", &api.Upload{Filename: "cat.png", Body: strings.NewReader("png")})
	require.NoError(t, err)
	assert.NotZero(t, saved.DBID())
	assert.True(t, strings.HasPrefix(saved.ThumbnailURL, "/MemorySpace/uploads/"), saved.ThumbnailURL)
	assert.Equal(t, "image", saved.ThumbnailType)

	planets, err := c.Planets(ctx, star.ID)
	require.NoError(t, err)
	require.Len(t, planets, 1)
	assert.Equal(t, "Home", planets[0].Name)
	require.NotNil(t, planets[0].Thumbnail)
	assert.Equal(t, saved.ThumbnailURL, planets[0].Thumbnail.URL)

	name := "Away"
	_, err = c.UpdatePlanet(ctx, star.ID, saved.DBID(), &name, nil)
	require.NoError(t, err)
	planets, err = c.Planets(ctx, star.ID)
	require.NoError(t, err)
	assert.Equal(t, "Away", planets[0].Name)

	require.NoError(t, c.DeletePlanet(ctx, star.ID, saved.DBID()))
	planets, err = c.Planets(ctx, star.ID)
	require.NoError(t, err)
	assert.Empty(t, planets)
}

func TestMediaFlow(t *testing.T) {
	c, srv := newClient(t)
	ctx := context.Background()
	star := srv.SeedStar("Vega")
	planet := srv.SeedPlanet(star.ID, "Home")

	added, err := c.AddMedia(ctx, planet.ID, []api.MediaUpload{
		{File: api.Upload{Filename: "a.jpg", Body: strings.NewReader("a")}, Description: "beach", Tags: []string{"sea", "sun"}},
		{File: api.Upload{Filename: "b.mp4", Body: strings.NewReader("b")}, Location: "Busan"},
	})
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, api.Tags{"sea", "sun"}, added[0].Tags)
	assert.Equal(t, "video", added[1].MediaType)
	assert.Equal(t, "Busan", added[1].Location)

	require.NoError(t, c.UpdateMedia(ctx, planet.ID, added[0].ID, api.MediaMeta{Description: "bay", Location: "Jeju", Tags: []string{"x"}}))
	require.NoError(t, c.UpdateCoordinates(ctx, added[0].ID, "Jeju"))
	require.NoError(t, c.DeleteMedia(ctx, planet.ID, added[1].ID))

	media, err := c.Media(ctx, planet.ID)
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, "bay", media[0].Description)
	assert.Equal(t, api.Tags{"x"}, media[0].Tags)
	assert.Equal(t, 1, srv.Hits("/update-coordinates"))

	none, err := c.AddMedia(ctx, planet.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestAbsoluteURL(t *testing.T) {
	c := api.New(api.DefaultConfig(), nil, zerolog.Nop())
	assert.Equal(t, "/MemorySpace/uploads/a.png", c.AbsoluteURL("/uploads/a.png"))
	assert.Equal(t, "/MemorySpace/uploads/a.png", c.AbsoluteURL("/MemorySpace/uploads/a.png"))
	assert.Equal(t, "https://cdn/x.png", c.AbsoluteURL("https://cdn/x.png"))

	root := api.New(&api.Config{BaseURL: "http://h"}, nil, zerolog.Nop())
	assert.Equal(t, "/uploads/a.png", root.AbsoluteURL("/uploads/a.png"))
}

func TestTagsTolerant(t *testing.T) {
	env, err := api.ParseEnvelope([]byte(`{"success":true,"media":[{"id":1,"tags":"oops"}]}`))
	require.NoError(t, err)
	var media []api.Media
	_, err = env.Field("media", &media)
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Empty(t, media[0].Tags)
}
