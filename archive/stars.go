package archive

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/memory-space/api"
	"github.com/lixenwraith/memory-space/placement"
)

// Star limits
const (
	MaxStars          = 12
	MaxStarNameLength = 15
)

// Validation errors
const (
	ErrEmptyStarName   UserError = "Please enter a star name."
	ErrStarNameTooLong UserError = "Star names must be within 15 characters."
	ErrTooManyStars    UserError = "You can create up to 12 stars."
)

// StarKey is the position-store key of a star
func StarKey(id int64) string { return strconv.FormatInt(id, 10) }

// StarList is the user's star collection
type StarList struct {
	client    *api.Client
	positions *placement.PositionStore
	notify    Notifier
	req       *requests
	log       zerolog.Logger

	stars    []api.Star
	loaded   bool
	onChange func([]api.Star)
}

// NewStarList creates an empty list; call Refresh to load it
func NewStarList(ctx context.Context, client *api.Client, positions *placement.PositionStore,
	poster Poster, notify Notifier, log zerolog.Logger) *StarList {
	return &StarList{
		client:    client,
		positions: positions,
		notify:    notify,
		req:       newRequests(ctx, poster, log),
		log:       log,
	}
}

// OnChange registers a callback run after every list replacement
func (l *StarList) OnChange(fn func([]api.Star)) { l.onChange = fn }

// Stars returns the current list
func (l *StarList) Stars() []api.Star { return l.stars }

// Loaded reports whether a refresh has completed
func (l *StarList) Loaded() bool { return l.loaded }

// Keys returns the position-store keys of the current stars in list order
func (l *StarList) Keys() []string {
	keys := make([]string, len(l.stars))
	for i, s := range l.stars {
		keys[i] = StarKey(s.ID)
	}
	return keys
}

// Find returns the star with id
func (l *StarList) Find(id int64) (api.Star, bool) {
	i := slices.IndexFunc(l.stars, func(s api.Star) bool { return s.ID == id })
	if i < 0 {
		return api.Star{}, false
	}
	return l.stars[i], true
}

// Full reports whether the star limit is reached
func (l *StarList) Full() bool { return len(l.stars) >= MaxStars }

// Wait blocks until in-flight requests have posted their results
func (l *StarList) Wait() { l.req.wait() }

// Close cancels in-flight requests
func (l *StarList) Close() { l.req.close() }

// Refresh reloads the list and prunes stored positions of stars that no longer exist
// Any failure leaves an empty list
func (l *StarList) Refresh() {
	l.req.start("star list", func(ctx context.Context) func() {
		stars, err := l.client.Stars(ctx)
		if err != nil {
			l.log.Warn().Err(err).Msg("fetch stars failed")
			stars = nil
		}
		return func() { l.replace(stars, err == nil) }
	})
}

func (l *StarList) replace(stars []api.Star, prune bool) {
	l.stars = stars
	l.loaded = true
	if prune && l.positions != nil {
		if l.positions.Cleanup(l.Keys()) {
			l.log.Debug().Int("stars", len(stars)).Msg("orphan star positions removed")
		}
	}
	if l.onChange != nil {
		l.onChange(stars)
	}
}

// ValidateName trims name and checks it against the star rules
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyStarName
	}
	if utf8.RuneCountInString(name) > MaxStarNameLength {
		return "", ErrStarNameTooLong
	}
	return name, nil
}

// Create validates and creates a star; validation failures are notified and returned
func (l *StarList) Create(name string) error {
	name, err := ValidateName(name)
	if err == nil && l.Full() {
		err = ErrTooManyStars
	}
	if err != nil {
		l.notify.Notify(err.Error())
		return err
	}
	l.req.start("star create", func(ctx context.Context) func() {
		err := l.client.CreateStar(ctx, name)
		return l.after(err, "Failed to create star.", nil)
	})
	return nil
}

// Rename validates and renames a star
func (l *StarList) Rename(id int64, name string) error {
	name, err := ValidateName(name)
	if err != nil {
		l.notify.Notify(err.Error())
		return err
	}
	l.req.start("star rename", func(ctx context.Context) func() {
		err := l.client.RenameStar(ctx, id, name)
		return l.after(err, "Failed to rename star.", nil)
	})
	return nil
}

// Delete removes a star and, once the server confirms, its stored position
func (l *StarList) Delete(id int64) {
	l.req.start("star delete", func(ctx context.Context) func() {
		err := l.client.DeleteStar(ctx, id)
		return l.after(err, "Failed to delete star.", func() {
			if l.positions != nil {
				l.positions.Remove(StarKey(id))
			}
		})
	})
}

// after builds the frame-loop continuation of a star mutation
func (l *StarList) after(err error, fallback string, onSuccess func()) func() {
	if err != nil {
		l.log.Warn().Err(err).Msg(fallback)
		msg := failureMessage(err, fallback)
		return func() { l.notify.Notify(msg) }
	}
	return func() {
		if onSuccess != nil {
			onSuccess()
		}
		l.Refresh()
	}
}
