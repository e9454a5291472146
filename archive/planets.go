package archive

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/memory-space/api"
	"github.com/lixenwraith/memory-space/frame"
	"github.com/lixenwraith/memory-space/orbit"
)

// Planet limits
const (
	MaxPlanetsPerStar   = 7
	MaxPlanetNameLength = 7

	ErrTooManyPlanets UserError = "A maximum of 7 planets can be created per star."
)

const isoLayout = "2006-01-02T15:04:05.000Z"

// Report is one entry of a media item's report history
type Report struct {
	Reason string
	At     string
}

// MediaItem is a media entry as shown to the user
type MediaItem struct {
	api.Media
	// TempID is set until the server confirms the upload
	TempID  string
	Reports []Report
}

// Temp reports whether the item is awaiting server confirmation
func (m MediaItem) Temp() bool { return m.TempID != "" }

// Planet is a planet of the open star; Body carries its orbit
type Planet struct {
	Body      *orbit.Planet
	DBID      int64 // zero until the server confirms creation
	Name      string
	Thumbnail *api.Thumbnail
	Media     []MediaItem

	Description string
	Location    string
	Tags        []string
}

// ID is the planet's local ordinal
func (p *Planet) ID() int { return p.Body.ID }

// Preview returns the first media URL, falling back to the thumbnail
func (p *Planet) Preview() string {
	if len(p.Media) > 0 {
		return p.Media[0].URL
	}
	if p.Thumbnail != nil {
		return p.Thumbnail.URL
	}
	return ""
}

// PlanetSystem holds the planets of one star and the popup focus driving the orbit view
type PlanetSystem struct {
	client *api.Client
	starID int64
	notify Notifier
	req    *requests
	clock  frame.Clock
	rng    *rand.Rand
	log    zerolog.Logger

	planets []*Planet // ascending local id
	bodies  []*orbit.Planet

	focus    orbit.Focus
	editing  int
	mediaFor int
}

// NewPlanetSystem creates an empty system for starID; call Load to fetch planets
func NewPlanetSystem(ctx context.Context, client *api.Client, starID int64, poster Poster, notify Notifier,
	clock frame.Clock, rng *rand.Rand, log zerolog.Logger) *PlanetSystem {
	if clock == nil {
		clock = frame.RealClock{}
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &PlanetSystem{
		client: client,
		starID: starID,
		notify: notify,
		req:    newRequests(ctx, poster, log),
		clock:  clock,
		rng:    rng,
		log:    log.With().Int64("star", starID).Logger(),
	}
}

// StarID returns the owning star
func (s *PlanetSystem) StarID() int64 { return s.starID }

// Planets returns planets in ascending id order
func (s *PlanetSystem) Planets() []*Planet { return s.planets }

// Bodies returns the orbit bodies in ascending id order
func (s *PlanetSystem) Bodies() []*orbit.Planet { return s.bodies }

// Planet returns the planet with local id
func (s *PlanetSystem) Planet(id int) (*Planet, bool) {
	i := slices.IndexFunc(s.planets, func(p *Planet) bool { return p.ID() == id })
	if i < 0 {
		return nil, false
	}
	return s.planets[i], true
}

// Wait blocks until in-flight requests have posted their results
func (s *PlanetSystem) Wait() { s.req.wait() }

// Close cancels in-flight requests
func (s *PlanetSystem) Close() { s.req.close() }

func (s *PlanetSystem) newBody(id int) *orbit.Planet {
	return orbit.NewPlanet(id, s.rng.Float64()*2*math.Pi)
}

func (s *PlanetSystem) set(planets []*Planet) {
	slices.SortFunc(planets, func(a, b *Planet) int { return a.ID() - b.ID() })
	s.planets = planets
	s.bodies = s.bodies[:0]
	for _, p := range planets {
		s.bodies = append(s.bodies, p.Body)
	}
}

func (s *PlanetSystem) now() string { return s.clock.Now().UTC().Format(isoLayout) }

// NextID returns the smallest unused local id starting at 1
func (s *PlanetSystem) NextID() int {
	next := 1
	for _, p := range s.planets {
		if p.ID() > next {
			return next
		}
		next = p.ID() + 1
	}
	return next
}

// Load fetches the star's planets and renumbers them 1..N in server order
func (s *PlanetSystem) Load() {
	s.req.start("planet list", func(ctx context.Context) func() {
		records, err := s.client.Planets(ctx, s.starID)
		if err != nil {
			s.log.Warn().Err(err).Msg("load planets failed")
			return nil
		}
		return func() {
			planets := make([]*Planet, 0, len(records))
			for i, r := range records {
				planets = append(planets, &Planet{
					Body:      s.newBody(i + 1),
					DBID:      r.ID,
					Name:      r.Name,
					Thumbnail: r.Thumbnail,
				})
			}
			s.set(planets)
			s.mediaFor = 0
			s.log.Debug().Int("planets", len(planets)).Msg("planets loaded")
		}
	})
}

// TruncateName cuts a planet name to the allowed length
func TruncateName(name string) string {
	r := []rune(name)
	if len(r) > MaxPlanetNameLength {
		return string(r[:MaxPlanetNameLength])
	}
	return name
}

// Add inserts a planet immediately and creates it on the server; a failed create removes it again
func (s *PlanetSystem) Add(name string, thumb *api.Upload) (int, error) {
	if len(s.planets) >= MaxPlanetsPerStar {
		s.notify.Notify(ErrTooManyPlanets.Error())
		return 0, ErrTooManyPlanets
	}
	name = TruncateName(name)
	id := s.NextID()
	p := &Planet{Body: s.newBody(id), Name: name}
	if thumb != nil {
		p.Thumbnail = &api.Thumbnail{URL: thumb.Filename, Type: api.MediaTypeFor(thumb.Filename)}
	}
	s.set(append(s.planets, p))

	if thumb == nil {
		s.log.Warn().Int("planet", id).Msg("planet added without thumbnail; not sent to server")
		return id, nil
	}
	s.req.start("planet create", func(ctx context.Context) func() {
		saved, err := s.client.CreatePlanet(ctx, s.starID, name, thumb)
		if err != nil {
			s.log.Warn().Err(err).Int("planet", id).Msg("create planet failed")
			msg := failureMessage(err, "Failed to create planet.")
			return func() {
				s.drop(p)
				s.notify.Notify(msg)
			}
		}
		return func() {
			if saved.DBID() == 0 {
				return
			}
			p.DBID = saved.DBID()
			if saved.ThumbnailURL != "" {
				p.Thumbnail = &api.Thumbnail{URL: saved.ThumbnailURL, Type: saved.ThumbnailType}
			}
		}
	})
	return id, nil
}

// drop removes p if it is still present
func (s *PlanetSystem) drop(p *Planet) {
	i := slices.Index(s.planets, p)
	if i < 0 {
		return
	}
	s.set(slices.Delete(slices.Clone(s.planets), i, i+1))
}

// Update renames a planet locally and sends name and thumbnail to the server
// A nil name or thumb leaves that value unchanged
func (s *PlanetSystem) Update(id int, name *string, thumb *api.Upload) {
	p, ok := s.Planet(id)
	if !ok {
		return
	}
	if name != nil {
		n := TruncateName(*name)
		name = &n
		p.Name = n
	}
	if thumb != nil {
		p.Thumbnail = &api.Thumbnail{URL: thumb.Filename, Type: api.MediaTypeFor(thumb.Filename)}
	}
	if p.DBID == 0 {
		s.log.Warn().Int("planet", id).Msg("update skipped: planet not on server")
		return
	}
	dbID := p.DBID
	s.req.start("planet update", func(ctx context.Context) func() {
		saved, err := s.client.UpdatePlanet(ctx, s.starID, dbID, name, thumb)
		if err != nil {
			s.log.Warn().Err(err).Int("planet", id).Msg("update planet failed")
			return nil
		}
		return func() {
			if saved.ThumbnailURL != "" {
				p.Thumbnail = &api.Thumbnail{URL: saved.ThumbnailURL, Type: saved.ThumbnailType}
			}
		}
	})
}

// UpdateMeta sets planet-level description, location and tags; nil fields are unchanged
func (s *PlanetSystem) UpdateMeta(id int, description, location *string, tags []string) {
	p, ok := s.Planet(id)
	if !ok {
		return
	}
	if description != nil {
		p.Description = *description
	}
	if location != nil {
		p.Location = *location
	}
	if tags != nil {
		p.Tags = slices.Clone(tags)
	}
}

// Delete removes a planet, clears hover and popups, and deletes it on the server
func (s *PlanetSystem) Delete(id int) {
	p, ok := s.Planet(id)
	if !ok {
		return
	}
	s.focus = orbit.Focus{}
	s.editing = 0
	s.mediaFor = 0
	s.drop(p)

	if p.DBID == 0 {
		return
	}
	dbID := p.DBID
	s.req.start("planet delete", func(ctx context.Context) func() {
		if err := s.client.DeletePlanet(ctx, s.starID, dbID); err != nil {
			s.log.Warn().Err(err).Int64("db_id", dbID).Msg("delete planet failed")
		}
		return nil
	})
}

// Focus returns the popup and hover state
func (s *PlanetSystem) Focus() orbit.Focus { return s.focus }

// Editing returns the planet whose edit popup is open, or 0
func (s *PlanetSystem) Editing() int { return s.editing }

// RunState is Paused while any popup is open or a planet is hovered
func (s *PlanetSystem) RunState() orbit.RunState {
	if s.focus.Active() || s.editing != 0 {
		return orbit.Paused
	}
	return orbit.Running
}

// Hover marks a planet as hovered in the list; 0 clears
func (s *PlanetSystem) Hover(id int) { s.focus.Hovered = id }

// OpenAddPopup opens the planet creation popup
func (s *PlanetSystem) OpenAddPopup() { s.focus.AddPopupOpen = true }

// CloseAddPopup closes the creation popup and clears hover
func (s *PlanetSystem) CloseAddPopup() {
	s.focus.AddPopupOpen = false
	s.focus.Hovered = 0
}

// OpenEdit opens the edit popup for a planet
func (s *PlanetSystem) OpenEdit(id int) {
	if _, ok := s.Planet(id); ok {
		s.editing = id
	}
}

// CloseEdit closes the edit popup
func (s *PlanetSystem) CloseEdit() { s.editing = 0 }

// OpenMedia opens a planet's media popup and fetches its media once per opening
func (s *PlanetSystem) OpenMedia(id int) {
	p, ok := s.Planet(id)
	if !ok {
		return
	}
	s.focus.MediaPlanet = id
	if s.mediaFor == id || p.DBID == 0 {
		return
	}
	s.mediaFor = id
	dbID := p.DBID
	s.req.start("media list", func(ctx context.Context) func() {
		media, err := s.client.Media(ctx, dbID)
		if err != nil {
			s.log.Warn().Err(err).Int("planet", id).Msg("load media failed")
			return nil
		}
		return func() {
			items := make([]MediaItem, len(media))
			for i, m := range media {
				items[i] = MediaItem{Media: m}
			}
			p.Media = items
		}
	})
}

// CloseMedia closes the media popup and clears hover
func (s *PlanetSystem) CloseMedia() {
	s.focus.MediaPlanet = 0
	s.focus.Hovered = 0
	s.mediaFor = 0
}

// AddMedia appends temporary items immediately; the server's items replace them on upload
func (s *PlanetSystem) AddMedia(id int, uploads []api.MediaUpload) {
	p, ok := s.Planet(id)
	if !ok || len(uploads) == 0 {
		return
	}
	temps := make(map[string]struct{}, len(uploads))
	for _, up := range uploads {
		tid := uuid.NewString()
		temps[tid] = struct{}{}
		p.Media = append(p.Media, MediaItem{
			TempID: tid,
			Media: api.Media{
				MediaType:   api.MediaTypeFor(up.File.Filename),
				URL:         up.File.Filename,
				Description: up.Description,
				Location:    up.Location,
				Tags:        api.Tags(up.Tags),
			},
		})
	}
	if p.DBID == 0 {
		return
	}
	dbID := p.DBID
	s.req.start("media add", func(ctx context.Context) func() {
		media, err := s.client.AddMedia(ctx, dbID, uploads)
		if err != nil {
			s.log.Warn().Err(err).Int("planet", id).Msg("upload media failed")
			msg := failureMessage(err, "Failed to upload media.")
			return func() {
				p.Media = slices.DeleteFunc(p.Media, func(m MediaItem) bool {
					_, mine := temps[m.TempID]
					return mine
				})
				s.notify.Notify(msg)
			}
		}
		if len(media) == 0 {
			return nil
		}
		return func() {
			kept := slices.DeleteFunc(p.Media, MediaItem.Temp)
			for _, m := range media {
				kept = append(kept, MediaItem{Media: m})
			}
			p.Media = kept
		}
	})
}

// DeleteMedia removes an item immediately and restores it if the server refuses
func (s *PlanetSystem) DeleteMedia(id, index int) {
	p, ok := s.Planet(id)
	if !ok || index < 0 || index >= len(p.Media) {
		return
	}
	item := p.Media[index]
	p.Media = slices.Delete(slices.Clone(p.Media), index, index+1)

	if p.DBID == 0 || item.Temp() || item.ID == 0 {
		return
	}
	dbID := p.DBID
	s.req.start("media delete", func(ctx context.Context) func() {
		err := s.client.DeleteMedia(ctx, dbID, item.ID)
		if err == nil {
			return nil
		}
		s.log.Warn().Err(err).Int64("media", item.ID).Msg("delete media failed")
		msg := failureMessage(err, "Failed to delete media.")
		return func() {
			at := min(index, len(p.Media))
			p.Media = slices.Insert(p.Media, at, item)
			s.notify.Notify(msg)
		}
	})
}

// UpdateMedia saves an item's metadata, asks the server to geocode a non-empty location,
// and applies the change locally once saved
func (s *PlanetSystem) UpdateMedia(id, index int, meta api.MediaMeta) {
	p, ok := s.Planet(id)
	if !ok || index < 0 || index >= len(p.Media) || p.DBID == 0 {
		return
	}
	mediaID := p.Media[index].ID
	if mediaID == 0 {
		return
	}
	dbID := p.DBID
	s.req.start("media update", func(ctx context.Context) func() {
		if err := s.client.UpdateMedia(ctx, dbID, mediaID, meta); err != nil {
			s.log.Warn().Err(err).Int64("media", mediaID).Msg("update media failed")
			msg := failureMessage(err, "Failed to update media.")
			return func() { s.notify.Notify(msg) }
		}
		if meta.Location != "" {
			if err := s.client.UpdateCoordinates(ctx, mediaID, meta.Location); err != nil {
				s.log.Warn().Err(err).Int64("media", mediaID).Msg("update coordinates failed")
			}
		}
		return func() {
			i := slices.IndexFunc(p.Media, func(m MediaItem) bool { return m.ID == mediaID })
			if i < 0 {
				return
			}
			p.Media[i].Description = meta.Description
			p.Media[i].Location = meta.Location
			p.Media[i].Tags = api.Tags(slices.Clone(meta.Tags))
		}
	})
}

func (s *PlanetSystem) media(id, index int) *MediaItem {
	p, ok := s.Planet(id)
	if !ok || index < 0 || index >= len(p.Media) {
		return nil
	}
	return &p.Media[index]
}

// ToggleLike flips the like flag, stamping the time when set
func (s *PlanetSystem) ToggleLike(id, index int) {
	if m := s.media(id, index); m != nil {
		m.Liked = !m.Liked
		m.LikedAt = ""
		if m.Liked {
			m.LikedAt = s.now()
		}
	}
}

// ToggleStar flips the star flag, stamping the time when set
func (s *PlanetSystem) ToggleStar(id, index int) {
	if m := s.media(id, index); m != nil {
		m.Starred = !m.Starred
		m.StarredAt = ""
		if m.Starred {
			m.StarredAt = s.now()
		}
	}
}

// Report flags an item, records the reason, and confirms to the user
func (s *PlanetSystem) Report(id, index int, reason string) {
	m := s.media(id, index)
	if m == nil {
		return
	}
	at := s.now()
	m.Reported = true
	m.ReportedAt = at
	m.ReportCount++
	m.Reports = append(m.Reports, Report{Reason: reason, At: at})
	s.notify.Notify(MsgReported)
}
