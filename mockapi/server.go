// Package mockapi serves an in-memory copy of the archive API for development and tests.
package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/memory-space/api"
)

// Server limits match the production service
const (
	MaxStars          = 12
	MaxPlanetsPerStar = 7
	maxUploadMemory   = 32 << 20
)

type fault struct {
	status  int
	message string
}

// Server holds users' stars, planets, media and uploaded files
type Server struct {
	mu sync.Mutex

	contextPath string
	auth        api.Auth
	log         zerolog.Logger

	nextID  int64
	stars   []api.Star
	planets map[int64][]api.PlanetRecord // by star
	media   map[int64][]api.Media        // by planet
	uploads map[string][]byte
	faults  map[string]fault
	hits    map[string]int
}

// New creates a server mounted under contextPath with a logged-in demo user
func New(contextPath string, log zerolog.Logger) *Server {
	return &Server{
		contextPath: strings.TrimRight(contextPath, "/"),
		auth:        api.Auth{LoggedIn: true, UserID: "demo", Nickname: "demo", Role: "USER"},
		log:         log,
		nextID:      100,
		planets:     make(map[int64][]api.PlanetRecord),
		media:       make(map[int64][]api.Media),
		uploads:     make(map[string][]byte),
		faults:      make(map[string]fault),
		hits:        make(map[string]int),
	}
}

// SetAuth replaces the current-user state
func (s *Server) SetAuth(a api.Auth) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = a
}

// Fail makes every request to route (e.g. "/planet/create") answer with status and a success=false message
// A zero status clears the fault
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.faults, route)
		return
	}
	s.faults[route] = fault{status: status, message: message}
}

// Hits returns how many requests reached route
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// SeedStar adds a star and returns it
func (s *Server) SeedStar(name string) api.Star {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := api.Star{ID: s.id(), Name: name}
	s.stars = append(s.stars, st)
	return st
}

// SeedPlanet adds a planet under star and returns it
func (s *Server) SeedPlanet(starID int64, name string) api.PlanetRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := api.PlanetRecord{ID: s.id(), Name: name}
	s.planets[starID] = append(s.planets[starID], p)
	return p
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Route(s.contextPath+"/api", func(r chi.Router) {
		r.Use(s.faultInjector)
		r.Get("/auth/me", s.me)

		r.Get("/star/list", s.starList)
		r.Post("/star/create", s.starCreate)
		r.Post("/star/update", s.starUpdate)
		r.Post("/star/delete", s.starDelete)

		r.Get("/planet/list", s.planetList)
		r.Post("/planet/create", s.planetCreate)
		r.Post("/planet/update", s.planetUpdate)
		r.Post("/planet/delete", s.planetDelete)

		r.Get("/media/list", s.mediaList)
		r.Post("/media/add", s.mediaAdd)
		r.Post("/media/update", s.mediaUpdate)
		r.Post("/media/delete", s.mediaDelete)

		r.Post("/update-coordinates", s.updateCoordinates)
	})
	r.Get(s.contextPath+"/uploads/*", s.upload)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("req_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("mock api")
	})
}

func (s *Server) faultInjector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := strings.TrimPrefix(r.URL.Path, s.contextPath+"/api")
		s.mu.Lock()
		s.hits[route]++
		f, failing := s.faults[route]
		s.mu.Unlock()
		if failing {
			writeJSON(w, f.status, map[string]any{"success": false, "message": f.message})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// id must be called with mu held
func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, extra map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

func formID(r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(r.FormValue(name), 10, 64)
	return v, err == nil
}

// saveUpload stores a file part and returns its server-relative URL and media type
// must be called with mu held
func (s *Server) saveUpload(name string, body io.Reader) (string, string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", "", err
	}
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	key := uuid.NewString() + "_" + base
	s.uploads[key] = data
	return "/uploads/" + key, api.MediaTypeFor(base), nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (s *Server) starIndex(id int64) int {
	return slices.IndexFunc(s.stars, func(st api.Star) bool { return st.ID == id })
}

func (s *Server) findPlanet(id int64) (starID int64, idx int) {
	for sid, list := range s.planets {
		if i := slices.IndexFunc(list, func(p api.PlanetRecord) bool { return p.ID == id }); i >= 0 {
			return sid, i
		}
	}
	return 0, -1
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	s.mu.Lock()
	data, found := s.uploads[key]
	s.mu.Unlock()
	if !found {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}

func (s *Server) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("mockapi{stars:%d planets:%d uploads:%d}", len(s.stars), len(s.planets), len(s.uploads))
}
