package mockapi

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/lixenwraith/memory-space/api"
)

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	a := s.auth
	s.mu.Unlock()
	ok(w, map[string]any{"data": a})
}

// requireLogin answers for logged-out users and reports whether the handler may continue
func (s *Server) requireLogin(w http.ResponseWriter) bool {
	s.mu.Lock()
	in := s.auth.LoggedIn
	s.mu.Unlock()
	if !in {
		fail(w, http.StatusUnauthorized, "Not logged in")
	}
	return in
}

func (s *Server) starList(w http.ResponseWriter, r *http.Request) {
	if !s.requireLogin(w) {
		return
	}
	s.mu.Lock()
	stars := slices.Clone(s.stars)
	s.mu.Unlock()
	if stars == nil {
		stars = []api.Star{}
	}
	ok(w, map[string]any{"stars": stars})
}

func (s *Server) starCreate(w http.ResponseWriter, r *http.Request) {
	if !s.requireLogin(w) {
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		fail(w, http.StatusOK, "Name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stars) >= MaxStars {
		fail(w, http.StatusOK, "Max 12 stars allowed")
		return
	}
	s.stars = append(s.stars, api.Star{ID: s.id(), Name: name})
	ok(w, map[string]any{"message": "Star created"})
}

func (s *Server) starUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.requireLogin(w) {
		return
	}
	id, valid := formID(r, "starId")
	name := strings.TrimSpace(r.FormValue("name"))
	if !valid || name == "" {
		fail(w, http.StatusOK, "Invalid parameters")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.starIndex(id)
	if i < 0 {
		fail(w, http.StatusOK, "Star not found")
		return
	}
	s.stars[i].Name = name
	ok(w, map[string]any{"message": "Star updated"})
}

func (s *Server) starDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requireLogin(w) {
		return
	}
	id, valid := formID(r, "starId")
	if !valid {
		fail(w, http.StatusOK, "Invalid parameters")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.starIndex(id)
	if i < 0 {
		fail(w, http.StatusOK, "Star not found")
		return
	}
	s.stars = slices.Delete(s.stars, i, i+1)
	for _, p := range s.planets[id] {
		delete(s.media, p.ID)
	}
	delete(s.planets, id)
	ok(w, map[string]any{"message": "Star deleted"})
}

func (s *Server) planetList(w http.ResponseWriter, r *http.Request) {
	starID, valid := formID(r, "starId")
	if !valid {
		fail(w, http.StatusBadRequest, "starId is required")
		return
	}
	s.mu.Lock()
	list := slices.Clone(s.planets[starID])
	s.mu.Unlock()
	if list == nil {
		list = []api.PlanetRecord{}
	}
	ok(w, map[string]any{"data": map[string]any{"planets": list}})
}

func (s *Server) planetCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		fail(w, http.StatusBadRequest, "multipart form expected")
		return
	}
	starID, valid := formID(r, "starId")
	if !valid {
		fail(w, http.StatusBadRequest, "starId is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.starIndex(starID) < 0 {
		fail(w, http.StatusNotFound, "Star not found")
		return
	}
	if len(s.planets[starID]) >= MaxPlanetsPerStar {
		fail(w, http.StatusOK, "A maximum of 7 planets can be created per star.")
		return
	}
	p := api.PlanetRecord{ID: s.id(), Name: r.FormValue("name")}
	data := map[string]any{"planetId": p.ID}
	if f, hdr, err := r.FormFile("thumbnail"); err == nil {
		u, typ, err := s.saveUpload(hdr.Filename, f)
		f.Close()
		if err != nil {
			fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		p.Thumbnail = &api.Thumbnail{URL: u, Type: typ}
		data["thumbnailUrl"], data["thumbnailType"] = u, typ
	}
	s.planets[starID] = append(s.planets[starID], p)
	ok(w, map[string]any{"data": data})
}

func (s *Server) planetUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		fail(w, http.StatusBadRequest, "multipart form expected")
		return
	}
	planetID, valid := formID(r, "planetId")
	if !valid {
		fail(w, http.StatusBadRequest, "planetId is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	starID, i := s.findPlanet(planetID)
	if i < 0 {
		fail(w, http.StatusNotFound, "Planet not found")
		return
	}
	p := &s.planets[starID][i]
	if _, present := r.MultipartForm.Value["name"]; present {
		p.Name = r.FormValue("name")
	}
	data := map[string]any{"planetId": p.ID}
	if f, hdr, err := r.FormFile("thumbnail"); err == nil {
		u, typ, err := s.saveUpload(hdr.Filename, f)
		f.Close()
		if err != nil {
			fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		p.Thumbnail = &api.Thumbnail{URL: u, Type: typ}
	}
	if p.Thumbnail != nil {
		data["thumbnailUrl"], data["thumbnailType"] = p.Thumbnail.URL, p.Thumbnail.Type
	}
	ok(w, map[string]any{"data": data})
}

func (s *Server) planetDelete(w http.ResponseWriter, r *http.Request) {
	planetID, valid := formID(r, "planetId")
	if !valid {
		fail(w, http.StatusBadRequest, "planetId is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	starID, i := s.findPlanet(planetID)
	if i < 0 {
		fail(w, http.StatusNotFound, "Planet not found")
		return
	}
	s.planets[starID] = slices.Delete(s.planets[starID], i, i+1)
	delete(s.media, planetID)
	ok(w, nil)
}

func (s *Server) mediaList(w http.ResponseWriter, r *http.Request) {
	planetID, valid := formID(r, "planetId")
	if !valid {
		fail(w, http.StatusBadRequest, "planetId is required")
		return
	}
	s.mu.Lock()
	list := slices.Clone(s.media[planetID])
	s.mu.Unlock()
	if list == nil {
		list = []api.Media{}
	}
	ok(w, map[string]any{"media": list})
}

func (s *Server) mediaAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		fail(w, http.StatusBadRequest, "multipart form expected")
		return
	}
	planetID, valid := formID(r, "planetId")
	if !valid {
		fail(w, http.StatusBadRequest, "planetId is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, i := s.findPlanet(planetID); i < 0 {
		fail(w, http.StatusNotFound, "Planet not found")
		return
	}
	added := []api.Media{}
	for i, hdr := range r.MultipartForm.File["files"] {
		f, err := hdr.Open()
		if err != nil {
			fail(w, http.StatusBadRequest, err.Error())
			return
		}
		u, typ, err := s.saveUpload(hdr.Filename, f)
		f.Close()
		if err != nil {
			fail(w, http.StatusInternalServerError, err.Error())
			return
		}
		idx := strconv.Itoa(i)
		added = append(added, api.Media{
			ID:          s.id(),
			MediaType:   typ,
			URL:         u,
			Description: r.FormValue("description" + idx),
			Location:    r.FormValue("location" + idx),
			Tags:        splitCSV(r.FormValue("tags" + idx)),
		})
	}
	s.media[planetID] = append(s.media[planetID], added...)
	ok(w, map[string]any{"media": added})
}

func (s *Server) mediaUpdate(w http.ResponseWriter, r *http.Request) {
	planetID, pv := formID(r, "planetId")
	mediaID, mv := formID(r, "mediaId")
	if !pv || !mv {
		fail(w, http.StatusBadRequest, "planetId and mediaId are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.media[planetID]
	i := slices.IndexFunc(list, func(m api.Media) bool { return m.ID == mediaID })
	if i < 0 {
		fail(w, http.StatusNotFound, "Media not found")
		return
	}
	list[i].Description = r.FormValue("description")
	list[i].Location = r.FormValue("location")
	list[i].Tags = splitCSV(r.FormValue("tags"))
	ok(w, nil)
}

func (s *Server) mediaDelete(w http.ResponseWriter, r *http.Request) {
	planetID, pv := formID(r, "planetId")
	mediaID, mv := formID(r, "mediaId")
	if !pv || !mv {
		fail(w, http.StatusBadRequest, "planetId and mediaId are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.media[planetID]
	i := slices.IndexFunc(list, func(m api.Media) bool { return m.ID == mediaID })
	if i < 0 {
		fail(w, http.StatusNotFound, "Media not found")
		return
	}
	s.media[planetID] = slices.Delete(list, i, i+1)
	ok(w, nil)
}

func (s *Server) updateCoordinates(w http.ResponseWriter, r *http.Request) {
	mediaID, valid := formID(r, "mediaId")
	if !valid || strings.TrimSpace(r.FormValue("location")) == "" {
		fail(w, http.StatusBadRequest, "Missing 'mediaId' or 'location' field")
		return
	}
	ok(w, map[string]any{"id": mediaID})
}
