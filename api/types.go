package api

import (
	"encoding/json"
	"io"
	"path"
	"strings"
)

// Auth is the current-user state from /auth/me
type Auth struct {
	LoggedIn bool   `json:"loggedIn"`
	UserID   string `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Role     string `json:"role,omitempty"`
}

// DisplayName prefers nickname, then user id, then username
func (a Auth) DisplayName() string {
	for _, s := range []string{a.Nickname, a.UserID, a.Username} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Admin reports the ADMIN role
func (a Auth) Admin() bool { return a.Role == "ADMIN" }

// Star is one user star
type Star struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Thumbnail is a planet's preview media
type Thumbnail struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// PlanetRecord is a planet as the server stores it
type PlanetRecord struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Thumbnail *Thumbnail `json:"thumbnail,omitempty"`
}

// PlanetSaved is the data payload of planet create/update
type PlanetSaved struct {
	PlanetID      int64  `json:"planetId,omitempty"`
	ID            int64  `json:"id,omitempty"`
	ThumbnailURL  string `json:"thumbnailUrl,omitempty"`
	ThumbnailType string `json:"thumbnailType,omitempty"`
}

// DBID returns planetId, falling back to id
func (p PlanetSaved) DBID() int64 {
	if p.PlanetID != 0 {
		return p.PlanetID
	}
	return p.ID
}

// Tags decodes a JSON array of strings; any other shape decodes as empty
type Tags []string

// UnmarshalJSON tolerates non-array tag payloads
func (t *Tags) UnmarshalJSON(b []byte) error {
	var s []string
	if err := json.Unmarshal(b, &s); err != nil {
		*t = nil
		return nil
	}
	*t = s
	return nil
}

// CSV joins tags the way the server parses them
func (t Tags) CSV() string { return strings.Join(t, ",") }

// Media is one uploaded item on a planet
type Media struct {
	ID          int64  `json:"id"`
	MediaType   string `json:"mediaType"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Tags        Tags   `json:"tags,omitempty"`

	Liked       bool   `json:"liked,omitempty"`
	LikedAt     string `json:"likedAt,omitempty"`
	Starred     bool   `json:"starred,omitempty"`
	StarredAt   string `json:"starredAt,omitempty"`
	Reported    bool   `json:"reported,omitempty"`
	ReportedAt  string `json:"reportedAt,omitempty"`
	ReportCount int    `json:"reportCount,omitempty"`
}

// Upload is a file part of a multipart request
type Upload struct {
	Filename string
	Body     io.Reader
}

// MediaUpload pairs a file with its metadata
type MediaUpload struct {
	File        Upload
	Description string
	Location    string
	Tags        []string
}

// MediaMeta is the editable metadata of a media item
type MediaMeta struct {
	Description string
	Location    string
	Tags        []string
}

// MediaTypeFor classifies a file name as "video" or "image"
func MediaTypeFor(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".mp4", ".webm", ".mov", ".m4v":
		return "video"
	default:
		return "image"
	}
}
