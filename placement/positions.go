package placement

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/memory-space/kvstore"
	"github.com/lixenwraith/memory-space/vmath"
)

var (
	// ErrNoPositions means nothing usable is stored; callers generate fresh positions
	ErrNoPositions = errors.New("placement: no stored positions")
	// ErrMalformed wraps a stored document that failed schema decoding
	ErrMalformed = errors.New("placement: malformed position document")
)

// StoreVersion is stamped on every versioned write
const StoreVersion = 1

// NormalizedPosition is a point relative to a Frame, both axes in [0,1]
type NormalizedPosition struct {
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`
}

// Clamped bounds both axes to [0,1]
func (p NormalizedPosition) Clamped() NormalizedPosition {
	return NormalizedPosition{RX: vmath.Clamp01(p.RX), RY: vmath.Clamp01(p.RY)}
}

// Positions maps hotspot key to normalized position
type Positions map[string]NormalizedPosition

// Clone returns an independent copy; nil clones to an empty map
func (p Positions) Clone() Positions {
	if p == nil {
		return Positions{}
	}
	return maps.Clone(p)
}

// Keys returns the keys in sorted order
func (p Positions) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Codec converts between Positions and the stored document
type Codec interface {
	Encode(Positions) (string, error)
	Decode(string) (Positions, error)
}

var (
	// Versioned stores {"version":1,"stars":{key:{rx,ry}}}
	Versioned Codec = versionedCodec{}
	// Flat stores {key:{rx,ry}}
	Flat Codec = flatCodec{}
)

type versionedDoc struct {
	Version int                        `json:"version"`
	Stars   map[string]json.RawMessage `json:"stars"`
}

type versionedCodec struct{}

func (versionedCodec) Encode(p Positions) (string, error) {
	doc := struct {
		Version int       `json:"version"`
		Stars   Positions `json:"stars"`
	}{Version: StoreVersion, Stars: p.Clone()}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (versionedCodec) Decode(raw string) (Positions, error) {
	var doc versionedDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Stars == nil {
		return nil, fmt.Errorf("%w: missing stars object", ErrMalformed)
	}
	return decodeEntries(doc.Stars), nil
}

type flatCodec struct{}

func (flatCodec) Encode(p Positions) (string, error) {
	b, err := json.Marshal(p.Clone())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (flatCodec) Decode(raw string) (Positions, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformed)
	}
	return decodeEntries(doc), nil
}

// decodeEntries keeps entries whose rx and ry are both numbers
func decodeEntries(raw map[string]json.RawMessage) Positions {
	out := make(Positions, len(raw))
	for k, v := range raw {
		var e struct {
			RX *float64 `json:"rx"`
			RY *float64 `json:"ry"`
		}
		if err := json.Unmarshal(v, &e); err != nil || e.RX == nil || e.RY == nil {
			continue
		}
		out[k] = NormalizedPosition{RX: *e.RX, RY: *e.RY}.Clamped()
	}
	return out
}

// PositionStore persists Positions under one storage key
// Every mutation reads the latest document, merges, and writes the full map
type PositionStore struct {
	kv    kvstore.Store
	key   string
	codec Codec
	log   zerolog.Logger
}

// NewPositionStore binds a store to a local-namespace key and codec
func NewPositionStore(kv kvstore.Store, key string, codec Codec, log zerolog.Logger) *PositionStore {
	return &PositionStore{
		kv:    kv,
		key:   key,
		codec: codec,
		log:   log.With().Str("key", key).Logger(),
	}
}

// HomeStore holds the fixed home hotspots in the versioned shape
func HomeStore(kv kvstore.Store, log zerolog.Logger) *PositionStore {
	return NewPositionStore(kv, kvstore.KeyHomePositions, Versioned, log)
}

// UserStarStore holds per-user stars in the flat shape
func UserStarStore(kv kvstore.Store, log zerolog.Logger) *PositionStore {
	return NewPositionStore(kv, kvstore.KeyUserStarPositions, Flat, log)
}

// Read decodes the stored document
// Missing or unreadable storage yields ErrNoPositions, a bad document a wrapped ErrMalformed
func (s *PositionStore) Read() (Positions, error) {
	raw, err := s.kv.Get(kvstore.NamespaceLocal, s.key)
	if errors.Is(err, kvstore.ErrNotFound) || (err == nil && raw == "") {
		return nil, ErrNoPositions
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoPositions, err)
	}
	return s.codec.Decode(raw)
}

// Load is Read with every failure treated as an empty map
func (s *PositionStore) Load() Positions {
	p, err := s.Read()
	if err != nil {
		if !errors.Is(err, ErrNoPositions) {
			s.log.Debug().Err(err).Msg("discarding stored positions")
		}
		return Positions{}
	}
	return p
}

// Write replaces the stored document; failures are logged and dropped
func (s *PositionStore) Write(p Positions) {
	raw, err := s.codec.Encode(p)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode positions")
		return
	}
	if err := s.kv.Set(kvstore.NamespaceLocal, s.key, raw); err != nil {
		s.log.Debug().Err(err).Msg("write positions")
	}
}

// Merge overlays update onto the latest stored map in one write and returns the result
func (s *PositionStore) Merge(update Positions) Positions {
	merged := s.Load()
	for k, v := range update {
		merged[k] = v.Clamped()
	}
	s.Write(merged)
	return merged
}

// Remove deletes one key if present
func (s *PositionStore) Remove(key string) {
	p := s.Load()
	if _, ok := p[key]; !ok {
		return
	}
	delete(p, key)
	s.Write(p)
}

// Cleanup drops every stored key not in valid and reports whether anything was removed
func (s *PositionStore) Cleanup(valid []string) bool {
	p, err := s.Read()
	if err != nil {
		return false
	}
	keep := make(map[string]struct{}, len(valid))
	for _, k := range valid {
		keep[k] = struct{}{}
	}
	changed := false
	for k := range p {
		if _, ok := keep[k]; !ok {
			delete(p, k)
			changed = true
		}
	}
	if changed {
		s.Write(p)
	}
	return changed
}
