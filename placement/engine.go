// Package placement computes and persists resolution-independent hotspot positions.
//
// Positions are normalized to a Frame (the margin-inset usable rectangle) so a
// layout survives viewport changes. Fresh positions come from a generator seeded
// by the hotspot key set, so the same set always produces the same layout.
package placement

import (
	"math"

	"github.com/lixenwraith/memory-space/vmath"
)

// Sampling and retry parameters
const (
	SampleLow  = 0.15
	SampleHigh = 0.85

	MaxTries      = 800
	firstRelaxAt  = 300
	secondRelaxAt = 500
)

// HotspotConfig describes one placeable item
type HotspotConfig struct {
	Key      string
	Label    string
	Metadata string
}

// Placement records how one missing hotspot was placed
type Placement struct {
	Key       string
	Position  NormalizedPosition
	Tries     int
	Threshold float64 // separation in force when the candidate was taken
	Exhausted bool    // budget ran out; Position is the last candidate
}

// PlaceResult is the full position map plus a record per newly placed key
type PlaceResult struct {
	Positions Positions
	Placed    []Placement
}

// Engine places hotspots deterministically
type Engine struct {
	Mode SeedMode
}

// Place fills positions for configs missing from existing
// Existing entries are copied unchanged; existing is not modified
func (e Engine) Place(configs []HotspotConfig, existing Positions, w, h, margin, minDist float64) PlaceResult {
	out := existing.Clone()
	res := PlaceResult{Positions: out}

	var missing []HotspotConfig
	var placed []vmath.Vec2
	frame := MarginFrame(w, h, margin)
	for _, c := range configs {
		if p, ok := out[c.Key]; ok {
			placed = append(placed, frame.Project(p))
			continue
		}
		missing = append(missing, c)
	}
	if len(missing) == 0 {
		return res
	}

	keys := make([]string, len(configs))
	for i, c := range configs {
		keys[i] = c.Key
	}
	rng := NewMulberry32(Seed(keys, e.Mode))

	farEnough := func(v vmath.Vec2, threshold float64) bool {
		for _, q := range placed {
			if v.Sub(q).Len() < threshold {
				return false
			}
		}
		return true
	}

	for _, c := range missing {
		threshold := minDist
		pl := Placement{Key: c.Key, Exhausted: true}
		for try := 1; try <= MaxTries; try++ {
			cand := NormalizedPosition{
				RX: SampleLow + rng.Float64()*(SampleHigh-SampleLow),
				RY: SampleLow + rng.Float64()*(SampleHigh-SampleLow),
			}
			pl.Position, pl.Tries, pl.Threshold = cand, try, threshold
			if farEnough(frame.Project(cand), threshold) {
				pl.Exhausted = false
				break
			}
			switch try {
			case firstRelaxAt:
				threshold = math.Max(160, math.Floor(minDist*0.75))
			case secondRelaxAt:
				threshold = math.Max(120, math.Floor(minDist*0.6))
			}
		}
		out[c.Key] = pl.Position
		placed = append(placed, frame.Project(pl.Position))
		res.Placed = append(res.Placed, pl)
	}
	return res
}

// Scatter gives every key missing from existing a uniform [0,1) position
// No separation is enforced; changed reports whether anything was added
func Scatter(keys []string, existing Positions, rng Random) (out Positions, changed bool) {
	out = existing.Clone()
	for _, k := range keys {
		if _, ok := out[k]; ok {
			continue
		}
		out[k] = NormalizedPosition{RX: rng.Float64(), RY: rng.Float64()}
		changed = true
	}
	return out, changed
}

// Resolve returns stored positions for configs, placing and persisting any missing ones
func (s *PositionStore) Resolve(e Engine, configs []HotspotConfig, w, h, margin, minDist float64) PlaceResult {
	res := e.Place(configs, s.Load(), w, h, margin, minDist)
	if len(res.Placed) > 0 {
		for _, pl := range res.Placed {
			if pl.Exhausted {
				s.log.Debug().Str("hotspot", pl.Key).Int("tries", pl.Tries).Msg("placement budget exhausted")
			}
		}
		s.Write(res.Positions)
	}
	return res
}

// ResolveScatter is the user-star variant: random fill for missing keys in a single write
func (s *PositionStore) ResolveScatter(keys []string, rng Random) Positions {
	out, changed := Scatter(keys, s.Load(), rng)
	if changed {
		s.Write(out)
	}
	return out
}
