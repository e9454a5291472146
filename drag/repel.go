package drag

import (
	"github.com/lixenwraith/memory-space/vmath"
)

// DefaultCollisionRadius is the separation kept between hotspot centers during a drag
const DefaultCollisionRadius = 120

const (
	repelEpsilon  = 0.5
	maxRepelSteps = 16
)

// Repel pushes every point in others closer than radius to anchor directly away from it
// Each step moves a neighbor by half its remaining deficit, clamped to bounds; steps repeat
// until the neighbor is within repelEpsilon of radius, stops moving, or runs out of steps.
// others is updated in place and the keys that moved are returned in the order given.
func Repel(anchor vmath.Vec2, others map[string]vmath.Vec2, order []string, radius float64, bounds vmath.Rect) []string {
	var moved []string
	for _, key := range order {
		p, ok := others[key]
		if !ok {
			continue
		}
		start := p
		for step := 0; step < maxRepelSteps; step++ {
			if p.Sub(anchor).Len() >= radius-repelEpsilon {
				break
			}
			next := bounds.ClampPoint(p.Add(vmath.SeparationPush(anchor, p, radius)))
			if next == p {
				break
			}
			p = next
		}
		if p != start {
			others[key] = p
			moved = append(moved, key)
		}
	}
	return moved
}
