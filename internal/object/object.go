// Package object holds the entities of the corridor: pooled obstacles and
// boundaries, the player's ship and the chase camera.
package object

import (
	"math/rand"

	"github.com/tomz197/slipstream/internal/physics"
)

// Corridor layout, in world units. The ship sits near Z=0 and geometry
// scrolls toward +Z.
const (
	GroundY  = -5.0  // Y of every obstacle and boundary center
	RecycleZ = 200.0 // entities past this Z are recycled behind the field

	SpawnNearZ   = -100.0  // initial obstacle Z range, near edge
	SpawnFarZ    = -1100.0 // far edge
	RespawnNearZ = -900.0  // recycled obstacle Z range, near edge
	RespawnFarZ  = -1000.0 // far edge

	FadeStartZ = -900.0 // obstacles fade in once closer than this
	FadeRate   = 0.004  // opacity gained per tick, scaled by the velocity ramp

	LaneHalfWidth     = 110.0 // obstacles never spawn beyond ±LaneHalfWidth
	AttractSpawnGap   = 20.0  // half-width kept clear at startup
	AttractRespawnGap = 40.0  // half-width kept clear when recycling outside a run
)

// Entity is a piece of pooled, scrolling geometry paired with its world box.
type Entity struct {
	Position   physics.Vector3
	Dimensions Dimensions
	Opacity    float64 // 0 invisible, 1 solid

	local physics.AABB
	box   physics.AABB
}

// AABB returns the world box computed by the last refresh.
func (e *Entity) AABB() physics.AABB {
	return e.box
}

// WorldBox is the box at the current position, refreshed or not.
func (e *Entity) WorldBox() physics.AABB {
	return e.local.Translate(e.Position)
}

func (e *Entity) resize(d Dimensions) {
	e.Dimensions = d
	e.local = physics.BoxFromSize(d.Width, d.Height, d.Depth)
}

// refresh recomputes the world box. Scenery never rotates, so this is a
// translation of the local box.
func (e *Entity) refresh() {
	e.box = e.local.Translate(e.Position)
}

// randInt returns a uniform integer in [lo, hi] as a float.
func randInt(rng *rand.Rand, lo, hi int) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return float64(lo + rng.Intn(hi-lo+1))
}

// randRange returns a uniform float in [lo, hi).
func randRange(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// laneX picks a lateral position. Outside a run a band of gap around the
// center is kept clear so the attract screen has an open lane.
func laneX(rng *rand.Rand, gap float64, playing bool) float64 {
	if playing {
		return randInt(rng, -LaneHalfWidth, LaneHalfWidth)
	}
	x := randInt(rng, int(gap), LaneHalfWidth)
	if rng.Intn(2) == 0 {
		return -x
	}
	return x
}
