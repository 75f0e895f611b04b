package object

import (
	"math/rand"

	"github.com/tomz197/slipstream/internal/physics"
)

// Registry owns every obstacle and boundary. Both collections are
// allocated once by SpawnAll and keep their length for the life of the
// process.
type Registry struct {
	geometry   *GeometryPool
	rng        *rand.Rand
	obstacles  []Obstacle
	boundaries []Boundary
}

// Compile-time check that Registry can be collision tested.
var _ physics.Collidables = (*Registry)(nil)

// NewRegistry creates an empty registry. Call SpawnAll before ticking.
func NewRegistry(geometry *GeometryPool, rng *rand.Rand) *Registry {
	return &Registry{geometry: geometry, rng: rng}
}

// SpawnAll fills the obstacle pool with count entries and places the
// boundary segments. Only the first call has an effect.
func (r *Registry) SpawnAll(count int) {
	if r.obstacles != nil {
		return
	}

	r.obstacles = make([]Obstacle, count)
	for i := range r.obstacles {
		r.obstacles[i].spawn(r.geometry, r.rng)
	}

	r.boundaries = make([]Boundary, 0, 2*BoundarySlots)
	for _, side := range []Side{SideLeft, SideRight} {
		for slot := 0; slot < BoundarySlots; slot++ {
			var b Boundary
			b.spawn(side, slot, r.geometry, r.rng)
			r.boundaries = append(r.boundaries, b)
		}
	}

	r.RefreshAABBs(true)
}

// Tick scrolls every entity by velocity and recycles the ones that passed
// the camera. playing selects the spawn band for recycled obstacles.
// Returns the number of recycled entities.
func (r *Registry) Tick(velocity, ramp float64, playing bool) int {
	recycled := 0
	for i := range r.obstacles {
		if r.obstacles[i].advance(velocity, ramp, playing, r.geometry, r.rng) {
			recycled++
		}
	}
	for i := range r.boundaries {
		if r.boundaries[i].advance(velocity) {
			recycled++
		}
	}
	return recycled
}

// ClearAround respawns every obstacle whose world box intersects box, the
// same way Tick recycles them, and refreshes the moved boxes. Returns the
// number of respawned obstacles.
func (r *Registry) ClearAround(box physics.AABB, playing bool) int {
	cleared := 0
	for i := range r.obstacles {
		o := &r.obstacles[i]
		if !o.WorldBox().Intersects(box) {
			continue
		}
		o.respawn(r.geometry, r.rng, playing)
		o.refresh()
		cleared++
	}
	return cleared
}

// RefreshAABBs recomputes world boxes after movement. Obstacle boxes are
// always refreshed; boundary boxes only matter for collisions and are
// skipped outside a run.
func (r *Registry) RefreshAABBs(playing bool) {
	for i := range r.obstacles {
		r.obstacles[i].refresh()
	}
	if !playing {
		return
	}
	for i := range r.boundaries {
		r.boundaries[i].refresh()
	}
}

// ForEachBox implements physics.Collidables over obstacles, then boundaries.
func (r *Registry) ForEachBox(fn func(box physics.AABB) bool) {
	for i := range r.obstacles {
		if fn(r.obstacles[i].box) {
			return
		}
	}
	for i := range r.boundaries {
		if fn(r.boundaries[i].box) {
			return
		}
	}
}

// Obstacles returns the live obstacle pool. Callers must treat it as
// read-only and must not keep it across ticks.
func (r *Registry) Obstacles() []Obstacle {
	return r.obstacles
}

// Boundaries returns the live boundary segments, read-only like Obstacles.
func (r *Registry) Boundaries() []Boundary {
	return r.boundaries
}

// Geometry returns the pool used for new dimensions.
func (r *Registry) Geometry() *GeometryPool {
	return r.geometry
}
