package object

import (
	"math/rand"

	"github.com/tomz197/slipstream/internal/physics"
)

// Side is the lane edge a boundary belongs to.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Boundary slots per side and their lateral range (absolute X of the center).
const (
	BoundarySlots  = 4
	BoundaryInnerX = 130
	BoundaryOuterX = 140

	boundarySpan = BoundarySlots * BoundaryDepth
)

// Boundary is a wall segment along one side of the corridor. Its
// dimensions are chosen once; recycling only moves it.
type Boundary struct {
	Entity
	Side Side
	Slot int // 0 is the nearest segment at startup
}

func (b *Boundary) spawn(side Side, slot int, geo *GeometryPool, rng *rand.Rand) {
	b.Side = side
	b.Slot = slot
	b.resize(geo.Generate(KindBoundary))

	x := randInt(rng, BoundaryInnerX, BoundaryOuterX)
	if side == SideLeft {
		x = -x
	}
	b.Position = physics.Vector3{X: x, Y: GroundY, Z: -float64(slot) * BoundaryDepth}
	b.Opacity = 1
}

// advance scrolls the segment and moves it back by the length of the whole
// wall once it has passed the camera, keeping the segments end to end.
func (b *Boundary) advance(velocity float64) bool {
	b.Position.Z += velocity
	recycled := false
	for b.Position.Z > RecycleZ {
		b.Position.Z -= boundarySpan
		recycled = true
	}
	return recycled
}
