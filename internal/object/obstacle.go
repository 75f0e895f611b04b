package object

import (
	"math/rand"

	"github.com/tomz197/slipstream/internal/physics"
)

// Obstacle is a building in the corridor. It is recycled in place, never
// destroyed.
type Obstacle struct {
	Entity
}

// spawn places the obstacle somewhere in the field for the attract screen.
func (o *Obstacle) spawn(geo *GeometryPool, rng *rand.Rand) {
	o.resize(geo.Generate(KindObstacle))
	o.Position = physics.Vector3{
		X: laneX(rng, AttractSpawnGap, false),
		Y: GroundY,
		Z: randInt(rng, SpawnFarZ, SpawnNearZ),
	}
	o.Opacity = 1
}

// advance scrolls the obstacle and recycles it once it has passed the
// camera. Returns true if it was recycled.
func (o *Obstacle) advance(velocity, ramp float64, playing bool, geo *GeometryPool, rng *rand.Rand) bool {
	o.Position.Z += velocity

	recycled := false
	if o.Position.Z > RecycleZ {
		o.respawn(geo, rng, playing)
		recycled = true
	}

	if o.Opacity < 1 && o.Position.Z > FadeStartZ {
		o.Opacity = min(1, o.Opacity+FadeRate*ramp)
	}
	return recycled
}

// respawn moves the obstacle to the far band with fresh dimensions. It
// starts invisible and fades in as it approaches.
func (o *Obstacle) respawn(geo *GeometryPool, rng *rand.Rand, playing bool) {
	o.resize(geo.Generate(KindObstacle))
	o.Position = physics.Vector3{
		X: laneX(rng, AttractRespawnGap, playing),
		Y: GroundY,
		Z: randInt(rng, RespawnFarZ, RespawnNearZ),
	}
	o.Opacity = 0
}
