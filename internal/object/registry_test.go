package object

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/slipstream/internal/physics"
)

func newTestRegistry(t *testing.T, seed int64, count int) *Registry {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	r := NewRegistry(NewGeometryPool(PolicyTable, rng), rng)
	r.SpawnAll(count)
	return r
}

func TestSpawnAll(t *testing.T) {
	r := newTestRegistry(t, 1, 15)
	require.Len(t, r.Obstacles(), 15)
	require.Len(t, r.Boundaries(), 2*BoundarySlots)

	for _, o := range r.Obstacles() {
		assert.Equal(t, GroundY, o.Position.Y)
		assert.GreaterOrEqual(t, o.Position.Z, SpawnFarZ)
		assert.LessOrEqual(t, o.Position.Z, SpawnNearZ)
		assert.GreaterOrEqual(t, math.Abs(o.Position.X), AttractSpawnGap)
		assert.LessOrEqual(t, math.Abs(o.Position.X), LaneHalfWidth)
		assert.Equal(t, 1.0, o.Opacity)
	}

	slots := map[Side][]float64{}
	for _, b := range r.Boundaries() {
		x := math.Abs(b.Position.X)
		assert.GreaterOrEqual(t, x, float64(BoundaryInnerX))
		assert.LessOrEqual(t, x, float64(BoundaryOuterX))
		assert.Equal(t, b.Side == SideLeft, b.Position.X < 0)
		assert.Equal(t, -float64(b.Slot)*BoundaryDepth, b.Position.Z)
		slots[b.Side] = append(slots[b.Side], b.Position.Z)
	}
	assert.Equal(t, []float64{0, -400, -800, -1200}, slots[SideLeft])
	assert.Equal(t, []float64{0, -400, -800, -1200}, slots[SideRight])
}

func TestSpawnAllOnlyOnce(t *testing.T) {
	r := newTestRegistry(t, 1, 15)
	before := append([]Obstacle(nil), r.Obstacles()...)

	r.SpawnAll(40)
	assert.Len(t, r.Obstacles(), 15)
	assert.Equal(t, before, r.Obstacles())
}

func TestNoOverlapAtSpawn(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		r := newTestRegistry(t, seed, 15)
		ship := NewShip()
		assert.False(t, physics.Check(ship.AABB(), r), "seed %d", seed)
	}
}

func TestTickKeepsPoolSize(t *testing.T) {
	r := newTestRegistry(t, 7, 15)
	velocity, ramp := 1.0, 1.0003

	for tick := 0; tick < 20000; tick++ {
		velocity *= ramp
		r.Tick(velocity, ramp, tick%2 == 0)
		r.RefreshAABBs(true)
		require.Len(t, r.Obstacles(), 15)
		require.Len(t, r.Boundaries(), 2*BoundarySlots)
	}
	for _, o := range r.Obstacles() {
		assert.LessOrEqual(t, o.Position.Z, RecycleZ)
	}
}

func TestTickRecyclesObstacle(t *testing.T) {
	r := newTestRegistry(t, 3, 1)
	o := &r.Obstacles()[0]
	o.Position.Z = RecycleZ - 0.5
	o.Position.Y = 42

	recycled := r.Tick(1, 1, false)
	require.Equal(t, 1, recycled)

	assert.Equal(t, GroundY, o.Position.Y)
	assert.GreaterOrEqual(t, o.Position.Z, RespawnFarZ)
	assert.LessOrEqual(t, o.Position.Z, RespawnNearZ)
	assert.GreaterOrEqual(t, math.Abs(o.Position.X), AttractRespawnGap)
	assert.Equal(t, 0.0, o.Opacity)
	assert.Contains(t, r.Geometry().Table(), o.Dimensions)
}

func TestClearAround(t *testing.T) {
	r := newTestRegistry(t, 4, 3)
	ship := NewShip()
	obstacles := r.Obstacles()
	obstacles[0].Position = physics.Vector3{X: ship.Position.X, Y: GroundY, Z: ship.Position.Z}
	obstacles[1].Position = physics.Vector3{X: ship.Position.X + 2*LaneHalfWidth, Y: GroundY, Z: ship.Position.Z}
	obstacles[2].Position = physics.Vector3{X: ship.Position.X, Y: GroundY, Z: SpawnFarZ}
	kept := []physics.Vector3{obstacles[1].Position, obstacles[2].Position}

	require.Equal(t, 1, r.ClearAround(ship.AABB(), true))

	o := obstacles[0]
	assert.False(t, o.AABB().Intersects(ship.AABB()))
	assert.GreaterOrEqual(t, o.Position.Z, RespawnFarZ)
	assert.LessOrEqual(t, o.Position.Z, RespawnNearZ)
	assert.Equal(t, 0.0, o.Opacity)
	assert.Equal(t, kept, []physics.Vector3{obstacles[1].Position, obstacles[2].Position})
	assert.Zero(t, r.ClearAround(ship.AABB(), true))
}

func TestTickPlayingUsesFullLane(t *testing.T) {
	r := newTestRegistry(t, 5, 1)
	o := &r.Obstacles()[0]

	inner := false
	for i := 0; i < 300; i++ {
		o.Position.Z = RecycleZ
		r.Tick(1, 1, true)
		assert.LessOrEqual(t, math.Abs(o.Position.X), LaneHalfWidth)
		if math.Abs(o.Position.X) < AttractRespawnGap {
			inner = true
		}
	}
	assert.True(t, inner, "playing recycle never used the center of the lane")
}

func TestTickFadeIn(t *testing.T) {
	r := newTestRegistry(t, 9, 1)
	o := &r.Obstacles()[0]
	o.Opacity = 0
	o.Position.Z = FadeStartZ - 10

	r.Tick(1, 1, false)
	assert.Equal(t, 0.0, o.Opacity, "no fade before the fade line")

	o.Position.Z = FadeStartZ
	r.Tick(1, 2, false)
	assert.InDelta(t, 2*FadeRate, o.Opacity, 1e-12)

	for i := 0; i < 1000; i++ {
		o.Position.Z = FadeStartZ
		r.Tick(1, 1, false)
	}
	assert.Equal(t, 1.0, o.Opacity)
}

func TestBoundaryRecycleKeepsStagger(t *testing.T) {
	r := newTestRegistry(t, 11, 0)
	dims := make([]Dimensions, len(r.Boundaries()))
	for i, b := range r.Boundaries() {
		dims[i] = b.Dimensions
	}

	for tick := 0; tick < 5000; tick++ {
		r.Tick(3.7, 1, true)
	}

	for side := SideLeft; side <= SideRight; side++ {
		var zs []float64
		for _, b := range r.Boundaries() {
			if b.Side == side {
				zs = append(zs, b.Position.Z)
			}
		}
		require.Len(t, zs, BoundarySlots)
		for i := 1; i < len(zs); i++ {
			gap := math.Mod(zs[i-1]-zs[i]+boundarySpan, boundarySpan)
			assert.InDelta(t, BoundaryDepth, gap, 1e-6)
		}
	}
	for i, b := range r.Boundaries() {
		assert.Equal(t, dims[i], b.Dimensions)
		assert.LessOrEqual(t, b.Position.Z, RecycleZ)
	}
}

func TestRefreshAABBsSkipsBoundariesOutsideRun(t *testing.T) {
	r := newTestRegistry(t, 13, 2)
	r.Tick(10, 1, false)

	r.RefreshAABBs(false)
	for _, o := range r.Obstacles() {
		assert.Equal(t, o.Position, o.AABB().Center())
	}
	for _, b := range r.Boundaries() {
		assert.NotEqual(t, b.Position, b.AABB().Center())
	}

	r.RefreshAABBs(true)
	for _, b := range r.Boundaries() {
		assert.Equal(t, b.Position, b.AABB().Center())
	}
}

func TestForEachBoxVisitsEverything(t *testing.T) {
	r := newTestRegistry(t, 17, 15)
	n := 0
	r.ForEachBox(func(physics.AABB) bool {
		n++
		return false
	})
	assert.Equal(t, 15+2*BoundarySlots, n)
}
