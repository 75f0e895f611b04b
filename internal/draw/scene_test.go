package draw

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tomz197/slipstream/internal/object"
)

func testScene() Scene {
	rng := rand.New(rand.NewSource(1))
	reg := object.NewRegistry(object.NewGeometryPool(object.PolicyTable, rng), rng)
	reg.SpawnAll(10)
	return Scene{
		Camera:     object.CameraStart,
		Ship:       *object.NewShip(),
		Obstacles:  reg.Obstacles(),
		Boundaries: reg.Boundaries(),
	}
}

func TestDrawSceneShowsShipAndWalls(t *testing.T) {
	c := NewCanvas(80, 24)
	c.DrawScene(testScene(), 60)

	assert.Positive(t, countTone(c, ToneShip))
	assert.Zero(t, countTone(c, ToneHit))
	assert.Positive(t, countTone(c, ToneWall)+countTone(c, ToneWallSide))
}

func TestDrawSceneHitShipIsRed(t *testing.T) {
	s := testScene()
	s.Ship.Hit = true

	c := NewCanvas(80, 24)
	c.DrawScene(s, 60)

	assert.Positive(t, countTone(c, ToneHit))
	assert.Zero(t, countTone(c, ToneShip))
}

func TestDrawSceneSkipsFadingObstacles(t *testing.T) {
	s := testScene()
	s.Boundaries = nil
	s.Ship.Position.Y = 1000 // out of view
	for i := range s.Obstacles {
		s.Obstacles[i].Opacity = 0
	}

	c := NewCanvas(80, 24)
	c.DrawScene(s, 60)
	assert.Equal(t, c.Width()*c.Height(), countTone(c, ToneNone))
}

func TestDepthTone(t *testing.T) {
	assert.Equal(t, ToneNear, depthTone(100, 1))
	assert.Equal(t, ToneMid, depthTone(400, 1))
	assert.Equal(t, ToneFar, depthTone(800, 1))
	assert.Equal(t, ToneFar, depthTone(100, 0.3))
}
