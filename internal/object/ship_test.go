package object

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/slipstream/internal/input"
)

var (
	holdLeft  = input.Intent{Left: true}
	holdRight = input.Intent{Right: true}
	holdBoth  = input.Intent{Left: true, Right: true}
	noInput   = input.Intent{}
)

func TestShipReset(t *testing.T) {
	s := NewShip()
	for i := 0; i < 30; i++ {
		s.Update(holdLeft)
	}
	s.Hit = true
	require.NotEqual(t, ShipStart, s.Position)

	s.Reset()
	assert.Equal(t, ShipStart, s.Position)
	assert.Zero(t, s.RotationZ)
	assert.Zero(t, s.TurnSpeed)
	assert.True(t, s.Alive())
	assert.Equal(t, ShipHull.Translate(ShipStart), s.AABB())
}

func TestShipTurnBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	intents := []input.Intent{holdLeft, holdRight, holdBoth, noInput}
	s := NewShip()

	for i := 0; i < 2000; i++ {
		// Hold each intent for a random stretch so the caps are reached.
		in := intents[rng.Intn(len(intents))]
		for n := rng.Intn(80); n >= 0; n-- {
			s.Update(in)
			require.LessOrEqual(t, s.TurnSpeed, ShipMaxTurnSpeed)
			require.GreaterOrEqual(t, s.TurnSpeed, -ShipMaxTurnSpeed)
			require.LessOrEqual(t, s.RotationZ, ShipMaxTurnSpeed)
			require.GreaterOrEqual(t, s.RotationZ, -ShipMaxTurnSpeed)
		}
		if i%100 == 0 {
			s.Reset()
		}
	}
}

func TestShipDeadzoneSnap(t *testing.T) {
	s := NewShip()
	s.TurnSpeed = 0.015

	s.Update(noInput)
	assert.Equal(t, 0.0, s.TurnSpeed)

	s.TurnSpeed = -0.015
	s.Update(noInput)
	assert.Equal(t, 0.0, s.TurnSpeed)
}

func TestShipDecaysWithoutCrossingZero(t *testing.T) {
	s := NewShip()
	for i := 0; i < 60; i++ {
		s.Update(holdRight)
	}
	require.Equal(t, ShipMaxTurnSpeed, s.TurnSpeed)
	require.Equal(t, -ShipMaxTurnSpeed, s.RotationZ)

	prevSpeed, prevRot := s.TurnSpeed, s.RotationZ
	for i := 0; i < 100; i++ {
		s.Update(noInput)
		assert.GreaterOrEqual(t, s.TurnSpeed, 0.0)
		assert.LessOrEqual(t, s.TurnSpeed, prevSpeed)
		assert.LessOrEqual(t, s.RotationZ, 0.0)
		assert.GreaterOrEqual(t, s.RotationZ, prevRot)
		prevSpeed, prevRot = s.TurnSpeed, s.RotationZ
	}
	assert.Equal(t, 0.0, s.TurnSpeed)
	assert.Equal(t, 0.0, s.RotationZ)
}

func TestShipHoldRight(t *testing.T) {
	s := NewShip()
	prevX := s.Position.X
	capped := false

	for tick := 1; tick <= 50; tick++ {
		speedBefore := s.TurnSpeed
		s.Update(holdRight)

		assert.Greater(t, s.Position.X, prevX, "tick %d", tick)
		if speedBefore < ShipMaxTurnSpeed {
			assert.Greater(t, s.TurnSpeed, speedBefore, "tick %d", tick)
		} else {
			capped = true
			assert.Equal(t, ShipMaxTurnSpeed, s.TurnSpeed, "tick %d", tick)
			assert.InDelta(t, ShipMaxTurnSpeed, s.Position.X-prevX, 1e-9, "tick %d", tick)
		}
		prevX = s.Position.X
	}
	assert.True(t, capped)
	assert.Equal(t, -ShipMaxTurnSpeed, s.RotationZ)
}

func TestShipHoldBothCancelsOut(t *testing.T) {
	s := NewShip()
	for i := 0; i < 30; i++ {
		s.Update(holdBoth)
	}
	assert.Zero(t, s.TurnSpeed)
	assert.Zero(t, s.RotationZ)
	assert.Equal(t, ShipStart.X, s.Position.X)
}

func TestShipAABBFollowsPose(t *testing.T) {
	s := NewShip()
	flat := s.AABB()

	for i := 0; i < 20; i++ {
		s.Update(holdLeft)
	}
	s.RefreshAABB()
	banked := s.AABB()

	assert.Less(t, banked.Min.X, flat.Min.X)
	assert.Greater(t, banked.Size().Y, flat.Size().Y)
	assert.Equal(t, flat.Min.Z, banked.Min.Z)
	assert.Equal(t, flat.Max.Z, banked.Max.Z)
}
