package object

import (
	"github.com/tomz197/slipstream/internal/input"
	"github.com/tomz197/slipstream/internal/physics"
)

// Steering constants, per tick.
const (
	ShipAcceleration  = 0.02
	ShipMaxTurnSpeed  = 0.8
	ShipForceFeedback = 0.04
	ShipDeadzone      = 0.01
)

// ShipStart is where the ship sits at the beginning of every run.
var ShipStart = physics.Vector3{X: 0, Y: 0, Z: 1}

// ShipHull bounds the extruded hull in model space, relative to Position.
var ShipHull = physics.AABB{
	Min: physics.Vector3{X: -1.5, Y: -1.5, Z: -1.2},
	Max: physics.Vector3{X: 3.5, Y: 1.6, Z: 4.2},
}

// Ship is the player's vehicle. It only moves sideways; the world scrolls
// past it.
type Ship struct {
	Position  physics.Vector3
	RotationZ float64 // bank angle in radians, positive when steering left
	TurnSpeed float64 // lateral units per tick, negative to the left
	Hit       bool

	box physics.AABB
}

// NewShip creates a ship in its starting pose.
func NewShip() *Ship {
	s := &Ship{}
	s.Reset()
	return s
}

// Reset restores the starting pose and clears the hit marker.
func (s *Ship) Reset() {
	s.Position = ShipStart
	s.RotationZ = 0
	s.TurnSpeed = 0
	s.Hit = false
	s.RefreshAABB()
}

// Update applies one tick of steering. Holding a direction ramps the turn
// speed up to the cap; releasing it lets the ship drift back to neutral.
func (s *Ship) Update(in input.Intent) {
	if in.Left {
		s.TurnSpeed = physics.Approach(s.TurnSpeed, -ShipMaxTurnSpeed, ShipAcceleration)
		s.RotationZ = physics.Approach(s.RotationZ, ShipMaxTurnSpeed, ShipAcceleration)
	}
	if in.Right {
		s.TurnSpeed = physics.Approach(s.TurnSpeed, ShipMaxTurnSpeed, ShipAcceleration)
		s.RotationZ = physics.Approach(s.RotationZ, -ShipMaxTurnSpeed, ShipAcceleration)
	}
	if !in.Left {
		if s.TurnSpeed < 0 {
			s.TurnSpeed = physics.Approach(s.TurnSpeed, 0, ShipForceFeedback)
		}
		if s.RotationZ > 0 {
			s.RotationZ = physics.Approach(s.RotationZ, 0, ShipAcceleration)
		}
	}
	if !in.Right {
		if s.TurnSpeed > 0 {
			s.TurnSpeed = physics.Approach(s.TurnSpeed, 0, ShipForceFeedback)
		}
		if s.RotationZ < 0 {
			s.RotationZ = physics.Approach(s.RotationZ, 0, ShipAcceleration)
		}
	}

	s.TurnSpeed = physics.Clamp(s.TurnSpeed, -ShipMaxTurnSpeed, ShipMaxTurnSpeed)
	s.RotationZ = physics.Clamp(s.RotationZ, -ShipMaxTurnSpeed, ShipMaxTurnSpeed)
	if s.TurnSpeed > -ShipDeadzone && s.TurnSpeed < ShipDeadzone {
		s.TurnSpeed = 0
	}

	s.Position.X += s.TurnSpeed
}

// RefreshAABB recomputes the world box from the current pose, including
// the bank angle.
func (s *Ship) RefreshAABB() {
	s.box = ShipHull.Transform(s.Position, s.RotationZ)
}

// AABB returns the world box from the last refresh.
func (s *Ship) AABB() physics.AABB {
	return s.box
}

// Alive reports whether the ship has not crashed in the current run.
func (s *Ship) Alive() bool {
	return !s.Hit
}
