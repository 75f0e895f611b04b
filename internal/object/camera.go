package object

import (
	"github.com/tomz197/slipstream/internal/input"
	"github.com/tomz197/slipstream/internal/physics"
)

// Camera follow constants, per tick.
const (
	CameraAcceleration = 0.8
	CameraReadjust     = 0.08
	CameraMaxLead      = 100.0
)

// CameraStart is the camera's resting position behind and above the ship.
var CameraStart = physics.Vector3{X: 1, Y: 3, Z: 10}

// Camera is the chase camera. Only its X ever changes.
type Camera struct {
	Position physics.Vector3
}

// NewCamera creates a camera at rest.
func NewCamera() *Camera {
	return &Camera{Position: CameraStart}
}

// Reset puts the camera back at rest.
func (c *Camera) Reset() {
	c.Position = CameraStart
}

// Lead is the camera's lateral offset from its resting X.
func (c *Camera) Lead() float64 {
	return c.Position.X - CameraStart.X
}

// Follow swings the camera ahead of the ship toward the side being steered
// into, then lets it settle back over the ship once the key is released.
func (c *Camera) Follow(in input.Intent, shipX float64) {
	lead := c.Lead()

	if in.Left && lead > -CameraMaxLead {
		lead -= CameraAcceleration
	}
	if in.Right && lead < CameraMaxLead {
		lead += CameraAcceleration
	}
	if !in.Left && lead > shipX {
		lead = physics.Approach(lead, shipX, CameraReadjust)
	}
	if !in.Right && lead < shipX {
		lead = physics.Approach(lead, shipX, CameraReadjust)
	}

	c.Position.X = CameraStart.X + physics.Clamp(lead, -CameraMaxLead, CameraMaxLead)
}
