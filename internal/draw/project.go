package draw

import (
	"math"

	"github.com/tomz197/slipstream/internal/physics"
)

// NearPlane is the closest distance in front of the eye that is drawn.
const NearPlane = 1.0

// Projector maps world points onto canvas pixels for an eye looking down
// -Z with +Y up.
type Projector struct {
	Eye    physics.Vector3
	focal  float64
	center Point
}

// NewProjector sets up a projection for a canvas of width x height pixels
// with the given vertical field of view in degrees.
func NewProjector(eye physics.Vector3, width, height int, fovDegrees float64) Projector {
	half := fovDegrees * math.Pi / 360
	return Projector{
		Eye:    eye,
		focal:  float64(height) / 2 / math.Tan(half),
		center: Point{X: float64(width) / 2, Y: float64(height) / 2},
	}
}

// Depth is the distance of z in front of the eye.
func (p Projector) Depth(z float64) float64 {
	return p.Eye.Z - z
}

// Project returns the pixel for v. ok is false if v is closer than the
// near plane or behind the eye.
func (p Projector) Project(v physics.Vector3) (pt Point, ok bool) {
	d := p.Depth(v.Z)
	if d < NearPlane {
		return Point{}, false
	}
	rel := v.Sub(p.Eye)
	return Point{
		X: p.center.X + rel.X/d*p.focal,
		Y: p.center.Y - rel.Y/d*p.focal,
	}, true
}
