package draw

import (
	"cmp"
	"slices"

	"github.com/tomz197/slipstream/internal/object"
	"github.com/tomz197/slipstream/internal/physics"
)

// Scene is one frame of the world as seen from the camera.
type Scene struct {
	Camera     physics.Vector3
	Ship       object.Ship
	Obstacles  []object.Obstacle
	Boundaries []object.Boundary
}

// minOpacity hides obstacles that have only just started fading in.
const minOpacity = 0.15

// Depth bands for obstacle shading, in world units from the eye.
const (
	nearBand = 250.0
	midBand  = 600.0
)

type sceneBox struct {
	box     physics.AABB
	wall    bool
	opacity float64
}

// DrawScene paints the corridor far to near and the ship on top.
func (c *Canvas) DrawScene(s Scene, fovDegrees float64) {
	proj := NewProjector(s.Camera, c.termWidth, c.subPixelHeight, fovDegrees)

	boxes := c.boxBuf[:0]
	for i := range s.Obstacles {
		o := &s.Obstacles[i]
		if o.Opacity < minOpacity {
			continue
		}
		boxes = append(boxes, sceneBox{box: o.WorldBox(), opacity: o.Opacity})
	}
	for i := range s.Boundaries {
		boxes = append(boxes, sceneBox{box: s.Boundaries[i].WorldBox(), wall: true, opacity: 1})
	}
	c.boxBuf = boxes

	slices.SortFunc(boxes, func(a, b sceneBox) int {
		return cmp.Compare(a.box.Max.Z, b.box.Max.Z)
	})
	for _, b := range boxes {
		c.drawBox(proj, b)
	}
	c.drawShip(proj, s.Ship)
}

// drawBox fills the face of the box toward the eye and the side face
// visible from the eye's X, clipping the box at the near plane.
func (c *Canvas) drawBox(p Projector, b sceneBox) {
	box := b.box
	nearZ := min(box.Max.Z, p.Eye.Z-NearPlane)
	if box.Min.Z >= nearZ {
		return
	}

	front, side := depthTone(p.Depth(nearZ), b.opacity), ToneSide
	if b.wall {
		front, side = ToneWall, ToneWallSide
	}

	sideX, hasSide := 0.0, false
	switch {
	case box.Max.X < p.Eye.X:
		sideX, hasSide = box.Max.X, true
	case box.Min.X > p.Eye.X:
		sideX, hasSide = box.Min.X, true
	}
	if hasSide {
		c.fillProjected(p, side,
			physics.Vec3(sideX, box.Min.Y, nearZ),
			physics.Vec3(sideX, box.Max.Y, nearZ),
			physics.Vec3(sideX, box.Max.Y, box.Min.Z),
			physics.Vec3(sideX, box.Min.Y, box.Min.Z),
		)
	}

	lo, okLo := p.Project(physics.Vec3(box.Min.X, box.Min.Y, nearZ))
	hi, okHi := p.Project(physics.Vec3(box.Max.X, box.Max.Y, nearZ))
	if okLo && okHi {
		c.FillRect(lo, hi, front)
	}
}

// depthTone shades an obstacle face by distance and fade-in.
func depthTone(depth, opacity float64) Tone {
	switch {
	case opacity < 0.5 || depth > midBand:
		return ToneFar
	case depth > nearBand:
		return ToneMid
	default:
		return ToneNear
	}
}

// shipOutline is the hull seen from behind, in model space.
var shipOutline = []physics.Vector3{
	{X: object.ShipHull.Min.X, Y: object.ShipHull.Min.Y},
	{X: object.ShipHull.Max.X, Y: object.ShipHull.Min.Y},
	{X: object.ShipHull.Max.X, Y: -0.3},
	{X: (object.ShipHull.Min.X + object.ShipHull.Max.X) / 2, Y: object.ShipHull.Max.Y},
	{X: object.ShipHull.Min.X, Y: -0.3},
}

func (c *Canvas) drawShip(p Projector, ship object.Ship) {
	tone := ToneShip
	if ship.Hit {
		tone = ToneHit
	}

	rear := ship.Position.Z + object.ShipHull.Max.Z
	corners := c.cornerBuf[:0]
	for _, v := range shipOutline {
		v = v.RotateZ(ship.RotationZ)
		corners = append(corners, physics.Vec3(ship.Position.X+v.X, ship.Position.Y+v.Y, rear))
	}
	c.cornerBuf = corners
	c.fillProjected(p, tone, corners...)
}

// fillProjected projects a planar polygon and fills it. Polygons with a
// vertex behind the near plane are skipped.
func (c *Canvas) fillProjected(p Projector, t Tone, corners ...physics.Vector3) {
	pts := c.pointBuf[:0]
	for _, v := range corners {
		pt, ok := p.Project(v)
		if !ok {
			return
		}
		pts = append(pts, pt)
	}
	c.pointBuf = pts
	c.FillPolygon(pts, t)
}
