package physics

// AABB is an axis-aligned bounding box. Min is component-wise <= Max.
type AABB struct {
	Min, Max Vector3
}

// BoxFromSize returns a box of the given size centered on the origin.
func BoxFromSize(width, height, depth float64) AABB {
	half := Vector3{width / 2, height / 2, depth / 2}
	return AABB{Min: half.Scale(-1), Max: half}
}

// Size returns the extent of the box on each axis.
func (b AABB) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vector3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Translate returns the box moved by offset.
func (b AABB) Translate(offset Vector3) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Transform returns the world box of a local box rotated around Z by
// rotationZ and then moved to position. All eight corners are transformed
// and re-boxed, so a rotated box grows to keep enclosing its corners.
func (b AABB) Transform(position Vector3, rotationZ float64) AABB {
	if rotationZ == 0 {
		return b.Translate(position)
	}

	var out AABB
	for i := 0; i < 8; i++ {
		corner := Vector3{b.Min.X, b.Min.Y, b.Min.Z}
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		p := corner.RotateZ(rotationZ).Add(position)
		if i == 0 {
			out = AABB{Min: p, Max: p}
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// Intersects reports whether b and o overlap on all three axes.
// Bounds are inclusive: boxes that only touch are intersecting.
func (b AABB) Intersects(o AABB) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}
