package physics

// Collidables is a set of world boxes that can be tested against.
// ForEachBox calls fn for every box until fn returns true.
type Collidables interface {
	ForEachBox(fn func(box AABB) (stop bool))
}

// Check reports whether ship intersects any box in set. It stops at the
// first hit and never mutates set.
func Check(ship AABB, set Collidables) bool {
	hit := false
	set.ForEachBox(func(box AABB) bool {
		if ship.Intersects(box) {
			hit = true
		}
		return hit
	})
	return hit
}

// Boxes is a plain slice of boxes usable as Collidables.
type Boxes []AABB

// ForEachBox implements Collidables.
func (bs Boxes) ForEachBox(fn func(box AABB) bool) {
	for _, b := range bs {
		if fn(b) {
			return
		}
	}
}
