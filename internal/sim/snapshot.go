package sim

import (
	"slices"

	"github.com/tomz197/slipstream/internal/object"
)

// Snapshot is a copy of everything a renderer needs for one frame. It is
// never modified after publication.
type Snapshot struct {
	Tick       uint64
	RunID      string
	State      RunState
	Ship       object.Ship
	Camera     object.Camera
	Obstacles  []object.Obstacle
	Boundaries []object.Boundary
}

// publish copies the current state and makes it the latest snapshot.
func (s *Simulation) publish() {
	snap := &Snapshot{
		Tick:       s.tick,
		RunID:      s.runID,
		State:      s.state,
		Ship:       *s.ship,
		Camera:     *s.camera,
		Obstacles:  slices.Clone(s.registry.Obstacles()),
		Boundaries: slices.Clone(s.registry.Boundaries()),
	}
	s.snapshot.Store(snap)
}
