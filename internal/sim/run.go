package sim

import "github.com/google/uuid"

// Start begins a new run from Idle or Collided. It returns false and does
// nothing if a run is already in progress.
func (s *Simulation) Start() bool {
	if s.state.Phase == PhasePlaying {
		return false
	}

	s.ship.Reset()
	s.camera.Reset()
	s.state.Phase = PhasePlaying
	s.state.Velocity = s.opts.Velocity
	s.state.VelocityRamp = s.opts.VelocityRamp

	// Anything left on the start pose, or within the first tick's scroll,
	// would end the run before it begins. A crash leaves the culprit there.
	zone := s.ship.AABB()
	zone.Min.Z -= s.state.Velocity * s.state.VelocityRamp
	if n := s.registry.ClearAround(zone, true); n > 0 {
		s.log.Debug("cleared start pose", "obstacles", n)
	}
	s.state.Elapsed = 0
	s.runID = uuid.NewString()
	s.runTicks = 0
	s.timer.Start()

	s.log.Info("run started", "run_id", s.runID, "high_score", s.state.HighScore)
	s.events.Emit(Event{
		Type:      EventRunStarted,
		RunID:     s.runID,
		HighScore: s.state.HighScore,
	})
	s.publish()
	return true
}

// Reset returns from a crash to the attract screen. The high score is
// kept. It returns false outside PhaseCollided.
func (s *Simulation) Reset() bool {
	if s.state.Phase != PhaseCollided {
		return false
	}

	s.ship.Reset()
	s.camera.Reset()
	s.state.Phase = PhaseIdle
	s.state.Velocity = s.opts.Velocity
	s.state.VelocityRamp = 1

	s.log.Debug("run reset", "run_id", s.runID)
	s.publish()
	return true
}

// collide ends the current run. Outside PhasePlaying it is a no-op.
func (s *Simulation) collide() bool {
	if s.state.Phase != PhasePlaying {
		return false
	}

	s.timer.Stop()
	s.ship.Hit = true
	s.state.Phase = PhaseCollided
	s.state.Velocity = 0
	s.state.VelocityRamp = 1
	s.state.Elapsed = s.timer.Elapsed()

	score := roundScore(s.state.Elapsed)
	if score > s.state.HighScore {
		s.state.HighScore = score
	}

	s.log.Info("run ended",
		"run_id", s.runID,
		"score", score,
		"high_score", s.state.HighScore,
		"ticks", s.runTicks,
	)
	e := Event{
		RunID:     s.runID,
		Score:     score,
		HighScore: s.state.HighScore,
		Ticks:     s.runTicks,
	}
	e.Type = EventCollision
	s.events.Emit(e)
	e.Type = EventRunEnded
	s.events.Emit(e)
	return true
}
