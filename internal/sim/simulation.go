package sim

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"

	"github.com/tomz197/slipstream/internal/config"
	"github.com/tomz197/slipstream/internal/input"
	"github.com/tomz197/slipstream/internal/logging"
	"github.com/tomz197/slipstream/internal/object"
	"github.com/tomz197/slipstream/internal/physics"
)

// Options configures a Simulation.
type Options struct {
	Seed          int64 // 0 seeds from the clock
	Obstacles     int
	Policy        object.Policy
	Velocity      float64 // starting scroll speed, also used on the attract screen
	VelocityRamp  float64
	ScoreInterval time.Duration // 0 disables the timer goroutine
	ScoreStep     float64
	Logger        *log.Logger
}

// OptionsFromConfig maps the simulation config section to Options.
func OptionsFromConfig(cfg config.SimConfig, logger *log.Logger) (Options, error) {
	policy, err := object.ParsePolicy(cfg.GeometryPolicy)
	if err != nil {
		return Options{}, fmt.Errorf("sim options: %w", err)
	}
	return Options{
		Seed:          SeedFor(cfg.Seed, cfg.SeedPhrase),
		Obstacles:     cfg.Obstacles,
		Policy:        policy,
		Velocity:      cfg.Velocity,
		VelocityRamp:  cfg.VelocityRamp,
		ScoreInterval: cfg.ScoreInterval,
		ScoreStep:     cfg.ScoreStep,
		Logger:        logger,
	}, nil
}

// SeedFor resolves the rng seed: an explicit seed wins, otherwise a
// non-empty phrase is hashed so players can share a corridor by name.
func SeedFor(seed int64, phrase string) int64 {
	if seed != 0 || phrase == "" {
		return seed
	}
	h := int64(xxhash.Sum64String(phrase) >> 1)
	if h == 0 {
		h = 1
	}
	return h
}

// Simulation owns all mutable game state. Tick, Start and Reset must be
// called from a single goroutine; Snapshot may be called from any, and the
// snapshots it returns are safe to keep.
type Simulation struct {
	opts   Options
	log    *log.Logger
	intent input.IntentSource
	events *EventBus
	timer  *ElapsedTimer

	registry *object.Registry
	ship     *object.Ship
	camera   *object.Camera
	state    RunState

	runID    string
	tick     uint64
	runTicks uint64

	snapshot atomic.Pointer[Snapshot]
}

// New creates a simulation on the attract screen with the corridor
// already populated. intent is polled once per tick.
func New(opts Options, intent input.IntentSource) *Simulation {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &Simulation{
		opts:     opts,
		log:      logger,
		intent:   intent,
		events:   NewEventBus(),
		timer:    NewElapsedTimer(opts.ScoreInterval, opts.ScoreStep),
		registry: object.NewRegistry(object.NewGeometryPool(opts.Policy, rng), rng),
		ship:     object.NewShip(),
		camera:   object.NewCamera(),
		state: RunState{
			Phase:        PhaseIdle,
			Velocity:     opts.Velocity,
			VelocityRamp: 1,
		},
	}
	s.registry.SpawnAll(opts.Obstacles)
	s.publish()

	s.log.Debug("simulation ready", "seed", seed, "obstacles", opts.Obstacles, "policy", opts.Policy)
	return s
}

// Events returns the bus events are emitted on.
func (s *Simulation) Events() *EventBus {
	return s.events
}

// Timer returns the score timer.
func (s *Simulation) Timer() *ElapsedTimer {
	return s.timer
}

// Phase returns the current phase.
func (s *Simulation) Phase() Phase {
	return s.state.Phase
}

// State returns a copy of the run state.
func (s *Simulation) State() RunState {
	return s.state
}

// Snapshot returns the state published by the last tick.
func (s *Simulation) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Close stops the score timer.
func (s *Simulation) Close() {
	s.timer.Stop()
}

// Tick advances the game by one frame.
func (s *Simulation) Tick() {
	s.tick++
	playing := s.state.Phase == PhasePlaying

	var in input.Intent
	if s.intent != nil {
		in = s.intent.Intent()
	}

	if playing {
		s.runTicks++
		s.state.Velocity *= s.state.VelocityRamp
		s.ship.Update(in)
		s.camera.Follow(in, s.ship.Position.X)
		s.state.Elapsed = s.timer.Elapsed()
	}

	s.registry.Tick(s.state.Velocity, s.state.VelocityRamp, playing)
	s.registry.RefreshAABBs(playing)

	if playing {
		s.ship.RefreshAABB()
		if physics.Check(s.ship.AABB(), s.registry) {
			s.collide()
		}
	}

	s.publish()
}
