// Package sim drives one game: it owns the run state, the ship, the camera
// and the corridor, and advances them together once per frame.
package sim

import "math"

// Phase is the stage of the current run.
type Phase int

const (
	PhaseIdle     Phase = iota // attract screen, before a run or after reset
	PhasePlaying               // run in progress
	PhaseCollided              // crashed, waiting for retry or reset
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhaseCollided:
		return "collided"
	default:
		return "unknown"
	}
}

// RunState is the scalar state of the current run.
type RunState struct {
	Phase        Phase
	Velocity     float64 // scroll speed, world units per tick
	VelocityRamp float64 // per-tick velocity multiplier
	Elapsed      float64 // seconds survived, as counted by the score timer
	HighScore    float64 // best Elapsed this process has seen, one decimal
}

// roundScore rounds to one decimal place, half away from zero.
func roundScore(v float64) float64 {
	return math.Round(v*10) / 10
}
