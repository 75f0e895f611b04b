package client

import (
	"time"

	"github.com/tomz197/slipstream/internal/input"
)

// Screen is what the client is showing.
type Screen int

const (
	ScreenTitle    Screen = iota // attract mode, waiting for start
	ScreenPlaying                // run in progress
	ScreenGameOver               // crashed, offering retry or menu
	ScreenShutdown               // server is going away
)

// ClientState holds per-session UI state. Game state lives in the
// simulation.
type ClientState struct {
	Input         input.Input
	Running       bool
	Screen        Screen
	LastScore     float64 // score of the most recent run
	LastRunTicks  uint64
	delta         time.Duration
	shutdownTimer float64
	isInactive    bool
	bell          bool // ring on the next frame

	recordHolder string
	recordScore  float64
	recordTimer  float64
}

// NewClientState creates the state of a freshly connected session.
func NewClientState() *ClientState {
	return &ClientState{
		Screen:  ScreenTitle,
		Running: true,
	}
}
