// Package input decodes raw terminal bytes into normalized steering intent.
package input

import (
	"bufio"
	"sync"
	"time"
)

// DefaultKeyHold is how long a key is considered "held" after its last press.
// Terminals only report key repeats, never key releases.
const DefaultKeyHold = 80 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Start   bool // space or enter: start a run, or retry after a crash
	Menu    bool // m or escape: leave the game-over screen
	Pressed []byte
}

// Intent returns the steering part of the input.
func (in Input) Intent() Intent {
	return Intent{Left: in.Left, Right: in.Right}
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit  time.Time
	left  time.Time
	right time.Time
	start time.Time
	menu  time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch    chan byte
	hold  time.Duration
	state keyState
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// A non-positive hold falls back to DefaultKeyHold.
func StartStream(r *bufio.Reader, hold time.Duration) *Stream {
	if hold <= 0 {
		hold = DefaultKeyHold
	}
	s := &Stream{
		ch:   make(chan byte, 128),
		hold: hold,
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Reset forgets every held key, so a key pressed on one screen does not
// leak into the next one.
func (s *Stream) Reset() {
	s.state = keyState{}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// A closed stream reports Quit so the caller's loop ends.
func ReadInput(s *Stream) Input {
	return s.read(time.Now())
}

func (s *Stream) read(now time.Time) Input {
	var buf []byte
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	decode(&s.state, buf, now)

	held := func(at time.Time) bool { return now.Sub(at) < s.hold }
	return Input{
		Quit:    closed || held(s.state.quit),
		Left:    held(s.state.left),
		Right:   held(s.state.right),
		Start:   held(s.state.start),
		Menu:    held(s.state.menu),
		Pressed: buf,
	}
}

// decode parses raw bytes, including arrow-key escape sequences, and stamps
// the matching keys with now.
func decode(state *keyState, buf []byte, now time.Time) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C':
				state.right = now
				i += 2
				continue
			case 'D':
				state.left = now
				i += 2
				continue
			case 'A', 'B':
				i += 2
				continue
			}
		}

		applyByteToState(state, b, now)
	}
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		state.quit = now
	case 'a', 'A', 'j', 'J':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case ' ', '\n', '\r':
		state.start = now
	case 'm', 'M', '\x1b':
		state.menu = now
	}
}

// Latch holds the most recent intent published by an input handler and
// serves it to whoever polls it. Safe for one writer and one reader on
// different goroutines.
type Latch struct {
	mu     sync.Mutex
	intent Intent
}

// Set publishes a new intent.
func (l *Latch) Set(intent Intent) {
	l.mu.Lock()
	l.intent = intent
	l.mu.Unlock()
}

// Intent implements IntentSource.
func (l *Latch) Intent() Intent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intent
}
