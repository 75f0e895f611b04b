package sim

import (
	"sync"
	"sync/atomic"
	"time"
)

// ElapsedTimer accumulates run time on its own ticker, independent of the
// frame rate. The counter is the only state shared with the tick goroutine.
//
// With a zero interval no goroutine is started and time only moves through
// Advance.
type ElapsedTimer struct {
	interval time.Duration
	step     float64
	steps    atomic.Int64

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewElapsedTimer creates a stopped timer adding step every interval.
func NewElapsedTimer(interval time.Duration, step float64) *ElapsedTimer {
	return &ElapsedTimer{interval: interval, step: step}
}

// Start zeroes the counter and starts counting. A running timer is
// stopped first.
func (t *ElapsedTimer) Start() {
	t.Stop()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.steps.Store(0)
	t.running = true
	if t.interval <= 0 {
		return
	}

	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(t.stop, t.done)
}

func (t *ElapsedTimer) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.steps.Add(1)
		}
	}
}

// Stop halts the timer and waits for its goroutine to exit, so no
// increment lands after it returns. Safe to call any number of times.
func (t *ElapsedTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.running = false
	if t.stop != nil {
		close(t.stop)
		<-t.done
		t.stop, t.done = nil, nil
	}
}

// Advance adds n steps by hand. It has no effect on a stopped timer.
func (t *ElapsedTimer) Advance(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		t.steps.Add(int64(n))
	}
}

// Running reports whether the timer is counting.
func (t *ElapsedTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Elapsed returns the accumulated time.
func (t *ElapsedTimer) Elapsed() float64 {
	return float64(t.steps.Load()) * t.step
}
