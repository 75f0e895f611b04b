// Package server is the process-wide hub shared by every session: it
// tracks who is connected, keeps the leaderboard and broadcasts shutdown.
// Each session runs its own simulation; nothing here touches game state.
package server

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/metric"

	"github.com/tomz197/slipstream/internal/logging"
)

// ErrServerClosed is returned by RegisterClient after Shutdown.
var ErrServerClosed = errors.New("server closed")

// GameServer is the interface clients use to talk to the hub.
type GameServer interface {
	RegisterClient(username string) (*ClientHandle, error)
	UnregisterClient(clientID int)
	SubmitScore(clientID int, score float64)
	TopScores() []TopScoreEntry
	Players() int
}

// ClientHandle represents a client's connection to the hub.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent // closed when the client is unregistered
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventNewRecord                      // someone took first place
)

// ClientEvent is sent from the hub to a client.
type ClientEvent struct {
	Type     ClientEventType
	Username string  // for EventNewRecord
	Score    float64 // for EventNewRecord
}

// Options configures the hub.
type Options struct {
	Leaderboard int // number of entries kept; 0 disables the board
	Logger      *log.Logger
	Meter       metric.MeterProvider // nil uses the global provider
}

// Server is the in-memory hub.
type Server struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
	board        *leaderboard
	closed       bool
	log          *log.Logger
	metrics      hubMetrics
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// NewServer creates an empty hub.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		board:        newLeaderboard(opts.Leaderboard),
		log:          logger,
	}
	hm, err := newHubMetrics(opts.Meter, s)
	if err != nil {
		logger.Warn("metrics disabled", "err", err)
		hm = noopHubMetrics()
	}
	s.metrics = hm
	return s
}

// RegisterClient adds a client and returns its handle.
func (s *Server) RegisterClient(username string) (*ClientHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrServerClosed
	}

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle

	s.log.Debug("client registered", "id", handle.ID, "user", username, "players", len(s.clients))
	return handle, nil
}

// UnregisterClient removes a client and closes its event channel. Unknown
// IDs are ignored.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)

	s.log.Debug("client unregistered", "id", clientID, "players", len(s.clients))
}

// SubmitScore records a finished run. A new first place is announced to
// every other client.
func (s *Server) SubmitScore(clientID int, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	name := handle.Username
	if name == "" {
		name = anonymous(clientID)
	}
	record := s.board.submit(name, clientID, score)
	s.metrics.runFinished(name, record)
	if !record {
		return
	}

	s.log.Info("new record", "user", name, "score", score)
	for id, other := range s.clients {
		if id == clientID {
			continue
		}
		select {
		case other.EventsCh <- ClientEvent{Type: EventNewRecord, Username: name, Score: score}:
		default:
		}
	}
}

// TopScores returns a copy of the leaderboard, best first.
func (s *Server) TopScores() []TopScoreEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.top()
}

// Players returns the number of connected clients.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown stops accepting clients, notifies everyone connected and waits
// for them to disconnect, up to timeout.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.Lock()
	s.closed = true
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Players() == 0 {
			return
		}
		select {
		case <-deadline:
			s.log.Warn("shutdown grace expired", "players", s.Players())
			return
		case <-ticker.C:
		}
	}
}
