// Package web serves the landing page next to the SSH server: how to
// connect, the current leaderboard, and a websocket feed that pushes the
// board whenever it changes.
package web

import (
	"encoding/json"
	"html/template"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/slipstream/internal/logging"
	"github.com/tomz197/slipstream/internal/loop/server"
)

// DefaultFeedInterval is how often the feed polls the hub for changes.
const DefaultFeedInterval = time.Second

// Scores is the part of the hub the web surface reads.
type Scores interface {
	TopScores() []server.TopScoreEntry
	Players() int
}

// Options configures the handler.
type Options struct {
	SSHHost      string
	SSHPort      string
	FeedInterval time.Duration
	Logger       *log.Logger
}

// Board is the JSON document served by /scores and pushed over /feed.
type Board struct {
	Players int                    `json:"players"`
	Scores  []server.TopScoreEntry `json:"scores"`
}

type handler struct {
	scores   Scores
	opts     Options
	log      *log.Logger
	upgrader websocket.Upgrader
}

// NewHandler builds the HTTP routes.
func NewHandler(scores Scores, opts Options) http.Handler {
	if opts.FeedInterval <= 0 {
		opts.FeedInterval = DefaultFeedInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	h := &handler{
		scores: scores,
		opts:   opts,
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /scores", h.board)
	mux.HandleFunc("GET /feed", h.feed)
	return mux
}

func (h *handler) snapshot() Board {
	scores := h.scores.TopScores()
	if scores == nil {
		scores = []server.TopScoreEntry{}
	}
	return Board{Players: h.scores.Players(), Scores: scores}
}

func (h *handler) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Command string
		Board   Board
	}{
		Command: sshCommand(h.opts.SSHHost, h.opts.SSHPort),
		Board:   h.snapshot(),
	}
	if err := indexPage.Execute(w, data); err != nil {
		h.log.Error("render index", "err", err)
	}
}

func (h *handler) board(w http.ResponseWriter, _ *http.Request) {
	data, err := json.Marshal(h.snapshot())
	if err != nil {
		http.Error(w, "failed to encode", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// feed sends the board on connect and again after every change until the
// peer goes away.
func (h *handler) feed(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("feed upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	// The feed is one-way; reading is only for noticing the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.opts.FeedInterval)
	defer ticker.Stop()

	var last Board
	sent := false
	for {
		board := h.snapshot()
		if !sent || !sameBoard(last, board) {
			if err := conn.WriteJSON(board); err != nil {
				h.log.Debug("feed write failed", "remote", r.RemoteAddr, "err", err)
				return
			}
			last, sent = board, true
		}

		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func sameBoard(a, b Board) bool {
	return a.Players == b.Players && slices.EqualFunc(a.Scores, b.Scores, func(x, y server.TopScoreEntry) bool {
		return x.Username == y.Username && x.Score == y.Score
	})
}

func sshCommand(host, port string) string {
	if port == "" || port == "22" {
		return "ssh " + host
	}
	return "ssh -p " + port + " " + host
}

var indexPage = template.Must(template.New("index").Funcs(template.FuncMap{
	"rank": func(i int) int { return i + 1 },
}).Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>slipstream</title>
<style>
body { background: #000; color: #ddd; font-family: monospace; max-width: 40em; margin: 4em auto; }
code { color: #5fd7ff; }
td { padding: 0 1em; }
</style>
</head>
<body>
<h1>SLIPSTREAM</h1>
<p>Steer through the corridor. Connect with <code>{{.Command}}</code></p>
<p><span id="players">{{.Board.Players}}</span> playing now</p>
<table id="scores">
{{range $i, $e := .Board.Scores}}<tr><td>{{rank $i}}</td><td>{{$e.Username}}</td><td>{{printf "%.1f" $e.Score}}</td></tr>
{{end}}</table>
<script>
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/feed");
ws.onmessage = (ev) => {
  const board = JSON.parse(ev.data);
  document.getElementById("players").textContent = board.players;
  const table = document.getElementById("scores");
  table.replaceChildren();
  board.scores.forEach((e, i) => {
    const row = table.insertRow();
    [i + 1, e.username, e.score.toFixed(1)].forEach((v) => { row.insertCell().textContent = v; });
  });
};
</script>
</body>
</html>
`))
