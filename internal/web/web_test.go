package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/slipstream/internal/loop/server"
)

func newTestSite(t *testing.T) (*server.Server, *httptest.Server) {
	t.Helper()
	hub := server.NewServer(server.Options{Leaderboard: 5})
	site := httptest.NewServer(NewHandler(hub, Options{
		SSHHost:      "arcade.example",
		SSHPort:      "2222",
		FeedInterval: 10 * time.Millisecond,
	}))
	t.Cleanup(site.Close)
	return hub, site
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestIndexShowsConnectCommandAndBoard(t *testing.T) {
	hub, site := newTestSite(t)
	h, err := hub.RegisterClient("ace")
	require.NoError(t, err)
	hub.SubmitScore(h.ID, 12.3)

	resp, body := get(t, site.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "ssh -p 2222 arcade.example")
	assert.Contains(t, body, "<td>1</td><td>ace</td><td>12.3</td>")

	resp, _ = get(t, site.URL+"/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestScoresJSON(t *testing.T) {
	hub, site := newTestSite(t)

	_, body := get(t, site.URL+"/scores")
	assert.JSONEq(t, `{"players":0,"scores":[]}`, body)

	a, err := hub.RegisterClient("ace")
	require.NoError(t, err)
	b, err := hub.RegisterClient("bee")
	require.NoError(t, err)
	hub.SubmitScore(a.ID, 4.5)
	hub.SubmitScore(b.ID, 9)

	resp, body := get(t, site.URL+"/scores")
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var board Board
	require.NoError(t, json.Unmarshal([]byte(body), &board))
	assert.Equal(t, 2, board.Players)
	require.Len(t, board.Scores, 2)
	assert.Equal(t, "bee", board.Scores[0].Username)
	assert.Equal(t, 4.5, board.Scores[1].Score)
}

func TestHealth(t *testing.T) {
	_, site := newTestSite(t)
	resp, body := get(t, site.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}

func TestFeedPushesChanges(t *testing.T) {
	hub, site := newTestSite(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(site.URL, "http")+"/feed", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var board Board
	require.NoError(t, conn.ReadJSON(&board))
	assert.Equal(t, 0, board.Players)
	assert.Empty(t, board.Scores)

	h, err := hub.RegisterClient("ace")
	require.NoError(t, err)
	hub.SubmitScore(h.ID, 7.2)

	// The join and the score may land in one push or two.
	for len(board.Scores) == 0 {
		require.NoError(t, conn.ReadJSON(&board))
	}
	assert.Equal(t, 1, board.Players)
	assert.Equal(t, []server.TopScoreEntry{{Username: "ace", Score: 7.2}}, board.Scores)
}

func TestSSHCommand(t *testing.T) {
	assert.Equal(t, "ssh arcade.example", sshCommand("arcade.example", "22"))
	assert.Equal(t, "ssh arcade.example", sshCommand("arcade.example", ""))
	assert.Equal(t, "ssh -p 23234 localhost", sshCommand("localhost", "23234"))
}

func TestSameBoard(t *testing.T) {
	a := Board{Players: 1, Scores: []server.TopScoreEntry{{Username: "ace", Score: 1}}}
	assert.True(t, sameBoard(a, Board{Players: 1, Scores: []server.TopScoreEntry{{Username: "ace", Score: 1}}}))
	assert.False(t, sameBoard(a, Board{Players: 2, Scores: a.Scores}))
	assert.False(t, sameBoard(a, Board{Players: 1, Scores: []server.TopScoreEntry{{Username: "ace", Score: 2}}}))
}
