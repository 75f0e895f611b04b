package client

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/slipstream/internal/config"
	"github.com/tomz197/slipstream/internal/loop/server"
	"github.com/tomz197/slipstream/internal/sim"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

type testClient struct {
	*Client
	keys io.WriteCloser
	out  *bytes.Buffer
	hub  *server.Server
}

func newTestClient(t *testing.T, opts ClientOptions) *testClient {
	t.Helper()

	cfg := config.Default()
	cfg.Sim.Seed = 1
	cfg.Sim.ScoreInterval = 0
	opts.Config = cfg
	if opts.TermSizeFunc == nil {
		opts.TermSizeFunc = fixedSize(80, 24)
	}

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	hub := server.NewServer(server.Options{Leaderboard: 5})
	out := &bytes.Buffer{}
	c, err := NewClient(hub, bufio.NewReader(pr), out, opts)
	require.NoError(t, err)
	t.Cleanup(c.sim.Close)

	return &testClient{Client: c, keys: pw, out: out, hub: hub}
}

// hold keeps sending key, one frame at a time, until the condition holds.
func (tc *testClient) hold(t *testing.T, key string, until func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, _ = tc.keys.Write([]byte(key))
		_ = tc.Step()
		return until()
	}, 5*time.Second, time.Millisecond)
}

func TestTitleScreen(t *testing.T) {
	tc := newTestClient(t, ClientOptions{Username: "alice", Profile: termenv.Ascii})

	require.NoError(t, tc.Step())
	assert.Equal(t, ScreenTitle, tc.state.Screen)
	assert.Equal(t, sim.PhaseIdle, tc.sim.Phase())
	assert.Contains(t, tc.out.String(), "S L I P S T R E A M")
	assert.Equal(t, 1, tc.hub.Players())
}

func TestStartAndCrash(t *testing.T) {
	tc := newTestClient(t, ClientOptions{Username: "alice", Profile: termenv.Ascii})

	tc.hold(t, " ", func() bool { return tc.sim.Phase() == sim.PhasePlaying })
	assert.Equal(t, ScreenPlaying, tc.state.Screen)

	tc.out.Reset()
	require.NoError(t, tc.Step())
	assert.Contains(t, tc.out.String(), "TIME")

	// Steer left until something is hit, the wall at the latest.
	tc.out.Reset()
	tc.hold(t, "a", func() bool { return tc.sim.Phase() == sim.PhaseCollided })
	assert.Equal(t, ScreenGameOver, tc.state.Screen)
	assert.Contains(t, tc.out.String(), "\a", "crash rings the bell")

	tc.out.Reset()
	require.NoError(t, tc.Step())
	assert.Contains(t, tc.out.String(), "C R A S H E D")
	assert.Len(t, tc.hub.TopScores(), 0, "score timer is manual in tests, so the run scored 0")

	tc.hold(t, "m", func() bool { return tc.sim.Phase() == sim.PhaseIdle })
	assert.Equal(t, ScreenTitle, tc.state.Screen)
}

func TestQuitStopsRun(t *testing.T) {
	tc := newTestClient(t, ClientOptions{Profile: termenv.Ascii})

	done := make(chan error, 1)
	go func() { done <- tc.Run(context.Background()) }()
	_, err := tc.keys.Write([]byte("q"))
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("client did not stop on quit")
	}
	assert.Zero(t, tc.hub.Players(), "client unregisters on exit")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	tc := newTestClient(t, ClientOptions{Profile: termenv.Ascii})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tc.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("client did not stop on cancel")
	}
}

func TestShutdownNotice(t *testing.T) {
	tc := newTestClient(t, ClientOptions{Profile: termenv.Ascii})

	go tc.hub.Shutdown(10 * time.Millisecond)
	require.Eventually(t, func() bool {
		_ = tc.Step()
		return tc.state.Screen == ScreenShutdown
	}, 2*time.Second, 5*time.Millisecond)

	tc.out.Reset()
	require.NoError(t, tc.Step())
	assert.Contains(t, tc.out.String(), "SERVER SHUTTING DOWN")
}

func TestIdleDisconnect(t *testing.T) {
	tc := newTestClient(t, ClientOptions{Profile: termenv.Ascii, IdleTimeout: time.Minute})
	now := time.Now()
	tc.now = func() time.Time { return now }
	tc.lastInput = now

	now = now.Add(50 * time.Second)
	require.NoError(t, tc.Step())
	assert.True(t, tc.state.isInactive)
	assert.True(t, tc.state.Running)
	assert.Contains(t, tc.out.String(), "INACTIVITY WARNING")

	now = now.Add(11 * time.Second)
	require.NoError(t, tc.Step())
	assert.False(t, tc.state.Running)
}

func TestRegisterAfterShutdownFails(t *testing.T) {
	hub := server.NewServer(server.Options{})
	hub.Shutdown(0)

	pr, pw := io.Pipe()
	defer pw.Close()
	_, err := NewClient(hub, bufio.NewReader(pr), io.Discard, ClientOptions{TermSizeFunc: fixedSize(80, 24)})
	require.ErrorIs(t, err, server.ErrServerClosed)
}
