// Package client runs one player's session: it reads keys, drives that
// player's simulation once per frame and draws the result.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/tomz197/slipstream/internal/config"
	"github.com/tomz197/slipstream/internal/draw"
	"github.com/tomz197/slipstream/internal/input"
	"github.com/tomz197/slipstream/internal/logging"
	uiconfig "github.com/tomz197/slipstream/internal/loop/config"
	"github.com/tomz197/slipstream/internal/loop/server"
	"github.com/tomz197/slipstream/internal/sim"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	sim          *sim.Simulation
	latch        *input.Latch
	state        *ClientState
	canvas       *draw.Canvas
	palette      *draw.Palette
	styles       styles
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	cfg          *config.Config
	log          *log.Logger
	termSizeFunc draw.TermSizeFunc
	idleTimeout  time.Duration
	now          func() time.Time
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Profile      termenv.Profile // color profile of the remote terminal
	IdleTimeout  time.Duration   // 0 never disconnects idle players
	Config       *config.Config  // nil uses config.Default()
	Logger       *log.Logger
}

// NewClient registers with the hub and prepares a simulation for the
// session.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	simOpts, err := sim.OptionsFromConfig(cfg.Sim, logger.With("user", opts.Username))
	if err != nil {
		return nil, err
	}

	handle, err := gs.RegisterClient(opts.Username)
	if err != nil {
		return nil, fmt.Errorf("register client: %w", err)
	}

	latch := &input.Latch{}
	c := &Client{
		server:       gs,
		handle:       handle,
		sim:          sim.New(simOpts, latch),
		latch:        latch,
		state:        NewClientState(),
		palette:      draw.NewPalette(opts.Profile),
		styles:       newStyles(w, opts.Profile),
		writer:       w,
		inputStream:  input.StartStream(r, cfg.Input.KeyHold),
		cfg:          cfg,
		log:          logger,
		termSizeFunc: termSizeFunc,
		idleTimeout:  opts.IdleTimeout,
		now:          time.Now,
	}
	c.lastInput = c.now()

	vp := c.viewport()
	c.canvas = draw.NewCanvas(vp.Width, vp.Height)
	c.canvas.SetOffset(vp.OffCol, vp.OffRow)
	c.chunkWriter = draw.NewChunkWriter(w, vp.OffCol, vp.OffRow)

	c.subscribe()
	return c, nil
}

// subscribe wires simulation events into the session.
func (c *Client) subscribe() {
	events := c.sim.Events()
	events.Subscribe(sim.EventCollision, func(sim.Event) {
		c.state.bell = true
	})
	events.Subscribe(sim.EventRunEnded, func(e sim.Event) {
		c.state.LastScore = e.Score
		c.state.LastRunTicks = e.Ticks
		c.server.SubmitScore(c.handle.ID, e.Score)
	})
}

// Run starts the client loop. Blocks until the player quits, the hub shuts
// down or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.EnterScreen(c.writer)
	defer draw.LeaveScreen(c.writer)
	defer c.server.UnregisterClient(c.handle.ID)
	defer c.sim.Close()

	frameTime := c.cfg.Sim.TickTime()
	lastTime := c.now()

	for c.state.Running {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frameStart := c.now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		if err := c.Step(); err != nil {
			return err
		}

		if elapsed := time.Since(frameStart); elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}
	return nil
}

// Step runs one frame: input, hub events, screen logic, one simulation
// tick and drawing.
func (c *Client) Step() error {
	c.processInput()
	c.processServerEvents()
	c.updateScreen()

	switch c.state.Screen {
	case ScreenTitle:
		c.updateTitleState()
	case ScreenGameOver:
		c.updateGameOverState()
	case ScreenShutdown:
		c.updateShutdownState()
	}

	c.sim.Tick()
	c.syncScreen()

	return c.drawFrame()
}

// processInput reads keys and publishes the steering intent for the next
// tick.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)
	c.latch.Set(c.state.Input.Intent())

	now := c.now()
	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = now
		c.state.isInactive = false
	} else if c.idleTimeout > 0 {
		idle := now.Sub(c.lastInput)
		switch {
		case idle > c.idleTimeout:
			c.log.Info("disconnecting idle client", "id", c.handle.ID)
			c.state.Running = false
		case idle > time.Duration(float64(c.idleTimeout)*uiconfig.InactivityWarnFraction):
			c.state.isInactive = true
		}
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}
}

// processServerEvents drains events from the hub.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.state.Screen = ScreenShutdown
				c.state.shutdownTimer = uiconfig.ShutdownDisplaySeconds
			case server.EventNewRecord:
				c.state.recordHolder = event.Username
				c.state.recordScore = event.Score
				c.state.recordTimer = uiconfig.RecordNoticeSeconds
			}
		default:
			return
		}
	}
}

func (c *Client) viewport() draw.Viewport {
	w, h, err := c.termSizeFunc()
	if err != nil || w <= 0 || h <= 0 {
		w, h = uiconfig.MinTermWidth, uiconfig.MinTermHeight
	}
	return draw.Fit(w, h, c.cfg.Render.MaxTermWidth, c.cfg.Render.MaxTermHeight)
}

// updateScreen follows terminal resizes. On a change the terminal is
// cleared so nothing is left outside the new canvas area.
func (c *Client) updateScreen() {
	vp := c.viewport()
	if vp.Width != c.canvas.Width() || vp.Height != c.canvas.TerminalHeight() ||
		vp.OffCol != c.canvas.OffsetCol() || vp.OffRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.chunkWriter)
	}
	c.canvas.Resize(vp.Width, vp.Height)
	c.canvas.SetOffset(vp.OffCol, vp.OffRow)
	c.chunkWriter.SetOffset(vp.OffCol, vp.OffRow)

	if c.state.recordTimer > 0 {
		c.state.recordTimer -= c.state.delta.Seconds()
	}
}

func (c *Client) updateTitleState() {
	if c.state.Input.Start {
		c.startRun()
	}
}

func (c *Client) updateGameOverState() {
	switch {
	case c.state.Input.Start:
		c.startRun()
	case c.state.Input.Menu:
		c.sim.Reset()
	}
}

// startRun begins a run and drops keys still held from the menu.
func (c *Client) startRun() {
	c.inputStream.Reset()
	c.latch.Set(input.Intent{})
	c.sim.Start()
}

// updateShutdownState counts down the shutdown notice.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// syncScreen maps the simulation phase to a screen. The shutdown screen
// is sticky.
func (c *Client) syncScreen() {
	if c.state.Screen == ScreenShutdown {
		return
	}
	switch c.sim.Phase() {
	case sim.PhaseIdle:
		c.state.Screen = ScreenTitle
	case sim.PhasePlaying:
		c.state.Screen = ScreenPlaying
	case sim.PhaseCollided:
		c.state.Screen = ScreenGameOver
	}
}
