package client

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/slipstream/internal/draw"
	uiconfig "github.com/tomz197/slipstream/internal/loop/config"
	"github.com/tomz197/slipstream/internal/sim"
)

// styles are the lipgloss styles of the HUD, bound to the session's own
// renderer so every client gets its terminal's color profile.
type styles struct {
	hud    lipgloss.Style
	value  lipgloss.Style
	title  lipgloss.Style
	panel  lipgloss.Style
	prompt lipgloss.Style
	warn   lipgloss.Style
	dim    lipgloss.Style
}

func newStyles(w io.Writer, profile termenv.Profile) styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(true)

	return styles{
		hud:    r.NewStyle().Foreground(lipgloss.Color("#c8c8dc")),
		value:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd166")),
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7fdbff")),
		prompt: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")),
		warn:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff3b30")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("#8a8aa3")),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5c6f8a")).
			Padding(1, 4).
			Align(lipgloss.Center),
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// drawFrame draws the scene, then the overlay for the current screen.
func (c *Client) drawFrame() error {
	snap := c.sim.Snapshot()

	c.canvas.Clear()
	c.canvas.DrawScene(draw.Scene{
		Camera:     snap.Camera.Position,
		Ship:       snap.Ship,
		Obstacles:  snap.Obstacles,
		Boundaries: snap.Boundaries,
	}, c.cfg.Render.FieldOfView)
	c.canvas.Render(c.chunkWriter, c.palette)
	c.canvas.RenderBorder(c.chunkWriter)

	if c.state.bell {
		c.chunkWriter.Bell()
		c.state.bell = false
	}

	c.drawUI(snap)
	return c.chunkWriter.Flush()
}

// drawUI draws the overlay for the current screen.
func (c *Client) drawUI(snap *sim.Snapshot) {
	if c.state.Screen == ScreenShutdown {
		c.drawShutdownScreen()
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen()
		return
	}

	switch c.state.Screen {
	case ScreenTitle:
		c.drawTitleScreen(snap)
	case ScreenPlaying:
		c.drawPlayingHUD(snap)
	case ScreenGameOver:
		c.drawGameOverScreen(snap)
	}

	if c.state.recordTimer > 0 {
		notice := fmt.Sprintf("%s set a new record: %ss", c.state.recordHolder, formatScore(c.state.recordScore))
		c.writeCentered(2, c.styles.value.Render(notice))
	}
}

// writePanel writes a block centered on the canvas.
func (c *Client) writePanel(block string) {
	col := max(1, (c.canvas.Width()-lipgloss.Width(block))/2+1)
	row := max(1, (c.canvas.TerminalHeight()-lipgloss.Height(block))/2+1)
	c.chunkWriter.WriteAt(col, row, block)
}

// writeCentered writes one line centered horizontally on the given row.
func (c *Client) writeCentered(row int, line string) {
	col := max(1, (c.canvas.Width()-lipgloss.Width(line))/2+1)
	c.chunkWriter.WriteAt(col, row, line)
}

func blinkOn(now time.Time) bool {
	return now.UnixMilli()/uiconfig.BlinkPeriodMillis%2 == 0
}

// drawTitleScreen draws the attract-mode title, controls and leaderboard.
func (c *Client) drawTitleScreen(snap *sim.Snapshot) {
	s := c.styles
	lines := []string{
		s.title.Render("S L I P S T R E A M"),
		s.dim.Render("dodge the buildings, the corridor only gets faster"),
		"",
		s.hud.Render("A D / ← →   steer"),
		s.hud.Render("SPACE       start"),
		s.hud.Render("Q           quit"),
	}
	if snap.State.HighScore > 0 {
		lines = append(lines, "", s.hud.Render("your best ")+s.value.Render(formatScore(snap.State.HighScore)+"s"))
	}
	if top := c.server.TopScores(); len(top) > 0 {
		lines = append(lines, "", s.title.Render("TOP PILOTS"))
		for i, e := range top {
			name := e.Username
			if len(name) > uiconfig.MaxUsernameLength {
				name = name[:uiconfig.MaxUsernameLength]
			}
			lines = append(lines, s.hud.Render(fmt.Sprintf("%d. %-*s %6ss", i+1, uiconfig.MaxUsernameLength, name, formatScore(e.Score))))
		}
	}
	prompt := ""
	if blinkOn(c.now()) {
		prompt = s.prompt.Render(">>  Press SPACE to start  <<")
	}
	lines = append(lines, "", prompt)

	c.writePanel(s.panel.Render(lipgloss.JoinVertical(lipgloss.Center, lines...)))
}

// drawPlayingHUD draws the run timer, best time and speed. Fields are
// padded so shrinking values leave nothing behind.
func (c *Client) drawPlayingHUD(snap *sim.Snapshot) {
	s := c.styles
	cw := c.chunkWriter
	width := c.canvas.Width()

	cw.WriteAt(2, 1, s.hud.Render("TIME ")+s.value.Render(fmt.Sprintf("%-7s", formatScore(snap.State.Elapsed))))

	best := s.hud.Render("BEST ") + s.value.Render(fmt.Sprintf("%7s", formatScore(snap.State.HighScore)))
	cw.WriteAt(max(1, width-lipgloss.Width(best)), 1, best)

	speed := s.dim.Render(fmt.Sprintf("SPEED %-8s", strconv.FormatFloat(snap.State.Velocity, 'f', 2, 64)+"x"))
	cw.WriteAt(2, c.canvas.TerminalHeight(), speed)

	players := s.dim.Render(fmt.Sprintf("PILOTS %-4d", c.server.Players()))
	cw.WriteAt(max(1, width-lipgloss.Width(players)), c.canvas.TerminalHeight(), players)
}

// drawGameOverScreen shows the score of the crashed run and the options.
func (c *Client) drawGameOverScreen(snap *sim.Snapshot) {
	s := c.styles
	lines := []string{
		s.warn.Render("C R A S H E D"),
		"",
		s.hud.Render("time ") + s.value.Render(formatScore(c.state.LastScore)+"s"),
		s.hud.Render("best ") + s.value.Render(formatScore(snap.State.HighScore)+"s"),
	}
	if c.state.LastScore > 0 && c.state.LastScore >= snap.State.HighScore {
		lines = append(lines, "", s.title.Render("NEW PERSONAL BEST"))
	}
	prompt := ""
	if blinkOn(c.now()) {
		prompt = s.prompt.Render("SPACE  try again")
	}
	lines = append(lines, "", prompt, s.dim.Render("M  exit to menu"))

	c.writePanel(s.panel.Render(lipgloss.JoinVertical(lipgloss.Center, lines...)))
}

// drawInactivityScreen warns before an idle disconnect.
func (c *Client) drawInactivityScreen() {
	s := c.styles
	left := int((c.idleTimeout - c.now().Sub(c.lastInput)).Seconds())
	lines := []string{
		s.warn.Render("INACTIVITY WARNING"),
		"",
		s.hud.Render(fmt.Sprintf("You will be disconnected in %d seconds.", max(0, left))),
		s.dim.Render("Press any key to continue"),
	}
	c.writePanel(s.panel.Render(strings.Join(lines, "\n")))
}

// drawShutdownScreen tells the player the server is going away.
func (c *Client) drawShutdownScreen() {
	s := c.styles
	lines := []string{
		s.warn.Render("SERVER SHUTTING DOWN"),
		"",
		s.hud.Render("The server is restarting for maintenance."),
		s.hud.Render("Please reconnect in a moment."),
		"",
		s.hud.Render(fmt.Sprintf("Disconnecting in %d seconds...", int(c.state.shutdownTimer)+1)),
		s.dim.Render("Press Q to disconnect now"),
	}
	c.writePanel(s.panel.Render(strings.Join(lines, "\n")))
}
