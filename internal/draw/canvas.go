// Package draw renders the corridor onto a terminal. A Canvas holds one
// tone per sub-pixel at twice the vertical resolution of the terminal and
// is flushed with half-block characters.
package draw

import (
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/tomz197/slipstream/internal/physics"
)

// Point is a position in canvas pixels. Y grows downward.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block
// characters. Each pixel carries a Tone; ToneNone is background.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int    // termHeight * 2
	pixels         []Tone // [y * termWidth + x]

	// 0-based terminal offsets used when the terminal is larger than the
	// maximum render area.
	offsetCol int
	offsetRow int

	renderBuf       strings.Builder
	numBuf          [20]byte
	intersectionBuf []float64
	pointBuf        []Point
	cornerBuf       []physics.Vector3
	boxBuf          []sceneBox
}

// NewCanvas creates a canvas for the given terminal dimensions.
func NewCanvas(termWidth, termHeight int) *Canvas {
	return &Canvas{
		termWidth:      termWidth,
		termHeight:     termHeight,
		subPixelHeight: termHeight * 2,
		pixels:         make([]Tone, termHeight*2*termWidth),
	}
}

// Resize changes the canvas dimensions, dropping its contents if they differ.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth == c.termWidth && termHeight == c.termHeight {
		return
	}
	c.termWidth = termWidth
	c.termHeight = termHeight
	c.subPixelHeight = termHeight * 2
	c.pixels = make([]Tone, c.subPixelHeight*termWidth)
}

// SetOffset sets the column and row offset for centering the canvas.
// The canvas starts at terminal position (col+1, row+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Width is the canvas width in pixels (terminal columns).
func (c *Canvas) Width() int {
	return c.termWidth
}

// Height is the canvas height in pixels (twice the terminal rows).
func (c *Canvas) Height() int {
	return c.subPixelHeight
}

// TerminalHeight returns the terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// Clear resets every pixel to ToneNone.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// At returns the tone of a pixel, ToneNone when out of range.
func (c *Canvas) At(x, y int) Tone {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return ToneNone
	}
	return c.pixels[y*c.termWidth+x]
}

func (c *Canvas) setPixel(x, y int, t Tone) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = t
	}
}

// FillRect fills the rectangle spanned by two corners, clipped to the canvas.
func (c *Canvas) FillRect(a, b Point, t Tone) {
	x0 := max(0, int(math.Ceil(min(a.X, b.X)-0.5)))
	x1 := min(c.termWidth-1, int(math.Floor(max(a.X, b.X)-0.5)))
	y0 := max(0, int(math.Ceil(min(a.Y, b.Y)-0.5)))
	y1 := min(c.subPixelHeight-1, int(math.Floor(max(a.Y, b.Y)-0.5)))
	for y := y0; y <= y1; y++ {
		row := c.pixels[y*c.termWidth : (y+1)*c.termWidth]
		for x := x0; x <= x1; x++ {
			row[x] = t
		}
	}
}

// FillPolygon fills a polygon using a scanline sweep, clipped to the canvas.
func (c *Canvas) FillPolygon(points []Point, t Tone) {
	if len(points) < 3 {
		return
	}

	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	yStart := max(0, int(math.Floor(minY)))
	yEnd := min(c.subPixelHeight-1, int(math.Ceil(maxY)))

	for y := yStart; y <= yEnd; y++ {
		scanY := float64(y) + 0.5

		intersections := c.intersectionBuf[:0]
		n := len(points)
		for i := 0; i < n; i++ {
			p1 := points[i]
			p2 := points[(i+1)%n]
			if (p1.Y <= scanY && p2.Y > scanY) || (p2.Y <= scanY && p1.Y > scanY) {
				k := (scanY - p1.Y) / (p2.Y - p1.Y)
				intersections = append(intersections, p1.X+k*(p2.X-p1.X))
			}
		}
		c.intersectionBuf = intersections
		slices.Sort(intersections)

		for i := 0; i+1 < len(intersections); i += 2 {
			xStart := max(0, int(math.Ceil(intersections[i]-0.5)))
			xEnd := min(c.termWidth-1, int(math.Floor(intersections[i+1]-0.5)))
			for x := xStart; x <= xEnd; x++ {
				c.setPixel(x, y, t)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once. It roughly matches
// a network MTU so frames stream smoothly over SSH.
const maxChunkSize = 1400

// Render writes the canvas to w row by row, grouping runs of identical
// cells under one color sequence. Empty cells are written as spaces so a
// frame fully replaces the previous one.
func (c *Canvas) Render(w io.Writer, pal *Palette) {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 4)

	for row := 0; row < c.termHeight; row++ {
		c.moveCursor(c.offsetCol+1, c.offsetRow+row+1)

		top := c.pixels[row*2*c.termWidth : (row*2+1)*c.termWidth]
		bottom := c.pixels[(row*2+1)*c.termWidth : (row*2+2)*c.termWidth]

		for col := 0; col < c.termWidth; {
			t, b := top[col], bottom[col]
			end := col + 1
			for end < c.termWidth && top[end] == t && bottom[end] == b {
				end++
			}
			c.writeRun(pal, t, b, end-col)
			col = end
		}
		c.renderBuf.WriteString(pal.reset)
	}

	writeChunked(w, c.renderBuf.String())
}

// writeRun emits n cells whose top pixel has tone t and bottom pixel b.
func (c *Canvas) writeRun(pal *Palette, t, b Tone, n int) {
	var glyph rune
	switch {
	case t == ToneNone && b == ToneNone:
		c.renderBuf.WriteString(pal.reset)
		glyph = ' '
	case t == b:
		c.renderBuf.WriteString(pal.reset)
		c.renderBuf.WriteString(pal.fg[t])
		glyph = BlockFull
	case b == ToneNone:
		c.renderBuf.WriteString(pal.reset)
		c.renderBuf.WriteString(pal.fg[t])
		glyph = BlockUpperHalf
	case t == ToneNone:
		c.renderBuf.WriteString(pal.reset)
		c.renderBuf.WriteString(pal.fg[b])
		glyph = BlockLowerHalf
	default:
		c.renderBuf.WriteString(pal.fg[t])
		c.renderBuf.WriteString(pal.bg[b])
		glyph = BlockUpperHalf
	}
	for i := 0; i < n; i++ {
		c.renderBuf.WriteRune(glyph)
	}
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// RenderBorder draws a box around the canvas when the terminal is larger
// than the render area. Horizontal bars need a row offset, vertical bars
// a column offset; corners need both.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			buf.WriteString(cursorTo(left, top) + "┌" + bar + "┐")
			buf.WriteString(cursorTo(left, bottom) + "└" + bar + "┘")
		} else {
			buf.WriteString(cursorTo(c.offsetCol+1, top) + bar)
			buf.WriteString(cursorTo(c.offsetCol+1, bottom) + bar)
		}
	}
	if hasH {
		startRow, endRow := top+1, bottom
		if !hasV {
			startRow, endRow = c.offsetRow+1, c.offsetRow+c.termHeight+1
		}
		for row := startRow; row < endRow; row++ {
			buf.WriteString(cursorTo(left, row) + "│" + cursorTo(right, row) + "│")
		}
	}
	writeChunked(w, buf.String())
}

func cursorTo(col, row int) string {
	return "\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

func writeChunked(w io.Writer, data string) {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		_, _ = io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}
