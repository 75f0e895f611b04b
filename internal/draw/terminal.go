package draw

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ChunkWriter accumulates a frame of terminal output and writes it in
// chunks, which keeps SSH sessions smooth. Draw into it, then Flush.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer
	numBuf [20]byte
	offCol int
	offRow int
}

// Ensure ChunkWriter satisfies io.Writer.
var _ io.Writer = (*ChunkWriter)(nil)

// NewChunkWriter creates a ChunkWriter that writes to w. The offsets are
// added to every WriteAt position.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset, e.g. after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor appends a cursor position sequence. col and row are 1-based
// canvas coordinates.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(row+cw.offRow), 10))
	cw.buf.WriteByte(';')
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(col+cw.offCol), 10))
	cw.buf.WriteByte('H')
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends s.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes s starting at a 1-based canvas position. Multi-line
// strings keep their left edge at col.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	for i, line := range strings.Split(s, "\n") {
		cw.MoveCursor(col, row+i)
		cw.buf.WriteString(line)
	}
}

// Bell appends the terminal bell.
func (cw *ChunkWriter) Bell() {
	cw.buf.WriteByte('\a')
}

// Len is the number of pending bytes.
func (cw *ChunkWriter) Len() int {
	return cw.buf.Len()
}

// Flush writes the accumulated frame and resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// TermSizeFunc returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns the size of the terminal on stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// EnterScreen switches to the alternate screen, hides the cursor and
// clears it.
func EnterScreen(w io.Writer) {
	out := termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	out.AltScreen()
	out.HideCursor()
	out.ClearScreen()
}

// LeaveScreen undoes EnterScreen.
func LeaveScreen(w io.Writer) {
	out := termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	out.Reset()
	out.ShowCursor()
	out.ExitAltScreen()
}

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii)).ClearScreen()
}

// Viewport is where the canvas sits inside the terminal.
type Viewport struct {
	Width, Height int // canvas size in terminal cells
	OffCol        int // 0-based columns left of the canvas
	OffRow        int // 0-based rows above the canvas
}

// Fit caps the terminal size at maxWidth x maxHeight and centers the
// result. A zero maximum leaves that axis uncapped.
func Fit(termWidth, termHeight, maxWidth, maxHeight int) Viewport {
	v := Viewport{Width: termWidth, Height: termHeight}
	if maxWidth > 0 && v.Width > maxWidth {
		v.Width = maxWidth
		v.OffCol = (termWidth - maxWidth) / 2
	}
	if maxHeight > 0 && v.Height > maxHeight {
		v.Height = maxHeight
		v.OffRow = (termHeight - maxHeight) / 2
	}
	return v
}
