// Package terminal implements the raw-byte terminal layer: decoding ANSI
// escape sequences into logical key events, in-place line editing with
// cursor movement, and bounded history navigation. All output stays inside
// a small VT100 subset (clear-to-eol, clear-screen+home, cursor left/right
// by n, bell, CR/LF); nothing else is ever emitted.
package terminal

import (
	"fmt"
	"io"

	"github.com/drake/ushell/platform"
)

// Default dimensions assumed when the host cannot report a size.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// Terminal couples a platform byte stream with the key decoder and the
// ANSI output helpers the editor renders through.
type Terminal struct {
	io  platform.IO
	dec Decoder

	width  int
	height int
	echo   bool
}

// New creates a Terminal over the given platform IO with local echo on.
func New(pio platform.IO) *Terminal {
	return &Terminal{
		io:     pio,
		width:  DefaultWidth,
		height: DefaultHeight,
		echo:   true,
	}
}

// ReadKey performs one non-blocking poll of the byte source. It returns
// KeyNone when nothing is pending (callers must yield before retrying) or
// when the byte extended a still-incomplete escape sequence.
func (t *Terminal) ReadKey() Key {
	b, ok := t.io.ReadByte()
	if !ok {
		return KeyNone
	}
	return t.dec.Feed(b)
}

// Yield hands control back to the host scheduler; the editor calls this
// between empty polls.
func (t *Terminal) Yield() {
	t.io.Yield()
}

// WriteString sends s verbatim to the output.
func (t *Terminal) WriteString(s string) {
	platform.WriteString(t.io, s)
}

// WriteByte sends a single raw byte to the output.
func (t *Terminal) WriteByte(b byte) {
	t.io.Write([]byte{b})
}

// Flush pushes buffered output to the device.
func (t *Terminal) Flush() {
	t.io.Flush()
}

// Bell rings the terminal bell.
func (t *Terminal) Bell() {
	t.WriteString("\a")
}

// ClearScreen clears the display and homes the cursor.
func (t *Terminal) ClearScreen() {
	t.WriteString("\x1b[2J\x1b[H")
}

// ClearToEOL erases from the cursor to the end of the line.
func (t *Terminal) ClearToEOL() {
	t.WriteString("\x1b[K")
}

// CursorLeft moves the cursor left by n columns.
func (t *Terminal) CursorLeft(n int) {
	if n > 0 {
		t.WriteString(fmt.Sprintf("\x1b[%dD", n))
	}
}

// CursorRight moves the cursor right by n columns.
func (t *Terminal) CursorRight(n int) {
	if n > 0 {
		t.WriteString(fmt.Sprintf("\x1b[%dC", n))
	}
}

// SetEcho enables or disables local echo of typed characters.
func (t *Terminal) SetEcho(enable bool) {
	t.echo = enable
}

// SetSize overrides the assumed terminal dimensions.
func (t *Terminal) SetSize(width, height int) {
	if width > 0 {
		t.width = width
	}
	if height > 0 {
		t.height = height
	}
}

// Width returns the assumed terminal width.
func (t *Terminal) Width() int { return t.width }

// Height returns the assumed terminal height.
func (t *Terminal) Height() int { return t.height }

// Writer returns an io.Writer that converts LF to CRLF, suitable as the
// standard output stream handed to command handlers.
func (t *Terminal) Writer() io.Writer {
	return &crlfWriter{t: t}
}

// crlfWriter expands bare newlines so command output renders correctly in
// raw mode.
type crlfWriter struct {
	t *Terminal
}

func (w *crlfWriter) Write(p []byte) (int, error) {
	start := 0
	for i, b := range p {
		if b == '\n' {
			if i > start {
				if _, err := w.t.io.Write(p[start:i]); err != nil {
					return start, err
				}
			}
			if _, err := w.t.io.Write([]byte("\r\n")); err != nil {
				return i, err
			}
			start = i + 1
		}
	}
	if start < len(p) {
		if _, err := w.t.io.Write(p[start:]); err != nil {
			return start, err
		}
	}
	return len(p), nil
}
