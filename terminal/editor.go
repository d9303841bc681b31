package terminal

import "errors"

// Editor outcomes surfaced through ReadLine.
var (
	// ErrCancelled means the user abandoned the line with Ctrl-C.
	ErrCancelled = errors.New("terminal: line cancelled")
	// ErrEOF means Ctrl-D was pressed on an empty line.
	ErrEOF = errors.New("terminal: end of input")
)

// Event is the result of one editor step.
type Event int

const (
	// EventPending means no input byte was available; the caller must
	// yield to the host scheduler before stepping again.
	EventPending Event = iota
	// EventEditing means a key was consumed and editing continues.
	EventEditing
	// EventLine means the line was committed with Enter; Text holds it.
	EventLine
	// EventCancelled means the edit was abandoned with Ctrl-C.
	EventCancelled
	// EventEOF means Ctrl-D was pressed on an empty buffer.
	EventEOF
)

// Editor implements in-place line editing over a Terminal: insertion at
// the cursor, deletion, cursor movement, kill commands, and history
// navigation. The edit buffer has a fixed capacity; insertions beyond it
// ring the bell and change nothing.
type Editor struct {
	term     *Terminal
	hist     *History
	prompt   string
	capacity int

	buf    []byte
	cursor int

	// History navigation state. navIndex is -1 while not browsing;
	// saved holds the in-progress line snapshotted on the first Up.
	navIndex int
	saved    []byte
	hasSaved bool
}

// NewEditor creates an editor with the given prompt, line capacity, and
// history ring. The ring may be shared with other components (the history
// builtin reads it) but must only be mutated by line commits.
func NewEditor(term *Terminal, hist *History, prompt string, capacity int) *Editor {
	if capacity < 1 {
		capacity = 1
	}
	return &Editor{
		term:     term,
		hist:     hist,
		prompt:   prompt,
		capacity: capacity,
		buf:      make([]byte, 0, capacity),
		navIndex: -1,
	}
}

// SetPrompt changes the prompt used by full-line redraws.
func (e *Editor) SetPrompt(prompt string) {
	e.prompt = prompt
}

// Begin resets the edit state for a new line. The caller prints the
// prompt. Decoder state is deliberately kept: a CR+LF pair that straddles
// two reads must still collapse to one Enter.
func (e *Editor) Begin() {
	e.buf = e.buf[:0]
	e.cursor = 0
	e.navIndex = -1
	e.hasSaved = false
}

// Text returns the current buffer contents.
func (e *Editor) Text() string {
	return string(e.buf)
}

// ReadLine drives Step until the line is committed, cancelled, or ends in
// EOF, yielding to the host whenever no input is pending. History is NOT
// updated here; the session decides what to record.
func (e *Editor) ReadLine() (string, error) {
	e.Begin()
	for {
		switch e.Step() {
		case EventPending:
			e.term.Yield()
		case EventLine:
			return e.Text(), nil
		case EventCancelled:
			return "", ErrCancelled
		case EventEOF:
			return "", ErrEOF
		}
	}
}

// Step polls for one key and applies it to the buffer. It never blocks:
// when nothing is pending it returns EventPending and the caller owns the
// decision to yield, sleep, or interleave other work.
func (e *Editor) Step() Event {
	key := e.term.ReadKey()
	if key == KeyNone {
		return EventPending
	}

	switch key {
	case KeyEnter:
		e.term.WriteString("\r\n")
		e.term.Flush()
		return EventLine

	case KeyCtrlC:
		e.term.WriteString("^C\r\n")
		e.term.Flush()
		e.buf = e.buf[:0]
		e.cursor = 0
		return EventCancelled

	case KeyBackspace:
		if e.cursor > 0 {
			e.cursor--
			e.deleteAt(e.cursor)
			e.term.WriteString("\b")
			e.refreshLine()
		} else {
			e.term.Bell()
		}

	case KeyDelete, KeyCtrlD:
		switch {
		case e.cursor < len(e.buf):
			e.deleteAt(e.cursor)
			e.refreshLine()
		case key == KeyCtrlD && len(e.buf) == 0:
			e.term.WriteString("^D\r\n")
			e.term.Flush()
			return EventEOF
		default:
			e.term.Bell()
		}

	case KeyLeft:
		if e.cursor > 0 {
			e.cursor--
			e.term.WriteString("\x1b[D")
		} else {
			e.term.Bell()
		}

	case KeyRight:
		if e.cursor < len(e.buf) {
			e.cursor++
			e.term.WriteString("\x1b[C")
		} else {
			e.term.Bell()
		}

	case KeyHome, KeyCtrlA:
		if e.cursor > 0 {
			e.term.CursorLeft(e.cursor)
			e.cursor = 0
		}

	case KeyEnd, KeyCtrlE:
		if e.cursor < len(e.buf) {
			e.term.CursorRight(len(e.buf) - e.cursor)
			e.cursor = len(e.buf)
		}

	case KeyCtrlU:
		if len(e.buf) > 0 {
			if e.cursor > 0 {
				e.term.CursorLeft(e.cursor)
			}
			e.buf = e.buf[:0]
			e.cursor = 0
			e.term.ClearToEOL()
		}

	case KeyCtrlK:
		if e.cursor < len(e.buf) {
			e.buf = e.buf[:e.cursor]
			e.term.ClearToEOL()
		}

	case KeyCtrlL:
		e.term.ClearScreen()
		e.term.WriteString(e.prompt)
		e.term.WriteString(string(e.buf))
		if e.cursor < len(e.buf) {
			e.term.CursorLeft(len(e.buf) - e.cursor)
		}
		e.term.Flush()

	case KeyUp:
		e.historyUp()

	case KeyDown:
		e.historyDown()

	case KeyTab:
		// No completion.
		e.term.Bell()

	case KeyPageUp, KeyPageDown:
		// Recognized but meaningless on a single-line editor.

	default:
		if key.Printable() {
			e.insert(byte(key))
		}
	}

	return EventEditing
}

// insert places a printable character at the cursor, shifting the tail
// right. At capacity the character is rejected with a bell.
func (e *Editor) insert(c byte) {
	if len(e.buf) >= e.capacity {
		e.term.Bell()
		return
	}
	e.buf = append(e.buf, 0)
	copy(e.buf[e.cursor+1:], e.buf[e.cursor:])
	e.buf[e.cursor] = c
	e.cursor++

	e.term.WriteByte(c)
	if e.cursor < len(e.buf) {
		// Inserted mid-line: repaint the tail.
		e.refreshLine()
	}
}

func (e *Editor) deleteAt(pos int) {
	copy(e.buf[pos:], e.buf[pos+1:])
	e.buf = e.buf[:len(e.buf)-1]
}

// refreshLine repaints only the suffix from the cursor onward, then moves
// the cursor back where it was.
func (e *Editor) refreshLine() {
	e.term.ClearToEOL()
	e.term.WriteString(string(e.buf[e.cursor:]))
	e.term.CursorLeft(len(e.buf) - e.cursor)
	e.term.Flush()
}

// redrawLine repaints the prompt and the whole buffer; used when history
// navigation replaces the entire line.
func (e *Editor) redrawLine() {
	e.term.WriteString("\r")
	e.term.ClearToEOL()
	e.term.WriteString(e.prompt)
	e.term.WriteString(string(e.buf))
	e.term.CursorLeft(len(e.buf) - e.cursor)
	e.term.Flush()
}

func (e *Editor) setBuffer(s string) {
	if len(s) > e.capacity {
		s = s[:e.capacity]
	}
	e.buf = append(e.buf[:0], s...)
	e.cursor = len(e.buf)
}

func (e *Editor) historyUp() {
	if e.hist == nil || e.hist.Len() == 0 {
		e.term.Bell()
		return
	}
	if !e.hasSaved {
		e.saved = append(e.saved[:0], e.buf...)
		e.hasSaved = true
		e.navIndex = -1
	}
	if e.navIndex < e.hist.Len()-1 {
		e.navIndex++
		entry, _ := e.hist.Get(e.navIndex)
		e.setBuffer(entry)
		e.redrawLine()
	} else {
		e.term.Bell()
	}
}

func (e *Editor) historyDown() {
	if !e.hasSaved {
		e.term.Bell()
		return
	}
	switch {
	case e.navIndex > 0:
		e.navIndex--
		entry, _ := e.hist.Get(e.navIndex)
		e.setBuffer(entry)
		e.redrawLine()
	case e.navIndex == 0:
		// Past the newest entry: restore the line the user was typing.
		e.navIndex = -1
		e.setBuffer(string(e.saved))
		e.hasSaved = false
		e.redrawLine()
	default:
		e.term.Bell()
	}
}

// ReadLineSimple reads a line without editing support: printable bytes,
// destructive backspace, Enter to commit. Ctrl-C cancels. Ctrl-D commits
// the partial line, or reports EOF when the line is still empty; callers
// that treat an immediate EOF as "finished" (the cat write sub-mode)
// depend on that distinction.
func (t *Terminal) ReadLineSimple(max int) (string, error) {
	buf := make([]byte, 0, max)
	for {
		b, ok := t.io.ReadByte()
		if !ok {
			t.Yield()
			continue
		}
		switch {
		case b == byteCR || b == byteLF:
			t.WriteString("\r\n")
			t.Flush()
			return string(buf), nil
		case b == byteCtrlC:
			t.WriteString("^C\r\n")
			t.Flush()
			return "", ErrCancelled
		case b == byteCtrlD:
			if len(buf) == 0 {
				return "", ErrEOF
			}
			t.WriteString("\r\n")
			t.Flush()
			return string(buf), nil
		case b == byteBackspace || b == byteBS:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				t.WriteString("\b \b")
			}
		case b >= 0x20 && b < 0x7F:
			if len(buf) < max {
				buf = append(buf, b)
				if t.echo {
					t.WriteByte(b)
				}
			} else {
				t.Bell()
			}
		}
	}
}
