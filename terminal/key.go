package terminal

// Key is one decoded logical key event. Printable characters carry their
// byte value (0x20-0x7E); special keys use values above the byte range so
// the two can never collide. KeyNone means "no complete key yet": either
// nothing was pending or the byte extended an escape sequence.
type Key int

// KeyNone reports an empty poll or a partially decoded escape sequence.
const KeyNone Key = 0

// Special keys resolved by the decoder.
const (
	KeyUp Key = iota + 0x100
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyDelete
	KeyPageUp
	KeyPageDown
	KeyEnter
	KeyBackspace
	KeyTab
	KeyCtrlA
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlK
	KeyCtrlL
	KeyCtrlU
)

// Control bytes recognized on the wire.
const (
	byteCtrlA     = 0x01
	byteCtrlC     = 0x03
	byteCtrlD     = 0x04
	byteCtrlE     = 0x05
	byteCtrlK     = 0x0B
	byteCtrlL     = 0x0C
	byteCtrlU     = 0x15
	byteTab       = 0x09
	byteBackspace = 0x7F
	byteBS        = 0x08
	byteCR        = 0x0D
	byteLF        = 0x0A
	byteEsc       = 0x1B
)

// Printable reports whether k is a literal printable character.
func (k Key) Printable() bool {
	return k >= 0x20 && k < 0x7F
}

// escState tracks progress through a multi-byte escape sequence.
type escState int

const (
	escNormal escState = iota
	escEsc             // saw ESC
	escCSI             // saw ESC [
	escSS3             // saw ESC O
)

// Decoder turns a raw byte stream into Key events one byte at a time. It
// holds the escape-sequence state between polls, so sequences split across
// reads decode identically to sequences arriving in one chunk.
type Decoder struct {
	state escState

	// swallowTilde absorbs the '~' terminator that follows CSI 3/5/6
	// (Delete, PageUp, PageDown) on VT-style terminals.
	swallowTilde bool

	// prevCR collapses a CR+LF pair into a single Enter.
	prevCR bool
}

// Feed consumes one byte and returns the resolved key, or KeyNone when the
// byte only advanced the state machine. Bytes that do not complete a known
// sequence are absorbed silently and never surface as literal characters.
func (d *Decoder) Feed(b byte) Key {
	if d.swallowTilde {
		d.swallowTilde = false
		if b == '~' {
			return KeyNone
		}
		// Not the expected terminator: decode it normally.
	}

	if d.state != escNormal {
		d.prevCR = false
		return d.feedEscape(b)
	}

	if d.prevCR && b == byteLF {
		d.prevCR = false
		return KeyNone
	}
	d.prevCR = b == byteCR

	switch b {
	case byteEsc:
		d.state = escEsc
		return KeyNone
	case byteCtrlA:
		return KeyCtrlA
	case byteCtrlC:
		return KeyCtrlC
	case byteCtrlD:
		return KeyCtrlD
	case byteCtrlE:
		return KeyCtrlE
	case byteCtrlK:
		return KeyCtrlK
	case byteCtrlL:
		return KeyCtrlL
	case byteCtrlU:
		return KeyCtrlU
	case byteTab:
		return KeyTab
	case byteBackspace, byteBS:
		return KeyBackspace
	case byteCR, byteLF:
		return KeyEnter
	}

	if b >= 0x20 && b < 0x7F {
		return Key(b)
	}
	// Other control bytes are ignored.
	return KeyNone
}

func (d *Decoder) feedEscape(b byte) Key {
	switch d.state {
	case escEsc:
		switch b {
		case '[':
			d.state = escCSI
		case 'O':
			d.state = escSS3
		default:
			// Unknown sequence: drop it rather than leak a literal.
			d.state = escNormal
		}
		return KeyNone

	case escCSI:
		d.state = escNormal
		switch b {
		case 'A':
			return KeyUp
		case 'B':
			return KeyDown
		case 'C':
			return KeyRight
		case 'D':
			return KeyLeft
		case 'H':
			return KeyHome
		case 'F':
			return KeyEnd
		case '3':
			d.swallowTilde = true
			return KeyDelete
		case '5':
			d.swallowTilde = true
			return KeyPageUp
		case '6':
			d.swallowTilde = true
			return KeyPageDown
		}
		return KeyNone

	case escSS3:
		d.state = escNormal
		switch b {
		case 'A':
			return KeyUp
		case 'B':
			return KeyDown
		case 'C':
			return KeyRight
		case 'D':
			return KeyLeft
		case 'H':
			return KeyHome
		case 'F':
			return KeyEnd
		}
		return KeyNone
	}

	d.state = escNormal
	return KeyNone
}

// Reset abandons any in-progress sequence and returns to the normal state.
func (d *Decoder) Reset() {
	d.state = escNormal
	d.swallowTilde = false
	d.prevCR = false
}
