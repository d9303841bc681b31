package platform

import (
	"bytes"
	"time"
)

// Scripted implements IO over preloaded input bytes and an in-memory
// output buffer. Tests use it to drive the editor and session
// deterministically, byte by byte, including escape sequences split
// across polls.
type Scripted struct {
	input  []byte
	pos    int
	output bytes.Buffer

	// Starve inserts an empty poll (ReadByte returns false) before every
	// real byte, exercising the suspension path.
	Starve bool
	parity bool

	yields int
	clock  time.Duration
}

// NewScripted creates a scripted console with the given pending input.
func NewScripted(input string) *Scripted {
	return &Scripted{input: []byte(input)}
}

// FeedString appends more pending input bytes.
func (s *Scripted) FeedString(in string) {
	s.input = append(s.input, in...)
}

// Feed appends raw pending input bytes.
func (s *Scripted) Feed(in ...byte) {
	s.input = append(s.input, in...)
}

// ReadByte returns the next scripted byte, or false when exhausted.
func (s *Scripted) ReadByte() (byte, bool) {
	if s.Starve {
		s.parity = !s.parity
		if s.parity {
			return 0, false
		}
	}
	if s.pos >= len(s.input) {
		return 0, false
	}
	b := s.input[s.pos]
	s.pos++
	return b, true
}

// Write captures output bytes.
func (s *Scripted) Write(p []byte) (int, error) {
	return s.output.Write(p)
}

// Flush is a no-op; output is always available.
func (s *Scripted) Flush() error { return nil }

// Yield advances the fake clock and counts suspensions.
func (s *Scripted) Yield() {
	s.yields++
	s.clock += pollInterval
}

// Now returns the fake monotonic clock.
func (s *Scripted) Now() time.Duration { return s.clock }

// Output returns everything written so far.
func (s *Scripted) Output() string { return s.output.String() }

// ResetOutput clears the captured output.
func (s *Scripted) ResetOutput() { s.output.Reset() }

// Yields reports how many times the caller suspended.
func (s *Scripted) Yields() int { return s.yields }

// Exhausted reports whether all scripted input has been consumed.
func (s *Scripted) Exhausted() bool { return s.pos >= len(s.input) }
