// Package platform abstracts the byte-level console the shell runs on.
//
// The core never branches on platform identity: everything it needs from the
// host is expressed by the IO interface, and two conforming implementations
// are provided (a raw-mode desktop console and a scripted console for
// deterministic tests). A port to another host supplies its own IO.
package platform

import "time"

// IO is the capability set the shell core requires from its host.
//
// ReadByte performs exactly one non-blocking poll of the input source. The
// second return value reports whether a byte was pending; when it is false
// the caller must Yield before polling again, which is the only suspension
// point in the cooperative execution model.
type IO interface {
	// ReadByte polls for one input byte without blocking.
	ReadByte() (byte, bool)

	// Write sends raw bytes to the console output.
	Write(p []byte) (int, error)

	// Flush pushes any buffered output to the device.
	Flush() error

	// Yield hands control back to the host scheduler when no input is
	// pending.
	Yield()

	// Now returns monotonic time since the platform was initialized.
	Now() time.Duration
}

// WriteString is a convenience wrapper over IO.Write.
func WriteString(io IO, s string) {
	io.Write([]byte(s))
}
