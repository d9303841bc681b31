package platform

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// pollInterval is how long Yield sleeps when no input byte is pending.
const pollInterval = 10 * time.Millisecond

// Console is the desktop IO implementation. It puts the controlling
// terminal into raw mode so the shell sees every byte (including escape
// sequences) as it arrives, and restores the previous state on Close.
//
// Input bytes are pumped by a background goroutine into a buffered channel
// so ReadByte can poll without blocking, matching the non-blocking UART
// read on an embedded target.
type Console struct {
	in    *os.File
	out   *bufio.Writer
	bytes chan byte
	start time.Time

	rawState *term.State
	isTTY    bool
}

// NewConsole wraps stdin/stdout. Raw mode is only entered when stdin is a
// real terminal; piped input still works for scripted use.
func NewConsole() (*Console, error) {
	c := &Console{
		in:    os.Stdin,
		out:   bufio.NewWriter(os.Stdout),
		bytes: make(chan byte, 256),
		start: time.Now(),
		isTTY: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}

	if c.isTTY {
		state, err := term.MakeRaw(int(c.in.Fd()))
		if err != nil {
			return nil, err
		}
		c.rawState = state
	}

	go c.pump()
	return c, nil
}

// pump moves bytes from stdin into the poll channel. It exits on read
// error or EOF; ReadByte then simply reports "nothing pending" forever,
// and the editor surfaces EOF through Ctrl-D or the host closes the
// session.
func (c *Console) pump() {
	buf := make([]byte, 1)
	for {
		n, err := c.in.Read(buf)
		if n == 1 {
			c.bytes <- buf[0]
		}
		if err != nil {
			// EOF or console read error: commit whatever is pending,
			// then signal end-of-input. An extra Enter on an empty
			// buffer parses as an empty line and is ignored.
			if err == io.EOF {
				c.bytes <- '\r'
			}
			close(c.bytes)
			return
		}
	}
}

// ReadByte polls the input channel once without blocking.
func (c *Console) ReadByte() (byte, bool) {
	select {
	case b, ok := <-c.bytes:
		if !ok {
			// Input closed: deliver EOT so the editor sees EOF.
			return 0x04, true
		}
		return b, true
	default:
		return 0, false
	}
}

// Write sends bytes to the buffered stdout writer.
func (c *Console) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

// Flush drains buffered output to the device.
func (c *Console) Flush() error {
	return c.out.Flush()
}

// Yield sleeps briefly, giving the OS scheduler room while polling.
func (c *Console) Yield() {
	time.Sleep(pollInterval)
}

// Now returns monotonic time since the console was created.
func (c *Console) Now() time.Duration {
	return time.Since(c.start)
}

// IsTerminal reports whether stdin is an interactive terminal.
func (c *Console) IsTerminal() bool {
	return c.isTTY
}

// Close flushes output and restores the terminal state saved by MakeRaw.
func (c *Console) Close() error {
	c.out.Flush()
	if c.rawState != nil {
		return term.Restore(int(c.in.Fd()), c.rawState)
	}
	return nil
}
