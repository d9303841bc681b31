package terminal

import "testing"

// feedAll pushes every byte through the decoder and collects the keys
// that resolved.
func feedAll(d *Decoder, input string) []Key {
	var keys []Key
	for i := 0; i < len(input); i++ {
		if k := d.Feed(input[i]); k != KeyNone {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestDecoderSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Key
	}{
		{"printable", "ab", []Key{Key('a'), Key('b')}},
		{"enter cr", "\r", []Key{KeyEnter}},
		{"enter lf", "\n", []Key{KeyEnter}},
		{"crlf collapses", "\r\n", []Key{KeyEnter}},
		{"two bare crs", "\r\r", []Key{KeyEnter, KeyEnter}},
		{"lf then cr", "\n\r", []Key{KeyEnter, KeyEnter}},
		{"backspace del", "\x7f", []Key{KeyBackspace}},
		{"backspace bs", "\x08", []Key{KeyBackspace}},
		{"tab", "\t", []Key{KeyTab}},
		{"ctrl-a", "\x01", []Key{KeyCtrlA}},
		{"ctrl-c", "\x03", []Key{KeyCtrlC}},
		{"ctrl-d", "\x04", []Key{KeyCtrlD}},
		{"ctrl-e", "\x05", []Key{KeyCtrlE}},
		{"ctrl-k", "\x0b", []Key{KeyCtrlK}},
		{"ctrl-l", "\x0c", []Key{KeyCtrlL}},
		{"ctrl-u", "\x15", []Key{KeyCtrlU}},
		{"csi up", "\x1b[A", []Key{KeyUp}},
		{"csi down", "\x1b[B", []Key{KeyDown}},
		{"csi right", "\x1b[C", []Key{KeyRight}},
		{"csi left", "\x1b[D", []Key{KeyLeft}},
		{"csi home", "\x1b[H", []Key{KeyHome}},
		{"csi end", "\x1b[F", []Key{KeyEnd}},
		{"csi delete", "\x1b[3~", []Key{KeyDelete}},
		{"csi pgup", "\x1b[5~", []Key{KeyPageUp}},
		{"csi pgdn", "\x1b[6~", []Key{KeyPageDown}},
		{"ss3 up", "\x1bOA", []Key{KeyUp}},
		{"ss3 down", "\x1bOB", []Key{KeyDown}},
		{"ss3 right", "\x1bOC", []Key{KeyRight}},
		{"ss3 left", "\x1bOD", []Key{KeyLeft}},
		{"ss3 home", "\x1bOH", []Key{KeyHome}},
		{"ss3 end", "\x1bOF", []Key{KeyEnd}},
		{"unknown csi absorbed", "\x1b[Zx", []Key{Key('x')}},
		{"unknown intro absorbed", "\x1bQx", []Key{Key('x')}},
		{"arrow between text", "a\x1b[Db", []Key{Key('a'), KeyLeft, Key('b')}},
		{"delete then text", "\x1b[3~x", []Key{KeyDelete, Key('x')}},
		{"delete without tilde", "\x1b[3x", []Key{KeyDelete, Key('x')}},
		{"other control ignored", "\x02x", []Key{Key('x')}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Decoder
			got := feedAll(&d, tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v keys %v, want %v", len(got), got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("key %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecoderSplitSequence(t *testing.T) {
	// Escape sequences arriving one byte per poll must decode the same as
	// sequences arriving in a single chunk.
	var d Decoder
	if k := d.Feed(0x1b); k != KeyNone {
		t.Fatalf("after ESC: got %v, want KeyNone", k)
	}
	if k := d.Feed('['); k != KeyNone {
		t.Fatalf("after ESC [: got %v, want KeyNone", k)
	}
	if k := d.Feed('A'); k != KeyUp {
		t.Fatalf("after ESC [ A: got %v, want KeyUp", k)
	}
}

func TestDecoderReset(t *testing.T) {
	var d Decoder
	d.Feed(0x1b)
	d.Feed('[')
	d.Reset()
	if k := d.Feed('A'); k != Key('A') {
		t.Fatalf("after reset: got %v, want literal A", k)
	}
}

func TestKeyPrintable(t *testing.T) {
	if !Key(' ').Printable() || !Key('~').Printable() {
		t.Fatal("space and tilde should be printable")
	}
	if Key(0x1f).Printable() || Key(0x7f).Printable() || KeyUp.Printable() {
		t.Fatal("control bytes and special keys should not be printable")
	}
}
