package display

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// ErrNotTerminal is returned by StartTerminalKeys when the file is not a TTY.
var ErrNotTerminal = errors.New("not a terminal")

// TerminalKeys reads key presses from a terminal in raw mode.
type TerminalKeys struct {
	f     *os.File
	state *term.State
	once  sync.Once
}

// StartTerminalKeys switches f to raw mode and forwards each key read from it
// to keys. Ctrl-C calls interrupt, if set, instead of being forwarded.
// Escape sequences such as arrow keys are discarded so that only a lone ESC
// is reported as KeyEscape.
func StartTerminalKeys(f *os.File, keys chan<- Key, interrupt func()) (*TerminalKeys, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, errors.Wrap(err, "failed to switch terminal to raw mode")
	}

	t := &TerminalKeys{f: f, state: state}
	go readKeys(f, keys, interrupt)
	return t, nil
}

// Restore returns the terminal to the mode it had before StartTerminalKeys.
func (t *TerminalKeys) Restore() error {
	var err error
	t.once.Do(func() {
		err = term.Restore(int(t.f.Fd()), t.state)
	})
	return err
}

// readKeys runs until r fails. A reader blocked on a terminal is abandoned at
// exit rather than interrupted.
func readKeys(r io.Reader, keys chan<- Key, interrupt func()) {
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, k := range decodeKeys(buf[:n]) {
				if k == KeyCtrlC && interrupt != nil {
					interrupt()
					continue
				}
				select {
				case keys <- k:
				default:
				}
			}
		}
		if err != nil {
			return
		}
	}
}

// decodeKeys turns one read from a raw terminal into key codes. A read that
// starts with ESC and carries more bytes is an escape sequence and yields
// nothing.
func decodeKeys(b []byte) []Key {
	if len(b) > 1 && b[0] == byte(KeyEscape) {
		return nil
	}
	out := make([]Key, len(b))
	for i, c := range b {
		out[i] = Key(c)
	}
	return out
}

// RawModeWriter translates "\n" into "\r\n" for output written while the
// terminal is in raw mode.
func RawModeWriter(w io.Writer) io.Writer {
	return crlfWriter{w}
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
