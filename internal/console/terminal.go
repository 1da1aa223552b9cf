package console

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

const (
	fallbackWidth = 80
	frameBuffer   = 64 << 10
)

// Terminal writes picker frames to an ANSI capable output. Writes are
// buffered until Flush, then downsampled to the colour profile of the output.
type Terminal struct {
	w       *bufio.Writer
	fd      int
	profile colorprofile.Profile
}

// NewTerminal buffers writes to out. When out is a terminal its width is
// queried on demand; otherwise Width reports a fixed fallback.
func NewTerminal(out io.Writer) *Terminal {
	return newTerminal(out, os.Environ())
}

func newTerminal(out io.Writer, environ []string) *Terminal {
	fd := -1
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	cw := colorprofile.NewWriter(out, environ)
	// NoTTY strips every sequence, cursor movement included.
	cw.Profile = max(cw.Profile, colorprofile.ASCII)
	return &Terminal{w: bufio.NewWriterSize(cw, frameBuffer), fd: fd, profile: cw.Profile}
}

// Profile reports the colour profile frames are downsampled to.
func (t *Terminal) Profile() colorprofile.Profile {
	return t.profile
}

func (t *Terminal) WriteString(s string) (int, error) {
	return t.w.WriteString(s)
}

// WriteLine writes s followed by an explicit carriage return and line feed,
// since raw mode disables output post-processing.
func (t *Terminal) WriteLine(s string) error {
	if _, err := t.w.WriteString(s); err != nil {
		return err
	}
	_, err := t.w.WriteString("\r\n")
	return err
}

// ClearLastLines erases the n lines above the cursor, leaving the cursor at
// the start of the topmost erased line.
func (t *Terminal) ClearLastLines(n int) error {
	if n <= 0 {
		return nil
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(ansi.CursorUp(1))
		b.WriteByte('\r')
		b.WriteString(ansi.EraseEntireLine)
	}
	_, err := t.w.WriteString(b.String())
	return err
}

func (t *Terminal) MoveCursorUp(n int) error {
	return t.move(n, ansi.CursorUp)
}

func (t *Terminal) MoveCursorDown(n int) error {
	return t.move(n, ansi.CursorDown)
}

func (t *Terminal) MoveCursorLeft(n int) error {
	return t.move(n, ansi.CursorBackward)
}

func (t *Terminal) MoveCursorRight(n int) error {
	return t.move(n, ansi.CursorForward)
}

// move skips zero moves: the CSI forms treat a missing count as one.
func (t *Terminal) move(n int, seq func(int) string) error {
	if n <= 0 {
		return nil
	}
	_, err := t.w.WriteString(seq(n))
	return err
}

func (t *Terminal) ShowCursor() error {
	_, err := t.w.WriteString(ansi.ShowCursor)
	return err
}

func (t *Terminal) HideCursor() error {
	_, err := t.w.WriteString(ansi.HideCursor)
	return err
}

// Width reports the current column count, falling back to 80 columns when the
// output is not a terminal or the query fails.
func (t *Terminal) Width() int {
	if t.fd < 0 {
		return fallbackWidth
	}
	width, _, err := term.GetSize(t.fd)
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func (t *Terminal) Flush() error {
	return t.w.Flush()
}
