package picker

import (
	"errors"
	"strings"

	"github.com/atomicstack/term-sessionizer/internal/console"
	"github.com/atomicstack/term-sessionizer/internal/theme"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

var errWriteFailed = errors.New("write failed")

// screen is a minimal virtual terminal: a grid of cells and a cursor. SGR
// styling is dropped the way a terminal would not print it.
type screen struct {
	width   int
	rows    [][]rune
	x, y    int
	shown   bool
	flushes int
	writes  int
	failAt  int
	styled  bool
}

func newScreen(width int) *screen {
	return &screen{width: width, rows: [][]rune{nil}}
}

func (s *screen) fail() error {
	s.writes++
	if s.failAt > 0 && s.writes >= s.failAt {
		return errWriteFailed
	}
	return nil
}

func (s *screen) ensureRow() {
	for len(s.rows) <= s.y {
		s.rows = append(s.rows, nil)
	}
}

func (s *screen) put(str string) {
	s.ensureRow()
	s.styled = s.styled || strings.Contains(str, "\x1b[")
	for _, r := range ansi.Strip(str) {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		row := s.rows[s.y]
		for len(row) < s.x+w {
			row = append(row, ' ')
		}
		row[s.x] = r
		for i := 1; i < w; i++ {
			row[s.x+i] = 0
		}
		s.rows[s.y] = row
		s.x += w
	}
}

func (s *screen) WriteString(str string) (int, error) {
	if err := s.fail(); err != nil {
		return 0, err
	}
	s.put(str)
	return len(str), nil
}

func (s *screen) WriteLine(str string) error {
	if err := s.fail(); err != nil {
		return err
	}
	s.put(str)
	s.y++
	s.x = 0
	s.ensureRow()
	return nil
}

func (s *screen) ClearLastLines(n int) error {
	for i := 0; i < n; i++ {
		if s.y > 0 {
			s.y--
		}
		s.rows[s.y] = nil
	}
	s.x = 0
	return nil
}

func (s *screen) MoveCursorUp(n int) error {
	s.y = max(s.y-n, 0)
	return nil
}

func (s *screen) MoveCursorDown(n int) error {
	s.y += n
	s.ensureRow()
	return nil
}

func (s *screen) MoveCursorLeft(n int) error {
	s.x = max(s.x-n, 0)
	return nil
}

func (s *screen) MoveCursorRight(n int) error {
	s.x += n
	return nil
}

func (s *screen) ShowCursor() error { s.shown = true; return nil }
func (s *screen) HideCursor() error { s.shown = false; return nil }
func (s *screen) Width() int        { return s.width }
func (s *screen) Flush() error      { s.flushes++; return nil }

// lines returns the visible rows without trailing blanks.
func (s *screen) lines() []string {
	out := make([]string, 0, len(s.rows))
	for _, row := range s.rows {
		var b strings.Builder
		for _, r := range row {
			if r != 0 {
				b.WriteRune(r)
			}
		}
		out = append(out, strings.TrimRight(b.String(), " "))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func testStyles() *theme.Styles {
	return theme.New()
}

// keyStep is one poll of a scriptedKeys reader. before runs first; idle
// steps report no key.
type keyStep struct {
	before func()
	key    console.Key
	idle   bool
}

type scriptedKeys struct {
	steps []keyStep
	polls int
}

func (k *scriptedKeys) TryReadKey() (console.Key, bool, error) {
	k.polls++
	if len(k.steps) == 0 {
		return console.Key{}, false, nil
	}
	st := k.steps[0]
	k.steps = k.steps[1:]
	if st.before != nil {
		st.before()
	}
	if st.idle {
		return console.Key{}, false, nil
	}
	return st.key, true, nil
}

func press(key console.Key) keyStep {
	return keyStep{key: key}
}

func typed(text string) []keyStep {
	steps := make([]keyStep, 0, len(text))
	for _, r := range text {
		steps = append(steps, press(console.CharKey(r)))
	}
	return steps
}

func idle(before func()) keyStep {
	return keyStep{before: before, idle: true}
}

var (
	keyEnter  = console.Key{Code: console.KeyEnter}
	keyEscape = console.Key{Code: console.KeyEscape}
	keyUp     = console.Key{Code: console.KeyUp}
	keyDown   = console.Key{Code: console.KeyDown}
	keyLeft   = console.Key{Code: console.KeyLeft}
	keyBack   = console.Key{Code: console.KeyBackspace}
)
