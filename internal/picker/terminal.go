package picker

import "github.com/atomicstack/term-sessionizer/internal/console"

// Terminal is the output capability a Dialogue draws on. Movements are
// relative to the current cursor; ClearLastLines erases the n lines above the
// cursor and leaves it at the start of the topmost one.
type Terminal interface {
	WriteString(s string) (int, error)
	WriteLine(s string) error
	ClearLastLines(n int) error
	MoveCursorUp(n int) error
	MoveCursorDown(n int) error
	MoveCursorLeft(n int) error
	MoveCursorRight(n int) error
	ShowCursor() error
	HideCursor() error
	Width() int
	Flush() error
}

// KeyReader polls for a key press. ok is false when none is available.
type KeyReader interface {
	TryReadKey() (key console.Key, ok bool, err error)
}
