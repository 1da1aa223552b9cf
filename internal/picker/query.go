package picker

import "github.com/mattn/go-runewidth"

// Query is the editable input line. Cursor is a rune offset in [0, len].
type Query struct {
	runes  []rune
	cursor int
}

func (q *Query) String() string {
	return string(q.runes)
}

// Len returns the query length in runes.
func (q *Query) Len() int {
	return len(q.runes)
}

// CursorPos returns the rune offset of the cursor.
func (q *Query) CursorPos() int {
	if q.cursor < 0 {
		return 0
	}
	if q.cursor > len(q.runes) {
		return len(q.runes)
	}
	return q.cursor
}

// Width returns the display width of the whole query.
func (q *Query) Width() int {
	return runewidth.StringWidth(string(q.runes))
}

// CaretWidth returns the display width of the text left of the cursor.
func (q *Query) CaretWidth() int {
	return runewidth.StringWidth(string(q.runes[:q.CursorPos()]))
}

// Insert puts r at the cursor and advances past it.
func (q *Query) Insert(r rune) {
	pos := q.CursorPos()
	updated := make([]rune, 0, len(q.runes)+1)
	updated = append(updated, q.runes[:pos]...)
	updated = append(updated, r)
	updated = append(updated, q.runes[pos:]...)
	q.runes = updated
	q.cursor = pos + 1
}

// DeleteBackward removes the rune before the cursor. At offset 0 it does
// nothing and reports false.
func (q *Query) DeleteBackward() bool {
	pos := q.CursorPos()
	if pos == 0 {
		return false
	}
	q.runes = append(q.runes[:pos-1], q.runes[pos:]...)
	q.cursor = pos - 1
	return true
}

// MoveLeft moves the cursor one rune left, reporting whether it moved.
func (q *Query) MoveLeft() bool {
	pos := q.CursorPos()
	if pos == 0 {
		return false
	}
	q.cursor = pos - 1
	return true
}

// MoveRight moves the cursor one rune right, reporting whether it moved.
func (q *Query) MoveRight() bool {
	pos := q.CursorPos()
	if pos >= len(q.runes) {
		return false
	}
	q.cursor = pos + 1
	return true
}
