package console

import (
	"errors"
	"fmt"
	"unicode/utf16"
)

var (
	// ErrInvalidInput reports malformed UTF-16 in the console input stream.
	ErrInvalidInput = errors.New("invalid console input")
	// ErrNoEvent is returned by a Source read when nothing is pending.
	ErrNoEvent = errors.New("no console event pending")
)

const (
	highSurrogateMin = 0xD800
	lowSurrogateMin  = 0xDC00
	surrogateEnd     = 0xE000
)

// Decoder turns console records into keys.
type Decoder struct {
	src Source
}

// NewDecoder wraps src.
func NewDecoder(src Source) *Decoder {
	return &Decoder{src: src}
}

// TryReadKey returns the next key press without blocking. The boolean is false
// when no key is available; key releases and non-keyboard events are consumed
// and also report false.
func (d *Decoder) TryReadKey() (Key, bool, error) {
	rec, ok, err := d.next()
	if err != nil || !ok {
		return Key{}, false, err
	}
	if rec.Kind != KeyEvent || !rec.KeyDown {
		return Key{}, false, nil
	}
	if rec.Char == 0 {
		return keyForVirtual(rec.VirtualKey), true, nil
	}
	key, err := d.decodeUnit(rec.Char)
	if err != nil {
		return Key{}, false, err
	}
	return key, true, nil
}

func (d *Decoder) next() (Record, bool, error) {
	n, err := d.src.Pending()
	if err != nil {
		return Record{}, false, fmt.Errorf("count console events: %w", err)
	}
	if n == 0 {
		return Record{}, false, nil
	}
	rec, err := d.src.Read()
	if errors.Is(err, ErrNoEvent) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("read console event: %w", err)
	}
	return rec, true, nil
}

func (d *Decoder) decodeUnit(unit uint16) (Key, error) {
	switch {
	case unit >= lowSurrogateMin && unit < surrogateEnd:
		return Key{}, fmt.Errorf("%w: unpaired low surrogate %#04x", ErrInvalidInput, unit)
	case unit >= highSurrogateMin && unit < lowSurrogateMin:
		low, err := d.secondHalf(unit)
		if err != nil {
			return Key{}, err
		}
		if low < lowSurrogateMin || low >= surrogateEnd {
			return Key{}, fmt.Errorf("%w: surrogate pair (%#04x, %#04x)", ErrInvalidInput, unit, low)
		}
		return CharKey(utf16.DecodeRune(rune(unit), rune(low))), nil
	}

	switch r := rune(unit); r {
	case '\r':
		return Key{Code: KeyEnter}, nil
	case 0x08:
		return Key{Code: KeyBackspace}, nil
	case 0x1b:
		return Key{Code: KeyEscape}, nil
	default:
		return CharKey(r), nil
	}
}

// secondHalf consumes exactly one more record, which must carry the low
// surrogate that completes high.
func (d *Decoder) secondHalf(high uint16) (uint16, error) {
	rec, ok, err := d.next()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: high surrogate %#04x without second half", ErrInvalidInput, high)
	}
	if rec.Kind != KeyEvent || !rec.KeyDown || rec.Char == 0 {
		return 0, fmt.Errorf("%w: high surrogate %#04x followed by a non-character event", ErrInvalidInput, high)
	}
	return rec.Char, nil
}
