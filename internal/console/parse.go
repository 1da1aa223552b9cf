package console

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const esc = 0x1b

// parseInput converts raw terminal bytes into console records. Bytes that may
// begin an incomplete escape sequence or UTF-8 character are returned as rest
// so the next read can complete them. A lone ESC at the end of the buffer is
// reported as the escape key. Invalid UTF-8 is kept as an error record.
func parseInput(buf []byte) (records []Record, rest []byte) {
	for len(buf) > 0 {
		b := buf[0]
		switch {
		case b == esc:
			recs, n, ok := parseEscape(buf)
			if !ok {
				return records, buf
			}
			records = append(records, recs...)
			buf = buf[n:]
		case b == '\r' || b == '\n':
			records = append(records, charRecord(vkReturn, '\r'))
			buf = buf[1:]
		case b == 0x7f || b == 0x08:
			records = append(records, charRecord(vkBack, 0x08))
			buf = buf[1:]
		case b == '\t':
			records = append(records, virtualRecord(vkTab))
			buf = buf[1:]
		case b < utf8.RuneSelf:
			records = append(records, charRecord(0, uint16(b)))
			buf = buf[1:]
		default:
			if !utf8.FullRune(buf) {
				return records, buf
			}
			r, size := utf8.DecodeRune(buf)
			if r == utf8.RuneError && size == 1 {
				// Malformed bytes become lone low surrogates, which the
				// decoder reports as ErrInvalidInput in stream order.
				records = append(records, charRecord(0, lowSurrogateMin|uint16(buf[0])))
				buf = buf[1:]
				continue
			}
			buf = buf[size:]
			for _, unit := range utf16.Encode([]rune{r}) {
				records = append(records, charRecord(0, unit))
			}
		}
	}
	return records, nil
}

// parseEscape decodes a sequence starting with ESC. ok is false when the
// sequence is incomplete.
func parseEscape(buf []byte) ([]Record, int, bool) {
	if len(buf) == 1 {
		return []Record{charRecord(vkEscape, esc)}, 1, true
	}
	switch buf[1] {
	case '[':
		return parseCSI(buf)
	case 'O':
		if len(buf) < 3 {
			return nil, 0, false
		}
		return []Record{virtualRecord(finalKey(buf[2]))}, 3, true
	case esc:
		return []Record{charRecord(vkEscape, esc)}, 1, true
	default:
		// ESC followed by a key is how terminals report Alt chords.
		_, size := utf8.DecodeRune(buf[1:])
		return []Record{virtualRecord(vkMenu)}, 1 + size, true
	}
}

func parseCSI(buf []byte) ([]Record, int, bool) {
	i := 2
	for i < len(buf) && buf[i] >= 0x20 && buf[i] <= 0x3f {
		i++
	}
	if i >= len(buf) {
		return nil, 0, false
	}
	final := buf[i]
	if final < 0x40 || final > 0x7e {
		// Not a well-formed sequence: surface the escape and resume after it.
		return []Record{charRecord(vkEscape, esc)}, 1, true
	}
	n := i + 1
	if final == '~' {
		return []Record{virtualRecord(tildeKey(string(buf[2:i])))}, n, true
	}
	return []Record{virtualRecord(finalKey(final))}, n, true
}

func finalKey(b byte) uint16 {
	switch b {
	case 'A':
		return vkUp
	case 'B':
		return vkDown
	case 'C':
		return vkRight
	case 'D':
		return vkLeft
	case 'H':
		return vkHome
	case 'F':
		return vkEnd
	default:
		return 0
	}
}

func tildeKey(params string) uint16 {
	if i := strings.IndexByte(params, ';'); i >= 0 {
		params = params[:i]
	}
	switch params {
	case "1", "7":
		return vkHome
	case "4", "8":
		return vkEnd
	case "3":
		return vkDelete
	default:
		return 0
	}
}

func charRecord(vk, unit uint16) Record {
	return Record{Kind: KeyEvent, KeyDown: true, VirtualKey: vk, Char: unit}
}

func virtualRecord(vk uint16) Record {
	return Record{Kind: KeyEvent, KeyDown: true, VirtualKey: vk}
}
