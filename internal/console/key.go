package console

import "fmt"

// KeyCode identifies a key in the alphabet the picker understands.
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyChar
	KeyBackspace
	KeyEnter
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyTab
	KeyHome
	KeyEnd
	KeyDelete
	KeyShift
	KeyAlt
)

var keyNames = map[KeyCode]string{
	KeyUnknown:   "unknown",
	KeyChar:      "char",
	KeyBackspace: "backspace",
	KeyEnter:     "enter",
	KeyEscape:    "escape",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyTab:       "tab",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyDelete:    "delete",
	KeyShift:     "shift",
	KeyAlt:       "alt",
}

func (c KeyCode) String() string {
	if name, ok := keyNames[c]; ok {
		return name
	}
	return fmt.Sprintf("KeyCode(%d)", int(c))
}

// Key is a single decoded key press. Rune is only meaningful for KeyChar.
type Key struct {
	Code KeyCode
	Rune rune
}

// CharKey is shorthand for a printable key press.
func CharKey(r rune) Key {
	return Key{Code: KeyChar, Rune: r}
}

func (k Key) String() string {
	if k.Code == KeyChar {
		return fmt.Sprintf("char(%q)", k.Rune)
	}
	return k.Code.String()
}
