package console

// EventKind mirrors the event type tag of a console input record.
type EventKind uint16

const (
	KeyEvent              EventKind = 0x0001
	MouseEvent            EventKind = 0x0002
	WindowBufferSizeEvent EventKind = 0x0004
	MenuEvent             EventKind = 0x0008
	FocusEvent            EventKind = 0x0010
)

// Record is one console input event. Char holds a single UTF-16 code unit,
// so characters outside the basic plane arrive as two consecutive records.
type Record struct {
	Kind       EventKind
	KeyDown    bool
	VirtualKey uint16
	Char       uint16
}

// Source yields raw console input records without blocking when Pending
// reports zero.
type Source interface {
	Pending() (int, error)
	Read() (Record, error)
}

// Virtual key codes understood by the decoder.
const (
	vkBack   uint16 = 0x08
	vkTab    uint16 = 0x09
	vkReturn uint16 = 0x0D
	vkShift  uint16 = 0x10
	vkMenu   uint16 = 0x12
	vkEscape uint16 = 0x1B
	vkEnd    uint16 = 0x23
	vkHome   uint16 = 0x24
	vkLeft   uint16 = 0x25
	vkUp     uint16 = 0x26
	vkRight  uint16 = 0x27
	vkDown   uint16 = 0x28
	vkDelete uint16 = 0x2E
)

var virtualKeys = map[uint16]KeyCode{
	vkLeft:   KeyLeft,
	vkRight:  KeyRight,
	vkUp:     KeyUp,
	vkDown:   KeyDown,
	vkReturn: KeyEnter,
	vkEscape: KeyEscape,
	vkBack:   KeyBackspace,
	vkTab:    KeyTab,
	vkHome:   KeyHome,
	vkEnd:    KeyEnd,
	vkDelete: KeyDelete,
	vkShift:  KeyShift,
	vkMenu:   KeyAlt,
}

func keyForVirtual(code uint16) Key {
	if kc, ok := virtualKeys[code]; ok {
		return Key{Code: kc}
	}
	return Key{Code: KeyUnknown}
}
