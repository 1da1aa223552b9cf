//go:build windows

package console

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procReadConsoleInputW = kernel32.NewProc("ReadConsoleInputW")
)

// inputRecord matches INPUT_RECORD; the event union is 16 bytes wide.
type inputRecord struct {
	EventType uint16
	_         uint16
	Event     [16]byte
}

// keyEventRecord matches KEY_EVENT_RECORD.
type keyEventRecord struct {
	KeyDown         int32
	RepeatCount     uint16
	VirtualKeyCode  uint16
	VirtualScanCode uint16
	UnicodeChar     uint16
	ControlKeyState uint32
}

type consoleSource struct {
	handle windows.Handle
}

func openInput() (Source, func() error, error) {
	handle, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE)
	if err != nil {
		return nil, nil, fmt.Errorf("get stdin handle: %w", err)
	}
	if handle == windows.InvalidHandle {
		return nil, nil, fmt.Errorf("get stdin handle: invalid handle")
	}
	return &consoleSource{handle: handle}, func() error { return nil }, nil
}

// prepareOutput turns on virtual terminal processing so ANSI sequences are
// interpreted by the console host.
func prepareOutput(out *os.File) (func() error, error) {
	handle := windows.Handle(out.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		return func() error { return nil }, nil
	}
	if err := windows.SetConsoleMode(handle, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING); err != nil {
		return nil, fmt.Errorf("enable virtual terminal processing: %w", err)
	}
	return func() error { return windows.SetConsoleMode(handle, mode) }, nil
}

func (s *consoleSource) Pending() (int, error) {
	var n uint32
	if err := windows.GetNumberOfConsoleInputEvents(s.handle, &n); err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *consoleSource) Read() (Record, error) {
	var rec inputRecord
	var read uint32
	r1, _, callErr := procReadConsoleInputW.Call(
		uintptr(s.handle),
		uintptr(unsafe.Pointer(&rec)),
		1,
		uintptr(unsafe.Pointer(&read)),
	)
	if r1 == 0 {
		return Record{}, callErr
	}
	if read == 0 {
		return Record{}, ErrNoEvent
	}
	out := Record{Kind: EventKind(rec.EventType)}
	if out.Kind == KeyEvent {
		key := (*keyEventRecord)(unsafe.Pointer(&rec.Event[0]))
		out.KeyDown = key.KeyDown != 0
		out.VirtualKey = key.VirtualKeyCode
		out.Char = key.UnicodeChar
	}
	return out, nil
}
