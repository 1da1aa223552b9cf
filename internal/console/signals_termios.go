//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package console

import "golang.org/x/sys/unix"

// keepSignals re-enables ISIG after raw mode so Ctrl-C still interrupts.
func keepSignals(fd int) error {
	t, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return err
	}
	t.Lflag |= unix.ISIG
	return unix.IoctlSetTermios(fd, ioctlSetTermios, t)
}
