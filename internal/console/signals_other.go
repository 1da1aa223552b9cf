//go:build unix && !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package console

func keepSignals(int) error {
	return nil
}
