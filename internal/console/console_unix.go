//go:build unix

package console

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ttySource reads raw bytes from the terminal and re-expresses them as
// console records.
type ttySource struct {
	fd      int
	pending []byte
	queue   []Record
}

func openInput() (Source, func() error, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	fd := int(tty.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		_ = tty.Close()
		return nil, nil, fmt.Errorf("enable raw mode: %w", err)
	}
	if err := keepSignals(fd); err != nil {
		_ = term.Restore(fd, state)
		_ = tty.Close()
		return nil, nil, fmt.Errorf("keep terminal signals: %w", err)
	}
	restore := func() error {
		return errors.Join(term.Restore(fd, state), tty.Close())
	}
	return &ttySource{fd: fd}, restore, nil
}

func prepareOutput(*os.File) (func() error, error) {
	return func() error { return nil }, nil
}

func (s *ttySource) Pending() (int, error) {
	if len(s.queue) == 0 {
		if err := s.fill(); err != nil {
			return 0, err
		}
	}
	return len(s.queue), nil
}

func (s *ttySource) Read() (Record, error) {
	if len(s.queue) == 0 {
		if err := s.fill(); err != nil {
			return Record{}, err
		}
		if len(s.queue) == 0 {
			return Record{}, ErrNoEvent
		}
	}
	rec := s.queue[0]
	s.queue = s.queue[1:]
	return rec, nil
}

func (s *ttySource) fill() error {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return nil
		}
		return fmt.Errorf("poll terminal: %w", err)
	}
	if n == 0 {
		s.expirePending()
		return nil
	}
	if fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 && fds[0].Revents&unix.POLLIN == 0 {
		return io.EOF
	}

	var chunk [256]byte
	read, err := unix.Read(s.fd, chunk[:])
	if err != nil {
		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			return nil
		}
		return fmt.Errorf("read terminal: %w", err)
	}
	if read == 0 {
		return io.EOF
	}
	records, rest := parseInput(append(s.pending, chunk[:read]...))
	s.queue = append(s.queue, records...)
	s.pending = append([]byte(nil), rest...)
	return nil
}

// expirePending resolves an escape prefix that saw no follow-up bytes within
// one poll as a plain escape key press.
func (s *ttySource) expirePending() {
	if len(s.pending) > 0 && s.pending[0] == esc {
		s.queue = append(s.queue, charRecord(vkEscape, esc))
		s.pending = nil
	}
}
