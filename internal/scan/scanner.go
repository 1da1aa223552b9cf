package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/term-sessionizer/internal/logging/events"
	"github.com/atomicstack/term-sessionizer/internal/picker"
)

const (
	DefaultProgressInterval = 200 * time.Millisecond
	progressPrefix          = "Last found directory:"
)

// DefaultIgnore lists directory names never descended into.
var DefaultIgnore = []string{"node_modules"}

// Options tunes a scan. A nil Ignore uses DefaultIgnore; a zero
// ProgressInterval uses DefaultProgressInterval and a negative one reports
// every directory.
type Options struct {
	Ignore           []string
	ProgressInterval time.Duration
}

// Scanner walks a directory tree in the background and publishes projects
// to a picker inbox.
type Scanner struct {
	root     string
	ignore   map[string]struct{}
	progress *throttle

	ctx    context.Context
	cancel context.CancelFunc
	out    chan<- picker.Message[Project]
	wg     sync.WaitGroup
}

// Start resolves root and begins scanning it. Each project is sent as soon as
// it is found, progress is reported at most once per interval, and Finish is
// sent when the walk completes. The out channel is never closed since other
// senders may share it.
func Start(ctx context.Context, root string, out chan<- picker.Message[Project], opts Options) (*Scanner, error) {
	abs, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}
	ignore := opts.Ignore
	if ignore == nil {
		ignore = DefaultIgnore
	}
	interval := opts.ProgressInterval
	switch {
	case interval == 0:
		interval = DefaultProgressInterval
	case interval < 0:
		interval = 0
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Scanner{
		root:     abs,
		ignore:   make(map[string]struct{}, len(ignore)),
		progress: newThrottle(interval),
		ctx:      ctx,
		cancel:   cancel,
		out:      out,
	}
	for _, name := range ignore {
		s.ignore[name] = struct{}{}
	}

	events.Scan.Start(abs, ignore)
	s.wg.Add(1)
	go s.run()
	return s, nil
}

// Root is the absolute directory being scanned.
func (s *Scanner) Root() string {
	return s.root
}

// Stop cancels the walk. Pending sends are abandoned.
func (s *Scanner) Stop() {
	s.cancel()
}

// Wait blocks until the walk goroutine has exited.
func (s *Scanner) Wait() {
	s.wg.Wait()
}

// ResolveRoot expands a leading ~ and makes path absolute.
func ResolveRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("scan root %s is not a directory", abs)
	}
	return abs, nil
}

func (s *Scanner) run() {
	defer s.wg.Done()
	projects, dirs := 0, 0

	stack := []string{s.root}
	for len(stack) > 0 {
		if s.ctx.Err() != nil {
			events.Scan.Done(projects, dirs, true)
			return
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		dirs++

		if s.progress.allow() {
			if !s.send(picker.ProgressUpdate[Project](progressPrefix + dir)) {
				events.Scan.Done(projects, dirs, true)
				return
			}
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			events.Scan.Skip(dir, err)
			continue
		}

		if isProject(entries) {
			project := Project{Path: dir, Kind: classify(entries)}
			events.Scan.Found(project.Path, []string{string(project.Kind)})
			projects++
			if !s.send(picker.ItemsFound(project)) {
				events.Scan.Done(projects, dirs, true)
				return
			}
			continue
		}

		// Push in reverse so siblings are visited in name order.
		for _, entry := range slices.Backward(entries) {
			if !entry.IsDir() {
				continue
			}
			if _, skip := s.ignore[entry.Name()]; skip {
				continue
			}
			stack = append(stack, filepath.Join(dir, entry.Name()))
		}
	}

	s.send(picker.Finish[Project]())
	events.Scan.Done(projects, dirs, false)
}

func (s *Scanner) send(msg picker.Message[Project]) bool {
	select {
	case <-s.ctx.Done():
		return false
	case s.out <- msg:
		return true
	}
}
