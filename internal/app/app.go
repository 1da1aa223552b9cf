package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/atomicstack/term-sessionizer/internal/console"
	"github.com/atomicstack/term-sessionizer/internal/logging"
	"github.com/atomicstack/term-sessionizer/internal/logging/events"
	"github.com/atomicstack/term-sessionizer/internal/picker"
	"github.com/atomicstack/term-sessionizer/internal/scan"
	"github.com/atomicstack/term-sessionizer/internal/shell"
	"github.com/atomicstack/term-sessionizer/internal/theme"
)

// Config describes user-provided application options.
type Config struct {
	Root         string
	Prompt       string
	Limit        int
	PollInterval time.Duration
	Algorithm    string
	Ignore       []string
	NewTab       bool
	HistoryFile  string
}

const inboxSize = 64

// session holds the terminal side of a find-project run.
type session struct {
	term       picker.Terminal
	keys       picker.KeyReader
	styles     *theme.Styles
	interrupts <-chan os.Signal
	stdout     io.Writer
}

// FindProject scans cfg.Root for projects, lets the user pick one on the
// controlling terminal and writes the command that opens it to stdout. The
// picker draws on stderr so stdout carries only the execute line.
func FindProject(ctx context.Context, cfg Config, stdout io.Writer) (picker.Outcome, error) {
	con, err := console.Open(os.Stderr)
	if err != nil {
		return picker.Cancelled, err
	}
	defer func() {
		if cerr := con.Close(); cerr != nil {
			logging.Error(fmt.Errorf("restore console: %w", cerr))
		}
	}()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	events.App.ColorProfile(con.Profile().String())

	return findProject(ctx, cfg, session{
		term:       con,
		keys:       con,
		styles:     theme.New(),
		interrupts: interrupts,
		stdout:     stdout,
	})
}

func findProject(ctx context.Context, cfg Config, s session) (picker.Outcome, error) {
	scorer, err := picker.NewScorer(picker.Algorithm(cfg.Algorithm))
	if err != nil {
		return picker.Cancelled, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inbox := make(chan picker.Message[scan.Project], inboxSize)
	scanner, err := scan.Start(ctx, cfg.Root, inbox, scan.Options{Ignore: cfg.Ignore})
	if err != nil {
		return picker.Cancelled, err
	}
	defer func() {
		scanner.Stop()
		scanner.Wait()
	}()
	go forwardInterrupts(ctx, s.interrupts, inbox)

	dlg := picker.New(inbox, s.term, s.keys, picker.Options{
		Prompt:       cfg.Prompt,
		Limit:        cfg.Limit,
		PollInterval: cfg.PollInterval,
		Scorer:       scorer,
		Styles:       s.styles,
	})
	res, err := dlg.Interact(ctx)
	if err != nil {
		return res.Outcome, err
	}
	if res.Outcome != picker.Selected {
		return res.Outcome, nil
	}
	return res.Outcome, shell.Emit(s.stdout, shell.Open(res.Item.Path, cfg.NewTab))
}

// forwardInterrupts turns each signal into a ForceShutdown on the inbox.
func forwardInterrupts(ctx context.Context, interrupts <-chan os.Signal, inbox chan<- picker.Message[scan.Project]) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-interrupts:
			if !ok {
				return
			}
			events.App.Interrupt(sig.String())
			select {
			case inbox <- picker.ForceShutdown[scan.Project]():
			case <-ctx.Done():
				return
			}
		}
	}
}
