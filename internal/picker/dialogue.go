package picker

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"github.com/atomicstack/term-sessionizer/internal/console"
	"github.com/atomicstack/term-sessionizer/internal/logging/events"
	"github.com/atomicstack/term-sessionizer/internal/theme"
	"github.com/mattn/go-runewidth"
)

const (
	DefaultLimit        = 10
	DefaultPollInterval = 10 * time.Millisecond
)

// Outcome is how an interaction ended.
type Outcome int

const (
	Cancelled Outcome = iota
	Selected
	Shutdown
)

func (o Outcome) String() string {
	switch o {
	case Cancelled:
		return "cancelled"
	case Selected:
		return "selected"
	case Shutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

// Result carries the outcome and, for Selected, the chosen item.
type Result[T comparable] struct {
	Outcome Outcome
	Item    T
}

// Options configures a Dialogue. Zero values select the defaults.
type Options struct {
	Prompt       string
	Limit        int
	PollInterval time.Duration
	Scorer       Scorer
	Styles       *theme.Styles
}

// Dialogue is an interactive fuzzy picker over items of type T. Items are
// displayed with fmt.Sprint. A Dialogue is single-use and must only be driven
// from one goroutine; producers talk to it through the inbox channel.
type Dialogue[T comparable] struct {
	inbox    <-chan Message[T]
	term     Terminal
	keys     KeyReader
	prompt   string
	interval time.Duration
	matcher  *Matcher
	renderer *Renderer

	items    []T
	texts    []string
	query    Query
	progress string

	predictions []Prediction[T]
	selection   *Selection[T]

	stale    bool
	dirty    bool
	shutdown bool
}

// New builds a dialogue reading producer messages from inbox. A nil inbox is
// allowed for a fixed item set.
func New[T comparable](inbox <-chan Message[T], term Terminal, keys KeyReader, opts Options) *Dialogue[T] {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	scorer := opts.Scorer
	if scorer == nil {
		scorer = NewFzfScorer()
	}
	return &Dialogue[T]{
		inbox:    inbox,
		term:     term,
		keys:     keys,
		prompt:   opts.Prompt,
		interval: interval,
		matcher:  NewMatcher(scorer, limit),
		renderer: NewRenderer(term, opts.Styles),
		stale:    true,
		dirty:    true,
	}
}

// AddItems seeds items before Interact is called.
func (d *Dialogue[T]) AddItems(items ...T) {
	for _, item := range items {
		d.items = append(d.items, item)
		d.texts = append(d.texts, fmt.Sprint(item))
	}
	d.stale = true
}

// Predictions returns the current ranked list.
func (d *Dialogue[T]) Predictions() []Prediction[T] {
	return d.predictions
}

// Selection returns the highlighted prediction, or nil.
func (d *Dialogue[T]) Selection() *Selection[T] {
	return d.selection
}

// Interact runs the picker until the user selects or cancels, a
// ForceShutdown message arrives, or ctx is done. Terminal and input errors
// abort the interaction and are returned as is.
func (d *Dialogue[T]) Interact(ctx context.Context) (Result[T], error) {
	events.Picker.Start(d.prompt, len(d.items), d.matcher.Limit())
	res, err := d.run(ctx)
	if err != nil {
		events.Picker.Error(err)
		_ = d.term.ShowCursor()
		_ = d.term.Flush()
		return Result[T]{}, err
	}
	item := ""
	if res.Outcome == Selected {
		item = fmt.Sprint(res.Item)
	}
	events.Picker.Finish(res.Outcome.String(), item)
	return res, nil
}

// run drives the frame loop. Every frame starts by applying whatever is
// queued in the inbox, so a pending key never overtakes a message that
// arrived before it.
func (d *Dialogue[T]) run(ctx context.Context) (Result[T], error) {
	for {
		d.drain()
		if d.shutdown {
			return d.finish(Result[T]{Outcome: Shutdown})
		}
		d.rescore()
		if err := d.paint(); err != nil {
			return Result[T]{}, err
		}
		key, w, err := d.wait(ctx)
		if err != nil {
			return Result[T]{}, err
		}
		switch w {
		case wakeShutdown:
			return d.finish(Result[T]{Outcome: Shutdown})
		case wakeKey:
			if res, done := d.handleKey(key); done {
				return d.finish(res)
			}
		}
	}
}

type wake int

const (
	wakeKey wake = iota
	wakeData
	wakeShutdown
)

// wait polls for a key, draining the inbox between polls. It returns early
// when drained messages changed state, and sleeps at most one poll interval
// at a time, waking immediately for a new message.
func (d *Dialogue[T]) wait(ctx context.Context) (console.Key, wake, error) {
	timer := time.NewTimer(d.interval)
	defer timer.Stop()
	for {
		key, ok, err := d.keys.TryReadKey()
		if err != nil {
			return console.Key{}, 0, fmt.Errorf("read key: %w", err)
		}
		if ok {
			return key, wakeKey, nil
		}
		changed := d.drain()
		if d.shutdown {
			return console.Key{}, wakeShutdown, nil
		}
		if changed {
			return console.Key{}, wakeData, nil
		}

		timer.Reset(d.interval)
		select {
		case <-ctx.Done():
			d.shutdown = true
			return console.Key{}, wakeShutdown, nil
		case msg, ok := <-d.inbox:
			changed := d.apply(msg, ok)
			if d.shutdown {
				return console.Key{}, wakeShutdown, nil
			}
			if changed {
				return console.Key{}, wakeData, nil
			}
		case <-timer.C:
		}
	}
}

// drain applies every queued message without blocking and reports whether
// anything visible changed.
func (d *Dialogue[T]) drain() bool {
	changed := false
	for d.inbox != nil && !d.shutdown {
		select {
		case msg, ok := <-d.inbox:
			if d.apply(msg, ok) {
				changed = true
			}
		default:
			return changed
		}
	}
	return changed
}

// apply handles one message. A closed inbox counts as Finish.
func (d *Dialogue[T]) apply(msg Message[T], ok bool) bool {
	if !ok {
		d.inbox = nil
		msg = Finish[T]()
	}
	events.Picker.Message(msg.Kind.String(), len(msg.Items))
	switch msg.Kind {
	case MsgItemsFound:
		if len(msg.Items) == 0 {
			return false
		}
		d.AddItems(msg.Items...)
		return true
	case MsgProgressUpdate:
		return d.setProgress(msg.Progress)
	case MsgFinish:
		return d.setProgress("")
	case MsgForceShutdown:
		d.shutdown = true
		return true
	default:
		return false
	}
}

func (d *Dialogue[T]) setProgress(text string) bool {
	if text == d.progress {
		return false
	}
	d.progress = text
	d.dirty = true
	return true
}

// rescore re-ranks when items or the query changed. It marks the frame dirty
// only if the visible list or the selection differ from the previous ones.
func (d *Dialogue[T]) rescore() {
	if !d.stale {
		return
	}
	d.stale = false
	ranked := d.matcher.Rank(d.texts, d.query.String())
	preds := make([]Prediction[T], len(ranked))
	for i, r := range ranked {
		preds[i] = Prediction[T]{Item: d.items[r.Index], Index: r.Index, Score: r.Score}
	}
	sel := TrackSelection(d.selection, preds)
	changed := !samePredictions(preds, d.predictions) || !sameSelection(sel, d.selection)
	d.predictions = preds
	d.selection = sel
	if changed {
		d.dirty = true
	}
	events.Picker.Rescore(d.query.String(), len(d.items), len(preds), changed)
}

func (d *Dialogue[T]) paint() error {
	if !d.dirty {
		return nil
	}
	if err := d.term.HideCursor(); err != nil {
		return err
	}
	if err := d.renderer.Clear(); err != nil {
		return err
	}
	caret, err := d.renderer.Draw(d.frame())
	if err != nil {
		return err
	}
	if err := d.renderer.MoveTo(caret); err != nil {
		return err
	}
	if err := d.term.ShowCursor(); err != nil {
		return err
	}
	if err := d.term.Flush(); err != nil {
		return err
	}
	d.dirty = false
	events.Picker.Repaint(d.renderer.Lines())
	return nil
}

func (d *Dialogue[T]) frame() Frame {
	items := make([]string, len(d.predictions))
	for i, p := range d.predictions {
		items[i] = d.texts[p.Index]
	}
	selected := -1
	if d.selection != nil {
		selected = d.selection.Index
	}
	return Frame{
		Progress: d.progress,
		Label:    d.prompt,
		Query:    d.query.String(),
		Caret:    d.query.CaretWidth(),
		Items:    items,
		Selected: selected,
	}
}

// handleKey applies key to the query or selection. done reports a terminal
// outcome.
func (d *Dialogue[T]) handleKey(key console.Key) (Result[T], bool) {
	events.Picker.Key(key.String())
	switch key.Code {
	case console.KeyChar:
		if !unicode.IsPrint(key.Rune) {
			return Result[T]{}, false
		}
		if !d.fits(key.Rune) {
			events.Query.Reject(d.query.String(), key.Rune)
			return Result[T]{}, false
		}
		d.query.Insert(key.Rune)
		d.stale, d.dirty = true, true
		events.Query.Insert(d.query.String(), d.query.CursorPos())
	case console.KeyBackspace:
		if d.query.DeleteBackward() {
			d.stale, d.dirty = true, true
			events.Query.Backspace(d.query.String(), d.query.CursorPos())
		}
	case console.KeyLeft:
		if d.query.MoveLeft() {
			d.dirty = true
			events.Query.Cursor(d.query.CursorPos())
		}
	case console.KeyRight:
		if d.query.MoveRight() {
			d.dirty = true
			events.Query.Cursor(d.query.CursorPos())
		}
	case console.KeyUp:
		d.moveSelection(-1)
	case console.KeyDown:
		d.moveSelection(1)
	case console.KeyEnter:
		if d.selection != nil {
			return Result[T]{Outcome: Selected, Item: d.selection.Item}, true
		}
	case console.KeyEscape:
		return Result[T]{Outcome: Cancelled}, true
	}
	return Result[T]{}, false
}

func (d *Dialogue[T]) moveSelection(delta int) {
	next := step(d.selection, d.predictions, delta)
	if sameSelection(next, d.selection) {
		return
	}
	d.selection = next
	d.dirty = true
	if next != nil {
		events.Picker.Selection(next.Index)
	}
}

// fits reports whether inserting r keeps the label and query inside the
// input width budget.
func (d *Dialogue[T]) fits(r rune) bool {
	used := runewidth.StringWidth(d.prompt) + d.query.Width() + runewidth.RuneWidth(r)
	return used < MaxInputWidth(d.term.Width())
}

// finish clears the drawn region and, for a selection, leaves a confirmation
// line behind.
func (d *Dialogue[T]) finish(res Result[T]) (Result[T], error) {
	if err := d.term.HideCursor(); err != nil {
		return Result[T]{}, err
	}
	if err := d.renderer.Clear(); err != nil {
		return Result[T]{}, err
	}
	if res.Outcome == Selected {
		text := fmt.Sprint(res.Item)
		if d.selection != nil && d.selection.Index < len(d.predictions) {
			text = d.texts[d.predictions[d.selection.Index].Index]
		}
		if err := d.renderer.Confirm(d.prompt, text); err != nil {
			return Result[T]{}, err
		}
	}
	if err := d.term.ShowCursor(); err != nil {
		return Result[T]{}, err
	}
	if err := d.term.Flush(); err != nil {
		return Result[T]{}, err
	}
	return res, nil
}
