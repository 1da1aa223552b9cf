package picker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/term-sessionizer/internal/console"
	"github.com/atomicstack/term-sessionizer/internal/testutil"
)

func newTestDialogue(width int, inbox chan Message[string], opts Options, steps ...keyStep) (*Dialogue[string], *screen, *scriptedKeys) {
	scr := newScreen(width)
	keys := &scriptedKeys{steps: steps}
	if opts.Prompt == "" {
		opts.Prompt = "Pick"
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = time.Millisecond
	}
	if opts.Styles == nil {
		opts.Styles = testStyles()
	}
	var in <-chan Message[string]
	if inbox != nil {
		in = inbox
	}
	return New(in, scr, keys, opts), scr, keys
}

func interact(t *testing.T, d *Dialogue[string]) Result[string] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := d.Interact(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func predictionItems(d *Dialogue[string]) []string {
	out := make([]string, 0, len(d.Predictions()))
	for _, p := range d.Predictions() {
		out = append(out, p.Item)
	}
	return out
}

func steps(groups ...[]keyStep) []keyStep {
	var out []keyStep
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func TestDialogueRanksTypedQuery(t *testing.T) {
	d, _, _ := newTestDialogue(60, nil, Options{}, steps(typed("oo"), []keyStep{press(keyEscape)})...)
	d.AddItems("hehe", "hoohoo", "oo")
	res := interact(t, d)
	if res.Outcome != Cancelled {
		t.Fatalf("expected cancelled, got %v", res.Outcome)
	}
	got := predictionItems(d)
	if len(got) != 2 {
		t.Fatalf("expected hoohoo and oo, got %v", got)
	}
	for _, item := range got {
		if item == "hehe" {
			t.Fatalf("expected hehe to be excluded, got %v", got)
		}
	}
}

func TestDialogueEmptyStoreEnterIsNoOp(t *testing.T) {
	d, _, keys := newTestDialogue(60, nil, Options{}, steps(typed("abc"), []keyStep{press(keyEnter), press(keyDown), press(keyEscape)})...)
	res := interact(t, d)
	if res.Outcome != Cancelled {
		t.Fatalf("expected enter to be ignored and escape to cancel, got %v", res.Outcome)
	}
	if len(d.Predictions()) != 0 || d.Selection() != nil {
		t.Fatalf("expected no predictions and no selection, got %v %v", d.Predictions(), d.Selection())
	}
	if len(keys.steps) != 0 {
		t.Fatalf("expected every key to be consumed, %d left", len(keys.steps))
	}
}

func TestDialogueEscapeAfterItemsArrive(t *testing.T) {
	inbox := make(chan Message[string], 4)
	d, scr, _ := newTestDialogue(60, inbox, Options{}, steps(
		typed("x"),
		[]keyStep{
			idle(func() { inbox <- ItemsFound("xa", "xb") }),
			press(keyEscape),
		},
	)...)
	res := interact(t, d)
	if res.Outcome != Cancelled {
		t.Fatalf("expected cancelled, got %v", res.Outcome)
	}
	if got := predictionItems(d); fmt.Sprint(got) != "[xa xb]" {
		t.Fatalf("expected both arrivals ranked, got %v", got)
	}
	expectLines(t, scr)
}

func TestDialogueForceShutdownWhileWaiting(t *testing.T) {
	inbox := make(chan Message[string], 1)
	d, scr, keys := newTestDialogue(60, inbox, Options{},
		idle(func() { inbox <- ForceShutdown[string]() }),
		press(console.CharKey('q')),
	)
	d.AddItems("a", "b")
	res := interact(t, d)
	if res.Outcome != Shutdown {
		t.Fatalf("expected shutdown, got %v", res.Outcome)
	}
	if len(keys.steps) != 1 {
		t.Fatalf("expected the pending key to stay unread, %d steps left", len(keys.steps))
	}
	expectLines(t, scr)
}

func TestDialogueForceShutdownQueuedDuringKeyWins(t *testing.T) {
	inbox := make(chan Message[string], 1)
	d, scr, keys := newTestDialogue(60, inbox, Options{},
		keyStep{
			before: func() { inbox <- ForceShutdown[string]() },
			key:    console.CharKey('a'),
		},
		press(keyEnter),
	)
	d.AddItems("a", "b")
	res := interact(t, d)
	if res.Outcome != Shutdown {
		t.Fatalf("expected shutdown, got %v %q", res.Outcome, res.Item)
	}
	if len(keys.steps) != 1 {
		t.Fatalf("expected enter to stay unread, %d steps left", len(keys.steps))
	}
	expectLines(t, scr)
}

func TestDialogueEnterSeesItemsQueuedDuringKey(t *testing.T) {
	inbox := make(chan Message[string], 1)
	d, _, _ := newTestDialogue(60, inbox, Options{},
		keyStep{
			before: func() { inbox <- ItemsFound("zz") },
			key:    console.CharKey('z'),
		},
		press(keyEnter),
	)
	res := interact(t, d)
	if res.Outcome != Selected || res.Item != "zz" {
		t.Fatalf("expected zz to be selected, got %v %q", res.Outcome, res.Item)
	}
}

func TestDialogueForceShutdownDistinctFromCancel(t *testing.T) {
	inbox := make(chan Message[string], 1)
	inbox <- ForceShutdown[string]()
	d, _, keys := newTestDialogue(60, inbox, Options{}, press(keyEscape))
	res := interact(t, d)
	if res.Outcome != Shutdown {
		t.Fatalf("expected shutdown before any key, got %v", res.Outcome)
	}
	if keys.polls != 0 {
		t.Fatalf("expected no key polls, got %d", keys.polls)
	}
}

func TestDialogueContextCancelShutsDown(t *testing.T) {
	d, _, _ := newTestDialogue(60, nil, Options{})
	d.AddItems("a")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res, err := d.Interact(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Shutdown {
		t.Fatalf("expected shutdown, got %v", res.Outcome)
	}
}

func TestDialogueSelectsWithArrows(t *testing.T) {
	cases := []struct {
		name string
		keys []keyStep
		want string
	}{
		{"first by default", []keyStep{press(keyEnter)}, "alpha"},
		{"down", []keyStep{press(keyDown), press(keyEnter)}, "beta"},
		{"up wraps to last", []keyStep{press(keyUp), press(keyEnter)}, "gamma"},
		{"down wraps to first", []keyStep{press(keyDown), press(keyDown), press(keyDown), press(keyEnter)}, "alpha"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, scr, _ := newTestDialogue(60, nil, Options{}, tc.keys...)
			d.AddItems("alpha", "beta", "gamma")
			res := interact(t, d)
			if res.Outcome != Selected || res.Item != tc.want {
				t.Fatalf("expected %s selected, got %v %q", tc.want, res.Outcome, res.Item)
			}
			expectLines(t, scr, "✔  Pick: "+tc.want)
		})
	}
}

func TestDialogueSelectionFollowsItem(t *testing.T) {
	inbox := make(chan Message[string], 1)
	d, _, _ := newTestDialogue(60, inbox, Options{Scorer: containsScorer, Limit: 2}, steps(
		typed("x"),
		[]keyStep{
			press(keyUp),
			idle(func() { inbox <- ItemsFound("xxxx") }),
			press(keyEnter),
		},
	)...)
	d.AddItems("xx", "xxx")
	res := interact(t, d)
	// xxx was selected at index 0 and moved to index 1 when xxxx arrived.
	if res.Outcome != Selected || res.Item != "xxx" {
		t.Fatalf("expected xxx to stay selected, got %v %q", res.Outcome, res.Item)
	}
}

func TestDialogueSelectionFallsBackToIndex(t *testing.T) {
	inbox := make(chan Message[string], 1)
	d, _, _ := newTestDialogue(60, inbox, Options{Scorer: containsScorer, Limit: 2}, steps(
		typed("x"),
		[]keyStep{
			idle(func() { inbox <- ItemsFound("xxxx") }),
			press(keyEnter),
		},
	)...)
	d.AddItems("xx", "xxx")
	res := interact(t, d)
	// xx stayed selected at index 1 after typing, then fell out of the top
	// two; index 1 now holds xxx.
	if res.Outcome != Selected || res.Item != "xxx" {
		t.Fatalf("expected index fallback to xxx, got %v %q", res.Outcome, res.Item)
	}
}

func TestDialogueProgressAndClosedInbox(t *testing.T) {
	inbox := make(chan Message[string], 2)
	inbox <- ProgressUpdate[string]("scanning")
	var during, after []string
	var scr *screen
	var d *Dialogue[string]
	d, scr, _ = newTestDialogue(60, inbox, Options{},
		idle(func() {
			during = scr.lines()
			close(inbox)
		}),
		idle(func() { after = scr.lines() }),
		press(keyEscape),
	)
	d.AddItems("a")
	res := interact(t, d)
	if res.Outcome != Cancelled {
		t.Fatalf("expected cancelled, got %v", res.Outcome)
	}
	if len(during) == 0 || during[0] != "🕑 scanning" {
		t.Fatalf("expected progress line while scanning, got %q", during)
	}
	if len(after) == 0 || after[0] != "?  Pick:" {
		t.Fatalf("expected progress cleared after close, got %q", after)
	}
}

func TestDialogueIdleDoesNotRepaint(t *testing.T) {
	inbox := make(chan Message[string], 4)
	d, scr, _ := newTestDialogue(60, inbox, Options{},
		idle(nil),
		idle(func() { inbox <- ItemsFound[string]() }),
		idle(nil),
		press(keyEscape),
	)
	d.AddItems("a", "b")
	interact(t, d)
	// one paint for the first frame and one flush when finishing
	if scr.flushes != 2 {
		t.Fatalf("expected 2 flushes, got %d", scr.flushes)
	}
}

func TestDialogueRescoreIsIdempotent(t *testing.T) {
	d, _, _ := newTestDialogue(60, nil, Options{})
	d.AddItems("alpha", "beta")
	d.rescore()
	before := fmt.Sprint(d.Predictions(), *d.Selection())
	d.dirty = false
	d.stale = true
	d.rescore()
	if d.dirty {
		t.Fatalf("expected no repaint for an unchanged ranking")
	}
	if after := fmt.Sprint(d.Predictions(), *d.Selection()); after != before {
		t.Fatalf("expected identical predictions, got %s vs %s", after, before)
	}
}

func TestDialogueCaretFollowsCursor(t *testing.T) {
	var x, y int
	var scr *screen
	var d *Dialogue[string]
	d, scr, _ = newTestDialogue(60, nil, Options{}, steps(
		typed("ab"),
		[]keyStep{
			press(keyLeft),
			idle(func() { x, y = scr.x, scr.y }),
			press(keyEscape),
		},
	)...)
	interact(t, d)
	if x != 10 || y != 0 {
		t.Fatalf("expected caret at (10,0), got (%d,%d)", x, y)
	}
}

func TestDialogueRejectsInputBeyondWidth(t *testing.T) {
	d, _, _ := newTestDialogue(20, nil, Options{}, steps(typed("abcdefghijklmnop"), []keyStep{press(keyEscape)})...)
	interact(t, d)
	// budget is 15 columns shared with the 4 column label
	if d.query.Len() != 10 {
		t.Fatalf("expected query capped at 10 runes, got %d (%q)", d.query.Len(), d.query.String())
	}
}

func TestDialogueBackspaceAtStartIsNoOp(t *testing.T) {
	d, _, _ := newTestDialogue(60, nil, Options{}, steps(
		typed("ab"),
		[]keyStep{press(keyLeft), press(keyLeft), press(keyBack), press(keyEscape)},
	)...)
	interact(t, d)
	if d.query.String() != "ab" {
		t.Fatalf("expected query unchanged, got %q", d.query.String())
	}
}

type failingKeys struct{ err error }

func (f failingKeys) TryReadKey() (console.Key, bool, error) {
	return console.Key{}, false, f.err
}

func TestDialogueReturnsDecodeErrors(t *testing.T) {
	scr := newScreen(40)
	d := New[string](nil, scr, failingKeys{err: console.ErrInvalidInput}, Options{Styles: testStyles()})
	_, err := d.Interact(context.Background())
	if !errors.Is(err, console.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if !scr.shown {
		t.Fatalf("expected cursor restored after error")
	}
}

func TestDialogueReturnsTerminalErrors(t *testing.T) {
	scr := newScreen(40)
	scr.failAt = 1
	d := New[string](nil, scr, &scriptedKeys{}, Options{Styles: testStyles()})
	d.AddItems("a")
	_, err := d.Interact(context.Background())
	if !errors.Is(err, errWriteFailed) {
		t.Fatalf("expected write failure, got %v", err)
	}
}

func TestDialogueInitialFrameGolden(t *testing.T) {
	inbox := make(chan Message[string], 4)
	inbox <- ProgressUpdate[string]("Last found directory:/src")
	inbox <- ItemsFound("/src/alpha [go]", "/src/beta", "/src/gamma [rust]")

	var frame []string
	var scr *screen
	d, scr, _ := newTestDialogue(40, inbox, Options{},
		idle(func() { frame = scr.lines() }),
		press(keyEscape),
	)
	interact(t, d)

	testutil.AssertGolden(t, "picker_initial_frame.golden", strings.Join(frame, "\n")+"\n")
}
