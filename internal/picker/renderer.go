package picker

import (
	"strings"

	"github.com/atomicstack/term-sessionizer/internal/theme"
	"github.com/charmbracelet/x/ansi"
)

const (
	paddingLeft  = 3
	inputPadding = 5
	ellipsis     = "…"

	promptMarker   = "?"
	selectedMarker = "❯"
	progressMarker = "🕑"
	successMarker  = "✔"
)

// Position is a cell offset from the top-left of the drawn region.
type Position struct {
	X, Y int
}

// Frame is everything one repaint shows. Caret is the display width of the
// query text left of the input cursor; Selected is -1 when nothing is
// highlighted.
type Frame struct {
	Progress string
	Label    string
	Query    string
	Caret    int
	Items    []string
	Selected int
}

// Renderer draws frames and remembers how much it drew, so the next Clear
// removes exactly that region.
type Renderer struct {
	term   Terminal
	styles *theme.Styles
	lines  int
	cursor Position
	end    Position
}

func NewRenderer(term Terminal, styles *theme.Styles) *Renderer {
	if styles == nil {
		styles = theme.New()
	}
	return &Renderer{term: term, styles: styles}
}

// Lines reports how many lines the region currently spans.
func (r *Renderer) Lines() int {
	return r.lines
}

// Cursor reports the tracked cursor position.
func (r *Renderer) Cursor() Position {
	return r.cursor
}

// MaxInputWidth is the column budget shared by the prompt label and query.
func MaxInputWidth(width int) int {
	return max(width-inputPadding, 0)
}

// Clear erases the previously drawn region and resets the cursor tracker to
// the region origin.
func (r *Renderer) Clear() error {
	if err := r.MoveTo(r.end); err != nil {
		return err
	}
	if err := r.term.ClearLastLines(r.lines); err != nil {
		return err
	}
	r.lines = 0
	r.cursor = Position{}
	r.end = Position{}
	return nil
}

// Draw writes f below the origin and returns the caret position. The cursor
// is left at the end of the region.
func (r *Renderer) Draw(f Frame) (Position, error) {
	width := r.term.Width()
	if f.Progress != "" {
		line := r.styles.ProgressMarker.Render(progressMarker) + " " +
			r.styles.Progress.Render(truncate(f.Progress, width-paddingLeft-1))
		if err := r.writeLine(line); err != nil {
			return Position{}, err
		}
	}

	label := truncate(f.Label, width-paddingLeft-3)
	prompt := r.styles.PromptMarker.Render(promptMarker) + pad(paddingLeft-1) +
		r.styles.Prompt.Render(label+": ")
	if err := r.write(prompt); err != nil {
		return Position{}, err
	}
	origin := r.cursor
	if err := r.writeLine(r.styles.Query.Render(f.Query)); err != nil {
		return Position{}, err
	}

	for i, item := range f.Items {
		if err := r.writeLine(r.itemLine(item, i == f.Selected, width)); err != nil {
			return Position{}, err
		}
	}
	r.end = r.cursor
	return Position{X: origin.X + f.Caret, Y: origin.Y}, nil
}

// Confirm writes the final "chosen" line after a selection.
func (r *Renderer) Confirm(label, item string) error {
	width := r.term.Width()
	text := truncate(label+": "+item, width-paddingLeft-1)
	line := r.styles.SuccessMarker.Render(successMarker) + pad(paddingLeft-1) + r.styles.Success.Render(text)
	if err := r.writeLine(line); err != nil {
		return err
	}
	r.end = r.cursor
	return nil
}

// MoveTo moves the cursor by row and column deltas from its tracked position.
func (r *Renderer) MoveTo(p Position) error {
	if dy := p.Y - r.cursor.Y; dy < 0 {
		if err := r.term.MoveCursorUp(-dy); err != nil {
			return err
		}
	} else if err := r.term.MoveCursorDown(dy); err != nil {
		return err
	}
	if dx := p.X - r.cursor.X; dx < 0 {
		if err := r.term.MoveCursorLeft(-dx); err != nil {
			return err
		}
	} else if err := r.term.MoveCursorRight(dx); err != nil {
		return err
	}
	r.cursor = p
	return nil
}

func (r *Renderer) itemLine(item string, selected bool, width int) string {
	text := truncate(item, width-paddingLeft-1)
	if selected {
		return r.styles.SelectedMarker.Render(selectedMarker) + pad(paddingLeft-1) + r.styles.SelectedItem.Render(text)
	}
	return pad(paddingLeft) + r.styles.Item.Render(text)
}

func (r *Renderer) write(s string) error {
	if _, err := r.term.WriteString(s); err != nil {
		return err
	}
	r.cursor.X += ansi.StringWidth(s)
	return nil
}

func (r *Renderer) writeLine(s string) error {
	if err := r.term.WriteLine(s); err != nil {
		return err
	}
	r.lines++
	r.cursor = Position{X: 0, Y: r.cursor.Y + 1}
	return nil
}

// truncate shortens s to at most width cells, ending it with an ellipsis.
// Cuts happen between grapheme clusters.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, ellipsis)
}

func pad(n int) string {
	return strings.Repeat(" ", max(n, 0))
}
