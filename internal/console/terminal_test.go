package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
)

const styledHello = "\x1b[1;33mhi\x1b[0m"

func TestTerminalDropsColourWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	term := newTerminal(&buf, nil)
	if term.Profile() != colorprofile.ASCII {
		t.Fatalf("expected Ascii profile, got %v", term.Profile())
	}
	if _, err := term.WriteString(styledHello); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := term.MoveCursorUp(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected output to be buffered until flush, got %q", buf.String())
	}
	if err := term.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "33") {
		t.Fatalf("expected colour to be dropped, got %q", out)
	}
	if !strings.Contains(out, "hi") || !strings.HasSuffix(out, ansi.CursorUp(1)) {
		t.Fatalf("expected text and cursor movement to survive, got %q", out)
	}
}

func TestTerminalKeepsColourWhenForced(t *testing.T) {
	var buf bytes.Buffer
	term := newTerminal(&buf, []string{"CLICOLOR_FORCE=1"})
	if term.Profile() < colorprofile.ANSI {
		t.Fatalf("expected a colour profile, got %v", term.Profile())
	}
	if _, err := term.WriteString(styledHello); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := term.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "33") {
		t.Fatalf("expected the yellow foreground to be kept, got %q", buf.String())
	}
}

func TestTerminalWidthFallsBack(t *testing.T) {
	if w := newTerminal(&bytes.Buffer{}, nil).Width(); w != fallbackWidth {
		t.Fatalf("expected %d columns, got %d", fallbackWidth, w)
	}
}
