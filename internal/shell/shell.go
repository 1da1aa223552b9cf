// Package shell formats the command lines handed back to the calling shell
// and the init scripts that interpret them.
package shell

import (
	"embed"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/atomicstack/term-sessionizer/internal/logging/events"
)

// ExecutePrefix marks a stdout line the shell wrapper must run.
const ExecutePrefix = "<#Execute#>"

// Shell names a supported init script.
type Shell string

const (
	PowerShell Shell = "powershell"
	Bash       Shell = "bash"
	Zsh        Shell = "zsh"
)

// DefaultShell is used by init when no shell is named.
const DefaultShell = PowerShell

//go:embed scripts
var scripts embed.FS

var scriptFiles = map[Shell]string{
	PowerShell: "scripts/init.ps1",
	Bash:       "scripts/init.bash",
	Zsh:        "scripts/init.zsh",
}

// Shells lists the supported shells in display order.
func Shells() []Shell {
	return []Shell{PowerShell, Bash, Zsh}
}

// ParseShell maps a user supplied name to a Shell. "pwsh" is accepted as an
// alias of powershell and an empty name selects DefaultShell.
func ParseShell(name string) (Shell, error) {
	switch n := Shell(strings.ToLower(strings.TrimSpace(name))); n {
	case "":
		return DefaultShell, nil
	case "pwsh":
		return PowerShell, nil
	default:
		if slices.Contains(Shells(), n) {
			return n, nil
		}
		return "", fmt.Errorf("unsupported shell %q (expected one of %s)", name, joinShells())
	}
}

// InitScript returns the integration script for sh, invoking binary.
func InitScript(sh Shell, binary string) (string, error) {
	file, ok := scriptFiles[sh]
	if !ok {
		return "", fmt.Errorf("unsupported shell %q", sh)
	}
	data, err := scripts.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read %s script: %w", sh, err)
	}
	return strings.ReplaceAll(string(data), "'@BIN@'", quote(sh, binary)), nil
}

// ChangeDirectory is the command that moves the caller into dir.
func ChangeDirectory(dir string) string {
	return "cd " + dir
}

// NewTab is the Windows Terminal command that opens dir in a new tab of the
// current window.
func NewTab(dir string) string {
	return "wt -w 0 nt -d " + dir
}

// Open picks ChangeDirectory or NewTab.
func Open(dir string, newTab bool) string {
	if newTab {
		return NewTab(dir)
	}
	return ChangeDirectory(dir)
}

// Emit writes command as a single execute line.
func Emit(w io.Writer, command string) error {
	line := ExecutePrefix + command
	events.App.Emit(line)
	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("emit command: %w", err)
	}
	return nil
}

func quote(sh Shell, s string) string {
	if sh == PowerShell {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func joinShells() string {
	names := make([]string, 0, len(Shells()))
	for _, sh := range Shells() {
		names = append(names, string(sh))
	}
	return strings.Join(names, ", ")
}
