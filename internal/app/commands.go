package app

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/atomicstack/term-sessionizer/internal/format/table"
	"github.com/atomicstack/term-sessionizer/internal/history"
	"github.com/atomicstack/term-sessionizer/internal/shell"
)

const visitLayout = "2006-01-02 15:04"

// ChangedDirectory records a visit to dir, resolved against cwd.
func ChangedDirectory(cfg Config, cwd, dir string) error {
	_, err := history.New(cfg.HistoryFile).Visit(cwd, dir)
	return err
}

// Expand writes a cd to path when it exists under cwd, otherwise to the most
// visited history entry matching it, otherwise to path unchanged.
func Expand(cfg Config, cwd, path string, stdout io.Writer) error {
	target, err := history.New(cfg.HistoryFile).Expand(cwd, path)
	if err != nil {
		return err
	}
	return shell.Emit(stdout, shell.ChangeDirectory(target))
}

// ListHistory prints visited directories, most visited first.
func ListHistory(cfg Config, stdout io.Writer) error {
	entries, err := history.New(cfg.HistoryFile).Ranked()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Times),
			e.LastVisit().Local().Format(visitLayout),
			e.Dir,
		})
	}
	header := []string{"TIMES", "LAST VISIT", "DIR"}
	return table.Write(stdout, header, rows, []table.Alignment{table.AlignRight})
}

// Init writes the integration script for shellName.
func Init(shellName string, stdout io.Writer) error {
	sh, err := shell.ParseShell(shellName)
	if err != nil {
		return err
	}
	binary, err := os.Executable()
	if err != nil {
		binary = "term-sessionizer"
	}
	script, err := shell.InitScript(sh, binary)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(stdout, script); err != nil {
		return fmt.Errorf("write init script: %w", err)
	}
	return nil
}
