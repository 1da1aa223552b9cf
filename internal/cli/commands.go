package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atomicstack/term-sessionizer/internal/app"
	"github.com/atomicstack/term-sessionizer/internal/shell"
)

func (r *Runner) newFindProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find-project [path]",
		Short: "Scan path for projects and pick one (default command)",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE:  r.runFindProject,
	}
	r.bindPickerFlags(cmd.Flags())
	return cmd
}

func (r *Runner) runFindProject(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		r.Config.App.Root = args[0]
	}
	outcome, err := app.FindProject(cmd.Context(), r.Config.App, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	r.setOutcome(outcome)
	return nil
}

func (r *Runner) newOnChangedDirectoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "on-changed-directory <path>",
		Short: "Record a visit to path in the directory history",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("working directory: %w", err)
			}
			return app.ChangedDirectory(r.Config.App, cwd, args[0])
		},
	}
}

func (r *Runner) newExpandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <path>",
		Short: "Print a cd to path, or to the most visited directory matching it",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("working directory: %w", err)
			}
			return app.Expand(r.Config.App, cwd, args[0], cmd.OutOrStdout())
		},
	}
}

func (r *Runner) newInitCmd() *cobra.Command {
	valid := make([]string, 0, len(shell.Shells()))
	for _, sh := range shell.Shells() {
		valid = append(valid, string(sh))
	}
	return &cobra.Command{
		Use:   "init [shell]",
		Short: "Print the shell integration script",
		Long: `Print the shell integration script (powershell when no shell is named).

  # PowerShell ($PROFILE):
  Invoke-Expression (& term-sessionizer init powershell | Out-String)

  # Bash (~/.bashrc):
  eval "$(term-sessionizer init bash)"

  # Zsh (~/.zshrc):
  eval "$(term-sessionizer init zsh)"`,
		Args:      usageArgs(cobra.MaximumNArgs(1)),
		ValidArgs: valid,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if _, err := shell.ParseShell(name); err != nil {
				return usageError{err}
			}
			return app.Init(name, cmd.OutOrStdout())
		},
	}
}

func (r *Runner) newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List visited directories, most visited first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ListHistory(r.Config.App, cmd.OutOrStdout())
		},
	}
}
