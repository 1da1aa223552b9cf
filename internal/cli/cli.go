// Package cli defines the term-sessionizer command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/atomicstack/term-sessionizer/internal/config"
	"github.com/atomicstack/term-sessionizer/internal/logging"
	"github.com/atomicstack/term-sessionizer/internal/logging/events"
	"github.com/atomicstack/term-sessionizer/internal/picker"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// usageError marks bad flags, arguments or configuration.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// Runner executes one command line against a loaded configuration.
type Runner struct {
	Config config.Config
	Stdout io.Writer
	Stderr io.Writer
	// Startup runs once flags are applied and logging is configured.
	Startup func(config.Config)

	code       int
	configFile string
}

// Execute runs args and returns the process exit code.
func (r *Runner) Execute(ctx context.Context, args []string) int {
	if r.Stdout == nil {
		r.Stdout = os.Stdout
	}
	if r.Stderr == nil {
		r.Stderr = os.Stderr
	}
	if r.Config.Flags == nil {
		r.Config.Flags = map[string]string{}
	}
	r.code = ExitOK

	root := r.newRootCmd()
	root.SetArgs(args)
	root.SetOut(r.Stdout)
	root.SetErr(r.Stderr)

	err := root.ExecuteContext(ctx)
	code := r.code
	var usage usageError
	switch {
	case err == nil:
	case errors.As(err, &usage):
		fmt.Fprintf(r.Stderr, "Error: %v\nRun 'term-sessionizer --help' for usage.\n", err)
		code = ExitUsage
	default:
		logging.Error(err)
		fmt.Fprintf(r.Stderr, "Error: %v\n", err)
		code = ExitFailure
	}
	events.App.Exit(code)
	return code
}

func (r *Runner) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "term-sessionizer [path]",
		Short: "Pick a project under a directory and jump into it",
		Long: `term-sessionizer scans a directory tree for projects (git repositories and
Visual Studio solutions) and lets you fuzzy-pick one while the scan runs.
The chosen project is printed as a command for the shell integration to run:

  <#Execute#>cd <dir>              (default)
  <#Execute#>wt -w 0 nt -d <dir>   (--new-tab)

Install the shell integration with "term-sessionizer init <shell>".`,
		Args:              usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.preRun,
		RunE:              r.runFindProject,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.BoolVar(&r.Config.Logging.Trace, "trace", r.Config.Logging.Trace, "enable verbose JSON trace logging")
	pf.StringVar(&r.Config.Logging.FilePath, "log-file", r.Config.Logging.FilePath, "path to the log file")
	pf.StringVar(&r.configFile, "config", r.Config.File, "path to the config file")

	r.bindPickerFlags(root.Flags())

	root.AddCommand(
		r.newFindProjectCmd(),
		r.newOnChangedDirectoryCmd(),
		r.newExpandCmd(),
		r.newInitCmd(),
		r.newHistoryCmd(),
	)
	return root
}

func (r *Runner) bindPickerFlags(fs *pflag.FlagSet) {
	app := &r.Config.App
	fs.BoolVarP(&app.NewTab, "new-tab", "n", app.NewTab, "open the project in a new Windows Terminal tab")
	fs.StringVar(&app.Prompt, "prompt", app.Prompt, "prompt label")
	fs.IntVar(&app.Limit, "limit", app.Limit, fmt.Sprintf("number of predictions shown (%d-%d)", config.MinLimit, config.MaxLimit))
	fs.StringVar(&app.Algorithm, "algorithm", app.Algorithm, "match algorithm (fzf or levenshtein)")
}

// preRun validates the final configuration and prepares logging.
func (r *Runner) preRun(cmd *cobra.Command, args []string) error {
	if err := config.Validate(r.Config); err != nil {
		return usageError{err}
	}
	logging.Configure(r.Config.Logging.FilePath)
	logging.SetTraceEnabled(r.Config.Logging.Trace)

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		r.Config.Flags[f.Name] = f.Value.String()
	})
	if r.Startup != nil {
		r.Startup(r.Config)
	}
	events.App.Command(cmd.Name(), args)
	return nil
}

// setOutcome maps a picker outcome to the exit code.
func (r *Runner) setOutcome(outcome picker.Outcome) {
	switch outcome {
	case picker.Selected:
		r.code = ExitOK
	case picker.Shutdown:
		r.code = ExitInterrupted
	default:
		r.code = ExitFailure
	}
}

func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
