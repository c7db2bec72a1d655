// Package app dispatches the fql subcommands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/boolean-maybe/fql/config"
	"github.com/boolean-maybe/fql/internal/bootstrap"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// errUsage marks a command line the user has to fix.
var errUsage = errors.New("usage error")

const usage = `fql parses filter expressions.

Usage:
  fql parse [--format text|yaml] EXPR...
  fql check [--watch] FILE
  fql repl
  fql operators
  fql init
  fql --version

Global flags:
  --log-level debug|info|warn|error
`

// command is one subcommand. It receives the arguments following its name.
type command func(ctx context.Context, env *environment, args []string) error

var commands = map[string]command{
	"parse":     runParse,
	"check":     runCheck,
	"repl":      runREPL,
	"operators": runOperators,
	"init":      runInit,
}

// environment is what every subcommand runs against.
type environment struct {
	result *bootstrap.BootstrapResult
	stdout io.Writer
	stderr io.Writer
}

// Run executes the command line in args (without the program name) and
// returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return ExitUsage
	}

	switch args[0] {
	case "--version", "-v", "version":
		_, _ = fmt.Fprintf(stdout, "fql version %s\ncommit: %s\nbuilt: %s\n",
			config.Version, config.GitCommit, config.BuildDate)
		return ExitOK
	case "--help", "-h", "help":
		_, _ = fmt.Fprint(stdout, usage)
		return ExitOK
	}

	cmd, ok := commands[args[0]]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "error: unknown command %q\n\n%s", args[0], usage)
		return ExitUsage
	}

	result, err := bootstrap.Bootstrap(args[1:], stderr)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return ExitFailure
	}

	env := &environment{result: result, stdout: stdout, stderr: stderr}
	if err := cmd(ctx, env, args[1:]); err != nil {
		return exitCode(stderr, args[0], err)
	}
	return ExitOK
}

func exitCode(stderr io.Writer, name string, err error) int {
	var invalid *invalidInputError
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return ExitOK
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprintf(stderr, "error: %v\n\n%s", err, usage)
		return ExitUsage
	case errors.As(err, &invalid):
		// findings have already been printed
		slog.Debug("command found invalid input", "command", name, "count", invalid.count)
		return ExitFailure
	default:
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return ExitFailure
	}
}

// invalidInputError reports that a command printed diagnostics.
type invalidInputError struct {
	count int
}

func (e *invalidInputError) Error() string {
	return fmt.Sprintf("%d diagnostic(s)", e.count)
}

// newFlagSet creates a subcommand flag set that also accepts the global flags.
func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("log-level", "", "Log level (debug, info, warn, error)")
	return fs
}

// parseFlags parses args, turning flag errors into usage errors.
func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	return nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
