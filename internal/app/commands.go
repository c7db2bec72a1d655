package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/boolean-maybe/fql/config"
	"github.com/boolean-maybe/fql/filter/parser"
	"github.com/boolean-maybe/fql/internal/check"
	"github.com/boolean-maybe/fql/internal/repl"
	"github.com/boolean-maybe/fql/internal/report"
)

func runParse(_ context.Context, env *environment, args []string) error {
	fs := newFlagSet("parse", env.stderr)
	format := fs.StringP("format", "f", env.result.Cfg.Output.Format, "Output format (text, yaml)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	expr := joinArgs(fs.Args())
	if expr == "" {
		return fmt.Errorf("%w: parse needs an expression", errUsage)
	}
	if !report.ValidFormat(*format) {
		return fmt.Errorf("%w: unknown format %q", errUsage, *format)
	}

	tree := parser.Parse(expr, env.result.Operators)
	slog.Debug("parsed filter", "expr", expr, "diagnostics", len(tree.Diagnostics()))

	if err := report.Render(env.stdout, tree, *format); err != nil {
		return err
	}
	if tree.HasErrors() {
		return &invalidInputError{count: len(tree.Diagnostics())}
	}
	return nil
}

func runCheck(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet("check", env.stderr)
	watch := fs.BoolP("watch", "w", false, "Re-check the file whenever it changes")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: check needs exactly one file", errUsage)
	}
	path := fs.Arg(0)
	ops := env.result.Operators

	if !*watch {
		findings, err := check.LintFile(path, ops)
		if err != nil {
			return err
		}
		if err := check.Write(env.stdout, findings); err != nil {
			return err
		}
		if len(findings) > 0 {
			return &invalidInputError{count: len(findings)}
		}
		return nil
	}

	return check.Watch(ctx, path, env.result.Cfg.Check.Debounce, func(string) {
		findings, err := check.LintFile(path, ops)
		if err != nil {
			slog.Error("failed to check expressions file", "path", path, "error", err)
			return
		}
		if len(findings) == 0 {
			_, _ = fmt.Fprintf(env.stdout, "%s: ok\n", path)
			return
		}
		if err := check.Write(env.stdout, findings); err != nil {
			slog.Error("failed to write findings", "error", err)
		}
	})
}

func runREPL(ctx context.Context, env *environment, args []string) error {
	fs := newFlagSet("repl", env.stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("%w: repl takes no arguments", errUsage)
	}

	historyFile := config.GetHistoryFile()
	if err := config.EnsureDirs(); err != nil {
		slog.Warn("history will not be saved", "error", err)
		historyFile = ""
	}

	cfg := env.result.Cfg
	return repl.Start(ctx, env.stdout, env.result.Operators, repl.Options{
		Prompt:      cfg.REPL.Prompt,
		HistoryFile: historyFile,
		HistorySize: cfg.REPL.HistorySize,
		Format:      cfg.Output.Format,
		Version:     config.Version,
	})
}

func runOperators(_ context.Context, env *environment, args []string) error {
	fs := newFlagSet("operators", env.stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	ops := env.result.Operators.Operators()
	if len(ops) == 0 {
		_, _ = fmt.Fprintln(env.stdout, "no custom operators configured")
		return nil
	}
	for _, op := range ops {
		if op.Description == "" {
			_, _ = fmt.Fprintf(env.stdout, "#%s\n", op.Name)
			continue
		}
		_, _ = fmt.Fprintf(env.stdout, "#%s\t%s\n", op.Name, op.Description)
	}
	return nil
}

func runInit(_ context.Context, env *environment, args []string) error {
	fs := newFlagSet("init", env.stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	path := config.GetProjectConfigFile()
	if err := config.WriteDefaultConfig(path); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return fmt.Errorf("nothing to do: %w", err)
		}
		return err
	}
	_, _ = fmt.Fprintf(env.stdout, "wrote %s\n", path)
	return nil
}
