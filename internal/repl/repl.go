// Package repl is an interactive prompt that parses one filter per line.
package repl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/boolean-maybe/fql/filter/parser"
	"github.com/boolean-maybe/fql/internal/report"
	"github.com/boolean-maybe/fql/operator"
)

// Options configures Start.
type Options struct {
	Prompt      string
	HistoryFile string
	HistorySize int
	Format      string
	Version     string
}

var commands = []string{":help", ":operators", ":format", ":canonical"}

// Session holds the state of one interactive session. It is separate from
// the line editor so it can be driven without a terminal.
type Session struct {
	out       io.Writer
	ops       *operator.Registry
	format    string
	canonical bool
}

// NewSession creates a session that renders trees to out.
func NewSession(out io.Writer, ops *operator.Registry, format string) *Session {
	if !report.ValidFormat(format) {
		format = report.FormatText
	}
	if ops == nil {
		ops = operator.NewRegistry()
	}
	return &Session{out: out, ops: ops, format: format}
}

// Handle processes one input line and reports whether the session is over.
func (s *Session) Handle(input string) bool {
	trimmed := strings.TrimSpace(input)
	switch {
	case trimmed == "":
		return false
	case trimmed == "exit" || trimmed == "quit":
		_, _ = fmt.Fprintln(s.out, "Goodbye!")
		return true
	case strings.HasPrefix(trimmed, ":"):
		s.command(trimmed)
		return false
	}

	tree := parser.Parse(trimmed, s.ops)
	slog.Debug("parsed filter", "expr", trimmed, "diagnostics", len(tree.Diagnostics()))
	if err := report.Render(s.out, tree, s.format); err != nil {
		_, _ = fmt.Fprintf(s.out, "Error: %v\n", err)
		return false
	}
	if s.canonical && !tree.HasErrors() {
		_, _ = fmt.Fprintf(s.out, "canonical: %s\n", report.NewDocument(tree).Canonical)
	}
	return false
}

func (s *Session) command(cmd string) {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":help", ":h", ":?":
		_, _ = fmt.Fprintln(s.out, "REPL Commands:")
		_, _ = fmt.Fprintln(s.out, "  :help             Show this help")
		_, _ = fmt.Fprintln(s.out, "  :operators        List registered custom operators")
		_, _ = fmt.Fprintln(s.out, "  :format text|yaml Change the output format")
		_, _ = fmt.Fprintln(s.out, "  :canonical        Toggle printing the canonical filter text")
		_, _ = fmt.Fprintln(s.out, "  exit, quit        Exit the REPL")

	case ":operators":
		ops := s.ops.Operators()
		if len(ops) == 0 {
			_, _ = fmt.Fprintln(s.out, "(no custom operators)")
			return
		}
		for _, op := range ops {
			_, _ = fmt.Fprintf(s.out, "  #%s  %s\n", op.Name, op.Description)
		}

	case ":format":
		if arg == "" {
			_, _ = fmt.Fprintf(s.out, "format: %s\n", s.format)
			return
		}
		if !report.ValidFormat(arg) {
			_, _ = fmt.Fprintf(s.out, "Unknown format: %s (use text or yaml)\n", arg)
			return
		}
		s.format = arg
		_, _ = fmt.Fprintf(s.out, "format: %s\n", s.format)

	case ":canonical":
		s.canonical = !s.canonical
		state := "OFF"
		if s.canonical {
			state = "ON"
		}
		_, _ = fmt.Fprintf(s.out, "Canonical output %s\n", state)

	default:
		_, _ = fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

// Complete suggests whole-line completions for REPL commands and for
// custom operator names after '#'.
func (s *Session) Complete(line string) []string {
	if strings.HasPrefix(line, ":") && !strings.Contains(line, " ") {
		var matches []string
		for _, c := range commands {
			if strings.HasPrefix(c, line) {
				matches = append(matches, c)
			}
		}
		return matches
	}

	hash := strings.LastIndexByte(line, '#')
	if hash < 0 || strings.ContainsAny(line[hash:], " \t") {
		return nil
	}
	head, partial := line[:hash+1], line[hash+1:]
	var matches []string
	for _, name := range s.ops.Names() {
		if strings.HasPrefix(name, partial) {
			matches = append(matches, head+name+" ")
		}
	}
	return matches
}

// Start runs the interactive loop on the terminal until exit, Ctrl+D or
// ctx cancellation.
func Start(ctx context.Context, out io.Writer, ops *operator.Registry, opts Options) error {
	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	line.SetCtrlCAborts(true)

	session := NewSession(out, ops, opts.Format)
	line.SetCompleter(session.Complete)

	loadHistory(line, opts.HistoryFile)
	defer saveHistory(line, opts.HistoryFile, opts.HistorySize)

	_, _ = fmt.Fprintf(out, "fql %s\n", opts.Version)
	_, _ = fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit, ':help' for commands")

	for ctx.Err() == nil {
		input, err := line.Prompt(opts.Prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				_, _ = fmt.Fprintln(out, "^C")
				continue
			}
			if errors.Is(err, io.EOF) {
				_, _ = fmt.Fprintln(out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if session.Handle(input) {
			return nil
		}
	}
	return nil
}

func loadHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to open history", "path", path, "error", err)
		}
		return
	}
	defer func() { _ = f.Close() }()
	if _, err := line.ReadHistory(f); err != nil {
		slog.Warn("failed to read history", "path", path, "error", err)
	}
}

func saveHistory(line *liner.State, path string, limit int) {
	if path == "" {
		return
	}
	var buf bytes.Buffer
	if _, err := line.WriteHistory(&buf); err != nil {
		slog.Warn("failed to collect history", "error", err)
		return
	}
	if err := os.WriteFile(path, TrimHistory(buf.Bytes(), limit), 0644); err != nil {
		slog.Warn("failed to save history", "path", path, "error", err)
	}
}

// TrimHistory keeps the newest limit entries of a newline separated history.
// A limit of zero or less keeps nothing.
func TrimHistory(history []byte, limit int) []byte {
	if limit <= 0 {
		return nil
	}
	lines := strings.Split(strings.TrimRight(string(history), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}
