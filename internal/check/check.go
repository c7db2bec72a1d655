// Package check lints files holding one filter expression per line.
package check

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/boolean-maybe/fql/filter/parser"
	"github.com/boolean-maybe/fql/operator"
)

// commentPrefix marks a line the linter skips.
const commentPrefix = "//"

// Finding is one diagnostic reported for one line of a file.
type Finding struct {
	File       string
	Line       int
	Expression string
	Diagnostic string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %s", f.File, f.Line, f.Diagnostic)
}

// Lint parses every expression read from r. name labels the findings.
func Lint(r io.Reader, name string, ops operator.Set) ([]Finding, error) {
	var findings []Finding
	scanner := bufio.NewScanner(r)
	lineNo := 0
	checked := 0
	for scanner.Scan() {
		lineNo++
		expr := strings.TrimSpace(scanner.Text())
		if expr == "" || strings.HasPrefix(expr, commentPrefix) {
			continue
		}
		checked++
		tree := parser.Parse(expr, ops)
		for _, d := range tree.Diagnostics() {
			findings = append(findings, Finding{File: name, Line: lineNo, Expression: expr, Diagnostic: d})
		}
	}
	if err := scanner.Err(); err != nil {
		return findings, fmt.Errorf("read %s: %w", name, err)
	}
	slog.Debug("linted expressions", "file", name, "checked", checked, "findings", len(findings))
	return findings, nil
}

// LintFile opens path and lints it.
func LintFile(path string, ops operator.Set) ([]Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open expressions file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Lint(f, path, ops)
}

// Write prints one finding per line.
func Write(w io.Writer, findings []Finding) error {
	for _, f := range findings {
		if _, err := fmt.Fprintln(w, f.String()); err != nil {
			return err
		}
	}
	return nil
}
