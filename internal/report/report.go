// Package report renders parsed filter trees for the command line.
package report

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/boolean-maybe/fql/filter/syntax"
)

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Document is the serialized form of a syntax tree.
type Document struct {
	Canonical   string   `yaml:"canonical"`
	Diagnostics []string `yaml:"diagnostics"`
	Root        *Node    `yaml:"root"`
	End         int      `yaml:"end"`
}

// Node is one expression of a serialized tree.
type Node struct {
	Kind            string  `yaml:"kind"`
	Position        int     `yaml:"position"`
	Field           string  `yaml:"field,omitempty"`
	Index           *int    `yaml:"index,omitempty"`
	Value           *string `yaml:"value,omitempty"`
	CaseInsensitive bool    `yaml:"caseInsensitive,omitempty"`
	Empty           bool    `yaml:"empty,omitempty"`
	Operator        string  `yaml:"operator,omitempty"`
	OperatorText    string  `yaml:"operatorText,omitempty"`
	Left            *Node   `yaml:"left,omitempty"`
	Right           *Node   `yaml:"right,omitempty"`
	Inner           *Node   `yaml:"inner,omitempty"`
}

// ValidFormat reports whether format can be passed to Render.
func ValidFormat(format string) bool {
	return format == FormatText || format == FormatYAML
}

// Render writes tree to w in the given format.
func Render(w io.Writer, tree *syntax.SyntaxTree, format string) error {
	switch format {
	case FormatText:
		return renderText(w, tree)
	case FormatYAML:
		return renderYAML(w, tree)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderText(w io.Writer, tree *syntax.SyntaxTree) error {
	if err := syntax.Dump(w, tree.Root()); err != nil {
		return err
	}
	for _, d := range tree.Diagnostics() {
		if _, err := fmt.Fprintf(w, "error: %s\n", d); err != nil {
			return err
		}
	}
	return nil
}

func renderYAML(w io.Writer, tree *syntax.SyntaxTree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(tree)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// NewDocument converts tree into its serialized form.
func NewDocument(tree *syntax.SyntaxTree) *Document {
	doc := &Document{
		Canonical:   syntax.Format(tree.Root()),
		Diagnostics: tree.Diagnostics(),
		Root:        newNode(tree.Root()),
		End:         tree.End().Position,
	}
	if doc.Diagnostics == nil {
		doc.Diagnostics = []string{}
	}
	return doc
}

func newNode(expr syntax.Expression) *Node {
	if expr == nil {
		return nil
	}
	n := &Node{Kind: expr.Kind().String(), Position: expr.Pos()}
	switch e := expr.(type) {
	case *syntax.FieldExpr:
		n.Field = e.Field.Text
		n.Index = e.Index
	case *syntax.ValueExpr:
		n.Empty = e.IsEmpty
		n.CaseInsensitive = e.IsCaseInsensitive
		if !e.IsEmpty {
			text := e.Text()
			n.Value = &text
		}
	case *syntax.BinaryExpr:
		n.Operator = e.Operator.Kind.String()
		n.OperatorText = e.Operator.Text
		n.Left = newNode(e.Left)
		n.Right = newNode(e.Right)
	case *syntax.ParenExpr:
		n.Inner = newNode(e.Inner)
	}
	return n
}
