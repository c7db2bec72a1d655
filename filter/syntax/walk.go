package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Walk visits expr and its children depth first, left to right.
// Children of a node are skipped when visit returns false.
func Walk(expr Expression, visit func(Expression) bool) {
	if expr == nil || !visit(expr) {
		return
	}
	switch e := expr.(type) {
	case *BinaryExpr:
		Walk(e.Left, visit)
		Walk(e.Right, visit)
	case *ParenExpr:
		Walk(e.Inner, visit)
	}
}

// Format renders expr as canonical filter text: a[2]=x/i,(b!=y|c=)
func Format(expr Expression) string {
	var sb strings.Builder
	format(&sb, expr)
	return sb.String()
}

func format(sb *strings.Builder, expr Expression) {
	switch e := expr.(type) {
	case *FieldExpr:
		sb.WriteString(e.Field.Text)
		if e.Index != nil {
			sb.WriteString("[" + strconv.Itoa(*e.Index) + "]")
		}
	case *ValueExpr:
		if e.IsEmpty {
			return
		}
		sb.WriteString(EscapeValue(e.Value.Text))
		if e.IsCaseInsensitive {
			sb.WriteString("/i")
		}
	case *BinaryExpr:
		format(sb, e.Left)
		sb.WriteString(operatorText(e.Operator))
		if e.Operator.Kind == CustomOperator {
			// keeps the value from running into the operator name
			sb.WriteString(" ")
		}
		format(sb, e.Right)
	case *ParenExpr:
		sb.WriteString("(")
		format(sb, e.Inner)
		sb.WriteString(")")
	}
}

func operatorText(op Token) string {
	if s := Symbol(op.Kind); s != "" {
		return s
	}
	return op.Text
}

// EscapeValue backslash-escapes every character the lexer would treat as
// the end of a value.
func EscapeValue(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if strings.ContainsRune(`\,|()/`, r) || unicode.IsSpace(r) {
			sb.WriteRune('\\')
		}
		if r == utf8.RuneError {
			// keep invalid bytes as they are
			_, size := utf8.DecodeRuneInString(s[i:])
			sb.WriteString(s[i : i+size])
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Dump writes an indented outline of expr, one node per line.
func Dump(w io.Writer, expr Expression) error {
	return dump(w, expr, 0)
}

func dump(w io.Writer, expr Expression, depth int) error {
	indent := strings.Repeat("  ", depth)
	var err error
	switch e := expr.(type) {
	case *FieldExpr:
		if e.Index != nil {
			_, err = fmt.Fprintf(w, "%s%s %s[%d]\n", indent, e.Kind(), e.Field.Text, *e.Index)
		} else {
			_, err = fmt.Fprintf(w, "%s%s %s\n", indent, e.Kind(), e.Field.Text)
		}
	case *ValueExpr:
		switch {
		case e.IsEmpty:
			_, err = fmt.Fprintf(w, "%s%s <empty>\n", indent, e.Kind())
		case e.IsCaseInsensitive:
			_, err = fmt.Fprintf(w, "%s%s %q /i\n", indent, e.Kind(), e.Value.Text)
		default:
			_, err = fmt.Fprintf(w, "%s%s %q\n", indent, e.Kind(), e.Value.Text)
		}
	case *BinaryExpr:
		if _, err = fmt.Fprintf(w, "%s%s %s %q\n", indent, e.Kind(), e.Operator.Kind, operatorText(e.Operator)); err != nil {
			return err
		}
		if err = dump(w, e.Left, depth+1); err != nil {
			return err
		}
		err = dump(w, e.Right, depth+1)
	case *ParenExpr:
		if _, err = fmt.Fprintf(w, "%s%s\n", indent, e.Kind()); err != nil {
			return err
		}
		err = dump(w, e.Inner, depth+1)
	}
	return err
}
