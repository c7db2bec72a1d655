package report

import (
	"bytes"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/boolean-maybe/fql/filter/parser"
)

func TestRenderText(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{
			name: "comparison",
			expr: "a=1",
			want: "BinaryExpression Equal \"=\"\n" +
				"  FieldExpression a\n" +
				"  ValueExpression \"1\"\n",
		},
		{
			name: "diagnostics follow the tree",
			expr: "a b",
			want: "FieldExpression a\n" +
				"error: Unexpected token <FieldToken> at index 2, expected <Operator>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, parser.Parse(tt.expr, nil), FormatText); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Render() =\n%s\nwant\n%s", buf.String(), tt.want)
			}
		})
	}
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, parser.Parse("tags[1]=UI/i,b=", nil), FormatYAML); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	var doc Document
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not yaml: %v\n%s", err, buf.String())
	}

	if doc.Canonical != "tags[1]=UI/i,b=" {
		t.Errorf("canonical = %q", doc.Canonical)
	}
	if len(doc.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v, want none", doc.Diagnostics)
	}
	if doc.End != 15 {
		t.Errorf("end = %d, want 15", doc.End)
	}

	root := doc.Root
	if root == nil || root.Kind != "BinaryExpression" || root.Operator != "And" || root.OperatorText != "," {
		t.Fatalf("root = %+v, want an And expression", root)
	}

	left := root.Left
	if left.Left.Field != "tags" || left.Left.Index == nil || *left.Left.Index != 1 {
		t.Errorf("left field = %+v, want tags[1]", left.Left)
	}
	if left.Right.Value == nil || *left.Right.Value != "UI" || !left.Right.CaseInsensitive {
		t.Errorf("left value = %+v, want case-insensitive UI", left.Right)
	}

	empty := root.Right.Right
	if !empty.Empty || empty.Value != nil {
		t.Errorf("right value = %+v, want empty", empty)
	}
}

func TestRenderYAMLKeepsEmptyDiagnosticsList(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, parser.Parse("a=1", nil), FormatYAML); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("diagnostics: []")) {
		t.Errorf("output has no empty diagnostics list:\n%s", buf.String())
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, parser.Parse("a=1", nil), "json")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Render() error = %v, want ErrUnknownFormat", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written for an unknown format, got %q", buf.String())
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{FormatText, FormatYAML} {
		if !ValidFormat(f) {
			t.Errorf("ValidFormat(%q) = false", f)
		}
	}
	if ValidFormat("xml") {
		t.Error("ValidFormat(xml) = true")
	}
}
