package parser

import (
	"strings"
	"testing"

	"github.com/boolean-maybe/fql/filter/syntax"
	"github.com/boolean-maybe/fql/operator"
)

func mustBinary(t *testing.T, expr syntax.Expression) *syntax.BinaryExpr {
	t.Helper()
	b, ok := expr.(*syntax.BinaryExpr)
	if !ok {
		t.Fatalf("expected *syntax.BinaryExpr, got %T", expr)
	}
	return b
}

func mustField(t *testing.T, expr syntax.Expression) *syntax.FieldExpr {
	t.Helper()
	f, ok := expr.(*syntax.FieldExpr)
	if !ok {
		t.Fatalf("expected *syntax.FieldExpr, got %T", expr)
	}
	return f
}

func mustValue(t *testing.T, expr syntax.Expression) *syntax.ValueExpr {
	t.Helper()
	v, ok := expr.(*syntax.ValueExpr)
	if !ok {
		t.Fatalf("expected *syntax.ValueExpr, got %T", expr)
	}
	return v
}

func mustClean(t *testing.T, tree *syntax.SyntaxTree) {
	t.Helper()
	if tree.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", tree.Diagnostics())
	}
}

func TestParseSimpleComparison(t *testing.T) {
	tree := Parse("a=1", nil)
	mustClean(t, tree)

	root := mustBinary(t, tree.Root())
	if root.Operator.Kind != syntax.Equal {
		t.Errorf("operator = %s, want Equal", root.Operator.Kind)
	}
	if f := mustField(t, root.Left); f.Field.Text != "a" || f.HasIndex() {
		t.Errorf("field = %q (indexed=%v), want a without index", f.Field.Text, f.HasIndex())
	}
	v := mustValue(t, root.Right)
	if v.Text() != "1" {
		t.Errorf("value = %q, want 1", v.Text())
	}
	if v.IsCaseInsensitive || v.IsEmpty {
		t.Errorf("value flags = (ci=%v, empty=%v), want both false", v.IsCaseInsensitive, v.IsEmpty)
	}
	if tree.End().Kind != syntax.End || tree.End().Position != 3 {
		t.Errorf("end token = %v, want End at 3", tree.End())
	}
}

func TestParseAllComparisonOperators(t *testing.T) {
	tests := []struct {
		expr string
		want syntax.Kind
	}{
		{"a=1", syntax.Equal},
		{"a!=1", syntax.NotEqual},
		{"a=*1", syntax.Like},
		{"a!*1", syntax.NotLike},
		{"a>1", syntax.GreaterThan},
		{"a<1", syntax.LessThan},
		{"a>=1", syntax.GreaterOrEqualThan},
		{"a<=1", syntax.LessOrEqualThan},
		{"a^1", syntax.StartsWith},
		{"a$1", syntax.EndsWith},
		{"a!^1", syntax.NotStartsWith},
		{"a!$1", syntax.NotEndsWith},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			tree := Parse(tt.expr, nil)
			mustClean(t, tree)
			root := mustBinary(t, tree.Root())
			if root.Operator.Kind != tt.want {
				t.Errorf("operator = %s, want %s", root.Operator.Kind, tt.want)
			}
			if !root.IsComparison() {
				t.Errorf("IsComparison() = false, want true")
			}
			if v := mustValue(t, root.Right); v.Text() != "1" {
				t.Errorf("value = %q, want 1", v.Text())
			}
		})
	}
}

func TestParseLogicalChainIsLeftAssociative(t *testing.T) {
	tree := Parse("a=1 and b=2", nil)
	mustClean(t, tree)

	root := mustBinary(t, tree.Root())
	if root.Operator.Kind != syntax.And {
		t.Fatalf("root operator = %s, want And", root.Operator.Kind)
	}
	left := mustBinary(t, root.Left)
	right := mustBinary(t, root.Right)
	if mustField(t, left.Left).Field.Text != "a" || mustValue(t, left.Right).Text() != "1" {
		t.Errorf("left = %s, want a=1", syntax.Format(left))
	}
	if mustField(t, right.Left).Field.Text != "b" || mustValue(t, right.Right).Text() != "2" {
		t.Errorf("right = %s, want b=2", syntax.Format(right))
	}
}

// AND and OR share one precedence level, so grouping follows the text order.
func TestParseAndOrHaveEqualPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		rootOp    syntax.Kind
		nestedOp  syntax.Kind
		rightText string
	}{
		{
			name:      "or then and",
			expr:      "a=1|b=2,c=3",
			rootOp:    syntax.And,
			nestedOp:  syntax.Or,
			rightText: "c=3",
		},
		{
			name:      "and then or",
			expr:      "a=1,b=2|c=3",
			rootOp:    syntax.Or,
			nestedOp:  syntax.And,
			rightText: "c=3",
		},
		{
			name:      "keywords",
			expr:      "a=1 or b=2 and c=3",
			rootOp:    syntax.And,
			nestedOp:  syntax.Or,
			rightText: "c=3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Parse(tt.expr, nil)
			mustClean(t, tree)

			root := mustBinary(t, tree.Root())
			if root.Operator.Kind != tt.rootOp {
				t.Errorf("root operator = %s, want %s", root.Operator.Kind, tt.rootOp)
			}
			nested := mustBinary(t, root.Left)
			if nested.Operator.Kind != tt.nestedOp {
				t.Errorf("nested operator = %s, want %s", nested.Operator.Kind, tt.nestedOp)
			}
			if got := syntax.Format(root.Right); got != tt.rightText {
				t.Errorf("right = %q, want %q", got, tt.rightText)
			}
		})
	}
}

func TestParseParenthesesRaisePrecedence(t *testing.T) {
	tree := Parse("(a=1 or b=2) and c=3", nil)
	mustClean(t, tree)

	root := mustBinary(t, tree.Root())
	if root.Operator.Kind != syntax.And {
		t.Fatalf("root operator = %s, want And", root.Operator.Kind)
	}
	paren, ok := root.Left.(*syntax.ParenExpr)
	if !ok {
		t.Fatalf("left = %T, want *syntax.ParenExpr", root.Left)
	}
	if paren.Open.Kind != syntax.OpenParenthesisToken || paren.Close.Kind != syntax.CloseParenthesisToken {
		t.Errorf("paren tokens = %s/%s", paren.Open.Kind, paren.Close.Kind)
	}
	if paren.Close.Position != 11 {
		t.Errorf("close position = %d, want 11", paren.Close.Position)
	}
	inner := mustBinary(t, paren.Inner)
	if inner.Operator.Kind != syntax.Or {
		t.Errorf("inner operator = %s, want Or", inner.Operator.Kind)
	}
	if got := syntax.Format(root.Right); got != "c=3" {
		t.Errorf("right = %q, want c=3", got)
	}

	// the group stays on the right instead of folding into the chain
	tree = Parse("a=1,(b=2|c=3)", nil)
	mustClean(t, tree)
	root = mustBinary(t, tree.Root())
	if root.Operator.Kind != syntax.And {
		t.Errorf("root operator = %s, want And", root.Operator.Kind)
	}
	if _, ok := root.Right.(*syntax.ParenExpr); !ok {
		t.Errorf("right = %T, want *syntax.ParenExpr", root.Right)
	}
}

func TestParseNestedParentheses(t *testing.T) {
	tree := Parse("((a=1))", nil)
	mustClean(t, tree)

	outer, ok := tree.Root().(*syntax.ParenExpr)
	if !ok {
		t.Fatalf("root = %T, want *syntax.ParenExpr", tree.Root())
	}
	inner, ok := outer.Inner.(*syntax.ParenExpr)
	if !ok {
		t.Fatalf("inner = %T, want *syntax.ParenExpr", outer.Inner)
	}
	mustBinary(t, inner.Inner)
}

func TestParseEmptyValue(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"end of input", "a="},
		{"before and", "a=,b=1"},
		{"before close paren", "(a=)"},
		{"trailing whitespace", "a=   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Parse(tt.expr, nil)
			mustClean(t, tree)

			var cmp *syntax.BinaryExpr
			syntax.Walk(tree.Root(), func(e syntax.Expression) bool {
				if b, ok := e.(*syntax.BinaryExpr); ok && b.IsComparison() && cmp == nil {
					cmp = b
				}
				return true
			})
			if cmp == nil {
				t.Fatal("no comparison found")
			}
			v := mustValue(t, cmp.Right)
			if !v.IsEmpty {
				t.Errorf("IsEmpty = false, want true")
			}
			if v.Value != nil {
				t.Errorf("Value = %v, want nil", v.Value)
			}
		})
	}
}

func TestParseFieldIndex(t *testing.T) {
	tree := Parse("field[2]=x", nil)
	mustClean(t, tree)

	f := mustField(t, mustBinary(t, tree.Root()).Left)
	if !f.HasIndex() {
		t.Fatal("HasIndex() = false, want true")
	}
	if *f.Index != 2 {
		t.Errorf("index = %d, want 2", *f.Index)
	}
	if f.Field.Text != "field" {
		t.Errorf("field = %q, want field", f.Field.Text)
	}
}

func TestParseCaseInsensitive(t *testing.T) {
	tree := Parse("a=John/i", nil)
	mustClean(t, tree)

	v := mustValue(t, mustBinary(t, tree.Root()).Right)
	if !v.IsCaseInsensitive {
		t.Error("IsCaseInsensitive = false, want true")
	}
	if v.Text() != "John" {
		t.Errorf("value = %q, want John", v.Text())
	}
}

func TestParseCustomOperator(t *testing.T) {
	ops := operator.NewRegistry()
	if err := ops.Register("isMember", ""); err != nil {
		t.Fatal(err)
	}

	tree := Parse("owner#isMember admins", ops)
	mustClean(t, tree)

	root := mustBinary(t, tree.Root())
	if root.Operator.Kind != syntax.CustomOperator {
		t.Errorf("operator = %s, want CustomOperator", root.Operator.Kind)
	}
	if root.Operator.Text != "#isMember" {
		t.Errorf("operator text = %q, want #isMember", root.Operator.Text)
	}
	if v := mustValue(t, root.Right); v.Text() != "admins" {
		t.Errorf("value = %q, want admins", v.Text())
	}
}

func TestParseComparisonChain(t *testing.T) {
	// comparisons chain left to right: (a=1)>2
	tree := Parse("a=1 >2", nil)
	mustClean(t, tree)

	root := mustBinary(t, tree.Root())
	if root.Operator.Kind != syntax.GreaterThan {
		t.Errorf("root operator = %s, want GreaterThan", root.Operator.Kind)
	}
	if mustBinary(t, root.Left).Operator.Kind != syntax.Equal {
		t.Error("left should be the a=1 comparison")
	}
}

func TestParseBareField(t *testing.T) {
	for _, expr := range []string{"a", "(a)", "tags[3]"} {
		t.Run(expr, func(t *testing.T) {
			tree := Parse(expr, nil)
			mustClean(t, tree)
			root := tree.Root()
			if paren, ok := root.(*syntax.ParenExpr); ok {
				root = paren.Inner
			}
			if _, ok := root.(*syntax.FieldExpr); !ok {
				t.Errorf("root = %T, want *syntax.FieldExpr", root)
			}
		})
	}
}

func TestParseDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{
			name: "field followed by field",
			expr: "a b",
			want: "Unexpected token <FieldToken> at index 2, expected <Operator>",
		},
		{
			name: "dangling and",
			expr: "a=1,",
			want: "Unexpected token <End> at index 4, expected <FieldToken>",
		},
		{
			name: "value after comparison root",
			expr: "a=1 b",
			want: "Unexpected token <FieldToken> at index 4, expected <ValueToken>",
		},
		{
			name: "stray close paren",
			expr: "(a=1))",
			want: "Unexpected token <CloseParenthesisToken> at index 5, expected <End>",
		},
		{
			name: "missing close paren",
			expr: "(a=1",
			want: "Unexpected token <End> at index 4, expected <CloseParenthesisToken>",
		},
		{
			name: "empty input",
			expr: "",
			want: "Unexpected token <End> at index 0, expected <FieldToken>",
		},
		{
			name: "operator first",
			expr: "=1",
			want: "Unexpected token <Equal> at index 0, expected <FieldToken>",
		},
		{
			name: "unclosed group after field",
			expr: "(a",
			want: "Unexpected token <End> at index 2, expected <Operator>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Parse(tt.expr, nil)
			diags := tree.Diagnostics()
			if len(diags) != 1 {
				t.Fatalf("got %d diagnostics %v, want 1", len(diags), diags)
			}
			if diags[0] != tt.want {
				t.Errorf("diagnostic = %q, want %q", diags[0], tt.want)
			}
			if tree.Root() == nil {
				t.Error("Root() = nil, want a best effort tree")
			}
		})
	}
}

func TestParseReportsOnlyFirstUnexpectedToken(t *testing.T) {
	tests := []string{
		"a b c",
		"a=1) b=2)",
		"(a b) c d",
		", , ,",
		"((((",
	}

	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			tree := Parse(expr, nil)
			count := 0
			for _, d := range tree.Diagnostics() {
				if strings.HasPrefix(d, "Unexpected token") {
					count++
				}
			}
			if count != 1 {
				t.Errorf("got %d unexpected token diagnostics %v, want 1", count, tree.Diagnostics())
			}
		})
	}
}

func TestParseKeepsLexicalDiagnosticsFirst(t *testing.T) {
	tree := Parse("a=1 ~ b", nil)
	diags := tree.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics %v, want 2", len(diags), diags)
	}
	if diags[0] != "Bad character input: '~' at index 4" {
		t.Errorf("first diagnostic = %q, want the lexical one", diags[0])
	}
	if !strings.HasPrefix(diags[1], "Unexpected token <FieldToken> at index 6") {
		t.Errorf("second diagnostic = %q, want the syntactic one", diags[1])
	}
}

func TestParseRecoveryTokenKeepsPosition(t *testing.T) {
	tree := Parse("(a=1", nil)
	paren, ok := tree.Root().(*syntax.ParenExpr)
	if !ok {
		t.Fatalf("root = %T, want *syntax.ParenExpr", tree.Root())
	}
	// the missing ')' is stood in for by a token at the End position
	if paren.Close.Kind != syntax.CloseParenthesisToken {
		t.Errorf("close kind = %s, want CloseParenthesisToken", paren.Close.Kind)
	}
	if paren.Close.Position != 4 {
		t.Errorf("close position = %d, want 4", paren.Close.Position)
	}
}

func TestParseTerminatesOnGarbage(t *testing.T) {
	inputs := []string{
		")))(((",
		"= = = =",
		"a[1][2]=x",
		"/i/i/i",
		"a=1 /i /i",
		"#nope x",
		"[[[",
		strings.Repeat("(", 500),
		strings.Repeat("a=1,", 200),
	}

	for _, input := range inputs {
		tree := Parse(input, nil)
		if tree.Root() == nil {
			t.Errorf("Parse(%q).Root() = nil", input)
		}
	}
}

func TestParseIsSingleUse(t *testing.T) {
	p := New("a=1", nil)
	first := p.Parse()
	second := p.Parse()
	if first != second {
		t.Error("second Parse() returned a different tree")
	}
}

func TestMatchRecovery(t *testing.T) {
	p := New("a b", nil)

	res := p.match(syntax.FieldToken)
	if res.recovered || res.token.Text != "a" {
		t.Fatalf("match(FieldToken) = %+v, want consumed a", res)
	}

	res = p.match(syntax.Equal)
	if !res.recovered {
		t.Fatal("match(Equal) on a field should recover")
	}
	if res.token.Kind != syntax.Equal || res.token.Position != 2 || res.token.Text != "b" {
		t.Errorf("recovery token = %v, want Equal at 2 with text b", res.token)
	}
	if p.tokens.current().Text != "b" {
		t.Errorf("cursor moved to %v after a failed match", p.tokens.current())
	}

	// a second failure is not reported again
	p.match(syntax.OpenParenthesisToken)
	if len(p.diagnostics) != 1 {
		t.Errorf("got %d diagnostics, want 1", len(p.diagnostics))
	}
}

func TestTryMatch(t *testing.T) {
	p := New("a[3]", nil)
	p.tokens.advance()

	if tok, ok := p.tryMatch(syntax.CaseInsensitive); ok || tok.Kind != syntax.FieldIndexToken {
		t.Errorf("tryMatch(CaseInsensitive) = (%v, %v), want current token and false", tok, ok)
	}
	if tok, ok := p.tryMatch(syntax.FieldIndexToken); !ok || tok.Text != "3" {
		t.Errorf("tryMatch(FieldIndexToken) = (%v, %v), want 3 and true", tok, ok)
	}
	if len(p.diagnostics) != 0 {
		t.Errorf("tryMatch recorded diagnostics: %v", p.diagnostics)
	}
}
