package syntax

import (
	"errors"
	"slices"
)

// Expression is one of *FieldExpr, *ValueExpr, *BinaryExpr or *ParenExpr.
// Switch on Kind() (or a type switch) to tell them apart.
type Expression interface {
	Kind() Kind
	// Pos returns the source offset of the first token of the expression.
	Pos() int
	expressionNode()
}

// FieldExpr names a field, optionally subscripted: tags[2]
type FieldExpr struct {
	Field Token
	Index *int // nil when the field has no subscript
}

func (*FieldExpr) Kind() Kind       { return FieldExpression }
func (f *FieldExpr) Pos() int       { return f.Field.Position }
func (*FieldExpr) expressionNode()  {}
func (f *FieldExpr) HasIndex() bool { return f.Index != nil }

// ValueExpr is the right hand side of a comparison.
// Value is nil exactly when IsEmpty is true (the "field=" shorthand).
type ValueExpr struct {
	Value             *Token
	IsCaseInsensitive bool
	IsEmpty           bool
	position          int
}

// NewEmptyValue returns the value used when nothing follows an operator.
// position is where the value would have started.
func NewEmptyValue(position int) *ValueExpr {
	return &ValueExpr{IsEmpty: true, position: position}
}

// NewValue wraps a value token.
func NewValue(value Token, caseInsensitive bool) *ValueExpr {
	return &ValueExpr{Value: &value, IsCaseInsensitive: caseInsensitive, position: value.Position}
}

func (*ValueExpr) Kind() Kind      { return ValueExpression }
func (v *ValueExpr) Pos() int      { return v.position }
func (*ValueExpr) expressionNode() {}

// Text returns the value text, or "" for an empty value.
func (v *ValueExpr) Text() string {
	if v.Value == nil {
		return ""
	}
	return v.Value.Text
}

// BinaryExpr joins two expressions with a comparison or logical operator.
type BinaryExpr struct {
	Left     Expression
	Operator Token
	Right    Expression
}

func (*BinaryExpr) Kind() Kind      { return BinaryExpression }
func (b *BinaryExpr) Pos() int      { return b.Left.Pos() }
func (*BinaryExpr) expressionNode() {}

// IsComparison reports whether the operator compares a field with a value.
func (b *BinaryExpr) IsComparison() bool {
	return IsComparisonOperator(b.Operator.Kind)
}

// ParenExpr is an expression wrapped in parentheses.
type ParenExpr struct {
	Open  Token
	Inner Expression
	Close Token
}

func (*ParenExpr) Kind() Kind      { return ParenthesizedExpression }
func (p *ParenExpr) Pos() int      { return p.Open.Position }
func (*ParenExpr) expressionNode() {}

// SyntaxTree is the result of a single parse.
type SyntaxTree struct {
	diagnostics []string
	root        Expression
	end         Token
}

// NewSyntaxTree bundles a parse result. The diagnostics slice is copied.
func NewSyntaxTree(diagnostics []string, root Expression, end Token) *SyntaxTree {
	return &SyntaxTree{
		diagnostics: slices.Clone(diagnostics),
		root:        root,
		end:         end,
	}
}

// Diagnostics returns lexical diagnostics followed by the syntactic one, if any.
func (t *SyntaxTree) Diagnostics() []string {
	return slices.Clone(t.diagnostics)
}

// Root is never nil, even for malformed input.
func (t *SyntaxTree) Root() Expression { return t.root }

// End is the end-of-input token consumed by the parse.
func (t *SyntaxTree) End() Token { return t.end }

// HasErrors reports whether any diagnostic was recorded.
// Callers should not trust Root when it returns true.
func (t *SyntaxTree) HasErrors() bool {
	return len(t.diagnostics) > 0
}

// Err joins all diagnostics into one error, or returns nil.
func (t *SyntaxTree) Err() error {
	if len(t.diagnostics) == 0 {
		return nil
	}
	errs := make([]error, 0, len(t.diagnostics))
	for _, d := range t.diagnostics {
		errs = append(errs, errors.New(d))
	}
	return errors.Join(errs...)
}
