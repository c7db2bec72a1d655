package syntax

// Kind classifies both tokens and expression nodes.
type Kind int

const (
	End Kind = iota
	Whitespace
	FieldToken
	FieldIndexToken
	CaseInsensitive
	ValueToken
	OpenParenthesisToken
	CloseParenthesisToken
	And
	Or

	// comparison operators
	Equal
	NotEqual
	Like
	NotLike
	GreaterThan
	LessThan
	GreaterOrEqualThan
	LessOrEqualThan
	StartsWith
	EndsWith
	NotStartsWith
	NotEndsWith
	CustomOperator

	// expression nodes
	FieldExpression
	ValueExpression
	BinaryExpression
	ParenthesizedExpression

	// Operator is never produced by the lexer. It only names the
	// expectation reported after a field.
	Operator
)

var kindNames = map[Kind]string{
	End:                     "End",
	Whitespace:              "Whitespace",
	FieldToken:              "FieldToken",
	FieldIndexToken:         "FieldIndexToken",
	CaseInsensitive:         "CaseInsensitive",
	ValueToken:              "ValueToken",
	OpenParenthesisToken:    "OpenParenthesisToken",
	CloseParenthesisToken:   "CloseParenthesisToken",
	And:                     "And",
	Or:                      "Or",
	Equal:                   "Equal",
	NotEqual:                "NotEqual",
	Like:                    "Like",
	NotLike:                 "NotLike",
	GreaterThan:             "GreaterThan",
	LessThan:                "LessThan",
	GreaterOrEqualThan:      "GreaterOrEqualThan",
	LessOrEqualThan:         "LessOrEqualThan",
	StartsWith:              "StartsWith",
	EndsWith:                "EndsWith",
	NotStartsWith:           "NotStartsWith",
	NotEndsWith:             "NotEndsWith",
	CustomOperator:          "CustomOperator",
	FieldExpression:         "FieldExpression",
	ValueExpression:         "ValueExpression",
	BinaryExpression:        "BinaryExpression",
	ParenthesizedExpression: "ParenthesizedExpression",
	Operator:                "Operator",
}

// String returns the name used in diagnostics, e.g. "FieldToken".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// comparisonKinds is the full set of operators accepted between a field and a value.
// Adding an operator kind only requires adding it here.
var comparisonKinds = map[Kind]struct{}{
	Equal:              {},
	NotEqual:           {},
	Like:               {},
	NotLike:            {},
	GreaterThan:        {},
	LessThan:           {},
	GreaterOrEqualThan: {},
	LessOrEqualThan:    {},
	StartsWith:         {},
	EndsWith:           {},
	NotStartsWith:      {},
	NotEndsWith:        {},
	CustomOperator:     {},
}

// IsComparisonOperator reports whether k may join a field and a value.
func IsComparisonOperator(k Kind) bool {
	_, ok := comparisonKinds[k]
	return ok
}

// IsLogicalOperator reports whether k joins two terms.
func IsLogicalOperator(k Kind) bool {
	return k == And || k == Or
}

// Expectation returns what the grammar expects to follow something of kind left.
// It drives the "expected <...>" half of an unexpected token diagnostic.
func Expectation(left Kind) Kind {
	switch {
	case left == FieldExpression || left == FieldToken:
		return Operator
	case left == ValueExpression || left == ValueToken:
		return End
	case IsLogicalOperator(left):
		return FieldToken
	case left == BinaryExpression || IsComparisonOperator(left):
		return ValueToken
	default:
		return End
	}
}
