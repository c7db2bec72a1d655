package syntax

import "fmt"

// Token is a classified piece of the source text.
type Token struct {
	Kind     Kind
	Position int    // byte offset into the source text
	Text     string // raw text, escapes already removed for values
}

// NewToken creates a token
func NewToken(kind Kind, position int, text string) Token {
	return Token{Kind: kind, Position: position, Text: text}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Position)
}

// operatorSymbols holds the canonical spelling of every fixed operator.
var operatorSymbols = map[Kind]string{
	And:                ",",
	Or:                 "|",
	Equal:              "=",
	NotEqual:           "!=",
	Like:               "=*",
	NotLike:            "!*",
	GreaterThan:        ">",
	LessThan:           "<",
	GreaterOrEqualThan: ">=",
	LessOrEqualThan:    "<=",
	StartsWith:         "^",
	EndsWith:           "$",
	NotStartsWith:      "!^",
	NotEndsWith:        "!$",
}

// Symbol returns the canonical source spelling of an operator kind.
// Custom operators have no fixed spelling and return "".
func Symbol(k Kind) string {
	return operatorSymbols[k]
}
