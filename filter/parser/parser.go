package parser

import (
	"fmt"
	"strconv"

	"github.com/boolean-maybe/fql/filter/lexer"
	"github.com/boolean-maybe/fql/filter/syntax"
	"github.com/boolean-maybe/fql/operator"
)

// Parser turns one filter into a syntax tree.
//
// Grammar, lowest precedence first:
//
//	term    = factor { ( "," | "|" ) factor }
//	factor  = primary { comparison value }
//	primary = "(" term ")" | field
//	field   = FieldToken [ FieldIndexToken ]
//	value   = ValueToken [ CaseInsensitive ] | <empty>
//
// AND and OR bind equally and group left to right: a=1|b=2,c=3 is ((a=1|b=2),c=3).
//
// A Parser is used for a single parse and is not safe for concurrent use.
type Parser struct {
	tokens      *tokenBuffer
	diagnostics []string
	// reported is set once the first unexpected token has been recorded
	reported bool
	tree     *syntax.SyntaxTree
}

// New creates a parser for text. ops lists the custom operators the lexer accepts.
func New(text string, ops operator.Set) *Parser {
	return NewFromSource(lexer.New(text, ops))
}

// NewFromSource creates a parser over any token source. The source is drained
// immediately and its diagnostics are kept ahead of the parser's own.
func NewFromSource(src TokenSource) *Parser {
	tokens := newTokenBuffer(src)
	p := &Parser{tokens: tokens}
	p.diagnostics = append(p.diagnostics, src.Diagnostics()...)
	return p
}

// Parse runs the grammar once. It never fails: malformed input yields a
// best effort tree plus diagnostics. Later calls return the same tree.
func (p *Parser) Parse() *syntax.SyntaxTree {
	if p.tree != nil {
		return p.tree
	}
	root := p.parseTerm()
	end := p.matchExpecting(syntax.End, syntax.Expectation(root.Kind()))
	p.tree = syntax.NewSyntaxTree(p.diagnostics, root, end.token)
	return p.tree
}

// Parse is shorthand for New(text, ops).Parse().
func Parse(text string, ops operator.Set) *syntax.SyntaxTree {
	return New(text, ops).Parse()
}

func (p *Parser) parseTerm() syntax.Expression {
	left := p.parseFactor()
	for syntax.IsLogicalOperator(p.tokens.current().Kind) {
		op := p.tokens.advance()
		right := p.parseFactor()
		left = &syntax.BinaryExpr{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseFactor() syntax.Expression {
	left := p.parsePrimary()
	for syntax.IsComparisonOperator(p.tokens.current().Kind) {
		op := p.tokens.advance()
		right := p.parseValue()
		left = &syntax.BinaryExpr{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parsePrimary() syntax.Expression {
	if p.tokens.current().Kind == syntax.OpenParenthesisToken {
		open := p.tokens.advance()
		inner := p.parseTerm()
		closing := p.match(syntax.CloseParenthesisToken)
		return &syntax.ParenExpr{Open: open, Inner: inner, Close: closing.token}
	}
	return p.parseField()
}

func (p *Parser) parseField() *syntax.FieldExpr {
	field := p.match(syntax.FieldToken)
	expr := &syntax.FieldExpr{Field: field.token}
	if tok, ok := p.tryMatch(syntax.FieldIndexToken); ok {
		if index, err := strconv.Atoi(tok.Text); err == nil && index >= 0 {
			expr.Index = &index
		}
	}
	return expr
}

// parseValue accepts a missing value: "status=" compares against the empty value.
func (p *Parser) parseValue() *syntax.ValueExpr {
	current := p.tokens.current()
	if current.Kind != syntax.ValueToken {
		return syntax.NewEmptyValue(current.Position)
	}
	value := p.tokens.advance()
	_, caseInsensitive := p.tryMatch(syntax.CaseInsensitive)
	return syntax.NewValue(value, caseInsensitive)
}

// matchResult is the outcome of match: either the consumed token, or a
// recovery token of the wanted kind standing at the current position.
type matchResult struct {
	token     syntax.Token
	recovered bool
}

// match consumes a token of the given kind. The expectation reported on
// failure is derived from the token consumed just before, except that it
// names the wanted kind when that derived category is the kind actually
// found, as in "(a=1" reporting expected <CloseParenthesisToken>.
func (p *Parser) match(kind syntax.Kind) matchResult {
	expectation := kind
	if prev, ok := p.tokens.previous(); ok {
		expectation = syntax.Expectation(prev.Kind)
	}
	if expectation == p.tokens.current().Kind {
		// "unexpected End, expected End" says nothing; name the wanted kind instead
		expectation = kind
	}
	return p.matchExpecting(kind, expectation)
}

// matchExpecting consumes a token of the given kind. On mismatch it records
// the first unexpected token diagnostic of the parse and returns a recovery
// token without moving the cursor.
func (p *Parser) matchExpecting(kind, expectation syntax.Kind) matchResult {
	current := p.tokens.current()
	if current.Kind == kind {
		return matchResult{token: p.tokens.advance()}
	}
	p.reportUnexpected(current, expectation)
	return matchResult{
		token:     syntax.NewToken(kind, current.Position, current.Text),
		recovered: true,
	}
}

// tryMatch consumes an optional token. It returns the matched token, or the
// current one when it does not match.
func (p *Parser) tryMatch(kind syntax.Kind) (syntax.Token, bool) {
	current := p.tokens.current()
	if current.Kind != kind {
		return current, false
	}
	return p.tokens.advance(), true
}

func (p *Parser) reportUnexpected(tok syntax.Token, expectation syntax.Kind) {
	if p.reported {
		return
	}
	p.reported = true
	p.diagnostics = append(p.diagnostics,
		fmt.Sprintf("Unexpected token <%s> at index %d, expected <%s>", tok.Kind, tok.Position, expectation))
}
