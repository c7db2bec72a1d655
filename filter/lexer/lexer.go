package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/boolean-maybe/fql/filter/syntax"
	"github.com/boolean-maybe/fql/operator"
)

// Lexer turns filter text into tokens, one per call to Next.
//
// Lexical syntax:
//
//	field      = letter { letter | digit | "_" | "." }
//	index      = "[" digit { digit } "]"    directly after a field
//	logical    = "," | "|" | "and" | "or"
//	comparison = "=" | "!=" | "=*" | "!*" | ">" | "<" | ">=" | "<=" | "^" | "$" | "!^" | "!$" | "#" name
//	value      = anything up to whitespace , | ( ) or a trailing "/i"; "\" escapes one character
//
// A value is only read directly after a comparison operator.
type Lexer struct {
	text            string
	position        int
	ops             operator.Set
	waitingForValue bool
	// last is the kind of the most recently returned token
	last        syntax.Kind
	diagnostics []string
}

// New creates a lexer over text. ops decides which #name operators exist; nil means none.
func New(text string, ops operator.Set) *Lexer {
	return &Lexer{text: text, ops: ops}
}

// Diagnostics returns the lexical problems found so far.
func (l *Lexer) Diagnostics() []string {
	return l.diagnostics
}

// Next returns the next token. Once the input is exhausted it keeps returning End.
func (l *Lexer) Next() syntax.Token {
	tok := l.next()
	l.last = tok.Kind
	return tok
}

func (l *Lexer) next() syntax.Token {
	for {
		if l.position >= len(l.text) {
			return syntax.NewToken(syntax.End, len(l.text), "")
		}

		if l.waitingForValue {
			if isSpace(l.peekRune()) {
				return l.readWhitespace()
			}
			l.waitingForValue = false
			if tok, ok := l.readValue(); ok {
				return tok
			}
		}

		start := l.position
		r, size := l.peekRune(), l.runeSize()

		switch {
		case isSpace(r):
			return l.readWhitespace()
		case r == ',':
			return l.single(syntax.And)
		case r == '|':
			return l.single(syntax.Or)
		case r == '(':
			return l.single(syntax.OpenParenthesisToken)
		case r == ')':
			return l.single(syntax.CloseParenthesisToken)
		case r == '/' && l.isCaseMarker(l.position):
			l.position += 2
			return syntax.NewToken(syntax.CaseInsensitive, start, "/i")
		case r == '[' && l.last == syntax.FieldToken:
			if tok, ok := l.readIndex(); ok {
				return tok
			}
			continue
		case r == '#':
			if tok, ok := l.readCustomOperator(); ok {
				return tok
			}
			continue
		case isFieldStart(r):
			return l.readField()
		}

		if tok, ok := l.readOperator(); ok {
			return tok
		}

		l.addDiagnostic("Bad character input: '%c' at index %d", r, start)
		l.position += size
	}
}

// Tokenize drains a lexer over text, End token included.
func Tokenize(text string, ops operator.Set) ([]syntax.Token, []string) {
	l := New(text, ops)
	var tokens []syntax.Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Kind == syntax.End {
			return tokens, l.Diagnostics()
		}
	}
}

var twoCharOperators = map[string]syntax.Kind{
	"!=": syntax.NotEqual,
	"=*": syntax.Like,
	"!*": syntax.NotLike,
	">=": syntax.GreaterOrEqualThan,
	"<=": syntax.LessOrEqualThan,
	"!^": syntax.NotStartsWith,
	"!$": syntax.NotEndsWith,
}

var oneCharOperators = map[byte]syntax.Kind{
	'=': syntax.Equal,
	'>': syntax.GreaterThan,
	'<': syntax.LessThan,
	'^': syntax.StartsWith,
	'$': syntax.EndsWith,
}

func (l *Lexer) readOperator() (syntax.Token, bool) {
	start := l.position
	if start+2 <= len(l.text) {
		if kind, ok := twoCharOperators[l.text[start:start+2]]; ok {
			l.position += 2
			l.waitingForValue = true
			return syntax.NewToken(kind, start, l.text[start:start+2]), true
		}
	}
	if kind, ok := oneCharOperators[l.text[start]]; ok {
		l.position++
		l.waitingForValue = true
		return syntax.NewToken(kind, start, l.text[start:start+1]), true
	}
	return syntax.Token{}, false
}

// readCustomOperator reads #name. An unregistered name is reported and dropped,
// but a value is still expected after it.
func (l *Lexer) readCustomOperator() (syntax.Token, bool) {
	start := l.position
	l.position++ // '#'
	for l.position < len(l.text) && isNameChar(l.peekRune()) {
		l.position += l.runeSize()
	}
	text := l.text[start:l.position]
	l.waitingForValue = true

	if l.ops != nil && l.ops.Has(text[1:]) {
		return syntax.NewToken(syntax.CustomOperator, start, text), true
	}
	l.addDiagnostic("Unknown operator '%s' at index %d", text, start)
	return syntax.Token{}, false
}

// readIndex reads [digits]. The token text is the digits and the position
// is that of the first digit.
func (l *Lexer) readIndex() (syntax.Token, bool) {
	start := l.position
	end := strings.IndexByte(l.text[start:], ']')
	if end < 0 {
		l.addDiagnostic("Invalid field index '%s' at index %d", l.text[start:], start)
		l.position = len(l.text)
		return syntax.Token{}, false
	}
	end += start
	digits := l.text[start+1 : end]
	l.position = end + 1

	if !isDigits(digits) {
		l.addDiagnostic("Invalid field index '%s' at index %d", digits, start)
		return syntax.Token{}, false
	}
	if _, err := strconv.Atoi(digits); err != nil {
		l.addDiagnostic("Invalid field index '%s' at index %d", digits, start)
		return syntax.Token{}, false
	}
	return syntax.NewToken(syntax.FieldIndexToken, start+1, digits), true
}

func (l *Lexer) readField() syntax.Token {
	start := l.position
	for l.position < len(l.text) && isFieldChar(l.peekRune()) {
		l.position += l.runeSize()
	}
	text := l.text[start:l.position]
	switch strings.ToLower(text) {
	case "and":
		return syntax.NewToken(syntax.And, start, text)
	case "or":
		return syntax.NewToken(syntax.Or, start, text)
	}
	return syntax.NewToken(syntax.FieldToken, start, text)
}

// readValue reads the value after an operator. It reports false when the
// value is empty, which the parser turns into an empty value expression.
func (l *Lexer) readValue() (syntax.Token, bool) {
	start := l.position
	var sb strings.Builder
	for l.position < len(l.text) {
		r, size := l.peekRune(), l.runeSize()
		if r == '\\' {
			l.position += size
			if l.position == len(l.text) {
				// a trailing backslash is kept as is
				sb.WriteByte('\\')
				break
			}
			size = l.runeSize()
			sb.WriteString(l.text[l.position : l.position+size])
			l.position += size
			continue
		}
		if isValueTerminator(r) || (r == '/' && l.isCaseMarker(l.position)) {
			break
		}
		sb.WriteString(l.text[l.position : l.position+size])
		l.position += size
	}
	if l.position == start {
		return syntax.Token{}, false
	}
	return syntax.NewToken(syntax.ValueToken, start, sb.String()), true
}

func (l *Lexer) readWhitespace() syntax.Token {
	start := l.position
	for l.position < len(l.text) && isSpace(l.peekRune()) {
		l.position += l.runeSize()
	}
	return syntax.NewToken(syntax.Whitespace, start, l.text[start:l.position])
}

func (l *Lexer) single(kind syntax.Kind) syntax.Token {
	start := l.position
	l.position++
	return syntax.NewToken(kind, start, l.text[start:l.position])
}

// isCaseMarker reports whether "/i" at pos ends a value.
func (l *Lexer) isCaseMarker(pos int) bool {
	if pos+1 >= len(l.text) || l.text[pos] != '/' || l.text[pos+1] != 'i' {
		return false
	}
	if pos+2 == len(l.text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(l.text[pos+2:])
	return isValueTerminator(r)
}

func (l *Lexer) peekRune() rune {
	r, _ := utf8.DecodeRuneInString(l.text[l.position:])
	return r
}

func (l *Lexer) runeSize() int {
	_, size := utf8.DecodeRuneInString(l.text[l.position:])
	return size
}

func (l *Lexer) addDiagnostic(format string, args ...any) {
	l.diagnostics = append(l.diagnostics, fmt.Sprintf(format, args...))
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

func isValueTerminator(r rune) bool {
	return isSpace(r) || r == ',' || r == '|' || r == '(' || r == ')'
}

func isFieldStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isFieldChar(r rune) bool {
	return isFieldStart(r) || unicode.IsDigit(r) || r == '.'
}

func isNameChar(r rune) bool {
	return r < utf8.RuneSelf && (r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
