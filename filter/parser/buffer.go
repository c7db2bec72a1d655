package parser

import "github.com/boolean-maybe/fql/filter/syntax"

// TokenSource produces tokens until it yields syntax.End.
// Diagnostics is read once the source is exhausted.
type TokenSource interface {
	Next() syntax.Token
	Diagnostics() []string
}

// tokenBuffer is a read-only view over the significant tokens of one input.
// It always holds at least the End token, and lookahead past the end
// yields that End token.
type tokenBuffer struct {
	tokens   []syntax.Token
	position int
}

// newTokenBuffer drains src up to and including End, dropping whitespace.
func newTokenBuffer(src TokenSource) *tokenBuffer {
	var tokens []syntax.Token
	for {
		tok := src.Next()
		if tok.Kind == syntax.Whitespace {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == syntax.End {
			break
		}
	}
	return &tokenBuffer{tokens: tokens}
}

// peek returns the token offset positions after the cursor.
func (b *tokenBuffer) peek(offset int) syntax.Token {
	index := b.position + offset
	if index >= len(b.tokens) {
		return b.tokens[len(b.tokens)-1]
	}
	if index < 0 {
		return b.tokens[0]
	}
	return b.tokens[index]
}

func (b *tokenBuffer) current() syntax.Token {
	return b.peek(0)
}

// previous returns the last consumed token; false before anything was consumed.
func (b *tokenBuffer) previous() (syntax.Token, bool) {
	if b.position == 0 {
		return syntax.Token{}, false
	}
	return b.peek(-1), true
}

// advance returns the current token and moves past it.
func (b *tokenBuffer) advance() syntax.Token {
	tok := b.current()
	b.position++
	return tok
}
