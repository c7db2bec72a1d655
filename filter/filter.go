package filter

import (
	"errors"
	"fmt"

	"github.com/boolean-maybe/fql/filter/parser"
	"github.com/boolean-maybe/fql/filter/syntax"
	"github.com/boolean-maybe/fql/operator"
)

// ErrInvalidFilter wraps the diagnostics of a filter that did not parse cleanly
var ErrInvalidFilter = errors.New("invalid filter")

// Parse parses a filter expression into a syntax tree.
// This is the main public entry point for filter parsing.
//
// Example expressions:
//   - status=done
//   - type=bug, priority>2
//   - (status=ready | status=in_progress) and assignee=bob/i
//   - tags[0]^ui
//   - title=
//   - owner#isMember admins (with a registered "isMember" operator)
//
// The tree is always returned. When the input has problems the error wraps
// ErrInvalidFilter and joins every diagnostic, and the tree is a best effort.
func Parse(expr string, ops operator.Set) (*syntax.SyntaxTree, error) {
	tree := parser.Parse(expr, ops)
	if err := tree.Err(); err != nil {
		return tree, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	return tree, nil
}
