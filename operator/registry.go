package operator

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrInvalidName indicates an operator name that cannot be written after '#'
	ErrInvalidName = errors.New("invalid operator name")

	// ErrDuplicate indicates an operator that is already registered
	ErrDuplicate = errors.New("operator already registered")
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Set is the read-only view the lexer needs: is "#name" a known operator?
type Set interface {
	Has(name string) bool
}

// Operator is a registered custom comparison operator.
// What it means is up to whoever compiles the syntax tree.
type Operator struct {
	Name        string
	Description string
}

// Registry holds custom operators. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	operators map[string]Operator
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{operators: make(map[string]Operator)}
}

// Register adds an operator. name is given without the leading '#'.
func (r *Registry) Register(name, description string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.operators[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	r.operators[name] = Operator{Name: name, Description: description}
	return nil
}

// Has implements Set
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.operators[name]
	return ok
}

// Lookup returns the operator registered under name.
func (r *Registry) Lookup(name string) (Operator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.operators[name]
	return op, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.operators))
	for name := range r.operators {
		names = append(names, name)
	}
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Operators returns every registered operator sorted by name.
func (r *Registry) Operators() []Operator {
	r.mu.RLock()
	ops := make([]Operator, 0, len(r.operators))
	for _, op := range r.operators {
		ops = append(ops, op)
	}
	r.mu.RUnlock()

	slices.SortFunc(ops, func(a, b Operator) int {
		return strings.Compare(a.Name, b.Name)
	})
	return ops
}

// Len returns the number of registered operators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.operators)
}
