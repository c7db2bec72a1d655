package operator

import (
	"fmt"

	"github.com/boolean-maybe/fql/config"
)

// FromConfig builds a registry from the operators declared in config.yaml.
// The first invalid or duplicate entry aborts loading.
func FromConfig(entries []config.OperatorConfig) (*Registry, error) {
	r := NewRegistry()
	for i, entry := range entries {
		if err := r.Register(entry.Name, entry.Description); err != nil {
			return nil, fmt.Errorf("operator %d: %w", i, err)
		}
	}
	return r, nil
}
