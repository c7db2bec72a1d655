package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/boolean-maybe/fql/config"
	"github.com/boolean-maybe/fql/operator"
)

// BuildRegistry registers every configured custom operator.
func BuildRegistry(cfg *config.Config) (*operator.Registry, error) {
	reg, err := operator.FromConfig(cfg.Operators)
	if err != nil {
		return nil, fmt.Errorf("load operators: %w", err)
	}
	slog.Debug("registered custom operators", "count", reg.Len(), "names", reg.Names())
	return reg, nil
}
