package bootstrap

import (
	"fmt"

	"github.com/boolean-maybe/fql/config"
)

// LoadConfig loads the application configuration.
// Returns an error if configuration loading fails.
func LoadConfig(args []string) (*config.Config, error) {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
