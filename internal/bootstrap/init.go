package bootstrap

import (
	"io"
	"log/slog"

	"github.com/boolean-maybe/fql/config"
	"github.com/boolean-maybe/fql/operator"
)

// BootstrapResult contains the initialized command-line components.
type BootstrapResult struct {
	Cfg       *config.Config
	LogLevel  slog.Level
	Operators *operator.Registry
}

// Bootstrap loads configuration, installs logging on logOut and builds the
// operator registry. args are the raw command-line arguments so a
// --log-level flag can override the configured level.
func Bootstrap(args []string, logOut io.Writer) (*BootstrapResult, error) {
	// Phase 1: Configuration and logging
	cfg, err := LoadConfig(args)
	if err != nil {
		return nil, err
	}
	logLevel := InitLogging(cfg, logOut)

	slog.Debug("configuration loaded",
		"config_file", config.GetConfigFile(),
		"project_config", config.GetProjectConfigFile(),
		"format", cfg.Output.Format)

	// Phase 2: Custom operators
	reg, err := BuildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	return &BootstrapResult{
		Cfg:       cfg,
		LogLevel:  logLevel,
		Operators: reg,
	}, nil
}
