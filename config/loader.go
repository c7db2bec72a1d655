package config

// Viper configuration loader: reads config.yaml from the project, user and working directories

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned when a default config would overwrite an existing file
var ErrConfigExists = errors.New("config file already exists")

// OperatorConfig declares a custom operator usable as #name in filters
type OperatorConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Description string `mapstructure:"description" yaml:"description,omitempty"`
}

// Config holds all application configuration loaded from config.yaml
type Config struct {
	// Logging configuration
	Logging struct {
		Level string `mapstructure:"level" yaml:"level"` // "debug", "info", "warn", "error"
	} `mapstructure:"logging" yaml:"logging"`

	// Output configuration for parse results
	Output struct {
		Format string `mapstructure:"format" yaml:"format"` // "text" or "yaml"
	} `mapstructure:"output" yaml:"output"`

	// REPL configuration
	REPL struct {
		Prompt      string `mapstructure:"prompt" yaml:"prompt"`
		HistorySize int    `mapstructure:"historySize" yaml:"historySize"`
	} `mapstructure:"repl" yaml:"repl"`

	// Check configuration
	Check struct {
		Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
	} `mapstructure:"check" yaml:"check"`

	// Custom operators
	Operators []OperatorConfig `mapstructure:"operators" yaml:"operators"`
}

// LoadConfig loads configuration from config.yaml.
// Priority order (first found wins): project config → user config → current directory.
// If config.yaml doesn't exist, it uses default values.
// args are the command line arguments; only --log-level is read from them.
func LoadConfig(args []string) (*Config, error) {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	projectConfigDir := filepath.Dir(GetProjectConfigFile())
	viper.AddConfigPath(projectConfigDir) // Project config (highest priority)
	viper.AddConfigPath(GetConfigDir())   // User config
	viper.AddConfigPath(".")              // Current directory

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Debug("no config.yaml found, using defaults")
		} else {
			slog.Error("error reading config file", "error", err)
			return nil, err
		}
	} else {
		slog.Debug("loaded configuration", "file", viper.ConfigFileUsed())
	}

	// Allow environment variables to override config file
	viper.SetEnvPrefix("FQL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := bindFlags(args); err != nil {
		slog.Warn("failed to bind command line flags", "error", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		slog.Error("failed to unmarshal config", "error", err)
		return nil, err
	}

	return cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("logging.level", "error")
	viper.SetDefault("output.format", "text")
	viper.SetDefault("repl.prompt", "fql> ")
	viper.SetDefault("repl.historySize", 500)
	viper.SetDefault("check.debounce", 100*time.Millisecond)
}

// bindFlags binds supported command line flags to viper so they can override config values.
func bindFlags(args []string) error {
	flagSet := pflag.NewFlagSet("fql", pflag.ContinueOnError)
	flagSet.ParseErrorsWhitelist.UnknownFlags = true
	flagSet.SetOutput(io.Discard)

	flagSet.String("log-level", "", "Log level (debug, info, warn, error)")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	return viper.BindPFlag("logging.level", flagSet.Lookup("log-level"))
}

// DefaultConfig returns the configuration used when no config.yaml exists
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Logging.Level = "error"
	cfg.Output.Format = "text"
	cfg.REPL.Prompt = "fql> "
	cfg.REPL.HistorySize = 500
	cfg.Check.Debounce = 100 * time.Millisecond
	cfg.Operators = []OperatorConfig{}
	return cfg
}

// WriteDefaultConfig writes the default configuration to path as YAML.
// It refuses to overwrite an existing file.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config.yaml: %w", err)
	}

	//nolint:gosec // G301: 0755 is appropriate for config directory
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	//nolint:gosec // G306: 0644 is appropriate for config file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config.yaml: %w", err)
	}
	return nil
}
