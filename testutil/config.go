package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boolean-maybe/fql/config"
)

// TestEnv is an isolated set of config, cache and project directories.
type TestEnv struct {
	ConfigDir  string // $XDG_CONFIG_HOME/fql
	CacheDir   string // $XDG_CACHE_HOME/fql
	ProjectDir string // working directory for the test
}

// NewTestEnv points XDG_CONFIG_HOME and XDG_CACHE_HOME at temp dirs, changes
// into a temp project directory and resets the path manager, so tests never
// read the real user config.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	configHome := t.TempDir()
	cacheHome := t.TempDir()
	projectDir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(projectDir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	config.ResetPathManager()
	if err := config.InitPaths(); err != nil {
		t.Fatalf("failed to init paths: %v", err)
	}
	t.Cleanup(config.ResetPathManager)

	return &TestEnv{
		ConfigDir:  filepath.Join(configHome, "fql"),
		CacheDir:   filepath.Join(cacheHome, "fql"),
		ProjectDir: projectDir,
	}
}

// WriteUserConfig writes config.yaml into the user config directory.
func (e *TestEnv) WriteUserConfig(t *testing.T, content string) string {
	t.Helper()
	return WriteFile(t, e.ConfigDir, "config.yaml", content)
}

// WriteProjectConfig writes config.yaml into the project's .fql directory.
func (e *TestEnv) WriteProjectConfig(t *testing.T, content string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(e.ProjectDir, ".fql"), "config.yaml", content)
}

// WriteExpressions writes one filter expression per line into dir/name.
func WriteExpressions(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	return WriteFile(t, dir, name, strings.Join(lines, "\n")+"\n")
}

// WriteFile creates dir if needed and writes content to dir/name.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
