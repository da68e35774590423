// Package config handles global relink configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global relink configuration.
type Config struct {
	// DefaultProject is the name of the default project (from Projects map).
	DefaultProject string `toml:"default_project"`

	// Projects is a map of project names to root paths.
	Projects map[string]string `toml:"projects"`

	// CreateBackups enables ".backup" siblings before destructive writes when
	// no flag or per-project setting says otherwise.
	CreateBackups bool `toml:"create_backups"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown
	// rendering. Supported values are ANSI color codes ("0" to "255") or hex
	// colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code
	// blocks. Example values: "monokai", "dracula", "github", "nord".
	CodeTheme string `toml:"code_theme"`
}

// GetProjectRoot returns the root path for a named project. If name is
// empty, the default project is used.
func (c *Config) GetProjectRoot(name string) (string, error) {
	if name == "" {
		name = c.DefaultProject
	}
	if name == "" {
		return "", fmt.Errorf("no default project configured")
	}
	if c.Projects != nil {
		if path, ok := c.Projects[name]; ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("project '%s' not found in config", name)
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/relink/config.toml first (XDG style),
// then falls back to the OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "relink", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "relink", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}
