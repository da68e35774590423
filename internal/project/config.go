package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-project configuration file, looked up at the
// project root.
const ConfigFileName = "relink.yaml"

// Config is per-project configuration from relink.yaml.
type Config struct {
	// Extensions are additional file extensions treated as markdown,
	// on top of the built-in set.
	Extensions []string `yaml:"extensions,omitempty"`

	// Ignore lists directory names skipped during discovery, on top of the
	// always-skipped hidden directories.
	Ignore []string `yaml:"ignore,omitempty"`

	// CreateBackups enables ".backup" siblings before destructive writes
	// when no explicit flag is given.
	CreateBackups *bool `yaml:"create_backups,omitempty"`
}

// LoadConfig loads relink.yaml from root. A missing file yields the zero
// config, not an error.
func LoadConfig(root string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(root, ConfigFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", ConfigFileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigFileName, err)
	}
	return &cfg, nil
}

// IsMarkdownPath reports whether the path counts as markdown under this
// config (built-in extensions plus configured extras).
func (c *Config) IsMarkdownPath(path string) bool {
	if isBuiltinMarkdown(path) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Extensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// skipDir reports whether discovery should descend into the directory.
func (c *Config) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, ignored := range c.Ignore {
		if name == ignored {
			return true
		}
	}
	return false
}
