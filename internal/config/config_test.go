package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetProjectRoot(t *testing.T) {
	t.Run("named project", func(t *testing.T) {
		cfg := &Config{
			Projects: map[string]string{
				"notes": "/path/to/notes",
				"wiki":  "/path/to/wiki",
			},
		}

		path, err := cfg.GetProjectRoot("wiki")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "/path/to/wiki" {
			t.Errorf("expected '/path/to/wiki', got %q", path)
		}
	})

	t.Run("default project", func(t *testing.T) {
		cfg := &Config{
			DefaultProject: "notes",
			Projects: map[string]string{
				"notes": "/path/to/notes",
			},
		}

		path, err := cfg.GetProjectRoot("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != "/path/to/notes" {
			t.Errorf("expected '/path/to/notes', got %q", path)
		}
	})

	t.Run("unknown project", func(t *testing.T) {
		cfg := &Config{}
		if _, err := cfg.GetProjectRoot("missing"); err == nil {
			t.Error("expected error for unknown project")
		}
	})

	t.Run("no default configured", func(t *testing.T) {
		cfg := &Config{}
		if _, err := cfg.GetProjectRoot(""); err == nil {
			t.Error("expected error with no default project")
		}
	})
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
default_project = "notes"
create_backups = true

[projects]
notes = "/home/user/notes"

[ui]
accent = "#A78BFA"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultProject != "notes" {
		t.Errorf("default_project = %q", cfg.DefaultProject)
	}
	if !cfg.CreateBackups {
		t.Error("create_backups not loaded")
	}
	if cfg.Projects["notes"] != "/home/user/notes" {
		t.Errorf("projects = %v", cfg.Projects)
	}
	if cfg.UI.Accent != "#A78BFA" {
		t.Errorf("accent = %q", cfg.UI.Accent)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}
