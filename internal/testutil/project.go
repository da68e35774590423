// Package testutil provides reusable test utilities for relink integration
// tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestProject represents a temporary markdown project for testing.
type TestProject struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestProject creates a new test project builder.
// Call Build() to create the actual project directory.
func NewTestProject(t *testing.T) *TestProject {
	t.Helper()
	return &TestProject{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the project.
// The path is relative to the project root.
func (p *TestProject) WithFile(path, content string) *TestProject {
	p.files[path] = content
	return p
}

// WithConfig sets the relink.yaml content for the project.
func (p *TestProject) WithConfig(yaml string) *TestProject {
	p.files["relink.yaml"] = yaml
	return p
}

// Build creates the project directory and all configured files.
// Returns the TestProject for method chaining.
func (p *TestProject) Build() *TestProject {
	p.t.Helper()

	p.Path = p.t.TempDir()
	for path, content := range p.files {
		p.writeFile(path, content)
	}
	return p
}

// Abs returns the absolute path of a project-relative path.
func (p *TestProject) Abs(relPath string) string {
	return filepath.Join(p.Path, relPath)
}

// writeFile writes a file to the project, creating directories as needed.
func (p *TestProject) writeFile(relPath, content string) {
	p.t.Helper()
	fullPath := filepath.Join(p.Path, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		p.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		p.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the project.
// Returns the content as a string.
func (p *TestProject) ReadFile(relPath string) string {
	p.t.Helper()
	content, err := os.ReadFile(filepath.Join(p.Path, relPath))
	if err != nil {
		p.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}
