package testutil

import (
	"os"
	"path/filepath"
	"strings"
)

// AssertFileExists fails the test if the file does not exist.
func (p *TestProject) AssertFileExists(relPath string) {
	p.t.Helper()
	if _, err := os.Stat(filepath.Join(p.Path, relPath)); os.IsNotExist(err) {
		p.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (p *TestProject) AssertFileNotExists(relPath string) {
	p.t.Helper()
	if _, err := os.Stat(filepath.Join(p.Path, relPath)); err == nil {
		p.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (p *TestProject) AssertFileContains(relPath, substr string) {
	p.t.Helper()
	content := p.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		p.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertFileNotContains fails the test if the file contains the substring.
func (p *TestProject) AssertFileNotContains(relPath, substr string) {
	p.t.Helper()
	content := p.ReadFile(relPath)
	if strings.Contains(content, substr) {
		p.t.Errorf("expected file %s to not contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertFileEquals fails the test if the file content differs byte for byte.
func (p *TestProject) AssertFileEquals(relPath, want string) {
	p.t.Helper()
	content := p.ReadFile(relPath)
	if content != want {
		p.t.Errorf("file %s = %q, want %q", relPath, content, want)
	}
}
