package paths

import (
	"path/filepath"
	"testing"
)

func TestIsMarkdown(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"notes.md", true},
		{"notes.markdown", true},
		{"notes.mdown", true},
		{"notes.mkd", true},
		{"notes.MDX", true},
		{"notes.txt", false},
		{"notes", false},
		{"dir/notes.md", true},
	}
	for _, tt := range tests {
		if got := IsMarkdown(tt.path); got != tt.want {
			t.Errorf("IsMarkdown(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate("docs/a.md"); err != nil {
		t.Errorf("expected valid path, got %v", err)
	}
	if err := Validate(""); err == nil {
		t.Error("expected error for empty path")
	}
	if err := Validate("   "); err == nil {
		t.Error("expected error for blank path")
	}
	if err := Validate("a\x00b.md"); err == nil {
		t.Error("expected error for NUL byte")
	}
	if err := ValidateMarkdown("a.txt"); err == nil {
		t.Error("expected error for non-markdown extension")
	}
	if err := ValidateMarkdown("a.md"); err != nil {
		t.Errorf("expected valid markdown path, got %v", err)
	}
}

func TestLooksLikeDir(t *testing.T) {
	if !LooksLikeDir("archive/") {
		t.Error("trailing slash should look like a directory")
	}
	if LooksLikeDir("archive") {
		t.Error("bare name should not look like a directory")
	}
	if LooksLikeDir("") {
		t.Error("empty path should not look like a directory")
	}
}

func TestRelative(t *testing.T) {
	rel, err := Relative(filepath.FromSlash("/p/docs"), filepath.FromSlash("/p/archive/b.md"))
	if err != nil {
		t.Fatal(err)
	}
	if rel != "../archive/b.md" {
		t.Errorf("Relative = %q, want ../archive/b.md", rel)
	}

	rel, err = Relative(filepath.FromSlash("/p/docs"), filepath.FromSlash("/p/docs/b.md"))
	if err != nil {
		t.Fatal(err)
	}
	if rel != "b.md" {
		t.Errorf("Relative = %q, want b.md", rel)
	}
}

func TestSplitFragment(t *testing.T) {
	p, frag := SplitFragment("./a.md#section-one")
	if p != "./a.md" || frag != "#section-one" {
		t.Errorf("SplitFragment = %q, %q", p, frag)
	}
	p, frag = SplitFragment("./a.md")
	if p != "./a.md" || frag != "" {
		t.Errorf("SplitFragment = %q, %q", p, frag)
	}
}

func TestCommonAncestor(t *testing.T) {
	got := CommonAncestor([]string{
		filepath.FromSlash("/p/docs/a.md"),
		filepath.FromSlash("/p/archive/b.md"),
	})
	if got != filepath.FromSlash("/p") {
		t.Errorf("CommonAncestor = %q, want /p", got)
	}

	got = CommonAncestor([]string{filepath.FromSlash("/p/docs/a.md")})
	if got != filepath.FromSlash("/p/docs") {
		t.Errorf("CommonAncestor = %q, want /p/docs", got)
	}

	got = CommonAncestor([]string{
		filepath.FromSlash("/p/docs/a.md"),
		filepath.FromSlash("/p/docs/sub/b.md"),
	})
	if got != filepath.FromSlash("/p/docs") {
		t.Errorf("CommonAncestor = %q, want /p/docs", got)
	}
}
