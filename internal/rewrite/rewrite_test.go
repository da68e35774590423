package rewrite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/relink/internal/model"
	"github.com/aidanlsb/relink/internal/parser"
)

func fs(p string) string { return filepath.FromSlash(p) }

func parse(t *testing.T, path, content string) *model.ParsedFile {
	t.Helper()
	file, warnings := parser.Parse(content, fs(path))
	if len(warnings) > 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	return file
}

func TestTargetMoveRelative(t *testing.T) {
	content := "see [b](./b.md) here\n"
	file := parse(t, "/p/docs/a.md", content)

	res := TargetMove(file, content, fs("/p/docs/b.md"), fs("/p/archive/b.md"))

	if len(res.Errors) != 0 {
		t.Fatalf("errors: %v", res.Errors)
	}
	want := "see [b](../archive/b.md) here\n"
	if res.UpdatedContent != want {
		t.Errorf("content = %q, want %q", res.UpdatedContent, want)
	}
	if len(res.Changes) != 1 {
		t.Fatalf("changes = %+v", res.Changes)
	}
	c := res.Changes[0]
	if c.Type != model.ChangeLinkUpdated || c.OldValue != "./b.md" || c.NewValue != "../archive/b.md" || c.Line != 1 {
		t.Errorf("change = %+v", c)
	}
}

func TestTargetMovePreservesFragmentAndTitle(t *testing.T) {
	content := "[b](b.md#section-one \"B doc\")\n"
	file := parse(t, "/p/docs/a.md", content)

	res := TargetMove(file, content, fs("/p/docs/b.md"), fs("/p/archive/b.md"))

	want := "[b](../archive/b.md#section-one \"B doc\")\n"
	if res.UpdatedContent != want {
		t.Errorf("content = %q, want %q", res.UpdatedContent, want)
	}
}

func TestTargetMoveUntouchedLinksStay(t *testing.T) {
	content := "[b](./b.md) [c](./c.md) [ext](https://example.com)\n"
	file := parse(t, "/p/docs/a.md", content)

	res := TargetMove(file, content, fs("/p/docs/b.md"), fs("/p/archive/b.md"))

	want := "[b](../archive/b.md) [c](./c.md) [ext](https://example.com)\n"
	if res.UpdatedContent != want {
		t.Errorf("content = %q, want %q", res.UpdatedContent, want)
	}
}

func TestTargetMoveMultipleSameLine(t *testing.T) {
	content := "[one](./b.md) then [two](./b.md#sec)\n"
	file := parse(t, "/p/docs/a.md", content)

	res := TargetMove(file, content, fs("/p/docs/b.md"), fs("/p/archive/b.md"))

	want := "[one](../archive/b.md) then [two](../archive/b.md#sec)\n"
	if res.UpdatedContent != want {
		t.Errorf("content = %q, want %q", res.UpdatedContent, want)
	}
	if len(res.Changes) != 2 {
		t.Errorf("changes = %+v", res.Changes)
	}
}

func TestTargetMoveImageAndImport(t *testing.T) {
	content := "![diagram](./b.md)\n@./b.md\n"
	file := parse(t, "/p/docs/a.md", content)

	res := TargetMove(file, content, fs("/p/docs/b.md"), fs("/p/archive/b.md"))

	want := "![diagram](../archive/b.md)\n@../archive/b.md\n"
	if res.UpdatedContent != want {
		t.Errorf("content = %q, want %q", res.UpdatedContent, want)
	}
}

func TestTargetMoveAbsoluteShapePreserved(t *testing.T) {
	content := "[b](/p/docs/b.md)\n"
	file := parse(t, "/p/docs/a.md", content)

	res := TargetMove(file, content, fs("/p/docs/b.md"), fs("/p/archive/b.md"))

	want := "[b](/p/archive/b.md)\n"
	if res.UpdatedContent != want {
		t.Errorf("content = %q, want %q", res.UpdatedContent, want)
	}
}

func TestTargetMoveHomeShapePreserved(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	content := "@~/notes/b.md\n"
	file := parse(t, filepath.ToSlash(filepath.Join(home, "a.md")), content)

	res := TargetMove(file, content,
		filepath.Join(home, "notes", "b.md"),
		filepath.Join(home, "archive", "b.md"))

	want := "@~/archive/b.md\n"
	if res.UpdatedContent != want {
		t.Errorf("content = %q, want %q", res.UpdatedContent, want)
	}
}

func TestTargetMoveTextMatchesHref(t *testing.T) {
	// Display text identical to the href: only the path token may change.
	content := "See [b.md](b.md) here.\n"
	file := parse(t, "/p/docs/a.md", content)

	res := TargetMove(file, content, fs("/p/docs/b.md"), fs("/p/archive/b.md"))

	if len(res.Errors) != 0 {
		t.Fatalf("errors: %v", res.Errors)
	}
	want := "See [b.md](../archive/b.md) here.\n"
	if res.UpdatedContent != want {
		t.Errorf("content = %q, want %q", res.UpdatedContent, want)
	}
}

func TestTargetMoveDefinitionIDMatchesURL(t *testing.T) {
	// Definition id identical to the url: only the url token may change.
	content := "[x][b.md]\n\n[b.md]: b.md\n"
	file := parse(t, "/p/docs/a.md", content)

	res := TargetMove(file, content, fs("/p/docs/b.md"), fs("/p/archive/b.md"))

	if len(res.Errors) != 0 {
		t.Fatalf("errors: %v", res.Errors)
	}
	want := "[x][b.md]\n\n[b.md]: ../archive/b.md\n"
	if res.UpdatedContent != want {
		t.Errorf("content = %q, want %q", res.UpdatedContent, want)
	}
}

func TestTargetMoveRewritesDefinition(t *testing.T) {
	content := "see [guide][g]\n\n[g]: ./b.md \"Guide\"\n"
	file := parse(t, "/p/docs/a.md", content)

	res := TargetMove(file, content, fs("/p/docs/b.md"), fs("/p/archive/b.md"))

	want := "see [guide][g]\n\n[g]: ../archive/b.md \"Guide\"\n"
	if res.UpdatedContent != want {
		t.Errorf("content = %q, want %q", res.UpdatedContent, want)
	}
}

func TestSelfMoveRecomputesRelativeLinks(t *testing.T) {
	content := "@./notes.md\n[n](notes.md)\n"
	file := parse(t, "/p/root.md", content)

	res := SelfMove(file, content, fs("/p/root.md"), fs("/p/sub/root.md"))

	want := "@../notes.md\n[n](../notes.md)\n"
	if res.UpdatedContent != want {
		t.Errorf("content = %q, want %q", res.UpdatedContent, want)
	}
}

func TestSelfMoveLeavesAbsoluteAlone(t *testing.T) {
	content := "[abs](/p/notes.md)\n"
	file := parse(t, "/p/root.md", content)

	res := SelfMove(file, content, fs("/p/root.md"), fs("/p/sub/root.md"))

	if res.Changed() {
		t.Errorf("absolute link should not change: %+v", res.Changes)
	}
	if res.UpdatedContent != content {
		t.Errorf("content = %q", res.UpdatedContent)
	}
}

func TestSelfMoveSelfReferenceFollows(t *testing.T) {
	content := "[self](./root.md#top)\n"
	file := parse(t, "/p/root.md", content)

	res := SelfMove(file, content, fs("/p/root.md"), fs("/p/sub/root.md"))

	want := "[self](./root.md#top)\n"
	if res.UpdatedContent != want {
		t.Errorf("content = %q, want %q", res.UpdatedContent, want)
	}
	if res.Changed() {
		t.Errorf("self reference with stable basename should not change: %+v", res.Changes)
	}
}

func TestSelfMoveRenameInPlace(t *testing.T) {
	content := "[self](./old.md) [n](notes.md)\n"
	file := parse(t, "/p/old.md", content)

	res := SelfMove(file, content, fs("/p/old.md"), fs("/p/new.md"))

	want := "[self](./new.md) [n](notes.md)\n"
	if res.UpdatedContent != want {
		t.Errorf("content = %q, want %q", res.UpdatedContent, want)
	}
}

func TestDotSlashStyleRoundTrip(t *testing.T) {
	// Rename in place: "./" style must survive a there-and-back move.
	original := "[b](./b.md)\n"
	file := parse(t, "/p/docs/a.md", original)

	res := TargetMove(file, original, fs("/p/docs/b.md"), fs("/p/docs/c.md"))
	if res.UpdatedContent != "[b](./c.md)\n" {
		t.Fatalf("first move content = %q", res.UpdatedContent)
	}

	file2 := parse(t, "/p/docs/a.md", res.UpdatedContent)
	res2 := TargetMove(file2, res.UpdatedContent, fs("/p/docs/c.md"), fs("/p/docs/b.md"))
	if res2.UpdatedContent != original {
		t.Errorf("round trip = %q, want %q", res2.UpdatedContent, original)
	}
}

func TestPlainStyleRoundTrip(t *testing.T) {
	original := "[b](b.md)\n"
	file := parse(t, "/p/docs/a.md", original)

	res := TargetMove(file, original, fs("/p/docs/b.md"), fs("/p/archive/b.md"))
	if res.UpdatedContent != "[b](../archive/b.md)\n" {
		t.Fatalf("first move content = %q", res.UpdatedContent)
	}

	file2 := parse(t, "/p/docs/a.md", res.UpdatedContent)
	res2 := TargetMove(file2, res.UpdatedContent, fs("/p/archive/b.md"), fs("/p/docs/b.md"))
	if res2.UpdatedContent != original {
		t.Errorf("round trip = %q, want %q", res2.UpdatedContent, original)
	}
}

func TestBrokenLinkDoesNotAbortFile(t *testing.T) {
	content := "[b](./b.md)\n[n](notes.md)\n"
	file := parse(t, "/p/root.md", content)

	// Blank out one link's resolution to simulate an unresolvable target.
	file.Links[1].ResolvedPath = ""

	res := SelfMove(file, content, fs("/p/root.md"), fs("/p/sub/root.md"))

	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v", res.Errors)
	}
	if !strings.Contains(res.UpdatedContent, "[b](../b.md)") {
		t.Errorf("remaining links must still be rewritten: %q", res.UpdatedContent)
	}
}
