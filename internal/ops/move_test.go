package ops

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aidanlsb/relink/internal/model"
)

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(b)
}

func exists(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, rel))
	return err == nil
}

func TestMoveFileRewritesDependents(t *testing.T) {
	root := t.TempDir()
	write(t, root, "docs/a.md", "# A\n\nSee [b](./b.md).\n")
	write(t, root, "docs/b.md", "# B\n")

	res := MoveFile(filepath.Join(root, "docs", "b.md"), filepath.Join(root, "archive", "b.md"), Options{Root: root})
	if !res.Success {
		t.Fatalf("move failed: %v", res.Errors)
	}

	if got := read(t, root, "docs/a.md"); got != "# A\n\nSee [b](../archive/b.md).\n" {
		t.Errorf("dependent not rewritten: %q", got)
	}
	if !exists(root, "archive/b.md") || exists(root, "docs/b.md") {
		t.Error("file not moved")
	}

	if !reflect.DeepEqual(res.ModifiedFiles, []string{"docs/a.md"}) {
		t.Errorf("modified = %v", res.ModifiedFiles)
	}
	if !reflect.DeepEqual(res.CreatedFiles, []string{"archive/b.md"}) {
		t.Errorf("created = %v", res.CreatedFiles)
	}
	if !reflect.DeepEqual(res.DeletedFiles, []string{"docs/b.md"}) {
		t.Errorf("deleted = %v", res.DeletedFiles)
	}
}

func TestMoveFileRewritesOwnLinks(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.md", "# A\n")
	write(t, root, "b.md", "[a](./a.md)\n\n@./a.md\n")

	res := MoveFile(filepath.Join(root, "b.md"), filepath.Join(root, "sub", "b.md"), Options{Root: root})
	if !res.Success {
		t.Fatalf("move failed: %v", res.Errors)
	}

	if got := read(t, root, "sub/b.md"); got != "[a](../a.md)\n\n@../a.md\n" {
		t.Errorf("own links not rewritten: %q", got)
	}
}

func TestMoveFileDisplayTextMatchesHref(t *testing.T) {
	root := t.TempDir()
	write(t, root, "docs/a.md", "See [b.md](b.md) here.\n")
	write(t, root, "docs/b.md", "# B\n")

	res := MoveFile(filepath.Join(root, "docs", "b.md"), filepath.Join(root, "archive", "b.md"), Options{Root: root})
	if !res.Success {
		t.Fatalf("move failed: %v", res.Errors)
	}

	if got := read(t, root, "docs/a.md"); got != "See [b.md](../archive/b.md) here.\n" {
		t.Errorf("display text clobbered or link left stale: %q", got)
	}
}

func TestMoveFileDryRunMatchesExecute(t *testing.T) {
	root := t.TempDir()
	write(t, root, "docs/a.md", "[b](./b.md)\n")
	write(t, root, "docs/b.md", "[a](./a.md)\n")

	src := filepath.Join(root, "docs", "b.md")
	dst := filepath.Join(root, "archive", "b.md")

	dry := MoveFile(src, dst, Options{Root: root, DryRun: true})
	if !dry.Success {
		t.Fatalf("dry run failed: %v", dry.Errors)
	}
	// Dry run touches nothing.
	if exists(root, "archive/b.md") || !exists(root, "docs/b.md") {
		t.Fatal("dry run modified the filesystem")
	}
	if got := read(t, root, "docs/a.md"); got != "[b](./b.md)\n" {
		t.Fatalf("dry run modified content: %q", got)
	}

	wet := MoveFile(src, dst, Options{Root: root})
	if !wet.Success {
		t.Fatalf("move failed: %v", wet.Errors)
	}

	if !reflect.DeepEqual(dry.Changes, wet.Changes) {
		t.Errorf("dry run changes differ:\n%v\nvs\n%v", dry.Changes, wet.Changes)
	}
	if !reflect.DeepEqual(dry.ModifiedFiles, wet.ModifiedFiles) ||
		!reflect.DeepEqual(dry.CreatedFiles, wet.CreatedFiles) ||
		!reflect.DeepEqual(dry.DeletedFiles, wet.DeletedFiles) {
		t.Error("dry run file lists differ from execute")
	}
}

func TestMoveFileRoundTrip(t *testing.T) {
	root := t.TempDir()
	write(t, root, "docs/a.md", "See [b](b.md#setup) and ![img](assets/pic.png).\n")
	write(t, root, "docs/b.md", "# Setup\n")
	write(t, root, "docs/assets/pic.png", "png")

	src := filepath.Join(root, "docs", "b.md")
	dst := filepath.Join(root, "archive", "b.md")

	if res := MoveFile(src, dst, Options{Root: root}); !res.Success {
		t.Fatalf("forward move failed: %v", res.Errors)
	}
	if got := read(t, root, "docs/a.md"); got != "See [b](../archive/b.md#setup) and ![img](assets/pic.png).\n" {
		t.Fatalf("forward rewrite wrong: %q", got)
	}

	if res := MoveFile(dst, src, Options{Root: root}); !res.Success {
		t.Fatalf("reverse move failed: %v", res.Errors)
	}
	if got := read(t, root, "docs/a.md"); got != "See [b](b.md#setup) and ![img](assets/pic.png).\n" {
		t.Errorf("round trip not byte-identical: %q", got)
	}
}

func TestMoveFilesSwap(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.md", "# A\n")
	write(t, root, "b.md", "# B\n")
	write(t, root, "index.md", "[a](a.md) [b](b.md)\n")

	pairs := []MovePair{
		{Source: filepath.Join(root, "a.md"), Destination: filepath.Join(root, "b.md")},
		{Source: filepath.Join(root, "b.md"), Destination: filepath.Join(root, "a.md")},
	}
	res := MoveFiles(pairs, Options{Root: root})
	if !res.Success {
		t.Fatalf("swap failed: %v", res.Errors)
	}

	if read(t, root, "a.md") != "# B\n" || read(t, root, "b.md") != "# A\n" {
		t.Error("contents not swapped")
	}
	// Both hrefs now point at the swapped locations.
	if got := read(t, root, "index.md"); got != "[a](b.md) [b](a.md)\n" {
		t.Errorf("index not rewritten for swap: %q", got)
	}
}

func TestMoveFilesBatchSeesEarlierMoves(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.md", "[b](b.md)\n")
	write(t, root, "b.md", "# B\n")

	pairs := []MovePair{
		{Source: filepath.Join(root, "a.md"), Destination: filepath.Join(root, "x", "a.md")},
		{Source: filepath.Join(root, "b.md"), Destination: filepath.Join(root, "y", "b.md")},
	}
	res := MoveFiles(pairs, Options{Root: root})
	if !res.Success {
		t.Fatalf("batch failed: %v", res.Errors)
	}

	// a.md moved first, then its link followed b's later move.
	if got := read(t, root, "x/a.md"); got != "[b](../y/b.md)\n" {
		t.Errorf("chained rewrite wrong: %q", got)
	}
}

func TestMoveFilesRejectsInvalidBatchUpFront(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.md", "# A\n")
	write(t, root, "b.md", "# B\n")

	pairs := []MovePair{
		{Source: filepath.Join(root, "a.md"), Destination: filepath.Join(root, "moved.md")},
		{Source: filepath.Join(root, "missing.md"), Destination: filepath.Join(root, "other.md")},
	}
	res := MoveFiles(pairs, Options{Root: root})
	if res.Success {
		t.Fatal("expected rejection")
	}
	if len(res.Errors) == 0 {
		t.Fatal("expected errors")
	}
	// The valid pair was not executed either.
	if exists(root, "moved.md") || !exists(root, "a.md") {
		t.Error("batch partially executed despite validation failure")
	}
}

func TestMoveFilesValidation(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.md", "# A\n")
	write(t, root, "b.md", "# B\n")
	write(t, root, "c.txt", "text")

	cases := []struct {
		name  string
		pairs []MovePair
	}{
		{"empty batch", nil},
		{"non-markdown source", []MovePair{{filepath.Join(root, "c.txt"), filepath.Join(root, "c.md")}}},
		{"non-markdown destination", []MovePair{{filepath.Join(root, "a.md"), filepath.Join(root, "a.txt")}}},
		{"same path", []MovePair{{filepath.Join(root, "a.md"), filepath.Join(root, "a.md")}}},
		{"destination exists", []MovePair{{filepath.Join(root, "a.md"), filepath.Join(root, "b.md")}}},
		{"duplicate destination", []MovePair{
			{filepath.Join(root, "a.md"), filepath.Join(root, "x.md")},
			{filepath.Join(root, "b.md"), filepath.Join(root, "x.md")},
		}},
		{"duplicate source", []MovePair{
			{filepath.Join(root, "a.md"), filepath.Join(root, "x.md")},
			{filepath.Join(root, "a.md"), filepath.Join(root, "y.md")},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := MoveFiles(tc.pairs, Options{Root: root})
			if res.Success || len(res.Errors) == 0 {
				t.Errorf("expected rejection, got %+v", res)
			}
		})
	}
}

func TestMoveFileDirectoryDestination(t *testing.T) {
	root := t.TempDir()
	write(t, root, "docs/b.md", "# B\n")

	// Trailing separator means "into this directory", keeping the basename.
	res := MoveFile(filepath.Join(root, "docs", "b.md"), filepath.Join(root, "archive")+string(filepath.Separator), Options{Root: root})
	if !res.Success {
		t.Fatalf("move failed: %v", res.Errors)
	}
	if !exists(root, "archive/b.md") {
		t.Error("basename not preserved for directory destination")
	}
}

func TestMoveFileExistingDirectoryDestination(t *testing.T) {
	root := t.TempDir()
	write(t, root, "docs/b.md", "# B\n")
	if err := os.MkdirAll(filepath.Join(root, "archive"), 0o755); err != nil {
		t.Fatal(err)
	}

	res := MoveFile(filepath.Join(root, "docs", "b.md"), filepath.Join(root, "archive"), Options{Root: root})
	if !res.Success {
		t.Fatalf("move failed: %v", res.Errors)
	}
	if !exists(root, "archive/b.md") {
		t.Error("basename not preserved for existing directory destination")
	}
}

func TestMoveFilesRollsBackOnExecuteFailure(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.md", "[b](b.md)\n")
	write(t, root, "b.md", "# B\n")
	// A regular file where the second destination needs a directory, so the
	// transaction fails mid-flight after the first move committed.
	write(t, root, "blocked.md", "file, not a dir\n")

	pairs := []MovePair{
		{Source: filepath.Join(root, "b.md"), Destination: filepath.Join(root, "moved-b.md")},
		{Source: filepath.Join(root, "a.md"), Destination: filepath.Join(root, "blocked.md", "deep", "a.md")},
	}
	res := MoveFiles(pairs, Options{Root: root})
	if res.Success {
		t.Fatal("expected execute failure")
	}

	// Everything rolled back to the pre-operation state.
	if !exists(root, "b.md") || exists(root, "moved-b.md") {
		t.Error("first move not rolled back")
	}
	if got := read(t, root, "a.md"); got != "[b](b.md)\n" {
		t.Errorf("content update not rolled back: %q", got)
	}
}

func TestMoveFileChangeOrder(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.md", "[b](b.md)\n")
	write(t, root, "b.md", "# B\n")

	src := filepath.Join(root, "b.md")
	dst := filepath.Join(root, "sub", "b.md")
	res := MoveFile(src, dst, Options{Root: root, DryRun: true})
	if !res.Success {
		t.Fatalf("dry run failed: %v", res.Errors)
	}

	var types []model.ChangeType
	for _, c := range res.Changes {
		types = append(types, c.Type)
	}
	want := []model.ChangeType{
		model.ChangeLinkUpdated,    // dependent a.md
		model.ChangeFileMoved,      // b.md
		model.ChangeContentWritten, // a.md
	}
	if !reflect.DeepEqual(types, want) {
		t.Errorf("change order = %v, want %v", types, want)
	}
	moved := res.Changes[1]
	if moved.OldValue != src || moved.NewValue != dst {
		t.Errorf("file-moved change = %+v", moved)
	}
}

func TestVerifyReportsBrokenLinks(t *testing.T) {
	root := t.TempDir()
	a := write(t, root, "a.md", "[gone](missing.md)\n[b](b.md#nope)\n[ok](b.md#setup)\n[u][undef]\n")
	write(t, root, "b.md", "# Setup\n")

	issues := Verify([]string{a})
	if len(issues) != 3 {
		t.Fatalf("issues = %+v", issues)
	}
	if issues[0].Line != 1 || issues[1].Line != 2 || issues[2].Line != 4 {
		t.Errorf("issue lines = %+v", issues)
	}
}

func TestCheckProject(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.md", "[b](b.md)\n[gone](missing.md)\n")
	write(t, root, "b.md", "[#](#intro)\n\n# Intro\n")

	issues, warnings, err := CheckProject(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if len(issues) != 1 {
		t.Fatalf("issues = %+v", issues)
	}
	if issues[0].Line != 2 {
		t.Errorf("issue = %+v", issues[0])
	}
}
