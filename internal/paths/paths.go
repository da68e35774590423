// Package paths provides canonical path helpers shared by the parser,
// rewriter, and orchestrator:
// - markdown extension detection
// - home-directory ("~/") expansion and contraction
// - relative-path computation with forward-slash output
// - "looks like a directory" detection
// - syntactic path validation
//
// Centralizing these keeps resolution behavior identical across parsing,
// planning, and verification.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// MarkdownExtensions are the file extensions treated as markdown.
var MarkdownExtensions = []string{".md", ".markdown", ".mdown", ".mkd", ".mdx"}

// IsMarkdown reports whether the path has a markdown extension.
func IsMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range MarkdownExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LooksLikeDir reports whether the path is written as a directory
// (trailing separator).
func LooksLikeDir(path string) bool {
	if path == "" {
		return false
	}
	return strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator))
}

// ExpandHome expands a leading "~/" against the user home directory.
// Paths without the prefix are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// ContractHome expresses an absolute path in "~/..." form when it lies under
// the user home directory; otherwise the path is returned unchanged (with
// forward slashes).
func ContractHome(abs string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.ToSlash(abs)
	}
	rel, err := filepath.Rel(home, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs)
	}
	if rel == "." {
		return "~"
	}
	return "~/" + filepath.ToSlash(rel)
}

// Relative returns the relative path from fromDir to target, with forward
// slashes regardless of host OS.
func Relative(fromDir, target string) (string, error) {
	rel, err := filepath.Rel(fromDir, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Resolve joins a (possibly relative) target against baseDir and cleans the
// result. Absolute targets are cleaned and returned as-is.
func Resolve(baseDir, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(baseDir, target)
}

// SplitFragment splits an href into its path part and "#fragment" suffix.
// The fragment, when present, includes the leading '#'.
func SplitFragment(href string) (path, fragment string) {
	if i := strings.Index(href, "#"); i >= 0 {
		return href[:i], href[i:]
	}
	return href, ""
}

// CommonAncestor returns the deepest directory containing every given
// absolute path. Paths are treated as files; their parent directories are
// what get intersected.
func CommonAncestor(absPaths []string) string {
	if len(absPaths) == 0 {
		return ""
	}
	common := filepath.Dir(absPaths[0])
	for _, p := range absPaths[1:] {
		dir := filepath.Dir(p)
		for !isAncestorOf(common, dir) {
			next := filepath.Dir(common)
			if next == common {
				break
			}
			common = next
		}
	}
	return common
}

func isAncestorOf(ancestor, dir string) bool {
	if ancestor == dir {
		return true
	}
	prefix := ancestor
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(dir+string(filepath.Separator), prefix)
}
