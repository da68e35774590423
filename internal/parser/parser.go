// Package parser extracts the link surface of markdown files.
//
// Link extraction is a constrained sub-grammar, not a full CommonMark parse:
// a single forward scan per line, with fenced code blocks and inline code
// spans excluded. Positions are 1-indexed and point at the opening bracket
// (or '@' for claude imports) so the rewriter can substitute path tokens
// byte-for-byte.
package parser

import (
	"path/filepath"
	"strings"

	"github.com/aidanlsb/relink/internal/model"
)

// Parse scans content and returns the file's extracted link surface plus any
// non-fatal warnings (e.g. malformed reference definitions). It never fails:
// whatever parsed successfully is returned.
//
// filePath must be absolute; resolved paths are computed against its
// directory, never the process working directory.
func Parse(content, filePath string) (*model.ParsedFile, []string) {
	file := &model.ParsedFile{Path: filePath}
	fileDir := filepath.Dir(filePath)

	var warnings []string
	var fences fenceTracker

	for i, line := range strings.Split(content, "\n") {
		if fences.Observe(line) {
			continue
		}
		scanLine(file, fileDir, line, i+1, &warnings)
	}

	file.Dependencies = dependencies(file.Links)
	return file, warnings
}

// dependencies derives the deduplicated set of absolute paths the file's
// filesystem-targeting links resolve to, in first-seen order.
func dependencies(links []model.Link) []string {
	seen := make(map[string]struct{})
	var deps []string
	for _, l := range links {
		if !l.Kind.HasFileTarget() || l.ResolvedPath == "" {
			continue
		}
		if _, ok := seen[l.ResolvedPath]; ok {
			continue
		}
		seen[l.ResolvedPath] = struct{}{}
		deps = append(deps, l.ResolvedPath)
	}
	return deps
}
