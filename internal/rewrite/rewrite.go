// Package rewrite recomputes link hrefs when files move.
//
// Only the path token of a link is ever substituted; display text, titles,
// fragments, and the surrounding syntax ("[]()", "![]()", "@", "[id]:") are
// reproduced byte-for-byte. Emitted paths always use forward slashes.
package rewrite

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aidanlsb/relink/internal/model"
	"github.com/aidanlsb/relink/internal/paths"
)

// Result is the outcome of rewriting one file's content.
type Result struct {
	UpdatedContent string
	Changes        []model.OperationChange
	Errors         []string
}

// Changed reports whether any link was rewritten.
func (r Result) Changed() bool { return len(r.Changes) > 0 }

// TargetMove rewrites the links in file (with the given in-memory content)
// that resolve to oldPath, so they point at newPath instead. Content is
// passed explicitly because mid-batch the on-disk bytes cannot be trusted.
func TargetMove(file *model.ParsedFile, content, oldPath, newPath string) Result {
	containingDir := filepath.Dir(file.Path)
	return Apply(file, content, map[string]string{oldPath: newPath}, containingDir, containingDir)
}

// SelfMove rewrites the moved file's own links: relative hrefs are resolved
// against the old directory, so after the container moves from oldSelfPath to
// newSelfPath they must be recomputed to keep pointing at the same absolute
// targets. Self-references follow the file to its new path.
func SelfMove(file *model.ParsedFile, content, oldSelfPath, newSelfPath string) Result {
	return Apply(file, content, map[string]string{oldSelfPath: newSelfPath},
		filepath.Dir(oldSelfPath), filepath.Dir(newSelfPath))
}

// Apply rewrites one file's content for a batch move described by mapping
// (old absolute path -> new absolute path). oldDir is the containing
// directory the links were resolved against at parse time; newDir is the
// directory after the operation. They differ only when the file itself is
// moving, in which case every relative href is recomputed so unmoved targets
// stay reachable too. Links whose target appears in mapping are retargeted
// regardless of shape.
func Apply(file *model.ParsedFile, content string, mapping map[string]string, oldDir, newDir string) Result {
	var res Result
	lines := strings.Split(content, "\n")
	containerMoves := oldDir != newDir

	// Per-line offset shift: earlier substitutions on the same line may
	// change the length ahead of later columns.
	shiftLine := 0
	shift := 0

	for _, l := range file.Links {
		if !l.Kind.HasFileTarget() {
			continue
		}
		var newTarget string
		switch {
		case l.ResolvedPath != "" && mapping[l.ResolvedPath] != "":
			newTarget = mapping[l.ResolvedPath]
		case containerMoves && !l.IsAbsolute:
			if l.ResolvedPath == "" {
				res.Errors = append(res.Errors, fmt.Sprintf("%s:%d: cannot resolve link %q", file.Path, l.Line, l.Href))
				continue
			}
			newTarget = l.ResolvedPath
		default:
			continue
		}

		newHref, err := rewriteHref(l.Href, newTarget, newDir)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s:%d: %v", file.Path, l.Line, err))
			continue
		}
		if newHref == l.Href {
			continue
		}

		if l.Line != shiftLine {
			shiftLine = l.Line
			shift = 0
		}
		line, ok := substituteAt(lines[l.Line-1], l.Href, newHref, l.HrefColumn-1+shift)
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("%s:%d: link %q not found at recorded position", file.Path, l.Line, l.Href))
			continue
		}
		lines[l.Line-1] = line
		shift += len(newHref) - len(l.Href)

		res.Changes = append(res.Changes, model.OperationChange{
			Type:     model.ChangeLinkUpdated,
			FilePath: file.Path,
			OldValue: l.Href,
			NewValue: newHref,
			Line:     l.Line,
		})
	}

	res.rewriteDefinitions(file, lines, mapping, oldDir, newDir)

	res.UpdatedContent = strings.Join(lines, "\n")
	if !res.Changed() {
		res.UpdatedContent = content
	}
	return res
}

// rewriteDefinitions updates [id]: url lines whose target is affected by the
// move. Definitions are not dependency edges, but leaving them stale would
// break every [text][id] use in the file.
func (r *Result) rewriteDefinitions(file *model.ParsedFile, lines []string, mapping map[string]string, oldDir, newDir string) {
	for _, def := range file.References {
		pathPart, _ := paths.SplitFragment(def.URL)
		if pathPart == "" || isExternalURL(pathPart) {
			continue
		}
		resolved := paths.Resolve(oldDir, pathPart)
		newTarget := ""
		switch {
		case mapping[resolved] != "":
			newTarget = mapping[resolved]
		case newDir != oldDir && !isAbsoluteHref(pathPart):
			// Container is moving; relative definition URLs follow.
			newTarget = resolved
		default:
			continue
		}

		newURL, err := rewriteHref(def.URL, newTarget, newDir)
		if err != nil {
			r.Errors = append(r.Errors, fmt.Sprintf("%s:%d: %v", file.Path, def.Line, err))
			continue
		}
		if newURL == def.URL {
			continue
		}
		line, ok := substituteAt(lines[def.Line-1], def.URL, newURL, def.URLColumn-1)
		if !ok {
			r.Errors = append(r.Errors, fmt.Sprintf("%s:%d: definition %q not found at recorded position", file.Path, def.Line, def.URL))
			continue
		}
		lines[def.Line-1] = line
		r.Changes = append(r.Changes, model.OperationChange{
			Type:     model.ChangeLinkUpdated,
			FilePath: file.Path,
			OldValue: def.URL,
			NewValue: newURL,
			Line:     def.Line,
		})
	}
}

// rewriteHref computes the replacement href: the new path token in the same
// shape as the original (absolute, home-relative, or relative with an
// optional "./"), with the '@' prefix and any fragment preserved.
func rewriteHref(href, newTarget, newDir string) (string, error) {
	prefix := ""
	rest := href
	if strings.HasPrefix(rest, "@") {
		prefix = "@"
		rest = rest[1:]
	}
	pathPart, fragment := paths.SplitFragment(rest)

	var newPath string
	switch {
	case pathPart == "~" || strings.HasPrefix(pathPart, "~/"):
		newPath = paths.ContractHome(newTarget)
	case strings.HasPrefix(pathPart, "/"):
		newPath = filepath.ToSlash(newTarget)
	default:
		rel, err := paths.Relative(newDir, newTarget)
		if err != nil {
			return "", fmt.Errorf("compute relative path to %s: %w", newTarget, err)
		}
		// Keep an explicit "./" only while the path does not climb;
		// "./../x" is never emitted.
		if strings.HasPrefix(pathPart, "./") && !strings.HasPrefix(rel, "../") {
			rel = "./" + rel
		}
		newPath = rel
	}
	return prefix + newPath + fragment, nil
}

// substituteAt replaces old at exactly offset in line. The offset is the
// parser's recorded token position, adjusted for earlier substitutions on the
// same line; anything else on the line (display text, definition ids) may
// contain the same string and must never be touched.
func substituteAt(line, old, repl string, offset int) (string, bool) {
	if offset < 0 || offset > len(line) || !strings.HasPrefix(line[offset:], old) {
		return line, false
	}
	return line[:offset] + repl + line[offset+len(old):], true
}

func isExternalURL(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "mailto:")
}

func isAbsoluteHref(pathPart string) bool {
	return pathPart == "~" || strings.HasPrefix(pathPart, "~/") || strings.HasPrefix(pathPart, "/")
}
