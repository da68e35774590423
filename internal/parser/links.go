package parser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aidanlsb/relink/internal/model"
	"github.com/aidanlsb/relink/internal/paths"
)

var (
	// ![alt](target) or ![alt](target "title")
	imageRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^()\s]+)(?:\s+"([^"]*)")?\)`)

	// [text](target) or [text](target "title")
	linkRe = regexp.MustCompile(`\[([^\]]*)\]\(([^()\s]+)(?:\s+"([^"]*)")?\)`)

	// [text][id]
	refUseRe = regexp.MustCompile(`\[([^\]]+)\]\[([^\]]+)\]`)

	// @path, @./path, @~/path, @/abs/path — a bare '@' immediately followed
	// by a path token, delimited by line start or whitespace.
	importRe = regexp.MustCompile(`(?:^|\s)(@[^\s@\[\]()]+)`)

	// [id]: url "title"
	refDefRe = regexp.MustCompile(`^\s{0,3}\[([^\]]+)\]:\s*(\S+)(?:\s+"([^"]*)")?\s*$`)

	// Loose head used to detect malformed definitions.
	refDefHeadRe = regexp.MustCompile(`^\s{0,3}\[[^\]]+\]:\s*\S`)
)

type span struct{ start, end int }

func (s span) contains(i int) bool { return i >= s.start && i < s.end }

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// scanLine extracts links and reference definitions from one (already
// fence-filtered) line. Matches are classified in precedence order: reference
// definitions claim the whole line, then images, standard links, reference
// uses, and claude imports.
func scanLine(file *model.ParsedFile, fileDir, line string, lineNo int, warnings *[]string) {
	masked := maskInlineCode(line)

	if refDefHeadRe.MatchString(masked) {
		if m := refDefRe.FindStringSubmatchIndex(masked); m != nil {
			def := model.ReferenceDefinition{
				ID:        masked[m[2]:m[3]],
				URL:       masked[m[4]:m[5]],
				Line:      lineNo,
				URLColumn: m[4] + 1,
			}
			if m[6] >= 0 {
				def.Title = masked[m[6]:m[7]]
			}
			file.References = append(file.References, def)
		} else {
			*warnings = append(*warnings, fmt.Sprintf("%s:%d: malformed reference definition", file.Path, lineNo))
		}
		return
	}

	var links []model.Link
	var spans []span

	for _, m := range imageRe.FindAllStringSubmatchIndex(masked, -1) {
		start, end := m[0], m[1]
		spans = append(spans, span{start, end})
		alt := masked[m[2]:m[3]]
		target := masked[m[4]:m[5]]
		// Column points at the opening bracket, one past the '!'.
		links = append(links, classifyBracketed(model.KindImage, alt, target, fileDir, lineNo, start+2, m[4]+1))
	}

	for _, m := range linkRe.FindAllStringSubmatchIndex(masked, -1) {
		start, end := m[0], m[1]
		if overlaps(spans, start, end) {
			continue
		}
		if start > 0 && masked[start-1] == '!' {
			continue
		}
		spans = append(spans, span{start, end})
		text := masked[m[2]:m[3]]
		target := masked[m[4]:m[5]]
		links = append(links, classifyBracketed(model.KindInternal, text, target, fileDir, lineNo, start+1, m[4]+1))
	}

	for _, m := range refUseRe.FindAllStringSubmatchIndex(masked, -1) {
		start, end := m[0], m[1]
		if overlaps(spans, start, end) {
			continue
		}
		spans = append(spans, span{start, end})
		links = append(links, model.Link{
			Kind:       model.KindReference,
			Href:       masked[m[4]:m[5]],
			Text:       masked[m[2]:m[3]],
			Line:       lineNo,
			Column:     start + 1,
			HrefColumn: m[4] + 1,
		})
	}

	for _, m := range importRe.FindAllStringSubmatchIndex(masked, -1) {
		start, end := m[2], m[3]
		if overlaps(spans, start, end) {
			continue
		}
		href := masked[start:end]
		resolved, isAbs := resolveTarget(fileDir, href[1:])
		links = append(links, model.Link{
			Kind:         model.KindClaudeImport,
			Href:         href,
			Line:         lineNo,
			Column:       start + 1,
			HrefColumn:   start + 1,
			IsAbsolute:   isAbs,
			ResolvedPath: resolved,
		})
	}

	// Restore document order within the line.
	for i := 1; i < len(links); i++ {
		for j := i; j > 0 && links[j-1].Column > links[j].Column; j-- {
			links[j-1], links[j] = links[j], links[j-1]
		}
	}
	file.Links = append(file.Links, links...)
}

// classifyBracketed builds a Link for []() and ![]() syntax. baseKind is the
// filesystem-targeting kind the syntax implies; external and anchor targets
// override it.
func classifyBracketed(baseKind model.LinkKind, text, target, fileDir string, lineNo, column, hrefColumn int) model.Link {
	link := model.Link{
		Kind:       baseKind,
		Href:       target,
		Text:       text,
		Line:       lineNo,
		Column:     column,
		HrefColumn: hrefColumn,
	}

	switch {
	case isExternalTarget(target):
		link.Kind = model.KindExternal
	case strings.HasPrefix(target, "#"):
		link.Kind = model.KindAnchor
	default:
		link.ResolvedPath, link.IsAbsolute = resolveTarget(fileDir, target)
	}
	return link
}

func isExternalTarget(target string) bool {
	return strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "mailto:")
}

// resolveTarget resolves a link target against the containing file's
// directory. The fragment suffix is ignored for resolution; absolute and
// home-relative targets resolve without the directory.
func resolveTarget(fileDir, target string) (resolved string, isAbs bool) {
	pathPart, _ := paths.SplitFragment(target)
	if pathPart == "" {
		return "", false
	}
	switch {
	case pathPart == "~" || strings.HasPrefix(pathPart, "~/"):
		expanded, err := paths.ExpandHome(pathPart)
		if err != nil {
			return "", true
		}
		return filepath.Clean(expanded), true
	case strings.HasPrefix(pathPart, "/"):
		return filepath.Clean(pathPart), true
	default:
		return filepath.Join(fileDir, pathPart), false
	}
}
