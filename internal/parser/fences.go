package parser

import "strings"

// fenceTracker tracks fenced code block state across a line-by-line scan.
// Lines between matching fences carry no links.
type fenceTracker struct {
	open   bool
	marker string
}

// Observe reports whether the line is a fence delimiter or inside an open
// fence, i.e. whether link extraction should skip it.
func (f *fenceTracker) Observe(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if f.open {
		if strings.HasPrefix(trimmed, f.marker) {
			f.open = false
		}
		return true
	}
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, marker) {
			f.open = true
			f.marker = marker
			return true
		}
	}
	return false
}

// maskInlineCode blanks the content of single-line `code spans` so the link
// regexes cannot misfire inside them. The returned string has the same length
// as the input, keeping column positions stable.
func maskInlineCode(line string) string {
	b := []byte(line)
	for i := 0; i < len(b); {
		if b[i] != '`' {
			i++
			continue
		}
		j := i + 1
		for j < len(b) && b[j] != '`' {
			j++
		}
		if j >= len(b) {
			// Unmatched backtick; leave the rest of the line alone.
			break
		}
		for k := i; k <= j; k++ {
			b[k] = ' '
		}
		i = j + 1
	}
	return string(b)
}
