// Package model defines the shared data types for links, parsed files, and
// operation results. These shapes are the stable contract consumed by the
// parser, graph, rewriter, and CLI layers.
package model

// LinkKind classifies a reference found in markdown text.
type LinkKind string

const (
	KindInternal     LinkKind = "internal"
	KindExternal     LinkKind = "external"
	KindImage        LinkKind = "image"
	KindAnchor       LinkKind = "anchor"
	KindReference    LinkKind = "reference"
	KindClaudeImport LinkKind = "claude-import"
)

// HasFileTarget reports whether links of this kind resolve to a filesystem path.
func (k LinkKind) HasFileTarget() bool {
	switch k {
	case KindInternal, KindImage, KindClaudeImport:
		return true
	}
	return false
}

// Link is one reference found in a document.
type Link struct {
	Kind LinkKind `json:"kind"`

	// Href is the raw target string as written (e.g. "./a.md", "https://x",
	// "#sec", "@./a.md").
	Href string `json:"href"`

	// Text is the display text, when the syntax carries one.
	Text string `json:"text,omitempty"`

	// Line and Column are 1-indexed and point at the opening bracket (or the
	// '@' for claude imports).
	Line   int `json:"line"`
	Column int `json:"column"`

	// HrefColumn is the 1-indexed column of the href token itself. The
	// rewriter substitutes at exactly this position, so a display text that
	// happens to contain the href is never touched.
	HrefColumn int `json:"href_column,omitempty"`

	// IsAbsolute is true when the href is an absolute or home-relative
	// ("~/...") filesystem path.
	IsAbsolute bool `json:"is_absolute,omitempty"`

	// ResolvedPath is the absolute filesystem path the target resolves to,
	// computed against the containing file's directory. Empty for kinds
	// without a filesystem target.
	ResolvedPath string `json:"resolved_path,omitempty"`
}

// ReferenceDefinition is a link-reference-style definition: [id]: url "title".
type ReferenceDefinition struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Line  int    `json:"line"`

	// URLColumn is the 1-indexed column of the url token, so rewriting never
	// touches an id that contains the same string.
	URLColumn int `json:"url_column,omitempty"`
}
