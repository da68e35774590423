package model

// ParsedFile is one markdown file's extracted link surface.
type ParsedFile struct {
	// Path is the absolute file path and the file's identity key.
	Path string `json:"path"`

	// Links are all references found in the file, in document order.
	Links []Link `json:"links"`

	// References are the link-reference-style definitions found in the file.
	References []ReferenceDefinition `json:"references,omitempty"`

	// Dependencies are the absolute paths this file links to, deduplicated,
	// derived from the file-targeting links.
	Dependencies []string `json:"dependencies,omitempty"`

	// Dependents are the absolute paths of files that link to this file.
	// Populated and maintained by the dependency graph, never by the parser.
	Dependents []string `json:"dependents,omitempty"`
}

// Definition returns the reference definition for id, if any.
func (f *ParsedFile) Definition(id string) (ReferenceDefinition, bool) {
	for _, def := range f.References {
		if def.ID == id {
			return def, true
		}
	}
	return ReferenceDefinition{}, false
}
