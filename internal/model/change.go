package model

// ChangeType classifies one planned edit.
type ChangeType string

const (
	ChangeLinkUpdated    ChangeType = "link-updated"
	ChangeFileMoved      ChangeType = "file-moved"
	ChangeContentWritten ChangeType = "content-written"
)

// OperationChange is one atomic textual or file edit produced during planning.
// The same list backs dry-run previews and real execution.
type OperationChange struct {
	Type     ChangeType `json:"type"`
	FilePath string     `json:"file_path"`
	OldValue string     `json:"old_value,omitempty"`
	NewValue string     `json:"new_value,omitempty"`
	Line     int        `json:"line,omitempty"`
}

// OperationResult is the sole externally observable output of a move
// operation. File lists are reported relative to the operation's discovery
// root, with forward slashes.
type OperationResult struct {
	Success       bool              `json:"success"`
	ModifiedFiles []string          `json:"modified_files,omitempty"`
	CreatedFiles  []string          `json:"created_files,omitempty"`
	DeletedFiles  []string          `json:"deleted_files,omitempty"`
	Errors        []string          `json:"errors,omitempty"`
	Warnings      []string          `json:"warnings,omitempty"`
	Changes       []OperationChange `json:"changes,omitempty"`
}
