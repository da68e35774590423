package paths

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrEmptyPath indicates an empty or whitespace-only path.
	ErrEmptyPath = errors.New("path is empty")
	// ErrNulByte indicates a path containing a NUL byte.
	ErrNulByte = errors.New("path contains NUL byte")
	// ErrNotMarkdown indicates a path without a markdown extension.
	ErrNotMarkdown = errors.New("path is not a markdown file")
)

// Validate rejects syntactically invalid paths: empty paths and paths
// containing NUL bytes.
func Validate(path string) error {
	return validation.Validate(path,
		validation.By(notBlank),
		validation.By(noNulBytes),
	)
}

// ValidateMarkdown additionally requires a markdown extension.
func ValidateMarkdown(path string) error {
	if err := Validate(path); err != nil {
		return err
	}
	return validation.Validate(path, validation.By(markdownExt))
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return ErrEmptyPath
	}
	return nil
}

func noNulBytes(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsRune(s, '\x00') {
		return ErrNulByte
	}
	return nil
}

func markdownExt(value interface{}) error {
	s, _ := value.(string)
	if !IsMarkdown(s) {
		return ErrNotMarkdown
	}
	return nil
}
