// Package cli implements the command-line interface.
package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Project errors
	ErrProjectNotFound     = "PROJECT_NOT_FOUND"
	ErrProjectNotSpecified = "PROJECT_NOT_SPECIFIED"
	ErrConfigInvalid       = "CONFIG_INVALID"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileExists     = "FILE_EXISTS"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Move errors
	ErrValidationFailed = "VALIDATION_FAILED"
	ErrMoveFailed       = "MOVE_FAILED"

	// Database errors
	ErrDatabaseError = "DATABASE_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for structured warnings.
const (
	WarnParseIssue        = "PARSE_ISSUE"
	WarnBrokenLink        = "BROKEN_LINK"
	WarnIndexUpdateFailed = "INDEX_UPDATE_FAILED"
)
