package dto

import (
	"errors"
	"fmt"
)

var (
	ErrNoTotals          = errors.New("no agent totals found in this PDF")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrRateLimited       = errors.New("too many login attempts")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrInvalidSession    = errors.New("missing or invalid session token")
)

// DocumentReadError reports a document that could not be opened as a PDF
type DocumentReadError struct {
	Document string
	Err      error
}

func (e *DocumentReadError) Error() string {
	if e.Document == "" {
		return fmt.Sprintf("failed to read document: %v", e.Err)
	}
	return fmt.Sprintf("failed to read document %s: %v", e.Document, e.Err)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Err
}

// NameFixInputError reports a name-fix table that is not a JSON object of strings.
// Callers treat it as a warning and continue with an empty table.
type NameFixInputError struct {
	Err error
}

func (e *NameFixInputError) Error() string {
	return fmt.Sprintf("invalid name fixes JSON: %v", e.Err)
}

func (e *NameFixInputError) Unwrap() error {
	return e.Err
}
