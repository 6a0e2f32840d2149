// Package parsererror defines the error taxonomy of the statement pipeline.
// Fatal kinds carry a sentinel so callers can branch with errors.Is.
package parsererror

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below.
var (
	ErrDocumentUnreadable = errors.New("document unreadable")
	ErrExtractionTimeout  = errors.New("extraction timeout")
	ErrPersistence        = errors.New("persistence failure")
	ErrUnknownProfile     = errors.New("unknown profile")
)

// Error kinds reported to users next to the failing document.
const (
	KindDocumentUnreadable = "DocumentUnreadable"
	KindExtractionTimeout  = "ExtractionTimeout"
	KindPersistence        = "PersistenceFailure"
	KindUnknownProfile     = "UnknownProfile"
	KindParse              = "ParseError"
	KindValidation         = "ValidationError"
	KindUnknown            = "Error"
)

// DocumentUnreadableError is returned when a statement cannot be opened or has no pages.
type DocumentUnreadableError struct {
	FilePath string
	Reason   string
	Err      error
}

func (e *DocumentUnreadableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("document '%s' unreadable: %s: %v", e.FilePath, e.Reason, e.Err)
	}
	return fmt.Sprintf("document '%s' unreadable: %s", e.FilePath, e.Reason)
}

func (e *DocumentUnreadableError) Unwrap() error { return e.Err }

func (e *DocumentUnreadableError) Is(target error) bool { return target == ErrDocumentUnreadable }

// ExtractionTimeoutError is returned when a single page exceeds the extraction budget.
type ExtractionTimeoutError struct {
	FilePath string
	Page     int
	Seconds  float64
}

func (e *ExtractionTimeoutError) Error() string {
	return fmt.Sprintf("extraction of page %d in '%s' exceeded %.0fs", e.Page, e.FilePath, e.Seconds)
}

func (e *ExtractionTimeoutError) Is(target error) bool { return target == ErrExtractionTimeout }

// PersistenceError reports a rolled back batch insert for one document.
type PersistenceError struct {
	FilePath string
	Rows     int
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storing %d transactions from '%s' failed, batch rolled back: %v", e.Rows, e.FilePath, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// UnknownProfileError is returned for a bank identifier with no configured profile.
type UnknownProfileError struct {
	ID    string
	Known []string
}

func (e *UnknownProfileError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown bank profile '%s'", e.ID)
	}
	return fmt.Sprintf("unknown bank profile '%s' (known: %v)", e.ID, e.Known)
}

func (e *UnknownProfileError) Is(target error) bool { return target == ErrUnknownProfile }

// ParseError represents an error during parsing
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.FilePath == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// KindOf returns the report label for err, looking through wrapping.
func KindOf(err error) string {
	var (
		unreadable *DocumentUnreadableError
		timeout    *ExtractionTimeoutError
		persist    *PersistenceError
		profile    *UnknownProfileError
		parse      *ParseError
		validation *ValidationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &unreadable), errors.Is(err, ErrDocumentUnreadable):
		return KindDocumentUnreadable
	case errors.As(err, &timeout), errors.Is(err, ErrExtractionTimeout):
		return KindExtractionTimeout
	case errors.As(err, &persist), errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.As(err, &profile), errors.Is(err, ErrUnknownProfile):
		return KindUnknownProfile
	case errors.As(err, &parse):
		return KindParse
	case errors.As(err, &validation):
		return KindValidation
	default:
		return KindUnknown
	}
}
