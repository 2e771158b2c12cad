package parser

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stable error codes (§7). Kept as plain strings rather than an enum so they
// survive JSON round-trips the way the rest of the output schema does.
const (
	CodeLanguageNotSupported = "LANGUAGE_NOT_SUPPORTED"
	CodeFileTooLarge         = "FILE_TOO_LARGE"
	CodeParseTimeout         = "PARSE_TIMEOUT"
	CodeParseFailed          = "PARSE_FAILED"
	CodeExtractionFailed     = "EXTRACTION_FAILED"
)

// Sentinel errors for errors.Is-based classification, in the style of
// internal/search/errors.go.
var (
	ErrLanguageNotSupported = errors.New("language not supported")
	ErrFileTooLarge         = errors.New("file exceeds configured size limit")
	ErrParseTimeout         = errors.New("parse exceeded the configured time budget")
	ErrParseFailed          = errors.New("parser returned no tree")
)

// ExtractionError is the detailed error type returned by ParseFile for any
// condition that aborts the whole call (§7 propagation policy).
type ExtractionError struct {
	Code    string
	Path    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the caller may usefully retry the same request,
// per the taxonomy in §7 (only PARSE_TIMEOUT is retryable, and only at the
// caller's discretion).
func (e *ExtractionError) Retryable() bool {
	return e.Code == CodeParseTimeout
}

// NewLanguageNotSupportedError builds the error for an unknown extension.
func NewLanguageNotSupportedError(path, ext string) *ExtractionError {
	return &ExtractionError{
		Code:    CodeLanguageNotSupported,
		Path:    path,
		Message: fmt.Sprintf("unsupported file extension %q", ext),
		Cause:   ErrLanguageNotSupported,
	}
}

// NewFileTooLargeError builds the error for an oversized input, echoing the
// actual size and the configured limit per spec.md §6 scenario 6.
func NewFileTooLargeError(path string, size, limit int64) *ExtractionError {
	return &ExtractionError{
		Code: CodeFileTooLarge,
		Path: path,
		Message: fmt.Sprintf("file size %s exceeds limit %s",
			humanize.Bytes(uint64(size)), humanize.Bytes(uint64(limit))),
		Cause: ErrFileTooLarge,
	}
}

// NewParseTimeoutError builds the error for a deadline that won the race
// against extraction.
func NewParseTimeoutError(path string, timeoutMs int64) *ExtractionError {
	return &ExtractionError{
		Code:    CodeParseTimeout,
		Path:    path,
		Message: fmt.Sprintf("parsing did not complete within %dms", timeoutMs),
		Cause:   ErrParseTimeout,
	}
}

// NewParseFailedError builds the error for a nil tree from the grammar.
func NewParseFailedError(path string) *ExtractionError {
	return &ExtractionError{
		Code:    CodeParseFailed,
		Path:    path,
		Message: "failed to parse file: parser returned null",
		Cause:   ErrParseFailed,
	}
}

// IsRetryable reports whether err (possibly wrapped) indicates a condition
// the caller may retry, typically with a larger time budget.
func IsRetryable(err error) bool {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Retryable()
	}
	return false
}

// IsLanguageNotSupported reports whether err is (or wraps)
// ErrLanguageNotSupported.
func IsLanguageNotSupported(err error) bool {
	return errors.Is(err, ErrLanguageNotSupported)
}

// IsFileTooLarge reports whether err is (or wraps) ErrFileTooLarge.
func IsFileTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

// IsParseTimeout reports whether err is (or wraps) ErrParseTimeout.
func IsParseTimeout(err error) bool {
	return errors.Is(err, ErrParseTimeout)
}
