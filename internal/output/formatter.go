// Package output renders a *parser.ParseResult for a human (text) or a
// downstream tool (JSON), the way internal/output historically rendered
// ripgrep-style search matches: one small Formatter interface, one factory
// selecting an implementation by OutputFormat, everything written straight
// to an io.Writer so callers can point it at a file, a pipe, or a buffer in
// a test.
package output

import (
	"io"

	"github.com/73ai/code-context/internal/parser"
)

// OutputFormat selects which Formatter a Factory builds.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatText OutputFormat = "text"
)

// FormatterConfig controls rendering details shared by both formats.
type FormatterConfig struct {
	Format OutputFormat

	// ShowColors enables ANSI highlighting in the text formatter. Ignored
	// by the JSON formatter.
	ShowColors bool

	// Pretty indents JSON output with two-space tabs. Ignored by the text
	// formatter.
	Pretty bool
}

// Formatter renders a single file's ParseResult.
type Formatter interface {
	// Format writes result to the formatter's writer.
	Format(result *parser.ParseResult) error

	// Flush flushes any buffered output.
	Flush() error
}

// NewFormatter builds a Formatter for config.Format, defaulting to text for
// an unrecognized or zero-value format.
func NewFormatter(w io.Writer, config FormatterConfig) Formatter {
	switch config.Format {
	case FormatJSON:
		return NewJSONFormatter(w, config)
	default:
		return NewTextFormatter(w, config)
	}
}

// WriteJSON is a convenience wrapper for the common case of rendering one
// result with default JSON settings.
func WriteJSON(w io.Writer, result *parser.ParseResult, pretty bool) error {
	f := NewJSONFormatter(w, FormatterConfig{Format: FormatJSON, Pretty: pretty})
	if err := f.Format(result); err != nil {
		return err
	}
	return f.Flush()
}

// WriteText is a convenience wrapper for the common case of rendering one
// result with default text settings.
func WriteText(w io.Writer, result *parser.ParseResult, color bool) error {
	f := NewTextFormatter(w, FormatterConfig{Format: FormatText, ShowColors: color})
	if err := f.Format(result); err != nil {
		return err
	}
	return f.Flush()
}
