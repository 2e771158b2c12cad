package output

import (
	"encoding/json"
	"io"

	"github.com/73ai/code-context/internal/parser"
)

// JSONFormatter renders a ParseResult as a single JSON object, one per
// Format call, the way the teacher's JSONFormatter emitted one message per
// Encode call.
type JSONFormatter struct {
	writer  io.Writer
	config  FormatterConfig
	encoder *json.Encoder
}

// NewJSONFormatter builds a JSONFormatter writing to w.
func NewJSONFormatter(w io.Writer, config FormatterConfig) *JSONFormatter {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if config.Pretty {
		encoder.SetIndent("", "  ")
	}
	return &JSONFormatter{writer: w, config: config, encoder: encoder}
}

// Format writes result as a single JSON document followed by a newline.
func (f *JSONFormatter) Format(result *parser.ParseResult) error {
	return f.encoder.Encode(result)
}

// Flush is a no-op; encoding/json.Encoder writes synchronously.
func (f *JSONFormatter) Flush() error {
	return nil
}
