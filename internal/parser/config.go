package parser

import "time"

// Options configures the extraction orchestrator. Options are passed at
// construction time only; there is no global mutable configuration beyond
// the grammar cache (§6 configuration envelope).
type Options struct {
	// MaxFileSizeBytes rejects inputs larger than this with FileTooLarge.
	MaxFileSizeBytes int64

	// ParseTimeout bounds wall-clock time spent in a single ParseFile call.
	ParseTimeout time.Duration

	// IncludeAnonymous controls whether nameless entities are emitted with
	// name AnonymousName instead of being skipped (§4.4).
	IncludeAnonymous bool

	// ExtractDocumentation controls whether EntityMetadata.Documentation is
	// populated (§4.4).
	ExtractDocumentation bool
}

// DefaultOptions returns the documented defaults (§6): a multi-megabyte size
// cap, a 30s budget, anonymous entities skipped, documentation extracted.
func DefaultOptions() Options {
	return Options{
		MaxFileSizeBytes:     10 << 20, // 10MB
		ParseTimeout:         30 * time.Second,
		IncludeAnonymous:     false,
		ExtractDocumentation: true,
	}
}
