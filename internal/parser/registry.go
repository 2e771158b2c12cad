package parser

import (
	"fmt"
	"log"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// extensionTable is the exhaustive extension -> language map from §4.1.
// Extension comparison is case-insensitive; lookups lowercase first.
var extensionTable = map[string]Language{
	".ts":  LangTypeScript,
	".tsx": LangTSX,
	".js":  LangJavaScript,
	".mjs": LangJavaScript,
	".cjs": LangJavaScript,
	".jsx": LangJSX,
	".py":  LangPython,
	".java": LangJava,
	".go":  LangGo,
	".rs":  LangRust,
	".c":   LangC,
	".h":   LangC,
	".cpp": LangCPP,
	".cc":  LangCPP,
	".cxx": LangCPP,
	".hpp": LangCPP,
	".hxx": LangCPP,
	".rb":  LangRuby,
}

// grammarEntry lazily constructs the *sitter.Language for one family. Each
// loader is invoked at most once per process, guarded by sync.Once.
type grammarEntry struct {
	once     sync.Once
	language *sitter.Language
	load     func() *sitter.Language
}

// LanguageRegistry maps extensions to languages, owns the loaded grammar
// objects for the process lifetime, and lends thread-safe parser handles
// (§4.1, §3.4, §5).
type LanguageRegistry struct {
	mu       sync.RWMutex
	grammars map[Language]*grammarEntry
	pools    map[Language]*sync.Pool
}

// NewLanguageRegistry builds the registry with all nine grammar families
// registered (lazily loaded on first use, not eagerly here).
func NewLanguageRegistry() *LanguageRegistry {
	r := &LanguageRegistry{
		grammars: make(map[Language]*grammarEntry),
		pools:    make(map[Language]*sync.Pool),
	}

	register := func(lang Language, load func() *sitter.Language) {
		r.grammars[lang] = &grammarEntry{load: load}
	}

	register(LangTypeScript, func() *sitter.Language { return sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()) })
	register(LangTSX, func() *sitter.Language { return sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()) })
	register(LangJavaScript, func() *sitter.Language { return sitter.NewLanguage(tree_sitter_javascript.Language()) })
	register(LangJSX, func() *sitter.Language { return sitter.NewLanguage(tree_sitter_javascript.Language()) })
	register(LangPython, func() *sitter.Language { return sitter.NewLanguage(tree_sitter_python.Language()) })
	register(LangJava, func() *sitter.Language { return sitter.NewLanguage(tree_sitter_java.Language()) })
	register(LangGo, func() *sitter.Language { return sitter.NewLanguage(tree_sitter_go.Language()) })
	register(LangRust, func() *sitter.Language { return sitter.NewLanguage(tree_sitter_rust.Language()) })
	register(LangC, func() *sitter.Language { return sitter.NewLanguage(tree_sitter_c.Language()) })
	register(LangCPP, func() *sitter.Language { return sitter.NewLanguage(tree_sitter_cpp.Language()) })
	register(LangRuby, func() *sitter.Language { return sitter.NewLanguage(tree_sitter_ruby.Language()) })

	for lang := range r.grammars {
		lang := lang
		r.pools[lang] = &sync.Pool{
			New: func() any {
				p := sitter.NewParser()
				if g, err := r.grammar(lang); err == nil {
					if err := p.SetLanguage(g); err != nil {
						log.Printf("Warning: failed to set language for %s: %v", lang, err)
					}
				}
				return p
			},
		}
	}

	return r
}

// IsSupported reports whether ext (with or without a leading dot) maps to a
// known language.
func (r *LanguageRegistry) IsSupported(ext string) bool {
	_, ok := extensionTable[normalizeExt(ext)]
	return ok
}

// LanguageOf returns the language for ext, or ("", false) if unsupported.
func (r *LanguageRegistry) LanguageOf(ext string) (Language, bool) {
	lang, ok := extensionTable[normalizeExt(ext)]
	return lang, ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// grammar returns the loaded *sitter.Language for lang, loading it on first
// use behind a once-only guard (§3.4, §5: lazy, compare-and-swap-style
// initialization, immutable thereafter).
func (r *LanguageRegistry) grammar(lang Language) (*sitter.Language, error) {
	r.mu.RLock()
	entry, ok := r.grammars[lang]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no grammar registered for language %q", lang)
	}

	entry.once.Do(func() {
		entry.language = entry.load()
	})

	if entry.language == nil {
		return nil, fmt.Errorf("failed to load grammar for language %q", lang)
	}
	return entry.language, nil
}

// ParserHandle is a borrowed, single-call-scoped *sitter.Parser. It embeds
// the grammar already selected. Release must be called on every exit path
// (normal return, error, or timeout) to return the handle to its pool; it is
// never shared between concurrent AcquireParser calls (§4.1, §5).
type ParserHandle struct {
	registry *LanguageRegistry
	lang     Language
	Parser   *sitter.Parser
	released bool
}

// Release returns the handle to the registry's pool. Safe to call multiple
// times; only the first call has an effect.
func (h *ParserHandle) Release() {
	if h == nil || h.released {
		return
	}
	h.released = true
	h.registry.pools[h.lang].Put(h.Parser)
}

// AcquireParser lends a parser handle for the given language, scoped to one
// extraction call. The returned handle's grammar is already set.
func (r *LanguageRegistry) AcquireParser(lang Language) (*ParserHandle, error) {
	pool, ok := r.pools[lang]
	if !ok {
		return nil, fmt.Errorf("no parser pool for language %q", lang)
	}

	// Force the grammar to be loaded (and any load error surfaced) before
	// handing back a handle built from a possibly-ungrammared pooled parser.
	if _, err := r.grammar(lang); err != nil {
		return nil, err
	}

	p := pool.Get().(*sitter.Parser)
	return &ParserHandle{registry: r, lang: lang, Parser: p}, nil
}

// SupportedExtensions returns every extension the registry recognizes.
func (r *LanguageRegistry) SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionTable))
	for ext := range extensionTable {
		exts = append(exts, ext)
	}
	return exts
}
