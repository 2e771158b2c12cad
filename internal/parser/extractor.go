package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractCtx bundles everything a per-language extractor needs to walk a
// tree and emit its four streams. It is read-only; extractors never mutate
// the tree (§9).
type extractCtx struct {
	root    *sitter.Node
	content []byte
	path    string
	opts    Options
}

// Extractor is the four-method contract every language family implements
// (§4.3, §9: "trait/interface with the four methods"). Each method performs
// its own independent pre-order walk and returns its stream in source
// order.
type Extractor interface {
	Entities(ctx *extractCtx) []CodeEntity
	Imports(ctx *extractCtx) []ImportInfo
	Exports(ctx *extractCtx) []ExportInfo
	Calls(ctx *extractCtx) []CallInfo
}

// extractorFor returns the nine-family dispatch table entry for lang.
func extractorFor(lang Language) Extractor {
	switch lang {
	case LangTypeScript, LangTSX:
		return typescriptExtractor{}
	case LangJavaScript, LangJSX:
		return javascriptExtractor{}
	case LangPython:
		return pythonExtractor{}
	case LangJava:
		return javaExtractor{}
	case LangGo:
		return goExtractor{}
	case LangRust:
		return rustExtractor{}
	case LangC:
		return cExtractor{}
	case LangCPP:
		return cppExtractor{}
	case LangRuby:
		return rubyExtractor{}
	default:
		return nil
	}
}
